package dtos

// ProfileUpdateRequest carries a partial profile edit; nil fields are left
// untouched.
type ProfileUpdateRequest struct {
	Name              *string   `json:"name"`
	Phone             *string   `json:"phone"`
	Skills            *[]string `json:"skills"`
	ExperienceLevel   *string   `json:"experience_level"`
	PreferredLocation *string   `json:"preferred_location"`
	PreferredRoles    *[]string `json:"preferred_roles"`
}
