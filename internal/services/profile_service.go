package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/jobhub/jobhub/internal/dtos"
	"github.com/jobhub/jobhub/internal/models"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileService struct {
	DB *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{DB: db}
}

// CreateEmpty seeds a blank profile at signup time.
func (s *ProfileService) CreateEmpty(user *models.User) error {
	profile := models.Profile{
		UserID:         user.UserID,
		Email:          user.Email,
		Name:           user.Name,
		Picture:        user.Picture,
		Skills:         models.StringSlice{},
		PreferredRoles: models.StringSlice{},
	}
	if err := s.DB.Create(&profile).Error; err != nil {
		return fmt.Errorf("create profile: %w", err)
	}
	return nil
}

func (s *ProfileService) Get(userID string) (*models.Profile, error) {
	var profile models.Profile
	err := s.DB.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrProfileNotFound
	} else if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &profile, nil
}

// Update applies the non-nil fields of the request. A name change propagates
// to the user record as well.
func (s *ProfileService) Update(userID string, req dtos.ProfileUpdateRequest) (*models.Profile, error) {
	profile, err := s.Get(userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		profile.Name = *req.Name
	}
	if req.Phone != nil {
		profile.Phone = req.Phone
	}
	if req.Skills != nil {
		profile.Skills = dedupeSkills(*req.Skills)
	}
	if req.ExperienceLevel != nil {
		profile.ExperienceLevel = req.ExperienceLevel
	}
	if req.PreferredLocation != nil {
		profile.PreferredLocation = req.PreferredLocation
	}
	if req.PreferredRoles != nil {
		profile.PreferredRoles = models.StringSlice(*req.PreferredRoles)
	}

	if err := s.DB.Save(profile).Error; err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	if req.Name != nil {
		err := s.DB.Model(&models.User{}).
			Where("user_id = ?", userID).
			Update("name", *req.Name).Error
		if err != nil {
			return nil, fmt.Errorf("propagate name: %w", err)
		}
	}
	return profile, nil
}

// CompleteOnboarding flips the flag on both the profile and the user.
func (s *ProfileService) CompleteOnboarding(userID string) error {
	now := time.Now().UTC()
	err := s.DB.Model(&models.Profile{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{"onboarding_completed": true, "updated_at": now}).Error
	if err != nil {
		return fmt.Errorf("complete onboarding: %w", err)
	}
	err = s.DB.Model(&models.User{}).
		Where("user_id = ?", userID).
		Updates(map[string]any{"onboarding_completed": true, "updated_at": now}).Error
	if err != nil {
		return fmt.Errorf("complete onboarding: %w", err)
	}
	return nil
}

// MergeParsed folds resume-derived fields into the profile without clobbering
// values the user already set.
func (s *ProfileService) MergeParsed(userID, resumeID string, parsed *models.ParsedResume) error {
	profile, err := s.Get(userID)
	if err != nil {
		return err
	}

	profile.ResumeID = &resumeID
	if parsed != nil {
		if len(parsed.Skills) > 0 {
			profile.Skills = dedupeSkills(parsed.Skills)
		}
		if parsed.Name != nil && *parsed.Name != "" {
			profile.Name = *parsed.Name
		}
		if parsed.Phone != nil && profile.Phone == nil {
			profile.Phone = parsed.Phone
		}
		if parsed.Location != nil && profile.PreferredLocation == nil {
			profile.PreferredLocation = parsed.Location
		}
	}
	if err := s.DB.Save(profile).Error; err != nil {
		return fmt.Errorf("merge parsed resume: %w", err)
	}
	return nil
}

func dedupeSkills(skills []string) models.StringSlice {
	seen := make(map[string]bool, len(skills))
	out := make(models.StringSlice, 0, len(skills))
	for _, sk := range skills {
		key := normalizeSkillKey(sk)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, sk)
	}
	return out
}

func normalizeSkillKey(s string) string {
	return trimLower(s)
}
