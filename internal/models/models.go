package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleFounder  = "founder"
	RoleEngineer = "engineer"
)

// Application statuses
const (
	StatusApplied   = "Applied"
	StatusInterview = "Interview"
	StatusOffer     = "Offer"
	StatusRejected  = "Rejected"
	StatusWithdrawn = "Withdrawn"
)

// Connection statuses
const (
	ConnectionPending  = "pending"
	ConnectionAccepted = "accepted"
	ConnectionDeclined = "declined"
)

// Resume parse statuses
const (
	ResumeUploaded = "uploaded"
	ResumeParsing  = "parsing"
	ResumeDone     = "done"
	ResumeFailed   = "failed"
)

// Experience levels used by matching
const (
	ExperienceEntry  = "entry"
	ExperienceMid    = "mid"
	ExperienceSenior = "senior"
)

type User struct {
	UserID    string         `gorm:"primaryKey" json:"user_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Email        string  `gorm:"uniqueIndex;not null" json:"email"`
	Name         string  `gorm:"not null" json:"name"`
	Picture      *string `json:"picture"`
	PasswordHash *string `json:"-"` // nil for OAuth-only accounts
	Role         string  `gorm:"default:'engineer'" json:"role"`

	OnboardingCompleted bool `gorm:"default:false" json:"onboarding_completed"`
}

// Session backs the cookie-based auth path (OAuth logins).
type Session struct {
	SessionToken string    `gorm:"primaryKey" json:"session_token"`
	UserID       string    `gorm:"index;not null" json:"user_id"`
	ExpiresAt    time.Time `json:"expires_at"`
	CreatedAt    time.Time `json:"created_at"`
}

type Profile struct {
	UserID    string    `gorm:"primaryKey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Email   string  `json:"email"`
	Name    string  `json:"name"`
	Picture *string `json:"picture"`
	Phone   *string `json:"phone"`

	Skills            StringSlice `gorm:"type:jsonb" json:"skills"`
	ExperienceLevel   *string     `json:"experience_level"`
	PreferredLocation *string     `json:"preferred_location"`
	PreferredRoles    StringSlice `gorm:"type:jsonb" json:"preferred_roles"`

	ResumeID            *string `json:"resume_id"`
	OnboardingCompleted bool    `gorm:"default:false" json:"onboarding_completed"`
}

type Job struct {
	JobID     string         `gorm:"primaryKey" json:"job_id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Title       string `gorm:"not null" json:"title"`
	Company     string `gorm:"index;not null" json:"company"`
	Description string `gorm:"type:text" json:"description"`
	Location    string `json:"location"`

	DatePosted          time.Time  `gorm:"index" json:"date_posted"`
	ApplicationDeadline *time.Time `json:"application_deadline"`

	SkillsRequired  StringSlice `gorm:"type:jsonb" json:"skills_required"`
	ExperienceLevel string      `json:"experience_level"`

	IsStartup    bool    `gorm:"default:false;index" json:"is_startup"`
	FundingStage *string `json:"funding_stage"` // Seed, Series A..D+, Unicorn
	SalaryRange  *string `json:"salary_range"`
	JobType      string  `gorm:"default:'full-time'" json:"job_type"`
	Remote       bool    `gorm:"default:false" json:"remote"`
	CompanyLogo  *string `json:"company_logo"`
	ApplyURL     *string `json:"apply_url"`

	// Set when the job came from an external feed; used for upsert dedup.
	ExternalID *string `gorm:"uniqueIndex" json:"-"`
	Source     string  `json:"-"`
}

type StatusHistoryItem struct {
	Status    string    `json:"status"`
	ChangedAt time.Time `json:"changed_at"`
	Notes     *string   `json:"notes,omitempty"`
}

type Application struct {
	ApplicationID string         `gorm:"primaryKey" json:"application_id"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`

	UserID string `gorm:"index:idx_app_user_job,unique;not null" json:"user_id"`
	JobID  string `gorm:"index:idx_app_user_job,unique;not null" json:"job_id"`

	Status            string     `gorm:"default:'Applied'" json:"status"`
	ResumeSubmittedAt time.Time  `json:"resume_submitted_at"`
	AppliedAt         time.Time  `gorm:"index" json:"applied_at"`
	Deadline          *time.Time `json:"deadline"`
	Notes             *string    `json:"notes"`
	NextStepDate      *time.Time `json:"next_step_date"`

	StatusHistory StatusHistory `gorm:"type:jsonb" json:"status_history"`
}

type Resume struct {
	ResumeID  string    `gorm:"primaryKey" json:"resume_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	UserID   string `gorm:"index;not null" json:"user_id"`
	Filename string `json:"filename"`
	Filepath string `json:"-"`

	Status       string        `gorm:"default:'uploaded'" json:"status"`
	ParsedData   *ParsedResume `gorm:"type:jsonb" json:"parsed_data"`
	ErrorMessage *string       `json:"error_message"`
}

type Message struct {
	MessageID   string    `json:"message_id"`
	SenderID    string    `json:"sender_id"`
	SenderName  string    `json:"sender_name"`
	Content     string    `json:"content"`
	MessageType string    `json:"message_type"`
	SentAt      time.Time `json:"sent_at"`
	Read        bool      `json:"read"`
}

// Connection is a founder-to-engineer contact request with its message thread.
type Connection struct {
	ConnectionID string         `gorm:"primaryKey" json:"connection_id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	FounderID  string  `gorm:"index;not null" json:"founder_id"`
	EngineerID string  `gorm:"index;not null" json:"engineer_id"`
	RoleID     *string `json:"role_id"`

	Status   string      `gorm:"default:'pending'" json:"status"`
	Messages MessageList `gorm:"type:jsonb" json:"messages"`
}

type Notification struct {
	NotificationID string    `gorm:"primaryKey" json:"notification_id"`
	CreatedAt      time.Time `json:"created_at"`

	UserID  string `gorm:"index;not null" json:"user_id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
	Read    bool   `gorm:"default:false" json:"read"`
}

// All returns every model registered for migration.
func All() []any {
	return []any{
		&User{}, &Session{}, &Profile{}, &Job{}, &Application{},
		&Resume{}, &Connection{}, &Notification{},
	}
}
