package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// jsonb-backed column types. Postgres hands them back as []byte; gorm hands
// them in as driver.Valuer.

func scanJSON(dest any, value any) error {
	if value == nil {
		return nil
	}
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, dest)
	case string:
		return json.Unmarshal([]byte(v), dest)
	default:
		return fmt.Errorf("unsupported jsonb source type %T", value)
	}
}

type StringSlice []string

func (s StringSlice) Value() (driver.Value, error) {
	if s == nil {
		s = StringSlice{}
	}
	return json.Marshal(s)
}

func (s *StringSlice) Scan(value any) error { return scanJSON(s, value) }

type StatusHistory []StatusHistoryItem

func (h StatusHistory) Value() (driver.Value, error) {
	if h == nil {
		h = StatusHistory{}
	}
	return json.Marshal(h)
}

func (h *StatusHistory) Scan(value any) error { return scanJSON(h, value) }

type MessageList []Message

func (m MessageList) Value() (driver.Value, error) {
	if m == nil {
		m = MessageList{}
	}
	return json.Marshal(m)
}

func (m *MessageList) Scan(value any) error { return scanJSON(m, value) }

// ParsedResume is the payload the resume parser produces. Stored verbatim as
// jsonb and returned to the client on the resume status endpoint.
type ParsedResume struct {
	Name      *string `json:"name"`
	Email     *string `json:"email"`
	Phone     *string `json:"phone"`
	Location  *string `json:"location"`
	LinkedIn  *string `json:"linkedin"`
	GitHub    *string `json:"github"`
	Portfolio *string `json:"portfolio"`

	Summary *string `json:"summary"`

	Skills         []string            `json:"skills"`
	Education      []EducationItem     `json:"education"`
	Experience     []ExperienceItem    `json:"experience"`
	Projects       []ProjectItem       `json:"projects"`
	Certifications []CertificationItem `json:"certifications"`
	Languages      []string            `json:"languages"`
}

type EducationItem struct {
	Institution string   `json:"institution"`
	Degree      *string  `json:"degree"`
	Field       *string  `json:"field"`
	StartDate   *string  `json:"start_date"`
	EndDate     *string  `json:"end_date"`
	GPA         *string  `json:"gpa"`
	Achievements []string `json:"achievements"`
}

type ExperienceItem struct {
	Company      string   `json:"company"`
	Title        *string  `json:"title"`
	Location     *string  `json:"location"`
	StartDate    *string  `json:"start_date"`
	EndDate      *string  `json:"end_date"`
	IsCurrent    bool     `json:"is_current"`
	Description  *string  `json:"description"`
	Achievements []string `json:"achievements"`
}

type ProjectItem struct {
	Name         string   `json:"name"`
	Description  *string  `json:"description"`
	Technologies []string `json:"technologies"`
	URL          *string  `json:"url"`
}

type CertificationItem struct {
	Name   string  `json:"name"`
	Issuer *string `json:"issuer"`
	Date   *string `json:"date"`
}

func (p ParsedResume) Value() (driver.Value, error) { return json.Marshal(p) }

func (p *ParsedResume) Scan(value any) error { return scanJSON(p, value) }
