package dtos

import "github.com/jobhub/jobhub/internal/models"

// JobSearchParams binds the /jobs/search query string. Absent fields impose
// no constraint.
type JobSearchParams struct {
	Query           string `form:"query"`
	Skills          string `form:"skills"` // comma-separated
	ExperienceLevel string `form:"experience_level"`
	Location        string `form:"location"`
	FundingStage    string `form:"funding_stage"`
	IsStartup       *bool  `form:"is_startup"`
	Remote          *bool  `form:"remote"`
	Page            int    `form:"page,default=1"`
	Limit           int    `form:"limit,default=20"`
}

// JobWithScore decorates a job with the backend-computed match relevance.
type JobWithScore struct {
	models.Job
	MatchScore     float64  `json:"match_score"`
	MatchedSkills  []string `json:"matched_skills"`
	MissingSkills  []string `json:"missing_skills"`
	WhyRecommended string   `json:"why_recommended"`
}

type StartupListItem struct {
	StartupID    string  `json:"startup_id"`
	Company      string  `json:"company"`
	JobCount     int64   `json:"job_count"`
	FundingStage *string `json:"funding_stage"`
}

type SyncResult struct {
	Fetched  int `json:"fetched"`
	Upserted int `json:"upserted"`
}
