package dtos

import (
	"time"

	"github.com/jobhub/jobhub/internal/models"
)

type ApplicationCreateRequest struct {
	JobID string  `json:"job_id" binding:"required"`
	Notes *string `json:"notes"`
}

type ApplicationStatusUpdateRequest struct {
	Status       string     `json:"status" binding:"required"`
	Notes        *string    `json:"notes"`
	NextStepDate *time.Time `json:"next_step_date"`
}

// JobSummary is the slice of job fields applications carry around.
type JobSummary struct {
	JobID    string `json:"job_id"`
	Title    string `json:"title"`
	Company  string `json:"company"`
	Location string `json:"location"`
}

type ApplicationWithJob struct {
	models.Application
	JobTitle *string     `json:"job_title"`
	Company  *string     `json:"company"`
	Job      *JobSummary `json:"job"`
}
