package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/jobhub/jobhub/internal/dtos"
	"github.com/jobhub/jobhub/internal/models"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrAlreadyApplied      = errors.New("already applied to this job")
	ErrInvalidStatus       = errors.New("invalid application status")
)

var validStatuses = map[string]bool{
	models.StatusApplied:   true,
	models.StatusInterview: true,
	models.StatusOffer:     true,
	models.StatusRejected:  true,
	models.StatusWithdrawn: true,
}

type ApplicationService struct {
	DB            *gorm.DB
	Notifications *NotificationService
}

func NewApplicationService(db *gorm.DB, notifications *NotificationService) *ApplicationService {
	return &ApplicationService{DB: db, Notifications: notifications}
}

// Create records a new application. The job must exist and the user must not
// have applied to it before; the job deadline is copied onto the application.
func (s *ApplicationService) Create(userID string, req dtos.ApplicationCreateRequest) (*dtos.ApplicationWithJob, error) {
	var job models.Job
	err := s.DB.Where("job_id = ?", req.JobID).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrJobNotFound
	} else if err != nil {
		return nil, fmt.Errorf("lookup job: %w", err)
	}

	var count int64
	s.DB.Model(&models.Application{}).
		Where("user_id = ? AND job_id = ?", userID, req.JobID).
		Count(&count)
	if count > 0 {
		return nil, ErrAlreadyApplied
	}

	now := time.Now().UTC()
	app := models.Application{
		ApplicationID:     models.NewID("app"),
		UserID:            userID,
		JobID:             req.JobID,
		Status:            models.StatusApplied,
		ResumeSubmittedAt: now,
		AppliedAt:         now,
		Deadline:          job.ApplicationDeadline,
		Notes:             req.Notes,
		StatusHistory: models.StatusHistory{{
			Status:    models.StatusApplied,
			ChangedAt: now,
			Notes:     req.Notes,
		}},
	}
	if err := s.DB.Create(&app).Error; err != nil {
		return nil, fmt.Errorf("create application: %w", err)
	}
	return s.withJob(app, &job), nil
}

// List returns the user's applications, newest first, optionally filtered by
// status, each enriched with its job summary.
func (s *ApplicationService) List(userID, status string) ([]dtos.ApplicationWithJob, error) {
	q := s.DB.Where("user_id = ?", userID)
	if status != "" {
		q = q.Where("status = ?", status)
	}

	var apps []models.Application
	if err := q.Order("applied_at DESC").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("list applications: %w", err)
	}

	out := make([]dtos.ApplicationWithJob, 0, len(apps))
	for _, app := range apps {
		var job models.Job
		var jobPtr *models.Job
		if s.DB.Where("job_id = ?", app.JobID).First(&job).Error == nil {
			jobPtr = &job
		}
		out = append(out, *s.withJob(app, jobPtr))
	}
	return out, nil
}

func (s *ApplicationService) Get(userID, applicationID string) (*dtos.ApplicationWithJob, error) {
	var app models.Application
	err := s.DB.Where("application_id = ? AND user_id = ?", applicationID, userID).First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrApplicationNotFound
	} else if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}

	var job models.Job
	var jobPtr *models.Job
	if s.DB.Where("job_id = ?", app.JobID).First(&job).Error == nil {
		jobPtr = &job
	}
	return s.withJob(app, jobPtr), nil
}

// UpdateStatus moves the application through the funnel and appends to its
// status history.
func (s *ApplicationService) UpdateStatus(userID, applicationID string, req dtos.ApplicationStatusUpdateRequest) (*dtos.ApplicationWithJob, error) {
	if !validStatuses[req.Status] {
		return nil, ErrInvalidStatus
	}

	var app models.Application
	err := s.DB.Where("application_id = ? AND user_id = ?", applicationID, userID).First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrApplicationNotFound
	} else if err != nil {
		return nil, fmt.Errorf("get application: %w", err)
	}

	now := time.Now().UTC()
	app.Status = req.Status
	if req.Notes != nil {
		app.Notes = req.Notes
	}
	if req.NextStepDate != nil {
		app.NextStepDate = req.NextStepDate
	}
	app.StatusHistory = append(app.StatusHistory, models.StatusHistoryItem{
		Status:    req.Status,
		ChangedAt: now,
		Notes:     req.Notes,
	})

	if err := s.DB.Save(&app).Error; err != nil {
		return nil, fmt.Errorf("update application: %w", err)
	}

	if s.Notifications != nil {
		title := fmt.Sprintf("Application moved to %s", req.Status)
		_ = s.Notifications.Create(userID, "application_status", title,
			fmt.Sprintf("Your application %s is now %s", applicationID, req.Status))
	}

	var job models.Job
	var jobPtr *models.Job
	if s.DB.Where("job_id = ?", app.JobID).First(&job).Error == nil {
		jobPtr = &job
	}
	return s.withJob(app, jobPtr), nil
}

func (s *ApplicationService) Delete(userID, applicationID string) error {
	res := s.DB.Where("application_id = ? AND user_id = ?", applicationID, userID).
		Delete(&models.Application{})
	if res.Error != nil {
		return fmt.Errorf("delete application: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (s *ApplicationService) withJob(app models.Application, job *models.Job) *dtos.ApplicationWithJob {
	out := dtos.ApplicationWithJob{Application: app}
	if job != nil {
		out.JobTitle = &job.Title
		out.Company = &job.Company
		out.Job = &dtos.JobSummary{
			JobID:    job.JobID,
			Title:    job.Title,
			Company:  job.Company,
			Location: job.Location,
		}
	}
	return &out
}
