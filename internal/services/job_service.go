package services

import (
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jobhub/jobhub/internal/dtos"
	"github.com/jobhub/jobhub/internal/models"
)

var ErrJobNotFound = errors.New("job not found")

type JobService struct {
	DB      *gorm.DB
	Matcher *MatcherService
}

func NewJobService(db *gorm.DB, matcher *MatcherService) *JobService {
	return &JobService{DB: db, Matcher: matcher}
}

// Search applies only the filters present in params; empty fields add no
// clause.
func (s *JobService) Search(params dtos.JobSearchParams) ([]models.Job, error) {
	q := s.DB.Model(&models.Job{})

	if params.Query != "" {
		like := "%" + params.Query + "%"
		q = q.Where("title ILIKE ? OR company ILIKE ? OR description ILIKE ?", like, like, like)
	}
	if params.Skills != "" {
		for _, skill := range strings.Split(params.Skills, ",") {
			skill = strings.TrimSpace(skill)
			if skill == "" {
				continue
			}
			// jsonb containment is case-sensitive; fall back to a text scan
			q = q.Where("skills_required::text ILIKE ?", "%"+skill+"%")
		}
	}
	if params.ExperienceLevel != "" {
		q = q.Where("experience_level = ?", strings.ToLower(params.ExperienceLevel))
	}
	if params.Location != "" && params.Location != "all" {
		q = q.Where("location ILIKE ?", "%"+params.Location+"%")
	}
	if params.FundingStage != "" {
		q = q.Where("funding_stage = ?", params.FundingStage)
	}
	if params.IsStartup != nil {
		q = q.Where("is_startup = ?", *params.IsStartup)
	}
	if params.Remote != nil {
		q = q.Where("remote = ?", *params.Remote)
	}

	page, limit := normalizePage(params.Page, params.Limit)
	var jobs []models.Job
	err := q.Order("date_posted DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("search jobs: %w", err)
	}
	return jobs, nil
}

// Recommended ranks jobs against the user's profile. Without a profile the
// newest jobs come back unscored.
func (s *JobService) Recommended(userID, sortBy string, page, limit int) ([]dtos.JobWithScore, error) {
	page, limit = normalizePage(page, limit)

	var profile models.Profile
	err := s.DB.Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		var jobs []models.Job
		if err := s.DB.Order("date_posted DESC").Limit(limit).Find(&jobs).Error; err != nil {
			return nil, fmt.Errorf("recommended jobs: %w", err)
		}
		out := make([]dtos.JobWithScore, 0, len(jobs))
		for _, job := range jobs {
			out = append(out, dtos.JobWithScore{Job: job})
		}
		return out, nil
	} else if err != nil {
		return nil, fmt.Errorf("load profile: %w", err)
	}

	var jobs []models.Job
	if err := s.DB.Limit(500).Find(&jobs).Error; err != nil {
		return nil, fmt.Errorf("recommended jobs: %w", err)
	}

	level := ""
	if profile.ExperienceLevel != nil {
		level = *profile.ExperienceLevel
	}
	ranked := s.Matcher.Rank(jobs, profile.Skills, level, profile.PreferredRoles, sortBy)

	start := (page - 1) * limit
	if start >= len(ranked) {
		return []dtos.JobWithScore{}, nil
	}
	end := start + limit
	if end > len(ranked) {
		end = len(ranked)
	}
	return ranked[start:end], nil
}

func (s *JobService) GetByID(jobID string) (*models.Job, error) {
	var job models.Job
	err := s.DB.Where("job_id = ?", jobID).First(&job).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrJobNotFound
	} else if err != nil {
		return nil, fmt.Errorf("get job: %w", err)
	}
	return &job, nil
}

// Startups lists startup companies with their open-job counts.
func (s *JobService) Startups() ([]dtos.StartupListItem, error) {
	type row struct {
		Company      string
		JobCount     int64
		FundingStage *string
	}
	var rows []row
	err := s.DB.Model(&models.Job{}).
		Select("company, COUNT(*) AS job_count, MIN(funding_stage) AS funding_stage").
		Where("is_startup = ?", true).
		Group("company").
		Order("job_count DESC").
		Limit(100).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list startups: %w", err)
	}

	out := make([]dtos.StartupListItem, 0, len(rows))
	for _, r := range rows {
		out = append(out, dtos.StartupListItem{
			StartupID:    strings.ToLower(strings.ReplaceAll(r.Company, " ", "_")),
			Company:      r.Company,
			JobCount:     r.JobCount,
			FundingStage: r.FundingStage,
		})
	}
	return out, nil
}

func (s *JobService) StartupJobs(company string) ([]models.Job, error) {
	var jobs []models.Job
	err := s.DB.Where("company ILIKE ? AND is_startup = ?", company, true).
		Order("date_posted DESC").
		Limit(100).
		Find(&jobs).Error
	if err != nil {
		return nil, fmt.Errorf("startup jobs: %w", err)
	}
	return jobs, nil
}

// Upsert inserts or refreshes a synced job, keyed by its external id.
func (s *JobService) Upsert(job *models.Job) error {
	if job.JobID == "" {
		job.JobID = models.NewID("job")
	}
	if job.ExternalID == nil {
		return s.DB.Create(job).Error
	}
	return s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "external_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"title", "company", "description", "location", "date_posted",
			"skills_required", "experience_level", "salary_range", "remote",
			"apply_url", "updated_at",
		}),
	}).Create(job).Error
}

func normalizePage(page, limit int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}
