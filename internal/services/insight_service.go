package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/jobhub/jobhub/internal/dtos"
	"github.com/jobhub/jobhub/internal/models"
)

// InsightService powers the dashboard. The aggregations are plain functions
// over the loaded application list so they stay easy to test.
type InsightService struct {
	DB *gorm.DB
}

func NewInsightService(db *gorm.DB) *InsightService {
	return &InsightService{DB: db}
}

func (s *InsightService) load(userID string) ([]models.Application, error) {
	var apps []models.Application
	err := s.DB.Where("user_id = ?", userID).
		Order("applied_at DESC").
		Limit(1000).
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("load applications: %w", err)
	}
	return apps, nil
}

func (s *InsightService) Summary(userID string) (*dtos.InsightsSummary, error) {
	apps, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	return SummarizeApplications(apps, time.Now().UTC()), nil
}

func (s *InsightService) Timeseries(userID, rng string) (*dtos.TimeseriesResponse, error) {
	apps, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	return BuildTimeseries(apps, rng, time.Now().UTC()), nil
}

func (s *InsightService) Funnel(userID string) (*dtos.FunnelResponse, error) {
	apps, err := s.load(userID)
	if err != nil {
		return nil, err
	}
	return BuildFunnel(apps), nil
}

// Table pages through the user's applications with job names attached.
func (s *InsightService) Table(userID string, page, limit int) (*dtos.InsightsTable, error) {
	page, limit = normalizePage(page, limit)

	var total int64
	if err := s.DB.Model(&models.Application{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count applications: %w", err)
	}

	var apps []models.Application
	err := s.DB.Where("user_id = ?", userID).
		Order("applied_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&apps).Error
	if err != nil {
		return nil, fmt.Errorf("table applications: %w", err)
	}

	rows := make([]dtos.InsightsTableRow, 0, len(apps))
	for _, app := range apps {
		title, company := "Unknown", "Unknown"
		var job models.Job
		if s.DB.Where("job_id = ?", app.JobID).First(&job).Error == nil {
			title, company = job.Title, job.Company
		}
		var deadline *string
		if app.Deadline != nil {
			d := app.Deadline.Format(time.RFC3339)
			deadline = &d
		}
		rows = append(rows, dtos.InsightsTableRow{
			ApplicationID:     app.ApplicationID,
			JobID:             app.JobID,
			JobTitle:          title,
			Company:           company,
			Status:            app.Status,
			AppliedAt:         app.AppliedAt.Format(time.RFC3339),
			Deadline:          deadline,
			ResumeSubmittedAt: app.ResumeSubmittedAt.Format(time.RFC3339),
		})
	}

	return &dtos.InsightsTable{
		Data:  rows,
		Total: total,
		Page:  page,
		Limit: limit,
		Pages: (total + int64(limit) - 1) / int64(limit),
	}, nil
}

// SummarizeApplications computes the headline stats. Response rate counts any
// move out of Applied; offer rate is offers over interviews plus offers.
func SummarizeApplications(apps []models.Application, now time.Time) *dtos.InsightsSummary {
	byStatus := map[string]int{
		models.StatusApplied:   0,
		models.StatusInterview: 0,
		models.StatusOffer:     0,
		models.StatusRejected:  0,
	}
	total := len(apps)
	weekAgo := now.AddDate(0, 0, -7)
	thisWeek := 0
	for _, app := range apps {
		if _, known := byStatus[app.Status]; known {
			byStatus[app.Status]++
		}
		if app.AppliedAt.After(weekAgo) {
			thisWeek++
		}
	}

	var responseRate, interviewRate, offerRate float64
	if total > 0 {
		responses := byStatus[models.StatusInterview] + byStatus[models.StatusOffer] + byStatus[models.StatusRejected]
		responseRate = float64(responses) / float64(total) * 100
		interviewRate = float64(byStatus[models.StatusInterview]) / float64(total) * 100
	}
	if interviews := byStatus[models.StatusInterview] + byStatus[models.StatusOffer]; interviews > 0 {
		offerRate = float64(byStatus[models.StatusOffer]) / float64(interviews) * 100
	}

	return &dtos.InsightsSummary{
		TotalApplications: total,
		ByStatus:          byStatus,
		ResponseRate:      round1(responseRate),
		InterviewRate:     round1(interviewRate),
		OfferRate:         round1(offerRate),
		ThisWeek:          thisWeek,
		Pending:           byStatus[models.StatusApplied],
		Active:            byStatus[models.StatusInterview],
	}
}

// BuildTimeseries buckets applications over the requested range. day gives 24
// hourly points, week and month daily points, year monthly points.
func BuildTimeseries(apps []models.Application, rng string, now time.Time) *dtos.TimeseriesResponse {
	var interval string
	var points int
	switch rng {
	case "day":
		interval, points = "hour", 24
	case "month":
		interval, points = "day", 30
	case "year":
		interval, points = "month", 12
	default:
		rng, interval, points = "week", "day", 7
	}

	data := make([]dtos.TimeseriesPoint, 0, points)
	switch interval {
	case "hour":
		for i := 0; i < points; i++ {
			start := now.Add(-time.Duration(points-i) * time.Hour)
			end := start.Add(time.Hour)
			count := 0
			for _, app := range apps {
				if !app.AppliedAt.Before(start) && app.AppliedAt.Before(end) {
					count++
				}
			}
			data = append(data, dtos.TimeseriesPoint{Label: start.Format("15:04"), Applications: count})
		}
	case "day":
		for i := 0; i < points; i++ {
			day := now.AddDate(0, 0, -(points - i - 1))
			y, m, d := day.Date()
			count := 0
			for _, app := range apps {
				ay, am, ad := app.AppliedAt.Date()
				if ay == y && am == m && ad == d {
					count++
				}
			}
			data = append(data, dtos.TimeseriesPoint{Label: day.Format("Jan 02"), Applications: count})
		}
	case "month":
		for i := 0; i < points; i++ {
			month := now.AddDate(0, -(points - i - 1), 0)
			count := 0
			for _, app := range apps {
				if app.AppliedAt.Year() == month.Year() && app.AppliedAt.Month() == month.Month() {
					count++
				}
			}
			data = append(data, dtos.TimeseriesPoint{Label: month.Format("Jan"), Applications: count})
		}
	}

	return &dtos.TimeseriesResponse{Range: rng, Interval: interval, Data: data}
}

// BuildFunnel reports the Applied -> Interview -> Offer conversion. Every
// application counts as Applied; Offer rows count as interviewed too.
func BuildFunnel(apps []models.Application) *dtos.FunnelResponse {
	applied := len(apps)
	interviewed, offered := 0, 0
	for _, app := range apps {
		switch app.Status {
		case models.StatusInterview:
			interviewed++
		case models.StatusOffer:
			interviewed++
			offered++
		}
	}

	pct := func(count int) float64 {
		if applied == 0 {
			return 0
		}
		return round1(float64(count) / float64(applied) * 100)
	}
	return &dtos.FunnelResponse{Stages: []dtos.FunnelStage{
		{Name: "Applied", Count: applied, Percentage: pct(applied)},
		{Name: "Interview", Count: interviewed, Percentage: pct(interviewed)},
		{Name: "Offer", Count: offered, Percentage: pct(offered)},
	}}
}
