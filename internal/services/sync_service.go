package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/jobhub/jobhub/internal/dtos"
	"github.com/jobhub/jobhub/internal/models"
)

// SyncService keeps the job table fresh from an external feed. It runs on a
// ticker in the background and can also be triggered through the admin route.
type SyncService struct {
	Jobs     *JobService
	FeedURL  string
	Interval time.Duration
	HTTP     *http.Client
}

func NewSyncService(jobs *JobService, feedURL string, interval time.Duration) *SyncService {
	return &SyncService{
		Jobs:     jobs,
		FeedURL:  feedURL,
		Interval: interval,
		HTTP:     &http.Client{Timeout: 30 * time.Second},
	}
}

// StartWatcher starts the background polling. No-op without a feed URL.
func (s *SyncService) StartWatcher(ctx context.Context) {
	if s.FeedURL == "" {
		log.Warn().Msg("job sync disabled (no feed URL configured)")
		return
	}

	ticker := time.NewTicker(s.Interval)

	// Run immediately on startup
	go s.runOnce(ctx)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()
}

func (s *SyncService) runOnce(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	result, err := s.Sync(ctx)
	if err != nil {
		log.Error().Err(err).Msg("job sync failed")
		return
	}
	log.Info().Int("fetched", result.Fetched).Int("upserted", result.Upserted).Msg("job sync cycle done")
}

// feedJob is the shape the external feed serves.
type feedJob struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Company      string    `json:"company"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	PostedAt     time.Time `json:"posted_at"`
	Tags         []string  `json:"tags"`
	SalaryRange  *string   `json:"salary_range"`
	Remote       bool      `json:"remote"`
	ApplyURL     *string   `json:"apply_url"`
	IsStartup    bool      `json:"is_startup"`
	FundingStage *string   `json:"funding_stage"`
}

// Sync fetches the feed once and upserts every job, keyed by external id.
func (s *SyncService) Sync(ctx context.Context) (*dtos.SyncResult, error) {
	var feed []feedJob
	err := retry(3, 1*time.Second, func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.FeedURL, nil)
		if err != nil {
			return err
		}
		resp, err := s.HTTP.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("feed returned %d", resp.StatusCode)
		}
		feed = feed[:0]
		return json.NewDecoder(resp.Body).Decode(&feed)
	})
	if err != nil {
		return nil, fmt.Errorf("fetch job feed: %w", err)
	}

	result := &dtos.SyncResult{Fetched: len(feed)}
	for _, fj := range feed {
		job := s.toJob(fj)
		if err := s.Jobs.Upsert(job); err != nil {
			log.Warn().Err(err).Str("external_id", fj.ID).Msg("upsert synced job")
			continue
		}
		result.Upserted++
	}
	return result, nil
}

func (s *SyncService) toJob(fj feedJob) *models.Job {
	externalID := fj.ID
	posted := fj.PostedAt
	if posted.IsZero() {
		posted = time.Now().UTC()
	}
	return &models.Job{
		Title:           fj.Title,
		Company:         fj.Company,
		Description:     fj.Description,
		Location:        fj.Location,
		DatePosted:      posted,
		SkillsRequired:  extractJobSkills(fj.Tags, fj.Description),
		ExperienceLevel: determineExperienceLevel(fj.Title, fj.Description),
		SalaryRange:     fj.SalaryRange,
		Remote:          fj.Remote,
		ApplyURL:        fj.ApplyURL,
		IsStartup:       fj.IsStartup,
		FundingStage:    fj.FundingStage,
		ExternalID:      &externalID,
	}
}

// extractJobSkills prefers the feed's tags, then scans the description
// against the skill dictionary.
func extractJobSkills(tags []string, description string) models.StringSlice {
	if len(tags) > 0 {
		out := make(models.StringSlice, 0, len(tags))
		for _, t := range tags {
			if t = strings.TrimSpace(t); t != "" {
				out = append(out, titleCase(strings.ToLower(t)))
			}
		}
		return out
	}

	lower := strings.ToLower(description)
	var out models.StringSlice
	for _, skill := range commonSkills {
		if strings.Contains(lower, skill) {
			out = append(out, titleCase(skill))
		}
		if len(out) == 10 {
			break
		}
	}
	return out
}

func determineExperienceLevel(title, description string) string {
	text := strings.ToLower(title + " " + description)
	switch {
	case strings.Contains(text, "senior") || strings.Contains(text, "staff") || strings.Contains(text, "lead") || strings.Contains(text, "principal"):
		return models.ExperienceSenior
	case strings.Contains(text, "junior") || strings.Contains(text, "entry") || strings.Contains(text, "intern") || strings.Contains(text, "graduate"):
		return models.ExperienceEntry
	default:
		return models.ExperienceMid
	}
}

// retry runs f with exponential backoff.
func retry(attempts int, sleep time.Duration, f func() error) error {
	var err error
	for i := 0; i < attempts; i++ {
		if err = f(); err == nil {
			return nil
		}
		log.Warn().Err(err).Dur("backoff", sleep).Msg("retrying")
		time.Sleep(sleep)
		sleep *= 2
	}
	return fmt.Errorf("failed after %d attempts: %w", attempts, err)
}
