package store

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/jobhub/jobhub/internal/client"
	"github.com/jobhub/jobhub/internal/dtos"
	"github.com/jobhub/jobhub/internal/models"
)

// JobFilters configures a search. Zero-value fields are omitted from the
// outgoing request entirely.
type JobFilters struct {
	Query           string
	Skills          []string
	ExperienceLevel string
	Location        string
	FundingStage    string
	Remote          *bool
	Page            int
	Limit           int
}

func (f JobFilters) query() url.Values {
	q := url.Values{}
	if f.Query != "" {
		q.Set("query", f.Query)
	}
	if len(f.Skills) > 0 {
		q.Set("skills", strings.Join(f.Skills, ","))
	}
	if f.ExperienceLevel != "" {
		q.Set("experience_level", f.ExperienceLevel)
	}
	if f.Location != "" {
		q.Set("location", f.Location)
	}
	if f.FundingStage != "" {
		q.Set("funding_stage", f.FundingStage)
	}
	if f.Remote != nil {
		q.Set("remote", strconv.FormatBool(*f.Remote))
	}
	if f.Page > 0 {
		q.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		q.Set("limit", strconv.Itoa(f.Limit))
	}
	return q
}

// JobsStore caches search results and recommendations.
type JobsStore struct {
	state
	api *client.Client

	jobs        []models.Job
	recommended []dtos.JobWithScore
	startups    []dtos.StartupListItem
}

func NewJobsStore(api *client.Client) *JobsStore {
	return &JobsStore{api: api}
}

func (s *JobsStore) Jobs() []models.Job {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]models.Job(nil), s.jobs...)
}

func (s *JobsStore) Recommended() []dtos.JobWithScore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]dtos.JobWithScore(nil), s.recommended...)
}

func (s *JobsStore) Startups() []dtos.StartupListItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]dtos.StartupListItem(nil), s.startups...)
}

// Search fetches jobs matching the filters and replaces the cache.
func (s *JobsStore) Search(ctx context.Context, filters JobFilters) Result {
	s.begin()

	var resp struct {
		Jobs []models.Job `json:"jobs"`
	}
	if err := s.api.Get(ctx, "/jobs/search", filters.query(), &resp); err != nil {
		msg := client.ErrorMessage(err, "Job search failed")
		s.finish(msg)
		return fail(msg)
	}

	s.mu.Lock()
	s.jobs = resp.Jobs
	s.loading = false
	s.mu.Unlock()
	return ok()
}

// FetchRecommended loads scored recommendations, sorted best_match or newest.
func (s *JobsStore) FetchRecommended(ctx context.Context, sortBy string) Result {
	s.begin()

	q := url.Values{}
	if sortBy != "" {
		q.Set("sort_by", sortBy)
	}
	var resp struct {
		Jobs []dtos.JobWithScore `json:"jobs"`
	}
	if err := s.api.Get(ctx, "/jobs/recommended", q, &resp); err != nil {
		msg := client.ErrorMessage(err, "Failed to load recommendations")
		s.finish(msg)
		return fail(msg)
	}

	s.mu.Lock()
	s.recommended = resp.Jobs
	s.loading = false
	s.mu.Unlock()
	return ok()
}

// Get fetches one job; nil with a success result means not found upstream
// is reported as an error, since job detail pages expect the job to exist.
func (s *JobsStore) Get(ctx context.Context, jobID string) (*models.Job, Result) {
	s.begin()

	var job models.Job
	if err := s.api.Get(ctx, "/jobs/"+jobID, nil, &job); err != nil {
		msg := client.ErrorMessage(err, "Failed to load job")
		s.finish(msg)
		return nil, fail(msg)
	}
	s.finish("")
	return &job, ok()
}

// FetchStartups loads the startup directory.
func (s *JobsStore) FetchStartups(ctx context.Context) Result {
	s.begin()

	var resp struct {
		Startups []dtos.StartupListItem `json:"startups"`
	}
	if err := s.api.Get(ctx, "/jobs/startups/list", nil, &resp); err != nil {
		msg := client.ErrorMessage(err, "Failed to load startups")
		s.finish(msg)
		return fail(msg)
	}

	s.mu.Lock()
	s.startups = resp.Startups
	s.loading = false
	s.mu.Unlock()
	return ok()
}

// StartupJobs fetches the open roles of one startup.
func (s *JobsStore) StartupJobs(ctx context.Context, company string) ([]models.Job, Result) {
	s.begin()

	var resp struct {
		Jobs []models.Job `json:"jobs"`
	}
	if err := s.api.Get(ctx, "/jobs/startups/"+url.PathEscape(company)+"/jobs", nil, &resp); err != nil {
		msg := client.ErrorMessage(err, "Failed to load startup jobs")
		s.finish(msg)
		return nil, fail(msg)
	}
	s.finish("")
	return resp.Jobs, ok()
}

// Sync asks the backend to pull fresh jobs from its external feed.
func (s *JobsStore) Sync(ctx context.Context) (*dtos.SyncResult, Result) {
	s.begin()

	var result dtos.SyncResult
	if err := s.api.Post(ctx, "/jobs/sync", nil, &result); err != nil {
		msg := client.ErrorMessage(err, "Job sync failed")
		s.finish(msg)
		return nil, fail(msg)
	}
	s.finish("")
	return &result, ok()
}
