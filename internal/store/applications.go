package store

import (
	"context"
	"net/url"
	"time"

	"github.com/jobhub/jobhub/internal/client"
	"github.com/jobhub/jobhub/internal/dtos"
	"github.com/jobhub/jobhub/internal/models"
)

// ApplicationsStore caches the user's applications. Mutations keep the list
// consistent without a refetch: insert at head on create, replace by id on
// update, filter by id on delete.
type ApplicationsStore struct {
	state
	api *client.Client

	applications []dtos.ApplicationWithJob
	appliedJobs  map[string]bool
}

func NewApplicationsStore(api *client.Client) *ApplicationsStore {
	return &ApplicationsStore{api: api, appliedJobs: make(map[string]bool)}
}

func (s *ApplicationsStore) Applications() []dtos.ApplicationWithJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]dtos.ApplicationWithJob(nil), s.applications...)
}

// HasApplied reports whether the given job is in the applied set.
func (s *ApplicationsStore) HasApplied(jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.appliedJobs[jobID]
}

// Fetch replaces the cache, optionally filtered by status.
func (s *ApplicationsStore) Fetch(ctx context.Context, status string) Result {
	s.begin()

	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	var resp struct {
		Applications []dtos.ApplicationWithJob `json:"applications"`
	}
	if err := s.api.Get(ctx, "/applications", q, &resp); err != nil {
		msg := client.ErrorMessage(err, "Failed to load applications")
		s.finish(msg)
		return fail(msg)
	}

	s.mu.Lock()
	s.applications = resp.Applications
	s.appliedJobs = make(map[string]bool, len(resp.Applications))
	for _, app := range resp.Applications {
		s.appliedJobs[app.JobID] = true
	}
	s.loading = false
	s.mu.Unlock()
	return ok()
}

// Create applies to a job. The new application goes to the head of the list.
func (s *ApplicationsStore) Create(ctx context.Context, jobID string, notes *string) Result {
	s.begin()

	var app dtos.ApplicationWithJob
	err := s.api.Post(ctx, "/applications", dtos.ApplicationCreateRequest{JobID: jobID, Notes: notes}, &app)
	if err != nil {
		msg := client.ErrorMessage(err, "Failed to apply")
		s.finish(msg)
		return fail(msg)
	}

	s.mu.Lock()
	s.applications = append([]dtos.ApplicationWithJob{app}, s.applications...)
	s.appliedJobs[app.JobID] = true
	s.loading = false
	s.mu.Unlock()
	return ok()
}

// UpdateStatus replaces exactly the matching application in the cache.
func (s *ApplicationsStore) UpdateStatus(ctx context.Context, applicationID, status string, notes *string, nextStep *time.Time) Result {
	s.begin()

	var app dtos.ApplicationWithJob
	req := dtos.ApplicationStatusUpdateRequest{Status: status, Notes: notes, NextStepDate: nextStep}
	err := s.api.Patch(ctx, "/applications/"+applicationID+"/status", req, &app)
	if err != nil {
		msg := client.ErrorMessage(err, "Failed to update application")
		s.finish(msg)
		return fail(msg)
	}

	s.mu.Lock()
	for i := range s.applications {
		if s.applications[i].ApplicationID == app.ApplicationID {
			s.applications[i] = app
			break
		}
	}
	s.loading = false
	s.mu.Unlock()
	return ok()
}

// Withdraw flips the application to Withdrawn; the row stays in the list.
func (s *ApplicationsStore) Withdraw(ctx context.Context, applicationID string) Result {
	return s.UpdateStatus(ctx, applicationID, models.StatusWithdrawn, nil, nil)
}

// Delete removes the application from the server and the cache.
func (s *ApplicationsStore) Delete(ctx context.Context, applicationID string) Result {
	s.begin()

	if err := s.api.Delete(ctx, "/applications/"+applicationID, nil); err != nil {
		msg := client.ErrorMessage(err, "Failed to delete application")
		s.finish(msg)
		return fail(msg)
	}

	s.mu.Lock()
	kept := s.applications[:0]
	for _, app := range s.applications {
		if app.ApplicationID == applicationID {
			delete(s.appliedJobs, app.JobID)
			continue
		}
		kept = append(kept, app)
	}
	s.applications = kept
	s.loading = false
	s.mu.Unlock()
	return ok()
}
