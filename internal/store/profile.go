package store

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/jobhub/jobhub/internal/client"
	"github.com/jobhub/jobhub/internal/dtos"
	"github.com/jobhub/jobhub/internal/models"
)

// ProfileStore caches the user's profile and drives resume uploads.
type ProfileStore struct {
	state
	api *client.Client

	profile *models.Profile
}

func NewProfileStore(api *client.Client) *ProfileStore {
	return &ProfileStore{api: api}
}

func (s *ProfileStore) Profile() *models.Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.profile == nil {
		return nil
	}
	p := *s.profile
	return &p
}

// Fetch loads the profile. A 404 is the normal pre-onboarding state: the
// cache goes to nil and the action still succeeds.
func (s *ProfileStore) Fetch(ctx context.Context) Result {
	s.begin()

	var profile models.Profile
	err := s.api.Get(ctx, "/profile/me", nil, &profile)
	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
			s.mu.Lock()
			s.profile = nil
			s.loading = false
			s.mu.Unlock()
			return ok()
		}
		msg := client.ErrorMessage(err, "Failed to load profile")
		s.finish(msg)
		return fail(msg)
	}

	s.mu.Lock()
	s.profile = &profile
	s.loading = false
	s.mu.Unlock()
	return ok()
}

// Update pushes the partial update and replaces the cached profile.
func (s *ProfileStore) Update(ctx context.Context, req dtos.ProfileUpdateRequest) Result {
	s.begin()

	var profile models.Profile
	if err := s.api.Put(ctx, "/profile/me", req, &profile); err != nil {
		msg := client.ErrorMessage(err, "Failed to update profile")
		s.finish(msg)
		return fail(msg)
	}

	s.mu.Lock()
	s.profile = &profile
	s.loading = false
	s.mu.Unlock()
	return ok()
}

// UploadResume posts the file and returns the resume record to poll.
func (s *ProfileStore) UploadResume(ctx context.Context, filename string, content io.Reader) (*models.Resume, Result) {
	s.begin()

	var resume models.Resume
	err := s.api.Upload(ctx, "/profile/resume/upload", "file", filename, content, &resume)
	if err != nil {
		msg := client.ErrorMessage(err, "Failed to upload resume")
		s.finish(msg)
		return nil, fail(msg)
	}
	s.finish("")
	return &resume, ok()
}

// ResumeStatus reads the current parse state of an uploaded resume.
func (s *ProfileStore) ResumeStatus(ctx context.Context, resumeID string) (*models.Resume, error) {
	var resume models.Resume
	if err := s.api.Get(ctx, "/profile/resume/"+resumeID+"/status", nil, &resume); err != nil {
		return nil, err
	}
	return &resume, nil
}

// CompleteOnboarding marks onboarding done server-side and in the cache.
func (s *ProfileStore) CompleteOnboarding(ctx context.Context) Result {
	s.begin()

	if err := s.api.Post(ctx, "/profile/me/complete-onboarding", nil, nil); err != nil {
		msg := client.ErrorMessage(err, "Failed to complete onboarding")
		s.finish(msg)
		return fail(msg)
	}

	s.mu.Lock()
	if s.profile != nil {
		s.profile.OnboardingCompleted = true
	}
	s.loading = false
	s.mu.Unlock()
	return ok()
}
