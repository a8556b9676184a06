package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobhub/jobhub/internal/client"
	"github.com/jobhub/jobhub/internal/dtos"
	"github.com/jobhub/jobhub/internal/models"
)

func TestFetchProfileNotFoundIsEmptyState(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Profile not found"})
	}))
	defer srv.Close()

	s := NewProfileStore(client.New(srv.URL))
	res := s.Fetch(context.Background())

	// pre-onboarding absence is normal, not an error
	assert.True(t, res.Success)
	assert.Nil(t, s.Profile())
	assert.Empty(t, s.LastError())
}

func TestFetchProfileServerErrorIsAnError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	s := NewProfileStore(client.New(srv.URL))
	res := s.Fetch(context.Background())

	assert.False(t, res.Success)
	assert.Equal(t, "Failed to load profile", res.Error)
}

func TestUpdateReplacesCachedProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req dtos.ProfileUpdateRequest
		json.NewDecoder(r.Body).Decode(&req)
		json.NewEncoder(w).Encode(models.Profile{
			UserID: "user_1",
			Name:   *req.Name,
			Skills: models.StringSlice(*req.Skills),
		})
	}))
	defer srv.Close()

	s := NewProfileStore(client.New(srv.URL))
	name := "Jane"
	skills := []string{"Go"}
	res := s.Update(context.Background(), dtos.ProfileUpdateRequest{Name: &name, Skills: &skills})

	require.True(t, res.Success)
	require.NotNil(t, s.Profile())
	assert.Equal(t, "Jane", s.Profile().Name)
}

func TestCompleteOnboardingFlipsCachedFlag(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/profile/me" {
			json.NewEncoder(w).Encode(models.Profile{UserID: "user_1"})
			return
		}
		json.NewEncoder(w).Encode(map[string]string{"message": "Onboarding completed"})
	}))
	defer srv.Close()

	s := NewProfileStore(client.New(srv.URL))
	require.True(t, s.Fetch(context.Background()).Success)
	require.False(t, s.Profile().OnboardingCompleted)

	require.True(t, s.CompleteOnboarding(context.Background()).Success)
	assert.True(t, s.Profile().OnboardingCompleted)
}
