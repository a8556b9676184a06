package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobhub/jobhub/internal/client"
	"github.com/jobhub/jobhub/internal/models"
)

func TestSearchOmitsEmptyFilters(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]any{"jobs": []models.Job{{JobID: "job_1"}}})
	}))
	defer srv.Close()

	s := NewJobsStore(client.New(srv.URL))

	remote := true
	res := s.Search(context.Background(), JobFilters{
		Skills: []string{"React", "Go"},
		Remote: &remote,
	})
	require.True(t, res.Success)

	assert.Equal(t, "React,Go", got.Get("skills"))
	assert.Equal(t, "true", got.Get("remote"))
	// absent fields never travel as empty-string noise
	for _, key := range []string{"query", "experience_level", "location", "funding_stage", "page", "limit"} {
		assert.False(t, got.Has(key), "unexpected param %q", key)
	}
	assert.Len(t, s.Jobs(), 1)
}

func TestSearchClearedFiltersSendNothing(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]any{"jobs": []models.Job{}})
	}))
	defer srv.Close()

	s := NewJobsStore(client.New(srv.URL))

	remote := true
	require.True(t, s.Search(context.Background(), JobFilters{Skills: []string{"React"}, Remote: &remote}).Success)
	require.True(t, s.Search(context.Background(), JobFilters{}).Success)

	assert.Empty(t, got)
}

func TestSearchFailureRecordsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Search failed"})
	}))
	defer srv.Close()

	s := NewJobsStore(client.New(srv.URL))
	res := s.Search(context.Background(), JobFilters{})

	assert.False(t, res.Success)
	assert.Equal(t, "Search failed", res.Error)
	assert.Equal(t, "Search failed", s.LastError())
	assert.Empty(t, s.Jobs())
}

func TestFetchRecommendedSortParam(t *testing.T) {
	var got url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.URL.Query()
		json.NewEncoder(w).Encode(map[string]any{"jobs": []any{}})
	}))
	defer srv.Close()

	s := NewJobsStore(client.New(srv.URL))
	require.True(t, s.FetchRecommended(context.Background(), "newest").Success)
	assert.Equal(t, "newest", got.Get("sort_by"))
}
