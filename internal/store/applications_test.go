package store

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jobhub/jobhub/internal/client"
	"github.com/jobhub/jobhub/internal/dtos"
	"github.com/jobhub/jobhub/internal/models"
)

func appsBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/applications", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(map[string]any{
				"applications": []dtos.ApplicationWithJob{
					{Application: models.Application{ApplicationID: "app_1", JobID: "job_1", Status: models.StatusApplied}},
					{Application: models.Application{ApplicationID: "app_2", JobID: "job_2", Status: models.StatusInterview}},
				},
			})
		case http.MethodPost:
			var req dtos.ApplicationCreateRequest
			json.NewDecoder(r.Body).Decode(&req)
			if req.JobID == "job_dup" {
				w.WriteHeader(http.StatusBadRequest)
				json.NewEncoder(w).Encode(map[string]string{"detail": "Already applied to this job"})
				return
			}
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(dtos.ApplicationWithJob{
				Application: models.Application{ApplicationID: "app_new", JobID: req.JobID, Status: models.StatusApplied},
			})
		}
	})
	mux.HandleFunc("/applications/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/applications/")
		switch {
		case r.Method == http.MethodPatch && strings.HasSuffix(id, "/status"):
			id = strings.TrimSuffix(id, "/status")
			var req dtos.ApplicationStatusUpdateRequest
			json.NewDecoder(r.Body).Decode(&req)
			json.NewEncoder(w).Encode(dtos.ApplicationWithJob{
				Application: models.Application{ApplicationID: id, JobID: "job_1", Status: req.Status},
			})
		case r.Method == http.MethodDelete:
			json.NewEncoder(w).Encode(map[string]string{"message": "Application deleted"})
		}
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestFetchBuildsAppliedSet(t *testing.T) {
	s := NewApplicationsStore(client.New(appsBackend(t).URL))

	require.True(t, s.Fetch(context.Background(), "").Success)

	assert.Len(t, s.Applications(), 2)
	assert.True(t, s.HasApplied("job_1"))
	assert.True(t, s.HasApplied("job_2"))
	assert.False(t, s.HasApplied("job_42"))
}

func TestCreateInsertsAtHead(t *testing.T) {
	s := NewApplicationsStore(client.New(appsBackend(t).URL))
	require.True(t, s.Fetch(context.Background(), "").Success)

	res := s.Create(context.Background(), "job_42", nil)

	require.True(t, res.Success)
	apps := s.Applications()
	require.Len(t, apps, 3)
	assert.Equal(t, "job_42", apps[0].JobID)
	assert.Equal(t, models.StatusApplied, apps[0].Status)
	assert.True(t, s.HasApplied("job_42"))
}

func TestCreateDuplicateSurfacesDetail(t *testing.T) {
	s := NewApplicationsStore(client.New(appsBackend(t).URL))
	require.True(t, s.Fetch(context.Background(), "").Success)

	res := s.Create(context.Background(), "job_dup", nil)

	assert.False(t, res.Success)
	assert.Equal(t, "Already applied to this job", res.Error)
	assert.Len(t, s.Applications(), 2)
}

func TestUpdateStatusReplacesOnlyTarget(t *testing.T) {
	s := NewApplicationsStore(client.New(appsBackend(t).URL))
	require.True(t, s.Fetch(context.Background(), "").Success)

	res := s.UpdateStatus(context.Background(), "app_1", models.StatusOffer, nil, nil)

	require.True(t, res.Success)
	apps := s.Applications()
	assert.Equal(t, models.StatusOffer, apps[0].Status)
	assert.Equal(t, models.StatusInterview, apps[1].Status)
}

func TestWithdrawMutatesInPlace(t *testing.T) {
	s := NewApplicationsStore(client.New(appsBackend(t).URL))
	require.True(t, s.Fetch(context.Background(), "").Success)

	require.True(t, s.Withdraw(context.Background(), "app_1").Success)

	apps := s.Applications()
	// withdrawn rows stay in the list with the new status
	require.Len(t, apps, 2)
	assert.Equal(t, models.StatusWithdrawn, apps[0].Status)
}

func TestDeleteFiltersById(t *testing.T) {
	s := NewApplicationsStore(client.New(appsBackend(t).URL))
	require.True(t, s.Fetch(context.Background(), "").Success)

	require.True(t, s.Delete(context.Background(), "app_1").Success)

	apps := s.Applications()
	require.Len(t, apps, 1)
	assert.Equal(t, "app_2", apps[0].ApplicationID)
	assert.False(t, s.HasApplied("job_1"))
}
