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

func connsBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/connections", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			json.NewEncoder(w).Encode(dtos.ConnectionListResponse{
				Connections: []dtos.ConnectionResponse{
					{Connection: models.Connection{ConnectionID: "conn_1", Status: models.ConnectionPending}},
					{Connection: models.Connection{ConnectionID: "conn_2", Status: models.ConnectionAccepted}},
				},
				Total: 2, Page: 1, PageSize: 20,
			})
		case http.MethodPost:
			var req dtos.ConnectionCreateRequest
			json.NewDecoder(r.Body).Decode(&req)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(dtos.ConnectionResponse{
				Connection: models.Connection{ConnectionID: "conn_new", EngineerID: req.EngineerID, Status: models.ConnectionPending},
			})
		}
	})
	mux.HandleFunc("/connections/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.Split(strings.TrimPrefix(r.URL.Path, "/connections/"), "/")[0]
		status := models.ConnectionAccepted
		if strings.HasSuffix(r.URL.Path, "/respond") {
			var req dtos.ConnectionRespondRequest
			json.NewDecoder(r.Body).Decode(&req)
			if !req.Accept {
				status = models.ConnectionDeclined
			}
		}
		json.NewEncoder(w).Encode(dtos.ConnectionResponse{
			Connection: models.Connection{ConnectionID: id, Status: status},
		})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestConnectionsFetch(t *testing.T) {
	s := NewConnectionsStore(client.New(connsBackend(t).URL))

	require.True(t, s.Fetch(context.Background(), "", 1, 20).Success)
	assert.Len(t, s.Connections(), 2)
	assert.Equal(t, int64(2), s.Total())
}

func TestConnectionCreateInsertsAtHead(t *testing.T) {
	s := NewConnectionsStore(client.New(connsBackend(t).URL))
	require.True(t, s.Fetch(context.Background(), "", 1, 20).Success)

	require.True(t, s.Create(context.Background(), "user_eng", "hello", nil).Success)

	conns := s.Connections()
	require.Len(t, conns, 3)
	assert.Equal(t, "conn_new", conns[0].ConnectionID)
	assert.Equal(t, int64(3), s.Total())
}

func TestConnectionRespondReplacesById(t *testing.T) {
	s := NewConnectionsStore(client.New(connsBackend(t).URL))
	require.True(t, s.Fetch(context.Background(), "", 1, 20).Success)

	require.True(t, s.Respond(context.Background(), "conn_1", true, nil).Success)

	conns := s.Connections()
	assert.Equal(t, models.ConnectionAccepted, conns[0].Status)
	// the other thread is untouched
	assert.Equal(t, "conn_2", conns[1].ConnectionID)
	assert.Equal(t, models.ConnectionAccepted, conns[1].Status)
}
