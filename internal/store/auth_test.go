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

func authBackend(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req dtos.LoginRequest
		json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "correct" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid email or password"})
			return
		}
		json.NewEncoder(w).Encode(dtos.TokenResponse{
			AccessToken: "tok-abc",
			TokenType:   "bearer",
			User:        models.User{UserID: "user_1", Email: req.Email, Name: "Jane"},
		})
	})
	mux.HandleFunc("/auth/signup", func(w http.ResponseWriter, r *http.Request) {
		var req dtos.SignupRequest
		json.NewDecoder(r.Body).Decode(&req)
		role := req.Role
		if role == "" {
			role = models.RoleEngineer
		}
		json.NewEncoder(w).Encode(dtos.TokenResponse{
			AccessToken: "tok-abc",
			TokenType:   "bearer",
			User:        models.User{UserID: "user_2", Email: req.Email, Name: req.Name, Role: role},
		})
	})
	mux.HandleFunc("/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-abc" {
			w.WriteHeader(http.StatusUnauthorized)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Not authenticated"})
			return
		}
		json.NewEncoder(w).Encode(models.User{UserID: "user_1", Email: "jane@example.com"})
	})
	mux.HandleFunc("/auth/logout", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"message": "Logged out"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestLoginSuccessPersistsCredentials(t *testing.T) {
	srv := authBackend(t)
	storage := NewMemoryStorage()
	s := NewAuthStore(client.New(srv.URL), storage)

	res := s.Login(context.Background(), "jane@example.com", "correct")

	require.True(t, res.Success)
	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "jane@example.com", s.User().Email)

	creds, err := storage.Load()
	require.NoError(t, err)
	assert.Equal(t, "tok-abc", creds.Token)
}

func TestLoginWrongPassword(t *testing.T) {
	srv := authBackend(t)
	s := NewAuthStore(client.New(srv.URL), NewMemoryStorage())

	res := s.Login(context.Background(), "jane@example.com", "wrong")

	assert.False(t, res.Success)
	assert.Equal(t, "Invalid email or password", res.Error)
	assert.False(t, s.IsAuthenticated())
	assert.Nil(t, s.User())
}

func TestSignupDefaultsToEngineer(t *testing.T) {
	srv := authBackend(t)
	s := NewAuthStore(client.New(srv.URL), NewMemoryStorage())

	res := s.Signup(context.Background(), "Jane", "jane@example.com", "longenough", "")

	require.True(t, res.Success)
	assert.Equal(t, models.RoleEngineer, s.User().Role)
}

func TestSignupFounderCanOpenConnection(t *testing.T) {
	var signedUpRole string
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/signup", func(w http.ResponseWriter, r *http.Request) {
		var req dtos.SignupRequest
		json.NewDecoder(r.Body).Decode(&req)
		signedUpRole = req.Role
		json.NewEncoder(w).Encode(dtos.TokenResponse{
			AccessToken: "tok-founder",
			User:        models.User{UserID: "user_f", Email: req.Email, Role: req.Role},
		})
	})
	mux.HandleFunc("/connections", func(w http.ResponseWriter, r *http.Request) {
		if signedUpRole != models.RoleFounder {
			w.WriteHeader(http.StatusForbidden)
			json.NewEncoder(w).Encode(map[string]string{"detail": "Only founders can create connections"})
			return
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(dtos.ConnectionResponse{
			Connection: models.Connection{ConnectionID: "conn_1", FounderID: "user_f", EngineerID: "user_e", Status: models.ConnectionPending},
		})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	api := client.New(srv.URL)
	auth := NewAuthStore(api, NewMemoryStorage())
	conns := NewConnectionsStore(api)

	require.True(t, auth.Signup(context.Background(), "Ada", "ada@example.com", "longenough", models.RoleFounder).Success)
	assert.Equal(t, models.RoleFounder, auth.User().Role)

	res := conns.Create(context.Background(), "user_e", "Saw your Go work", nil)

	require.True(t, res.Success)
	require.Len(t, conns.Connections(), 1)
	assert.Equal(t, "user_f", conns.Connections()[0].FounderID)
}

func TestCredentialsRestoredOnConstruction(t *testing.T) {
	srv := authBackend(t)
	storage := NewMemoryStorage()
	storage.Save(Credentials{Token: "tok-abc", User: models.User{UserID: "user_1"}})

	s := NewAuthStore(client.New(srv.URL), storage)

	assert.True(t, s.IsAuthenticated())
	assert.Equal(t, "user_1", s.User().UserID)
}

func TestCheckAuthResetsOnFailure(t *testing.T) {
	srv := authBackend(t)
	storage := NewMemoryStorage()
	storage.Save(Credentials{Token: "stale-token", User: models.User{UserID: "user_1"}})

	s := NewAuthStore(client.New(srv.URL), storage)
	ok := s.CheckAuth(context.Background())

	assert.False(t, ok)
	assert.False(t, s.IsAuthenticated())
	_, err := storage.Load()
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestCheckAuthRefreshesUser(t *testing.T) {
	srv := authBackend(t)
	storage := NewMemoryStorage()
	storage.Save(Credentials{Token: "tok-abc", User: models.User{UserID: "user_1"}})

	s := NewAuthStore(client.New(srv.URL), storage)
	ok := s.CheckAuth(context.Background())

	assert.True(t, ok)
	assert.Equal(t, "jane@example.com", s.User().Email)
}

func TestLogoutClearsState(t *testing.T) {
	srv := authBackend(t)
	storage := NewMemoryStorage()
	s := NewAuthStore(client.New(srv.URL), storage)
	require.True(t, s.Login(context.Background(), "jane@example.com", "correct").Success)

	res := s.Logout(context.Background())

	assert.True(t, res.Success)
	assert.False(t, s.IsAuthenticated())
	_, err := storage.Load()
	assert.ErrorIs(t, err, ErrNoCredentials)
}
