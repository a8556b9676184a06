package store

import (
	"context"

	"github.com/jobhub/jobhub/internal/client"
	"github.com/jobhub/jobhub/internal/dtos"
	"github.com/jobhub/jobhub/internal/models"
)

// AuthStore owns the signed-in identity. Token and user survive restarts
// through the storage; everything else resets with the process.
type AuthStore struct {
	state
	api     *client.Client
	storage CredentialStorage

	user          *models.User
	authenticated bool
}

func NewAuthStore(api *client.Client, storage CredentialStorage) *AuthStore {
	s := &AuthStore{api: api, storage: storage}
	if creds, err := storage.Load(); err == nil {
		s.api.SetToken(creds.Token)
		user := creds.User
		s.user = &user
		s.authenticated = true
	}
	return s
}

func (s *AuthStore) User() *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *AuthStore) IsAuthenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

// Login signs in with email and password.
func (s *AuthStore) Login(ctx context.Context, email, password string) Result {
	s.begin()

	var resp dtos.TokenResponse
	err := s.api.Post(ctx, "/auth/login", dtos.LoginRequest{Email: email, Password: password}, &resp)
	if err != nil {
		msg := client.ErrorMessage(err, "Login failed")
		s.finish(msg)
		return fail(msg)
	}
	s.install(resp)
	return ok()
}

// Signup registers and signs in. An empty role means engineer.
func (s *AuthStore) Signup(ctx context.Context, name, email, password, role string) Result {
	s.begin()

	var resp dtos.TokenResponse
	err := s.api.Post(ctx, "/auth/signup", dtos.SignupRequest{Name: name, Email: email, Password: password, Role: role}, &resp)
	if err != nil {
		msg := client.ErrorMessage(err, "Signup failed")
		s.finish(msg)
		return fail(msg)
	}
	s.install(resp)
	return ok()
}

// ExchangeSession trades an OAuth session id for a session cookie. The
// cookie lands in the client's jar; only the user comes back in the body.
func (s *AuthStore) ExchangeSession(ctx context.Context, sessionID string) Result {
	s.begin()

	var resp struct {
		User models.User `json:"user"`
	}
	err := s.api.Post(ctx, "/auth/session", dtos.SessionExchangeRequest{SessionID: sessionID}, &resp)
	if err != nil {
		msg := client.ErrorMessage(err, "Session exchange failed")
		s.finish(msg)
		return fail(msg)
	}

	s.mu.Lock()
	s.user = &resp.User
	s.authenticated = true
	s.loading = false
	s.mu.Unlock()
	_ = s.storage.Save(Credentials{Token: s.api.Token(), User: resp.User})
	return ok()
}

// CheckAuth refreshes the identity from the server. Any failure resets to
// signed-out; it never errors at the caller.
func (s *AuthStore) CheckAuth(ctx context.Context) bool {
	s.begin()

	var user models.User
	if err := s.api.Get(ctx, "/auth/me", nil, &user); err != nil {
		s.reset()
		s.finish("")
		return false
	}

	s.mu.Lock()
	s.user = &user
	s.authenticated = true
	s.loading = false
	s.mu.Unlock()
	return true
}

// Logout tells the server, then clears local state regardless of the answer.
func (s *AuthStore) Logout(ctx context.Context) Result {
	_ = s.api.Post(ctx, "/auth/logout", nil, nil)
	s.reset()
	return ok()
}

func (s *AuthStore) install(resp dtos.TokenResponse) {
	s.api.SetToken(resp.AccessToken)
	user := resp.User

	s.mu.Lock()
	s.user = &user
	s.authenticated = true
	s.loading = false
	s.lastErr = ""
	s.mu.Unlock()

	_ = s.storage.Save(Credentials{Token: resp.AccessToken, User: user})
}

func (s *AuthStore) reset() {
	s.api.SetToken("")
	_ = s.storage.Clear()

	s.mu.Lock()
	s.user = nil
	s.authenticated = false
	s.mu.Unlock()
}
