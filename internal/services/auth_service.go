package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"gorm.io/gorm"

	"github.com/jobhub/jobhub/internal/auth"
	"github.com/jobhub/jobhub/internal/dtos"
	"github.com/jobhub/jobhub/internal/models"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidSession     = errors.New("invalid session")
	ErrUserNotFound       = errors.New("user not found")
)

const sessionLifetime = 7 * 24 * time.Hour

type AuthService struct {
	DB       *gorm.DB
	Issuer   *auth.TokenIssuer
	Profiles *ProfileService

	// Upstream endpoint for exchanging hosted-OAuth session ids.
	SessionExchangeURL string
	HTTP               *http.Client
}

func NewAuthService(db *gorm.DB, issuer *auth.TokenIssuer, profiles *ProfileService, sessionExchangeURL string) *AuthService {
	return &AuthService{
		DB:                 db,
		Issuer:             issuer,
		Profiles:           profiles,
		SessionExchangeURL: sessionExchangeURL,
		HTTP:               &http.Client{Timeout: 10 * time.Second},
	}
}

// Signup registers a password account and seeds an empty profile.
func (s *AuthService) Signup(req dtos.SignupRequest) (*dtos.TokenResponse, error) {
	var count int64
	s.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&count)
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	role := req.Role
	if role == "" {
		role = models.RoleEngineer
	}
	user := models.User{
		UserID:       models.NewID("user"),
		Email:        req.Email,
		Name:         req.Name,
		PasswordHash: &hash,
		Role:         role,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}
	if err := s.Profiles.CreateEmpty(&user); err != nil {
		return nil, err
	}
	return s.tokenResponse(user)
}

// Login verifies the password and issues a bearer token. OAuth-only accounts
// have no hash and always fail here.
func (s *AuthService) Login(req dtos.LoginRequest) (*dtos.TokenResponse, error) {
	var user models.User
	err := s.DB.Where("email = ?", req.Email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	} else if err != nil {
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if user.PasswordHash == nil || !auth.CheckPassword(*user.PasswordHash, req.Password) {
		return nil, ErrInvalidCredentials
	}
	return s.tokenResponse(user)
}

func (s *AuthService) tokenResponse(user models.User) (*dtos.TokenResponse, error) {
	token, err := s.Issuer.Issue(user.UserID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}
	return &dtos.TokenResponse{AccessToken: token, TokenType: "bearer", User: user}, nil
}

// upstreamSession is what the hosted OAuth broker returns for a session id.
type upstreamSession struct {
	Email   string  `json:"email"`
	Name    string  `json:"name"`
	Picture *string `json:"picture"`
}

// ExchangeSession trades an upstream OAuth session id for a local session.
func (s *AuthService) ExchangeSession(ctx context.Context, sessionID string) (*models.Session, *models.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.SessionExchangeURL, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("build exchange request: %w", err)
	}
	req.Header.Set("X-Session-ID", sessionID)

	resp, err := s.HTTP.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("auth service unavailable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, nil, ErrInvalidSession
	}

	var up upstreamSession
	if err := json.NewDecoder(resp.Body).Decode(&up); err != nil {
		return nil, nil, fmt.Errorf("decode exchange response: %w", err)
	}
	if up.Email == "" {
		return nil, nil, ErrInvalidSession
	}

	user, err := s.UpsertOAuthUser(up.Email, up.Name, up.Picture)
	if err != nil {
		return nil, nil, err
	}
	session, err := s.CreateSession(user.UserID)
	if err != nil {
		return nil, nil, err
	}
	return session, user, nil
}

// UpsertOAuthUser finds or creates the account behind an OAuth identity.
// New accounts get an empty profile; existing ones refresh name and picture.
func (s *AuthService) UpsertOAuthUser(email, name string, picture *string) (*models.User, error) {
	if name == "" {
		name = "User"
	}

	var user models.User
	err := s.DB.Where("email = ?", email).First(&user).Error
	if err == nil {
		user.Name = name
		if picture != nil {
			user.Picture = picture
		}
		if err := s.DB.Save(&user).Error; err != nil {
			return nil, fmt.Errorf("update oauth user: %w", err)
		}
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	// OAuth carries no role choice; new identities start as engineers.
	user = models.User{
		UserID:  models.NewID("user"),
		Email:   email,
		Name:    name,
		Picture: picture,
		Role:    models.RoleEngineer,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		return nil, fmt.Errorf("create oauth user: %w", err)
	}
	if err := s.Profiles.CreateEmpty(&user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *AuthService) CreateSession(userID string) (*models.Session, error) {
	session := models.Session{
		SessionToken: models.NewID("sess"),
		UserID:       userID,
		ExpiresAt:    time.Now().UTC().Add(sessionLifetime),
	}
	if err := s.DB.Create(&session).Error; err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &session, nil
}

func (s *AuthService) DeleteSession(token string) error {
	if token == "" {
		return nil
	}
	if err := s.DB.Where("session_token = ?", token).Delete(&models.Session{}).Error; err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func (s *AuthService) GetUser(userID string) (*models.User, error) {
	var user models.User
	err := s.DB.Where("user_id = ?", userID).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	} else if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &user, nil
}
