package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/jobhub/jobhub/internal/auth"
	"github.com/jobhub/jobhub/internal/dtos"
	"github.com/jobhub/jobhub/internal/services"
)

type AuthHandler struct {
	Auth        *services.AuthService
	Google      *auth.GoogleOAuth
	FrontendURL string
}

func NewAuthHandler(authSvc *services.AuthService, google *auth.GoogleOAuth, frontendURL string) *AuthHandler {
	return &AuthHandler{Auth: authSvc, Google: google, FrontendURL: frontendURL}
}

// Signup is POST /auth/signup
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dtos.SignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	resp, err := h.Auth.Signup(req)
	switch {
	case err == services.ErrEmailTaken:
		detail(c, http.StatusBadRequest, "Email already registered")
	case err != nil:
		log.Error().Err(err).Msg("signup failed")
		detail(c, http.StatusInternalServerError, "Failed to create account")
	default:
		c.JSON(http.StatusOK, resp)
	}
}

// Login is POST /auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req dtos.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	resp, err := h.Auth.Login(req)
	switch {
	case err == services.ErrInvalidCredentials:
		detail(c, http.StatusUnauthorized, "Invalid email or password")
	case err != nil:
		log.Error().Err(err).Msg("login failed")
		detail(c, http.StatusInternalServerError, "Login failed")
	default:
		c.JSON(http.StatusOK, resp)
	}
}

// ExchangeSession is POST /auth/session. It trades the hosted-OAuth session
// id for a local session cookie.
func (h *AuthHandler) ExchangeSession(c *gin.Context) {
	var req dtos.SessionExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, "session_id required")
		return
	}

	session, user, err := h.Auth.ExchangeSession(c.Request.Context(), req.SessionID)
	switch {
	case err == services.ErrInvalidSession:
		detail(c, http.StatusUnauthorized, "Invalid session")
		return
	case err != nil:
		log.Error().Err(err).Msg("session exchange failed")
		detail(c, http.StatusInternalServerError, "Authentication service unavailable")
		return
	}

	auth.SetSessionCookie(c, session.SessionToken, session.ExpiresAt.Sub(session.CreatedAt))
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// Me is GET /auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	c.JSON(http.StatusOK, auth.CurrentUser(c))
}

// Logout is POST /auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if cookie, err := c.Cookie(auth.SessionCookie); err == nil {
		if err := h.Auth.DeleteSession(cookie); err != nil {
			log.Warn().Err(err).Msg("delete session on logout")
		}
	}
	auth.ClearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// GoogleLogin is GET /auth/google
func (h *AuthHandler) GoogleLogin(c *gin.Context) {
	if h.Google == nil || !h.Google.Configured() {
		detail(c, http.StatusNotImplemented, "Google OAuth is not configured")
		return
	}
	state := uuid.NewString()
	c.SetCookie("oauth_state", state, 600, "/", "", true, true)
	c.Redirect(http.StatusTemporaryRedirect, h.Google.AuthURL(state))
}

// GoogleCallback is GET /auth/google/callback
func (h *AuthHandler) GoogleCallback(c *gin.Context) {
	if h.Google == nil || !h.Google.Configured() {
		detail(c, http.StatusNotImplemented, "Google OAuth is not configured")
		return
	}

	state, err := c.Cookie("oauth_state")
	if err != nil || state == "" || state != c.Query("state") {
		detail(c, http.StatusBadRequest, "Invalid OAuth state")
		return
	}
	code := c.Query("code")
	if code == "" {
		detail(c, http.StatusBadRequest, "Missing authorization code")
		return
	}

	identity, err := h.Google.Exchange(c.Request.Context(), code)
	if err != nil {
		log.Error().Err(err).Msg("google code exchange failed")
		detail(c, http.StatusUnauthorized, "Invalid session")
		return
	}

	var picture *string
	if identity.Picture != "" {
		picture = &identity.Picture
	}
	user, err := h.Auth.UpsertOAuthUser(identity.Email, identity.Name, picture)
	if err != nil {
		log.Error().Err(err).Msg("oauth user upsert failed")
		detail(c, http.StatusInternalServerError, "Login failed")
		return
	}

	session, err := h.Auth.CreateSession(user.UserID)
	if err != nil {
		log.Error().Err(err).Msg("create session failed")
		detail(c, http.StatusInternalServerError, "Login failed")
		return
	}

	auth.SetSessionCookie(c, session.SessionToken, session.ExpiresAt.Sub(session.CreatedAt))
	c.Redirect(http.StatusTemporaryRedirect, h.FrontendURL)
}
