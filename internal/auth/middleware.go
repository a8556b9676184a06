package auth

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/jobhub/jobhub/internal/models"
)

const SessionCookie = "session_token"

const userKey = "current_user"

// RequireUser resolves the caller from the session cookie first, then the
// bearer header, matching what browser and API clients send. Unauthenticated
// requests get a 401 with a detail message.
func RequireUser(db *gorm.DB, issuer *TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		if user := resolveUser(c, db, issuer); user != nil {
			c.Set(userKey, user)
			c.Next()
			return
		}
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
	}
}

func resolveUser(c *gin.Context, db *gorm.DB, issuer *TokenIssuer) *models.User {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		var session models.Session
		err := db.Where("session_token = ?", cookie).First(&session).Error
		if err == nil && session.ExpiresAt.After(time.Now().UTC()) {
			var user models.User
			if db.Where("user_id = ?", session.UserID).First(&user).Error == nil {
				return &user
			}
		}
	}

	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		claims, err := issuer.Verify(strings.TrimPrefix(header, "Bearer "))
		if err == nil {
			var user models.User
			if db.Where("user_id = ?", claims.UserID).First(&user).Error == nil {
				return &user
			}
		}
	}
	return nil
}

// CurrentUser pulls the authenticated user set by RequireUser.
func CurrentUser(c *gin.Context) *models.User {
	v, ok := c.Get(userKey)
	if !ok {
		return nil
	}
	user, _ := v.(*models.User)
	return user
}

// SetSessionCookie attaches the 7-day session cookie the OAuth flows use.
func SetSessionCookie(c *gin.Context, token string, maxAge time.Duration) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(SessionCookie, token, int(maxAge.Seconds()), "/", "", true, true)
}

// ClearSessionCookie removes the session cookie on logout.
func ClearSessionCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteNoneMode)
	c.SetCookie(SessionCookie, "", -1, "/", "", true, true)
}
