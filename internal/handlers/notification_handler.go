package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jobhub/jobhub/internal/auth"
	"github.com/jobhub/jobhub/internal/services"
)

type NotificationHandler struct {
	Notifications *services.NotificationService
}

func NewNotificationHandler(notifications *services.NotificationService) *NotificationHandler {
	return &NotificationHandler{Notifications: notifications}
}

// List is GET /notifications
func (h *NotificationHandler) List(c *gin.Context) {
	user := auth.CurrentUser(c)
	unreadOnly := c.Query("unread") == "true"

	list, err := h.Notifications.List(user.UserID, unreadOnly)
	if err != nil {
		log.Error().Err(err).Msg("list notifications failed")
		detail(c, http.StatusInternalServerError, "Failed to load notifications")
		return
	}
	c.JSON(http.StatusOK, gin.H{"notifications": list})
}

// MarkRead is POST /notifications/:id/read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	user := auth.CurrentUser(c)

	err := h.Notifications.MarkRead(user.UserID, c.Param("id"))
	switch {
	case err == services.ErrNotificationNotFound:
		detail(c, http.StatusNotFound, "Notification not found")
	case err != nil:
		log.Error().Err(err).Msg("mark notification read failed")
		detail(c, http.StatusInternalServerError, "Failed to update notification")
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Notification marked read"})
	}
}

// MarkAllRead is POST /notifications/read-all
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	user := auth.CurrentUser(c)

	updated, err := h.Notifications.MarkAllRead(user.UserID)
	if err != nil {
		log.Error().Err(err).Msg("mark all notifications read failed")
		detail(c, http.StatusInternalServerError, "Failed to update notifications")
		return
	}
	c.JSON(http.StatusOK, gin.H{"updated": updated})
}
