package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jobhub/jobhub/internal/auth"
	"github.com/jobhub/jobhub/internal/dtos"
	"github.com/jobhub/jobhub/internal/services"
)

type ApplicationHandler struct {
	Applications *services.ApplicationService
}

func NewApplicationHandler(apps *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{Applications: apps}
}

// Create is POST /applications
func (h *ApplicationHandler) Create(c *gin.Context) {
	user := auth.CurrentUser(c)

	var req dtos.ApplicationCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	app, err := h.Applications.Create(user.UserID, req)
	switch {
	case err == services.ErrJobNotFound:
		detail(c, http.StatusNotFound, "Job not found")
	case err == services.ErrAlreadyApplied:
		detail(c, http.StatusBadRequest, "Already applied to this job")
	case err != nil:
		log.Error().Err(err).Msg("create application failed")
		detail(c, http.StatusInternalServerError, "Failed to create application")
	default:
		c.JSON(http.StatusCreated, app)
	}
}

// List is GET /applications
func (h *ApplicationHandler) List(c *gin.Context) {
	user := auth.CurrentUser(c)

	apps, err := h.Applications.List(user.UserID, c.Query("status"))
	if err != nil {
		log.Error().Err(err).Msg("list applications failed")
		detail(c, http.StatusInternalServerError, "Failed to load applications")
		return
	}
	c.JSON(http.StatusOK, gin.H{"applications": apps, "total": len(apps)})
}

// Get is GET /applications/:id
func (h *ApplicationHandler) Get(c *gin.Context) {
	user := auth.CurrentUser(c)

	app, err := h.Applications.Get(user.UserID, c.Param("id"))
	switch {
	case err == services.ErrApplicationNotFound:
		detail(c, http.StatusNotFound, "Application not found")
	case err != nil:
		log.Error().Err(err).Msg("get application failed")
		detail(c, http.StatusInternalServerError, "Failed to load application")
	default:
		c.JSON(http.StatusOK, app)
	}
}

// UpdateStatus is PATCH /applications/:id/status
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	user := auth.CurrentUser(c)

	var req dtos.ApplicationStatusUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	app, err := h.Applications.UpdateStatus(user.UserID, c.Param("id"), req)
	switch {
	case err == services.ErrInvalidStatus:
		detail(c, http.StatusBadRequest, "Invalid application status")
	case err == services.ErrApplicationNotFound:
		detail(c, http.StatusNotFound, "Application not found")
	case err != nil:
		log.Error().Err(err).Msg("update application failed")
		detail(c, http.StatusInternalServerError, "Failed to update application")
	default:
		c.JSON(http.StatusOK, app)
	}
}

// Delete is DELETE /applications/:id
func (h *ApplicationHandler) Delete(c *gin.Context) {
	user := auth.CurrentUser(c)

	err := h.Applications.Delete(user.UserID, c.Param("id"))
	switch {
	case err == services.ErrApplicationNotFound:
		detail(c, http.StatusNotFound, "Application not found")
	case err != nil:
		log.Error().Err(err).Msg("delete application failed")
		detail(c, http.StatusInternalServerError, "Failed to delete application")
	default:
		c.JSON(http.StatusOK, gin.H{"message": "Application deleted"})
	}
}
