package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jobhub/jobhub/internal/auth"
	"github.com/jobhub/jobhub/internal/dtos"
	"github.com/jobhub/jobhub/internal/services"
)

type ProfileHandler struct {
	Profiles *services.ProfileService
	Resumes  *services.ResumeService
}

func NewProfileHandler(profiles *services.ProfileService, resumes *services.ResumeService) *ProfileHandler {
	return &ProfileHandler{Profiles: profiles, Resumes: resumes}
}

// Get is GET /profile/me
func (h *ProfileHandler) Get(c *gin.Context) {
	user := auth.CurrentUser(c)

	profile, err := h.Profiles.Get(user.UserID)
	switch {
	case err == services.ErrProfileNotFound:
		detail(c, http.StatusNotFound, "Profile not found")
	case err != nil:
		log.Error().Err(err).Msg("get profile failed")
		detail(c, http.StatusInternalServerError, "Failed to load profile")
	default:
		c.JSON(http.StatusOK, profile)
	}
}

// Update is PUT /profile/me
func (h *ProfileHandler) Update(c *gin.Context) {
	user := auth.CurrentUser(c)

	var req dtos.ProfileUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		detail(c, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	profile, err := h.Profiles.Update(user.UserID, req)
	switch {
	case err == services.ErrProfileNotFound:
		detail(c, http.StatusNotFound, "Profile not found")
	case err != nil:
		log.Error().Err(err).Msg("update profile failed")
		detail(c, http.StatusInternalServerError, "Failed to update profile")
	default:
		c.JSON(http.StatusOK, profile)
	}
}

// UploadResume is POST /profile/resume/upload
func (h *ProfileHandler) UploadResume(c *gin.Context) {
	user := auth.CurrentUser(c)

	file, err := c.FormFile("file")
	if err != nil {
		detail(c, http.StatusBadRequest, "No file provided")
		return
	}

	resume, err := h.Resumes.Upload(user.UserID, file)
	switch {
	case err == services.ErrResumeTooLarge:
		detail(c, http.StatusBadRequest, "Resume exceeds the 10MB size limit")
	case err == services.ErrResumeBadType:
		detail(c, http.StatusBadRequest, "Only PDF and plain-text resumes are accepted")
	case err != nil:
		log.Error().Err(err).Msg("resume upload failed")
		detail(c, http.StatusInternalServerError, "Failed to upload resume")
	default:
		c.JSON(http.StatusOK, resume)
	}
}

// ResumeStatus is GET /profile/resume/:id/status
func (h *ProfileHandler) ResumeStatus(c *gin.Context) {
	user := auth.CurrentUser(c)

	resume, err := h.Resumes.Get(user.UserID, c.Param("id"))
	switch {
	case err == services.ErrResumeNotFound:
		detail(c, http.StatusNotFound, "Resume not found")
	case err != nil:
		log.Error().Err(err).Msg("resume status failed")
		detail(c, http.StatusInternalServerError, "Failed to load resume")
	default:
		c.JSON(http.StatusOK, resume)
	}
}

// CompleteOnboarding is POST /profile/me/complete-onboarding
func (h *ProfileHandler) CompleteOnboarding(c *gin.Context) {
	user := auth.CurrentUser(c)

	if err := h.Profiles.CompleteOnboarding(user.UserID); err != nil {
		log.Error().Err(err).Msg("complete onboarding failed")
		detail(c, http.StatusInternalServerError, "Failed to complete onboarding")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Onboarding completed"})
}
