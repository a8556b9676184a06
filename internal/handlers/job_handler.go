package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jobhub/jobhub/internal/auth"
	"github.com/jobhub/jobhub/internal/dtos"
	"github.com/jobhub/jobhub/internal/services"
)

type JobHandler struct {
	Jobs *services.JobService
	Sync *services.SyncService
}

func NewJobHandler(jobs *services.JobService, sync *services.SyncService) *JobHandler {
	return &JobHandler{Jobs: jobs, Sync: sync}
}

// Search is GET /jobs/search
func (h *JobHandler) Search(c *gin.Context) {
	var params dtos.JobSearchParams
	if err := c.ShouldBindQuery(&params); err != nil {
		detail(c, http.StatusBadRequest, "Invalid query: "+err.Error())
		return
	}

	jobs, err := h.Jobs.Search(params)
	if err != nil {
		log.Error().Err(err).Msg("job search failed")
		detail(c, http.StatusInternalServerError, "Search failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs, "page": params.Page, "limit": params.Limit})
}

// Recommended is GET /jobs/recommended
func (h *JobHandler) Recommended(c *gin.Context) {
	user := auth.CurrentUser(c)
	sortBy := c.DefaultQuery("sort_by", "best_match")
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	jobs, err := h.Jobs.Recommended(user.UserID, sortBy, page, limit)
	if err != nil {
		log.Error().Err(err).Msg("recommendations failed")
		detail(c, http.StatusInternalServerError, "Failed to load recommendations")
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs, "page": page, "limit": limit})
}

// Startups is GET /jobs/startups/list
func (h *JobHandler) Startups(c *gin.Context) {
	startups, err := h.Jobs.Startups()
	if err != nil {
		log.Error().Err(err).Msg("startup list failed")
		detail(c, http.StatusInternalServerError, "Failed to load startups")
		return
	}
	c.JSON(http.StatusOK, gin.H{"startups": startups})
}

// StartupJobs is GET /jobs/startups/:company/jobs
func (h *JobHandler) StartupJobs(c *gin.Context) {
	jobs, err := h.Jobs.StartupJobs(c.Param("company"))
	if err != nil {
		log.Error().Err(err).Msg("startup jobs failed")
		detail(c, http.StatusInternalServerError, "Failed to load startup jobs")
		return
	}
	c.JSON(http.StatusOK, gin.H{"jobs": jobs})
}

// Get is GET /jobs/:id
func (h *JobHandler) Get(c *gin.Context) {
	job, err := h.Jobs.GetByID(c.Param("id"))
	switch {
	case err == services.ErrJobNotFound:
		detail(c, http.StatusNotFound, "Job not found")
	case err != nil:
		log.Error().Err(err).Msg("get job failed")
		detail(c, http.StatusInternalServerError, "Failed to load job")
	default:
		c.JSON(http.StatusOK, job)
	}
}

// TriggerSync is POST /jobs/sync
func (h *JobHandler) TriggerSync(c *gin.Context) {
	result, err := h.Sync.Sync(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("manual job sync failed")
		detail(c, http.StatusBadGateway, "Job sync failed")
		return
	}
	c.JSON(http.StatusOK, result)
}
