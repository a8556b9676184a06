package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/jobhub/jobhub/internal/auth"
	"github.com/jobhub/jobhub/internal/services"
)

type InsightHandler struct {
	Insights *services.InsightService
}

func NewInsightHandler(insights *services.InsightService) *InsightHandler {
	return &InsightHandler{Insights: insights}
}

// Summary is GET /insights/summary
func (h *InsightHandler) Summary(c *gin.Context) {
	user := auth.CurrentUser(c)

	summary, err := h.Insights.Summary(user.UserID)
	if err != nil {
		log.Error().Err(err).Msg("insights summary failed")
		detail(c, http.StatusInternalServerError, "Failed to load insights")
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Timeseries is GET /insights/timeseries
func (h *InsightHandler) Timeseries(c *gin.Context) {
	user := auth.CurrentUser(c)

	rng := c.DefaultQuery("range", "week")
	switch rng {
	case "day", "week", "month", "year":
	default:
		detail(c, http.StatusBadRequest, "range must be one of day, week, month, year")
		return
	}

	series, err := h.Insights.Timeseries(user.UserID, rng)
	if err != nil {
		log.Error().Err(err).Msg("insights timeseries failed")
		detail(c, http.StatusInternalServerError, "Failed to load insights")
		return
	}
	c.JSON(http.StatusOK, series)
}

// Funnel is GET /insights/funnel
func (h *InsightHandler) Funnel(c *gin.Context) {
	user := auth.CurrentUser(c)

	funnel, err := h.Insights.Funnel(user.UserID)
	if err != nil {
		log.Error().Err(err).Msg("insights funnel failed")
		detail(c, http.StatusInternalServerError, "Failed to load insights")
		return
	}
	c.JSON(http.StatusOK, funnel)
}

// Table is GET /insights/table
func (h *InsightHandler) Table(c *gin.Context) {
	user := auth.CurrentUser(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	table, err := h.Insights.Table(user.UserID, page, limit)
	if err != nil {
		log.Error().Err(err).Msg("insights table failed")
		detail(c, http.StatusInternalServerError, "Failed to load insights")
		return
	}
	c.JSON(http.StatusOK, table)
}
