package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paintrack/backend/internal/middleware"
	"github.com/paintrack/backend/internal/service"
)

type InsightsHandler struct {
	insights service.IInsightsService
}

func NewInsightsHandler(insights service.IInsightsService) *InsightsHandler {
	return &InsightsHandler{insights: insights}
}

func (h *InsightsHandler) RegisterRoutes(router *gin.RouterGroup) {
	insights := router.Group("/insights")
	{
		insights.GET("/triggers", h.Triggers)
		insights.GET("/patterns", h.Patterns)
		insights.GET("/summary", h.Summary)
		insights.GET("/recommendations", h.Recommendations)
		insights.GET("/resources", h.Resources)
	}
}

func (h *InsightsHandler) Triggers(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	stats, err := h.insights.Triggers(c.Request.Context(), userID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *InsightsHandler) Patterns(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	patterns, err := h.insights.Patterns(c.Request.Context(), userID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, patterns)
}

func (h *InsightsHandler) Summary(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	days, err := intQuery(c, "days", defaultTrendDays, 1, maxTrendDays)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	summary, err := h.insights.Summary(c.Request.Context(), userID, days)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *InsightsHandler) Recommendations(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	recs, err := h.insights.Recommendations(c.Request.Context(), userID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, recs)
}

func (h *InsightsHandler) Resources(c *gin.Context) {
	c.JSON(http.StatusOK, h.insights.Resources())
}
