package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paintrack/backend/internal/middleware"
	"github.com/paintrack/backend/internal/service"
	"github.com/paintrack/backend/internal/types"
)

type ReportHandler struct {
	reports service.IReportService
}

func NewReportHandler(reports service.IReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// RegisterRoutes registers the report routes that need a session.
func (h *ReportHandler) RegisterRoutes(router *gin.RouterGroup) {
	reports := router.Group("/reports")
	{
		reports.GET("", h.GetReport)
		reports.POST("/share", h.Share)
		reports.POST("/archive", h.Archive)
	}
}

// RegisterPublicRoutes registers the share link route, which is authorized
// by the token itself.
func (h *ReportHandler) RegisterPublicRoutes(router *gin.RouterGroup) {
	router.GET("/shared/:token", h.GetShared)
}

func (h *ReportHandler) GetReport(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	days, err := intQuery(c, "days", service.DefaultReportDays, 1, maxTrendDays)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	report, err := h.reports.Build(c.Request.Context(), userID, days)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *ReportHandler) Share(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.ShareReportRequest
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	link, err := h.reports.ShareToken(c.Request.Context(), userID, req.Days)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, link)
}

func (h *ReportHandler) Archive(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	days, err := intQuery(c, "days", service.DefaultReportDays, 1, maxTrendDays)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	archived, err := h.reports.Archive(c.Request.Context(), userID, days)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, archived)
}

func (h *ReportHandler) GetShared(c *gin.Context) {
	report, err := h.reports.ResolveShare(c.Request.Context(), c.Param("token"))
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, report)
}
