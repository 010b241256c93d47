package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paintrack/backend/internal/middleware"
	"github.com/paintrack/backend/internal/models"
	"github.com/paintrack/backend/internal/storage"
	"github.com/paintrack/backend/internal/types"
)

const (
	defaultRecentLimit = 10
	maxRecentLimit     = 100
	defaultTrendDays   = 30
	maxTrendDays       = 365
)

// PainHandler handles pain entry logging and history
type PainHandler struct {
	store storage.Store
}

func NewPainHandler(store storage.Store) *PainHandler {
	return &PainHandler{store: store}
}

// RegisterRoutes registers the pain routes. limiter guards entry creation.
func (h *PainHandler) RegisterRoutes(router *gin.RouterGroup, limiter gin.HandlerFunc) {
	pain := router.Group("/pain")
	{
		pain.POST("", limiter, h.CreateEntry)
		pain.GET("", h.ListEntries)
		pain.GET("/recent", h.RecentEntries)
		pain.GET("/trend", h.Trend)
	}
}

func (h *PainHandler) CreateEntry(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.CreatePainEntryRequest
	if !bindJSON(c, &req) {
		return
	}

	entry := &models.PainEntry{
		UserID:          userID,
		Intensity:       *req.Intensity,
		Locations:       req.Locations,
		Characteristics: req.Characteristics,
		Triggers:        req.Triggers,
		Notes:           req.Notes,
		MedicationTaken: req.MedicationTaken,
		MedicationIDs:   req.MedicationIDs,
	}
	if req.RecordedAt != nil {
		entry.RecordedAt = *req.RecordedAt
	}

	created, err := h.store.CreatePainEntry(c.Request.Context(), entry)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *PainHandler) ListEntries(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	entries, err := h.store.GetPainEntriesByUser(c.Request.Context(), userID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *PainHandler) RecentEntries(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	limit, err := intQuery(c, "limit", defaultRecentLimit, 0, maxRecentLimit)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	entries, err := h.store.GetRecentPainEntries(c.Request.Context(), userID, limit)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *PainHandler) Trend(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	days, err := intQuery(c, "days", defaultTrendDays, 1, maxTrendDays)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	entries, err := h.store.GetPainTrend(c.Request.Context(), userID, days)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}
