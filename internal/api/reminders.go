package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paintrack/backend/internal/middleware"
	"github.com/paintrack/backend/internal/models"
	"github.com/paintrack/backend/internal/storage"
	"github.com/paintrack/backend/internal/types"
)

type ReminderHandler struct {
	store storage.Store
}

func NewReminderHandler(store storage.Store) *ReminderHandler {
	return &ReminderHandler{store: store}
}

func (h *ReminderHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/reminders", h.GetSettings)
	router.PUT("/reminders", h.UpdateSettings)
}

func (h *ReminderHandler) GetSettings(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	settings, err := h.store.GetReminderSettings(c.Request.Context(), userID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}

func (h *ReminderHandler) UpdateSettings(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.UpdateRemindersRequest
	if !bindJSON(c, &req) {
		return
	}

	settings, err := h.store.UpdateReminderSettings(c.Request.Context(), userID, &models.ReminderPatch{
		PainLogReminders:    req.PainLogReminders,
		MedicationReminders: req.MedicationReminders,
		WeeklySummary:       req.WeeklySummary,
		Frequency:           req.Frequency,
		PreferredTime:       req.PreferredTime,
		Style:               req.Style,
	})
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, settings)
}
