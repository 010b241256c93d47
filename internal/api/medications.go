package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paintrack/backend/internal/middleware"
	"github.com/paintrack/backend/internal/models"
	"github.com/paintrack/backend/internal/storage"
	"github.com/paintrack/backend/internal/types"
)

type MedicationHandler struct {
	store storage.Store
}

func NewMedicationHandler(store storage.Store) *MedicationHandler {
	return &MedicationHandler{store: store}
}

func (h *MedicationHandler) RegisterRoutes(router *gin.RouterGroup) {
	meds := router.Group("/medications")
	{
		meds.POST("", h.CreateMedication)
		meds.GET("", h.ListMedications)
		meds.GET("/today", h.Today)
		meds.POST("/:id/take", h.TakeDose)
	}
}

func (h *MedicationHandler) CreateMedication(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.CreateMedicationRequest
	if !bindJSON(c, &req) {
		return
	}

	med := &models.Medication{
		UserID:    userID,
		Name:      req.Name,
		Dosage:    req.Dosage,
		Frequency: req.Frequency,
		TimeOfDay: req.TimeOfDay,
		Active:    req.Active == nil || *req.Active,
	}
	created, err := h.store.CreateMedication(c.Request.Context(), med)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *MedicationHandler) ListMedications(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	meds, err := h.store.GetMedicationsByUser(c.Request.Context(), userID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, meds)
}

func (h *MedicationHandler) Today(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	statuses, err := h.store.GetTodayMedications(c.Request.Context(), userID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, statuses)
}

// TakeDose marks one of today's doses of the caller's own medication as taken.
func (h *MedicationHandler) TakeDose(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}
	medID, err := idParam(c, "id")
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	var req types.TakeMedicationRequest
	if !bindJSON(c, &req) {
		return
	}

	ctx := c.Request.Context()
	meds, err := h.store.GetMedicationsByUser(ctx, userID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	if !ownsMedication(meds, medID) {
		middleware.RespondError(c, storage.ErrNotFound)
		return
	}

	status, err := h.store.TakeMedication(ctx, medID, *req.DoseIndex)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func ownsMedication(meds []models.Medication, id uint) bool {
	for _, m := range meds {
		if m.ID == id {
			return true
		}
	}
	return false
}
