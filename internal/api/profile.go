package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/paintrack/backend/internal/middleware"
	"github.com/paintrack/backend/internal/models"
	"github.com/paintrack/backend/internal/storage"
	"github.com/paintrack/backend/internal/types"
)

type ProfileHandler struct {
	store storage.Store
}

func NewProfileHandler(store storage.Store) *ProfileHandler {
	return &ProfileHandler{store: store}
}

func (h *ProfileHandler) RegisterRoutes(router *gin.RouterGroup) {
	profile := router.Group("/profile")
	{
		profile.GET("", h.GetProfile)
		profile.PUT("", h.UpdateProfile)
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	user, err := h.store.GetUser(c.Request.Context(), userID)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := currentUser(c)
	if !ok {
		return
	}

	var req types.UpdateProfileRequest
	if !bindJSON(c, &req) {
		return
	}

	patch := &models.UserPatch{
		FullName:           req.FullName,
		Email:              req.Email,
		Phone:              req.Phone,
		Gender:             req.Gender,
		MedicalHistory:     req.MedicalHistory,
		Allergies:          req.Allergies,
		CurrentMedications: req.CurrentMedications,
	}
	if req.DateOfBirth != nil {
		dob, err := time.Parse(time.DateOnly, *req.DateOfBirth)
		if err != nil {
			middleware.RespondError(c, &storage.ValidationError{Field: "date_of_birth", Message: "must be formatted as YYYY-MM-DD"})
			return
		}
		patch.DateOfBirth = &dob
	}

	user, err := h.store.UpdateUser(c.Request.Context(), userID, patch)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
