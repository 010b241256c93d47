package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/paintrack/backend/internal/middleware"
	"github.com/paintrack/backend/internal/storage"
)

// StatusReporter exposes the storage layer's health
type StatusReporter interface {
	Status() storage.Status
}

// HealthHandler reports whether the API is up and where data is being kept
type HealthHandler struct {
	storage StatusReporter
}

func NewHealthHandler(storage StatusReporter) *HealthHandler {
	return &HealthHandler{storage: storage}
}

// HealthCheck returns the health status of the API. A degraded storage layer
// still answers 200: the API keeps serving from memory.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	st := h.storage.Status()
	status := "healthy"
	if !st.Durable {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{
		"status":  status,
		"storage": st,
	})
}

// currentUser returns the authenticated user id, writing a 401 when the
// request carries none.
func currentUser(c *gin.Context) (uint, bool) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return 0, false
	}
	return id, true
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return false
	}
	return true
}

// intQuery parses an optional integer query parameter within [lo, hi].
func intQuery(c *gin.Context, name string, def, lo, hi int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || n > hi {
		return 0, &storage.ValidationError{
			Field:   name,
			Message: "must be an integer between " + strconv.Itoa(lo) + " and " + strconv.Itoa(hi),
		}
	}
	return n, nil
}

func idParam(c *gin.Context, name string) (uint, error) {
	n, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || n == 0 {
		return 0, &storage.ValidationError{Field: name, Message: "must be a positive integer"}
	}
	return uint(n), nil
}
