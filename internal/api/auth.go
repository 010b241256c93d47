package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/paintrack/backend/internal/middleware"
	"github.com/paintrack/backend/internal/models"
	"github.com/paintrack/backend/internal/service"
	"github.com/paintrack/backend/internal/types"
)

// AuthHandler handles registration and session endpoints
type AuthHandler struct {
	authService   service.IAuthService
	secureCookies bool
}

// NewAuthHandler creates a new AuthHandler. secureCookies marks the session
// cookie Secure and should be set behind TLS.
func NewAuthHandler(authService service.IAuthService, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		secureCookies: secureCookies,
	}
}

// RegisterRoutes registers the public auth routes. authed wraps the routes
// that need a session.
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup, authed gin.HandlerFunc, limiter gin.HandlerFunc) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", limiter, h.Register)
		auth.POST("/login", limiter, h.Login)
		auth.POST("/logout", authed, h.Logout)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, sess, err := h.authService.Register(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	h.setSessionCookie(c, sess)
	c.JSON(http.StatusCreated, types.AuthResponse{Token: sess.ID, ExpiresAt: sess.ExpiresAt, User: user})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	user, sess, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		middleware.RespondError(c, err)
		return
	}

	h.setSessionCookie(c, sess)
	c.JSON(http.StatusOK, types.AuthResponse{Token: sess.ID, ExpiresAt: sess.ExpiresAt, User: user})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), c.GetString(middleware.ContextSessionID)); err != nil {
		middleware.RespondError(c, err)
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, "", -1, "/", "", h.secureCookies, true)
	c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, sess *models.Session) {
	maxAge := int(sess.ExpiresAt.Sub(sess.CreatedAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, sess.ID, maxAge, "/", "", h.secureCookies, true)
}
