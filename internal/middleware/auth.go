package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/paintrack/backend/internal/models"
)

const (
	// SessionCookie is the cookie that carries the session token for browser
	// clients.
	SessionCookie = "session"

	ContextUserID    = "user_id"
	ContextSessionID = "session_id"
)

// SessionResolver is an interface for resolving session tokens
type SessionResolver interface {
	Authenticate(ctx context.Context, token string) (*models.Session, error)
}

// AuthMiddleware creates a middleware that requires a live session, taken from
// the Authorization header or the session cookie
func AuthMiddleware(resolver SessionResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := sessionToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing session token"})
			c.Abort()
			return
		}

		sess, err := resolver.Authenticate(c.Request.Context(), token)
		if err != nil {
			RespondError(c, err)
			c.Abort()
			return
		}

		// Store session info in context
		c.Set(ContextUserID, sess.UserID)
		c.Set(ContextSessionID, sess.ID)
		c.Next()
	}
}

func sessionToken(c *gin.Context) (string, bool) {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.Split(header, " ")
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			return "", false
		}
		return parts[1], true
	}
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie, true
	}
	return "", false
}

// UserID returns the authenticated user's id set by AuthMiddleware.
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(ContextUserID)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}
