package session

import (
	"context"
	"errors"
	"time"

	"github.com/paintrack/backend/internal/models"
)

// ErrNotFound is returned for unknown, revoked and expired sessions.
var ErrNotFound = errors.New("session not found")

// Store persists sessions.
type Store interface {
	Create(ctx context.Context, s *models.Session) error
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
