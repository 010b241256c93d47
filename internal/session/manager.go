package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/paintrack/backend/internal/models"
)

// Manager issues and resolves opaque session tokens.
type Manager struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
	log   *zap.Logger
}

func NewManager(store Store, ttl time.Duration, log *zap.Logger) *Manager {
	if log == nil {
		log = zap.NewNop()
	}
	return &Manager{store: store, ttl: ttl, now: time.Now, log: log.Named("session")}
}

// WithClock overrides the time source.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Create starts a session for userID.
func (m *Manager) Create(ctx context.Context, userID uint) (*models.Session, error) {
	now := m.now()
	sess := &models.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		ExpiresAt: now.Add(m.ttl),
		CreatedAt: now,
	}
	if err := m.store.Create(ctx, sess); err != nil {
		return nil, err
	}
	return sess, nil
}

// Resolve returns the live session for id. Expired sessions are removed and
// reported as ErrNotFound.
func (m *Manager) Resolve(ctx context.Context, id string) (*models.Session, error) {
	if id == "" {
		return nil, ErrNotFound
	}
	sess, err := m.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if sess.Expired(m.now()) {
		_ = m.store.Delete(ctx, id)
		return nil, ErrNotFound
	}
	return sess, nil
}

func (m *Manager) Revoke(ctx context.Context, id string) error {
	return m.store.Delete(ctx, id)
}

// RunJanitor deletes expired sessions every interval until ctx is done.
func (m *Manager) RunJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := m.store.DeleteExpired(ctx, m.now())
			if err != nil {
				m.log.Warn("failed to delete expired sessions", zap.Error(err))
				continue
			}
			if n > 0 {
				m.log.Debug("deleted expired sessions", zap.Int64("count", n))
			}
		}
	}
}
