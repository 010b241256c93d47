package session_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/paintrack/backend/internal/models"
	"github.com/paintrack/backend/internal/session"
	"github.com/paintrack/backend/internal/testhelpers"
)

var t0 = time.Date(2024, time.March, 10, 9, 0, 0, 0, time.UTC)

func TestManager_Lifecycle(t *testing.T) {
	now := t0
	m := session.NewManager(session.NewMemoryStore(), time.Hour, nil).WithClock(func() time.Time { return now })
	ctx := context.Background()

	sess, err := m.Create(ctx, 7)
	require.NoError(t, err)
	assert.Len(t, sess.ID, 36)
	assert.Equal(t, t0.Add(time.Hour), sess.ExpiresAt)

	got, err := m.Resolve(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, uint(7), got.UserID)

	require.NoError(t, m.Revoke(ctx, sess.ID))
	_, err = m.Resolve(ctx, sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)

	_, err = m.Resolve(ctx, "")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestManager_ExpiredSessionsAreRemoved(t *testing.T) {
	now := t0
	store := session.NewMemoryStore()
	m := session.NewManager(store, time.Hour, nil).WithClock(func() time.Time { return now })
	ctx := context.Background()

	sess, err := m.Create(ctx, 1)
	require.NoError(t, err)

	now = t0.Add(time.Hour)
	_, err = m.Resolve(ctx, sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)

	_, err = store.Get(ctx, sess.ID)
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestGormStore(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	store := session.NewGormStore(db)
	ctx := context.Background()

	live := &models.Session{ID: "live", UserID: 1, ExpiresAt: t0.Add(time.Hour), CreatedAt: t0}
	stale := &models.Session{ID: "stale", UserID: 1, ExpiresAt: t0.Add(-time.Hour), CreatedAt: t0}
	require.NoError(t, store.Create(ctx, live))
	require.NoError(t, store.Create(ctx, stale))

	got, err := store.Get(ctx, "live")
	require.NoError(t, err)
	assert.Equal(t, uint(1), got.UserID)

	n, err := store.DeleteExpired(ctx, t0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	_, err = store.Get(ctx, "stale")
	assert.ErrorIs(t, err, session.ErrNotFound)

	require.NoError(t, store.Delete(ctx, "live"))
	_, err = store.Get(ctx, "live")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestDual_FollowsDatabaseAvailability(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	var up atomic.Bool
	dual := session.NewDual(func() (*gorm.DB, bool) { return db, up.Load() }, nil, nil)
	ctx := context.Background()

	// written while the database is down
	offline := &models.Session{ID: "offline", UserID: 1, ExpiresAt: t0.Add(time.Hour)}
	require.NoError(t, dual.Create(ctx, offline))

	up.Store(true)
	online := &models.Session{ID: "online", UserID: 1, ExpiresAt: t0.Add(time.Hour)}
	require.NoError(t, dual.Create(ctx, online))

	_, err := session.NewGormStore(db).Get(ctx, "online")
	require.NoError(t, err)
	_, err = session.NewGormStore(db).Get(ctx, "offline")
	assert.ErrorIs(t, err, session.ErrNotFound)

	// in-memory sessions name in-memory users, so they do not resolve while
	// the database is serving
	_, err = dual.Get(ctx, "offline")
	assert.ErrorIs(t, err, session.ErrNotFound)
	got, err := dual.Get(ctx, "online")
	require.NoError(t, err)
	assert.Equal(t, "online", got.ID)

	// and come back if the database is lost again
	up.Store(false)
	_, err = dual.Get(ctx, "offline")
	require.NoError(t, err)
	_, err = dual.Get(ctx, "online")
	assert.ErrorIs(t, err, session.ErrNotFound)

	require.NoError(t, dual.Delete(ctx, "offline"))
	_, err = dual.Get(ctx, "offline")
	assert.ErrorIs(t, err, session.ErrNotFound)
}

func TestDual_ReportsDatabaseFailures(t *testing.T) {
	db := testhelpers.SetupSQLiteDB(t)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	var reported []string
	dual := session.NewDual(
		func() (*gorm.DB, bool) { return db, true },
		func(op string, _ error) { reported = append(reported, op) },
		nil,
	)
	ctx := context.Background()

	sess := &models.Session{ID: "s1", UserID: 1, ExpiresAt: t0.Add(time.Hour)}
	require.NoError(t, dual.Create(ctx, sess))

	got, err := dual.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "s1", got.ID)
	assert.Equal(t, []string{"create session", "get session"}, reported)
}

func TestManager_RunJanitor(t *testing.T) {
	store := session.NewMemoryStore()
	require.NoError(t, store.Create(context.Background(), &models.Session{ID: "old", ExpiresAt: time.Now().Add(-time.Minute)}))
	m := session.NewManager(store, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.RunJanitor(ctx, 5*time.Millisecond)
		close(done)
	}()

	require.Eventually(t, func() bool {
		_, err := store.Get(context.Background(), "old")
		return err != nil
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}
