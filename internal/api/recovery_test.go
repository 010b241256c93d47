package api_test

import (
	"context"
	"errors"
	"net/http"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paintrack/backend/internal/models"
	"github.com/paintrack/backend/internal/storage"
	"github.com/paintrack/backend/internal/testhelpers"
	"github.com/paintrack/backend/internal/types"
)

// switchablePrimary is a SQLite primary store whose health checks fail while
// down is set.
type switchablePrimary struct {
	*storage.PrimaryStore
	down atomic.Bool
}

func (p *switchablePrimary) Ping(ctx context.Context) error {
	if p.down.Load() {
		return &storage.UnavailableError{Op: "ping", Err: errors.New("connection refused")}
	}
	return p.PrimaryStore.Ping(ctx)
}

func shareLink(t *testing.T, a *testAPI, token string) types.ShareLink {
	t.Helper()
	w := PerformRequestWithToken(a.Router, http.MethodPost, "/api/v1/reports/share", nil, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[types.ShareLink](t, w)
}

func TestIdentitiesDoNotCrossStorageRecovery(t *testing.T) {
	primary := &switchablePrimary{
		PrimaryStore: storage.NewPrimaryStore(testhelpers.SetupSQLiteDB(t)).WithClock(nil, time.UTC),
	}
	a := setupTestAPIWithStorage(t, storage.Options{
		Dialer:  func(context.Context) (storage.Primary, error) { return primary, nil },
		Backoff: storage.Backoff{BaseDelay: 5 * time.Millisecond, MaxDelay: 20 * time.Millisecond, MaxAttempts: 1000},
		Jitter:  func() float64 { return 0 },
	}, nil)
	require.Equal(t, storage.ModeHealthy, a.Store.Mode())

	bob := registerUser(t, a.Router, "bob", "secret1")
	w := PerformRequestWithToken(a.Router, http.MethodPost, "/api/v1/pain", map[string]any{
		"intensity": 7,
		"locations": []string{"neck"},
		"notes":     "bob's private note",
	}, bob.Token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	bobLink := shareLink(t, a, bob.Token)

	// database lost
	primary.down.Store(true)
	a.Store.ReportFailure("test", errors.New("connection reset by peer"))
	require.Equal(t, storage.ModeDegraded, a.Store.Mode())

	eve := registerUser(t, a.Router, "eve", "secret1")
	assert.GreaterOrEqual(t, eve.User.ID, storage.FallbackUserIDBase)
	eveLink := shareLink(t, a, eve.Token)

	w = PerformRequestWithToken(a.Router, http.MethodGet, "/api/v1/profile", nil, bob.Token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	w = PerformRequest(a.Router, http.MethodGet, bobLink.Path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	// database back
	primary.down.Store(false)
	require.Eventually(t, func() bool { return a.Store.Mode() == storage.ModeHealthy }, 2*time.Second, 5*time.Millisecond)

	for _, path := range []string{"/api/v1/profile", "/api/v1/pain", "/api/v1/medications", "/api/v1/reminders"} {
		w = PerformRequestWithToken(a.Router, http.MethodGet, path, nil, eve.Token)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
	w = PerformRequest(a.Router, http.MethodGet, eveLink.Path, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = PerformRequestWithToken(a.Router, http.MethodGet, "/api/v1/profile", nil, bob.Token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "bob", decode[models.User](t, w).Username)

	w = PerformRequestWithToken(a.Router, http.MethodGet, "/api/v1/pain", nil, bob.Token)
	require.Equal(t, http.StatusOK, w.Code)
	entries := decode[[]models.PainEntry](t, w)
	require.Len(t, entries, 1)
	assert.Equal(t, bob.User.ID, entries[0].UserID)

	w = PerformRequest(a.Router, http.MethodGet, bobLink.Path, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "bob", decode[types.Report](t, w).User.Username)
}
