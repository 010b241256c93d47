package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/paintrack/backend/internal/models"
	"github.com/paintrack/backend/internal/storage"
)

var testNow = time.Date(2024, time.March, 10, 14, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// newMemoryFacade returns a Facade with no database behind it, so every call
// is served by the in-memory store.
func newMemoryFacade(t *testing.T) *storage.Facade {
	t.Helper()
	f := storage.NewFacade(storage.Options{
		Fallback: storage.NewMemoryStore().WithClock(fixedClock, time.UTC),
		Logger:   zaptest.NewLogger(t),
	})
	require.NoError(t, f.Init(context.Background()))
	t.Cleanup(func() { _ = f.Shutdown(context.Background()) })
	return f
}

func logEntry(t *testing.T, s storage.Store, userID uint, at time.Time, intensity int, triggers ...string) {
	t.Helper()
	_, err := s.CreatePainEntry(context.Background(), &models.PainEntry{
		UserID:     userID,
		RecordedAt: at,
		Intensity:  intensity,
		Locations:  []string{"lower back"},
		Triggers:   triggers,
	})
	require.NoError(t, err)
}
