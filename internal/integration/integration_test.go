package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/paintrack/backend/config"
	"github.com/paintrack/backend/internal/middleware"
	"github.com/paintrack/backend/internal/models"
	"github.com/paintrack/backend/internal/server"
	"github.com/paintrack/backend/internal/testhelpers"
	"github.com/paintrack/backend/internal/types"
)

func testConfig(dsn string) *config.Config {
	return &config.Config{
		Env:                  config.Test,
		ServerHost:           "127.0.0.1",
		ServerPort:           "0",
		DatabaseURL:          dsn,
		DBMaxOpenConns:       5,
		DBConnectTimeout:     10 * time.Second,
		DBIdleTimeout:        30 * time.Second,
		ReconnectBaseDelay:   time.Second,
		ReconnectMaxDelay:    time.Minute,
		ReconnectMaxAttempts: 3,
		Timezone:             "UTC",
		SessionTTL:           time.Hour,
		ShareSecret:          "integration-share-secret",
		ShareTTL:             time.Hour,
		CORSOrigins:          []string{"http://localhost:3000"},
	}
}

func startServer(t *testing.T, cfg *config.Config) *server.Server {
	t.Helper()
	srv, err := server.New(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	return srv
}

func do(t *testing.T, h http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

// TestDataSurvivesRestart runs the API on PostgreSQL, restarts it and checks
// that accounts, sessions and history are still there.
func TestDataSurvivesRestart(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cfg := testConfig(testhelpers.SetupPostgres(t))

	first := startServer(t, cfg)
	h := first.Handler()

	w := do(t, h, http.MethodPost, "/api/v1/auth/register", map[string]string{"username": "alice", "password": "secret1"}, "")
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Empty(t, w.Header().Get(middleware.StorageDurableHeader))

	var auth types.AuthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &auth))

	w = do(t, h, http.MethodPost, "/api/v1/medications", map[string]any{
		"name":        "Ibuprofen",
		"time_of_day": []string{"Morning", "Evening"},
	}, auth.Token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var med models.Medication
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &med))

	w = do(t, h, http.MethodPost, fmt.Sprintf("/api/v1/medications/%d/take", med.ID), map[string]int{"dose_index": 0}, auth.Token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	for _, intensity := range []int{3, 6} {
		w = do(t, h, http.MethodPost, "/api/v1/pain", map[string]any{
			"intensity": intensity,
			"locations": []string{"lower back"},
			"triggers":  []string{"Stress"},
		}, auth.Token)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, first.Shutdown(ctx))

	second := startServer(t, cfg)
	t.Cleanup(func() { _ = second.Shutdown(context.Background()) })
	h = second.Handler()

	// the session was stored in the database
	w = do(t, h, http.MethodGet, "/api/v1/pain", nil, auth.Token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var entries []models.PainEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &entries))
	require.Len(t, entries, 2)
	assert.Equal(t, 6, entries[0].Intensity)

	w = do(t, h, http.MethodGet, "/api/v1/medications/today", nil, auth.Token)
	require.Equal(t, http.StatusOK, w.Code)
	var today []models.MedicationStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &today))
	require.Len(t, today, 1)
	assert.Equal(t, []bool{true, false}, today[0].TakenToday)

	w = do(t, h, http.MethodGet, "/api/v1/insights/triggers", nil, auth.Token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"name":"Stress","frequency":100}]`, w.Body.String())

	w = do(t, h, http.MethodPost, "/api/v1/auth/login", map[string]string{"username": "alice", "password": "secret1"}, "")
	assert.Equal(t, http.StatusOK, w.Code)
}
