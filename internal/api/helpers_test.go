package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"golang.org/x/crypto/bcrypt"

	"github.com/paintrack/backend/internal/router"
	"github.com/paintrack/backend/internal/service"
	"github.com/paintrack/backend/internal/session"
	"github.com/paintrack/backend/internal/storage"
	"github.com/paintrack/backend/internal/types"
)

const testShareSecret = "api-test-share-secret-0123456789abcdef"

type testAPI struct {
	Router *gin.Engine
	Store  *storage.Facade
}

// setupTestAPI builds the full router over a Facade with no database, so
// every request is served from the in-memory store.
func setupTestAPI(t *testing.T, archiver service.Archiver) *testAPI {
	t.Helper()
	return setupTestAPIWithStorage(t, storage.Options{}, archiver)
}

// setupTestAPIWithStorage builds the full router over a Facade created from
// opts, with sessions following the Facade's database like in production.
func setupTestAPIWithStorage(t *testing.T, opts storage.Options, archiver service.Archiver) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	log := zaptest.NewLogger(t)

	opts.Logger = log
	store := storage.NewFacade(opts)
	require.NoError(t, store.Init(context.Background()))
	t.Cleanup(func() { _ = store.Shutdown(context.Background()) })

	sessions := session.NewManager(session.NewDual(store.DB, store.ReportFailure, log), time.Hour, log)
	insights := service.NewInsightsService(store, time.UTC)

	r := router.SetupRouter(router.Dependencies{
		Store:       store,
		Auth:        service.NewAuthService(store, sessions, log).WithHashCost(bcrypt.MinCost),
		Insights:    insights,
		Reports:     service.NewReportService(store, insights, testShareSecret, 24*time.Hour, archiver, log),
		Logger:      log,
		CORSOrigins: []string{"http://localhost:3000"},
	})
	return &testAPI{Router: r, Store: store}
}

// PerformRequestWithToken sends body as JSON with a bearer token when token
// is set.
func PerformRequestWithToken(r http.Handler, method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func PerformRequest(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	return PerformRequestWithToken(r, method, path, body, "")
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

// registerUser creates an account and returns its session token.
func registerUser(t *testing.T, r http.Handler, username, password string) types.AuthResponse {
	t.Helper()
	w := PerformRequest(r, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[types.AuthResponse](t, w)
}
