package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paintrack/backend/internal/middleware"
	"github.com/paintrack/backend/internal/types"
)

func TestRegister(t *testing.T) {
	a := setupTestAPI(t, nil)

	w := PerformRequest(a.Router, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": "alice",
		"password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	resp := decode[types.AuthResponse](t, w)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "alice", resp.User.Username)
	assert.NotContains(t, w.Body.String(), "password")

	var cookie *http.Cookie
	for _, c := range w.Result().Cookies() {
		if c.Name == middleware.SessionCookie {
			cookie = c
		}
	}
	require.NotNil(t, cookie)
	assert.Equal(t, resp.Token, cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestRegisterValidation(t *testing.T) {
	a := setupTestAPI(t, nil)

	tests := []struct {
		name string
		body map[string]string
		want int
	}{
		{"missing password", map[string]string{"username": "alice"}, http.StatusBadRequest},
		{"short username", map[string]string{"username": "al", "password": "secret1"}, http.StatusBadRequest},
		{"short password", map[string]string{"username": "alice", "password": "123"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := PerformRequest(a.Router, http.MethodPost, "/api/v1/auth/register", tt.body)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	a := setupTestAPI(t, nil)
	registerUser(t, a.Router, "alice", "secret1")

	w := PerformRequest(a.Router, http.MethodPost, "/api/v1/auth/register", map[string]string{
		"username": "alice",
		"password": "secret2",
	})
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestLoginAndLogout(t *testing.T) {
	a := setupTestAPI(t, nil)
	registerUser(t, a.Router, "alice", "secret1")

	w := PerformRequest(a.Router, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "alice",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = PerformRequest(a.Router, http.MethodPost, "/api/v1/auth/login", map[string]string{
		"username": "alice",
		"password": "secret1",
	})
	require.Equal(t, http.StatusOK, w.Code)
	token := decode[types.AuthResponse](t, w).Token

	w = PerformRequestWithToken(a.Router, http.MethodGet, "/api/v1/profile", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = PerformRequestWithToken(a.Router, http.MethodPost, "/api/v1/auth/logout", nil, token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = PerformRequestWithToken(a.Router, http.MethodGet, "/api/v1/profile", nil, token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	a := setupTestAPI(t, nil)

	for _, path := range []string{"/api/v1/profile", "/api/v1/pain", "/api/v1/medications/today", "/api/v1/reminders", "/api/v1/reports"} {
		w := PerformRequest(a.Router, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code, path)
	}
}
