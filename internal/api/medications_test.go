package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paintrack/backend/internal/models"
)

func createMedication(t *testing.T, r http.Handler, token string, body map[string]any) models.Medication {
	t.Helper()
	w := PerformRequestWithToken(r, http.MethodPost, "/api/v1/medications", body, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return decode[models.Medication](t, w)
}

func TestMedicationDoses(t *testing.T) {
	a := setupTestAPI(t, nil)
	token := registerUser(t, a.Router, "alice", "secret1").Token

	med := createMedication(t, a.Router, token, map[string]any{
		"name":        "Ibuprofen",
		"dosage":      "200mg",
		"time_of_day": []string{"Morning", "Evening"},
	})
	assert.True(t, med.Active)

	w := PerformRequestWithToken(a.Router, http.MethodGet, "/api/v1/medications/today", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	today := decode[[]models.MedicationStatus](t, w)
	require.Len(t, today, 1)
	assert.Equal(t, []bool{false, false}, today[0].TakenToday)

	takePath := fmt.Sprintf("/api/v1/medications/%d/take", med.ID)
	w = PerformRequestWithToken(a.Router, http.MethodPost, takePath, map[string]any{"dose_index": 1}, token)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, []bool{false, true}, decode[models.MedicationStatus](t, w).TakenToday)

	w = PerformRequestWithToken(a.Router, http.MethodPost, takePath, map[string]any{"dose_index": 2}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = PerformRequestWithToken(a.Router, http.MethodPost, "/api/v1/medications/999/take", map[string]any{"dose_index": 0}, token)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = PerformRequestWithToken(a.Router, http.MethodPost, "/api/v1/medications/abc/take", map[string]any{"dose_index": 0}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestInactiveMedicationsAreListedButNotScheduled(t *testing.T) {
	a := setupTestAPI(t, nil)
	token := registerUser(t, a.Router, "alice", "secret1").Token

	createMedication(t, a.Router, token, map[string]any{"name": "Ibuprofen", "time_of_day": []string{"Morning"}})
	createMedication(t, a.Router, token, map[string]any{"name": "Codeine", "time_of_day": []string{"Night"}, "active": false})

	w := PerformRequestWithToken(a.Router, http.MethodGet, "/api/v1/medications", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]models.Medication](t, w), 2)

	w = PerformRequestWithToken(a.Router, http.MethodGet, "/api/v1/medications/today", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	today := decode[[]models.MedicationStatus](t, w)
	require.Len(t, today, 1)
	assert.Equal(t, "Ibuprofen", today[0].Name)
}

func TestTakeMedicationOfAnotherUser(t *testing.T) {
	a := setupTestAPI(t, nil)
	alice := registerUser(t, a.Router, "alice", "secret1").Token
	bob := registerUser(t, a.Router, "bob", "secret1").Token

	med := createMedication(t, a.Router, alice, map[string]any{"name": "Ibuprofen", "time_of_day": []string{"Morning"}})

	w := PerformRequestWithToken(a.Router, http.MethodPost, fmt.Sprintf("/api/v1/medications/%d/take", med.ID), map[string]any{"dose_index": 0}, bob)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
