package storage

import (
	"strings"

	"github.com/paintrack/backend/internal/models"
)

const (
	MinIntensity = 0
	MaxIntensity = 10
)

func validateUser(u *models.User) error {
	if u == nil {
		return invalid("user", "is required")
	}
	if strings.TrimSpace(u.Username) == "" {
		return invalid("username", "is required")
	}
	if u.PasswordHash == "" {
		return invalid("password", "is required")
	}
	return nil
}

// ValidatePainEntry checks the fields a pain entry must carry before it may be
// stored.
func ValidatePainEntry(e *models.PainEntry) error {
	if e == nil {
		return invalid("entry", "is required")
	}
	if e.UserID == 0 {
		return invalid("user_id", "is required")
	}
	if e.Intensity < MinIntensity || e.Intensity > MaxIntensity {
		return invalid("intensity", "must be between %d and %d, got %d", MinIntensity, MaxIntensity, e.Intensity)
	}
	if len(e.Locations) == 0 {
		return invalid("locations", "at least one location is required")
	}
	for _, loc := range e.Locations {
		if strings.TrimSpace(loc) == "" {
			return invalid("locations", "must not contain blank values")
		}
	}
	return nil
}

func validateMedication(m *models.Medication) error {
	if m == nil {
		return invalid("medication", "is required")
	}
	if m.UserID == 0 {
		return invalid("user_id", "is required")
	}
	if strings.TrimSpace(m.Name) == "" {
		return invalid("name", "is required")
	}
	return nil
}

func validateDoseIndex(m *models.Medication, doseIndex int) error {
	if doseIndex < 0 || doseIndex >= len(m.TimeOfDay) {
		return invalid("dose_index", "must be between 0 and %d, got %d", len(m.TimeOfDay)-1, doseIndex)
	}
	return nil
}
