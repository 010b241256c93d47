package types

import (
	"time"

	"github.com/paintrack/backend/internal/models"
)

// PainSummary aggregates a user's entries over a trailing window
type PainSummary struct {
	Days                 int     `json:"days"`
	EntryCount           int     `json:"entry_count"`
	DaysLogged           int     `json:"days_logged"`
	AverageIntensity     float64 `json:"average_intensity"`
	MaxIntensity         int     `json:"max_intensity"`
	MinIntensity         int     `json:"min_intensity"`
	MostCommonLocation   string  `json:"most_common_location,omitempty"`
	MedicationTakenCount int     `json:"medication_taken_count"`
}

// Report is the shareable overview of a user's recent history
type Report struct {
	GeneratedAt time.Time            `json:"generated_at"`
	Days        int                  `json:"days"`
	User        ReportUser           `json:"user"`
	Summary     PainSummary          `json:"summary"`
	Trend       []models.PainEntry   `json:"trend"`
	Triggers    []models.TriggerStat `json:"triggers"`
	Patterns    []models.Pattern     `json:"patterns"`
	Medications []models.Medication  `json:"medications"`
}

// ReportUser is the part of the profile included in a report
type ReportUser struct {
	Username           string     `json:"username"`
	FullName           *string    `json:"full_name,omitempty"`
	DateOfBirth        *time.Time `json:"date_of_birth,omitempty"`
	MedicalHistory     []string   `json:"medical_history"`
	Allergies          []string   `json:"allergies"`
	CurrentMedications []string   `json:"current_medications"`
}

// ShareLink is returned when a report share token is issued
type ShareLink struct {
	Token     string    `json:"token"`
	Path      string    `json:"path"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ArchivedReport points at a report stored in the archive bucket
type ArchivedReport struct {
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

// AuthResponse is returned by register and login
type AuthResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      *models.User `json:"user"`
}
