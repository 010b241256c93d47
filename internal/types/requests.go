package types

import (
	"time"
)

// RegisterRequest represents the request body for creating an account
type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

// LoginRequest represents the request body for logging in
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateProfileRequest is a partial update of the user's profile. Omitted
// fields are left unchanged.
type UpdateProfileRequest struct {
	FullName           *string  `json:"full_name" binding:"omitempty,max=100"`
	Email              *string  `json:"email" binding:"omitempty,email"`
	Phone              *string  `json:"phone" binding:"omitempty,max=50"`
	DateOfBirth        *string  `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Gender             *string  `json:"gender" binding:"omitempty,max=30"`
	MedicalHistory     []string `json:"medical_history"`
	Allergies          []string `json:"allergies"`
	CurrentMedications []string `json:"current_medications"`
}

// CreatePainEntryRequest represents the request body for logging pain.
// Intensity and locations are range-checked by the storage layer.
type CreatePainEntryRequest struct {
	Intensity       *int       `json:"intensity" binding:"required"`
	Locations       []string   `json:"locations"`
	Characteristics []string   `json:"characteristics"`
	Triggers        []string   `json:"triggers"`
	Notes           *string    `json:"notes" binding:"omitempty,max=2000"`
	MedicationTaken bool       `json:"medication_taken"`
	MedicationIDs   []uint     `json:"medication_ids"`
	RecordedAt      *time.Time `json:"recorded_at"`
}

// CreateMedicationRequest represents the request body for adding a medication
type CreateMedicationRequest struct {
	Name      string   `json:"name" binding:"required,max=100"`
	Dosage    *string  `json:"dosage" binding:"omitempty,max=100"`
	Frequency *string  `json:"frequency" binding:"omitempty,max=100"`
	TimeOfDay []string `json:"time_of_day"`
	Active    *bool    `json:"active"`
}

// TakeMedicationRequest marks one of today's doses as taken
type TakeMedicationRequest struct {
	DoseIndex *int `json:"dose_index" binding:"required"`
}

// UpdateRemindersRequest is a partial update of reminder settings
type UpdateRemindersRequest struct {
	PainLogReminders    *bool   `json:"pain_log_reminders"`
	MedicationReminders *bool   `json:"medication_reminders"`
	WeeklySummary       *bool   `json:"weekly_summary"`
	Frequency           *string `json:"frequency" binding:"omitempty,oneof=daily twice_daily weekly"`
	PreferredTime       *string `json:"preferred_time" binding:"omitempty,oneof=morning afternoon evening"`
	Style               *string `json:"style" binding:"omitempty,oneof=gentle direct motivational"`
}

// ShareReportRequest asks for a share link covering the last Days days
type ShareReportRequest struct {
	Days int `json:"days" binding:"omitempty,min=1,max=365"`
}
