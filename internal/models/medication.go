package models

import (
	"time"

	"gorm.io/datatypes"
)

type Medication struct {
	ID        uint                        `gorm:"primaryKey" json:"id"`
	UserID    uint                        `gorm:"not null;index" json:"user_id"`
	Name      string                      `gorm:"size:100;not null" json:"name"`
	Dosage    *string                     `gorm:"size:100" json:"dosage"`
	Frequency *string                     `gorm:"size:100" json:"frequency"`
	TimeOfDay datatypes.JSONSlice[string] `json:"time_of_day"`
	Active    bool                        `gorm:"not null" json:"active"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
}

func (Medication) TableName() string {
	return "medications"
}

func (m Medication) Clone() Medication {
	m.TimeOfDay = cloneStrings(m.TimeOfDay)
	return m
}

// MedicationDose records that the dose at DoseIndex of a medication was taken
// on the ISO date TakenOn.
type MedicationDose struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	MedicationID uint      `gorm:"not null;uniqueIndex:idx_medication_doses_slot,priority:1" json:"medication_id"`
	TakenOn      string    `gorm:"size:10;not null;uniqueIndex:idx_medication_doses_slot,priority:2" json:"taken_on"`
	DoseIndex    int       `gorm:"not null;uniqueIndex:idx_medication_doses_slot,priority:3" json:"dose_index"`
	TakenAt      time.Time `gorm:"not null" json:"taken_at"`
}

func (MedicationDose) TableName() string {
	return "medication_doses"
}

// MedicationStatus is the per-day view of a medication: one taken flag per
// time-of-day slot.
type MedicationStatus struct {
	Medication
	TakenToday []bool `json:"taken_today"`
}

// NewMedicationStatus pairs each slot of m with the taken set for the day.
func NewMedicationStatus(m Medication, taken func(doseIndex int) bool) MedicationStatus {
	flags := make([]bool, len(m.TimeOfDay))
	for i := range flags {
		flags[i] = taken(i)
	}
	return MedicationStatus{Medication: m.Clone(), TakenToday: flags}
}
