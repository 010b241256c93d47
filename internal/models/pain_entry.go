package models

import (
	"time"

	"gorm.io/datatypes"
)

// PainEntry is a single logged pain observation. Entries are immutable once
// created.
type PainEntry struct {
	ID              uint                        `gorm:"primaryKey" json:"id"`
	UserID          uint                        `gorm:"not null;index:idx_pain_entries_user_recorded,priority:1" json:"user_id"`
	RecordedAt      time.Time                   `gorm:"not null;index:idx_pain_entries_user_recorded,priority:2" json:"recorded_at"`
	Intensity       int                         `gorm:"not null" json:"intensity"`
	Locations       datatypes.JSONSlice[string] `gorm:"not null" json:"locations"`
	Characteristics datatypes.JSONSlice[string] `json:"characteristics"`
	Triggers        datatypes.JSONSlice[string] `json:"triggers"`
	Notes           *string                     `gorm:"type:text" json:"notes"`
	MedicationTaken bool                        `gorm:"not null;default:false" json:"medication_taken"`
	MedicationIDs   datatypes.JSONSlice[uint]   `json:"medication_ids"`
	CreatedAt       time.Time                   `json:"created_at"`
}

func (PainEntry) TableName() string {
	return "pain_entries"
}

// Clone returns a deep copy so callers cannot mutate stored slices.
func (e PainEntry) Clone() PainEntry {
	e.Locations = cloneStrings(e.Locations)
	e.Characteristics = cloneStrings(e.Characteristics)
	e.Triggers = cloneStrings(e.Triggers)
	if e.MedicationIDs != nil {
		e.MedicationIDs = append(datatypes.JSONSlice[uint]{}, e.MedicationIDs...)
	}
	if e.Notes != nil {
		n := *e.Notes
		e.Notes = &n
	}
	return e
}

func cloneStrings(s datatypes.JSONSlice[string]) datatypes.JSONSlice[string] {
	if s == nil {
		return nil
	}
	return append(datatypes.JSONSlice[string]{}, s...)
}
