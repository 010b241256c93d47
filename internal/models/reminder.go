package models

import "time"

type ReminderSetting struct {
	ID                  uint      `gorm:"primaryKey" json:"id"`
	UserID              uint      `gorm:"not null;uniqueIndex" json:"user_id"`
	PainLogReminders    bool      `gorm:"not null" json:"pain_log_reminders"`
	MedicationReminders bool      `gorm:"not null" json:"medication_reminders"`
	WeeklySummary       bool      `gorm:"not null" json:"weekly_summary"`
	Frequency           string    `gorm:"size:20;not null" json:"frequency"`
	PreferredTime       string    `gorm:"size:20;not null" json:"preferred_time"`
	Style               string    `gorm:"size:20;not null" json:"style"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

func (ReminderSetting) TableName() string {
	return "reminder_settings"
}

// DefaultReminderSetting is the record lazily created on first read.
func DefaultReminderSetting(userID uint) ReminderSetting {
	return ReminderSetting{
		UserID:              userID,
		PainLogReminders:    true,
		MedicationReminders: true,
		WeeklySummary:       false,
		Frequency:           "daily",
		PreferredTime:       "evening",
		Style:               "gentle",
	}
}

type ReminderPatch struct {
	PainLogReminders    *bool   `json:"pain_log_reminders,omitempty"`
	MedicationReminders *bool   `json:"medication_reminders,omitempty"`
	WeeklySummary       *bool   `json:"weekly_summary,omitempty"`
	Frequency           *string `json:"frequency,omitempty"`
	PreferredTime       *string `json:"preferred_time,omitempty"`
	Style               *string `json:"style,omitempty"`
}

func (p *ReminderPatch) Apply(s *ReminderSetting) {
	if p == nil {
		return
	}
	if p.PainLogReminders != nil {
		s.PainLogReminders = *p.PainLogReminders
	}
	if p.MedicationReminders != nil {
		s.MedicationReminders = *p.MedicationReminders
	}
	if p.WeeklySummary != nil {
		s.WeeklySummary = *p.WeeklySummary
	}
	if p.Frequency != nil {
		s.Frequency = *p.Frequency
	}
	if p.PreferredTime != nil {
		s.PreferredTime = *p.PreferredTime
	}
	if p.Style != nil {
		s.Style = *p.Style
	}
}
