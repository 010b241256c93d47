package models

import (
	"time"

	"gorm.io/datatypes"
)

type User struct {
	ID                 uint                        `gorm:"primaryKey" json:"id"`
	Username           string                      `gorm:"size:50;not null;uniqueIndex" json:"username"`
	PasswordHash       string                      `gorm:"not null" json:"-"`
	FullName           *string                     `gorm:"size:100" json:"full_name"`
	Email              *string                     `gorm:"size:255" json:"email"`
	Phone              *string                     `gorm:"size:50" json:"phone"`
	DateOfBirth        *time.Time                  `json:"date_of_birth"`
	Gender             *string                     `gorm:"size:30" json:"gender"`
	MedicalHistory     datatypes.JSONSlice[string] `json:"medical_history"`
	Allergies          datatypes.JSONSlice[string] `json:"allergies"`
	CurrentMedications datatypes.JSONSlice[string] `json:"current_medications"`
	ProfileCompleted   bool                        `gorm:"not null;default:false" json:"profile_completed"`
	CreatedAt          time.Time                   `json:"created_at"`
	UpdatedAt          time.Time                   `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

// UserPatch is a merge-patch over the optional profile fields. Nil fields are
// left untouched.
type UserPatch struct {
	FullName           *string    `json:"full_name,omitempty"`
	Email              *string    `json:"email,omitempty"`
	Phone              *string    `json:"phone,omitempty"`
	DateOfBirth        *time.Time `json:"date_of_birth,omitempty"`
	Gender             *string    `json:"gender,omitempty"`
	MedicalHistory     []string   `json:"medical_history,omitempty"`
	Allergies          []string   `json:"allergies,omitempty"`
	CurrentMedications []string   `json:"current_medications,omitempty"`
}

// Apply merges the patch into u and marks the profile completed.
func (p *UserPatch) Apply(u *User) {
	if p != nil {
		if p.FullName != nil {
			u.FullName = p.FullName
		}
		if p.Email != nil {
			u.Email = p.Email
		}
		if p.Phone != nil {
			u.Phone = p.Phone
		}
		if p.DateOfBirth != nil {
			u.DateOfBirth = p.DateOfBirth
		}
		if p.Gender != nil {
			u.Gender = p.Gender
		}
		if p.MedicalHistory != nil {
			u.MedicalHistory = append(datatypes.JSONSlice[string]{}, p.MedicalHistory...)
		}
		if p.Allergies != nil {
			u.Allergies = append(datatypes.JSONSlice[string]{}, p.Allergies...)
		}
		if p.CurrentMedications != nil {
			u.CurrentMedications = append(datatypes.JSONSlice[string]{}, p.CurrentMedications...)
		}
	}
	u.ProfileCompleted = true
}

// NewUser returns a user with the registration defaults: empty lists and no
// optional profile fields.
func NewUser(username, passwordHash string) *User {
	return &User{
		Username:           username,
		PasswordHash:       passwordHash,
		MedicalHistory:     datatypes.JSONSlice[string]{},
		Allergies:          datatypes.JSONSlice[string]{},
		CurrentMedications: datatypes.JSONSlice[string]{},
	}
}

func (u User) Clone() User {
	u.MedicalHistory = cloneStrings(u.MedicalHistory)
	u.Allergies = cloneStrings(u.Allergies)
	u.CurrentMedications = cloneStrings(u.CurrentMedications)
	return u
}
