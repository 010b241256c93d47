package models

import "time"

// Session backs cookie/bearer authentication. ID is an opaque random token.
type Session struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	ExpiresAt time.Time `gorm:"not null;index" json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (Session) TableName() string {
	return "sessions"
}

func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
