package types

import (
	"github.com/golang-jwt/jwt/v5"
)

// ShareClaims are the claims of a signed report share link
type ShareClaims struct {
	jwt.RegisteredClaims
	UserID uint `json:"user_id"`
	Days   int  `json:"days"`
	// Storage names the store UserID belongs to ("primary" or "fallback").
	Storage string `json:"storage"`
}
