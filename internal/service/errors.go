package service

import "errors"

var (
	ErrUserExists         = errors.New("username is already taken")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidShareToken  = errors.New("invalid or expired share token")
	ErrArchiveDisabled    = errors.New("report archive is not configured")
)
