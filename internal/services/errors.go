package services

import (
	"errors"

	"nbadash/internal/leaders"
)

// Dashboard service errors
var (
	ErrPlayerNotFound  = errors.New("player not found")
	ErrGameNotFound    = errors.New("game not found")
	ErrUnknownCategory = leaders.ErrUnknownCategory
	ErrArchiveDisabled = errors.New("archive not configured")
	ErrInvalidInput    = errors.New("invalid input")
)
