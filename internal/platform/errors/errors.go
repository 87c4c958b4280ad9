package apperrors

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrSessionNotFound    = errors.New("session not found")
	ErrInvalidActivity    = errors.New("invalid activity")
	ErrNotStarted         = errors.New("activity not started")
	ErrActivityInProgress = errors.New("activity already in progress")
	ErrNothingToExport    = errors.New("nothing to export")
)
