// internal/domain/errors.go
package domain

import "errors"

// Error taxonomy shared by aggregates, repositories and application services.
// Callers discriminate with errors.Is; messages carry the specifics.
var (
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid state transition")
	ErrValidation        = errors.New("validation failed")
)
