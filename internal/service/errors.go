package service

import "errors"

// Sentinel errors translated to HTTP status codes at the handler boundary.
// Repository errors never cross this package untranslated.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
	ErrUnauthorized = errors.New("unauthorized")
	ErrValidation   = errors.New("validation failed")
)
