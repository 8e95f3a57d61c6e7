// Package apperr defines sentinel errors shared across service and
// presentation layers, so REST handlers can map failures to status codes
// with errors.Is instead of string matching.
package apperr

import "errors"

var (
	ErrNotFound   = errors.New("not found")
	ErrForbidden  = errors.New("forbidden")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
)
