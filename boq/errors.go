package boq

import "errors"

// Error kinds returned by the BOQ core. Callers match them with errors.Is;
// the wrapped message carries the detail.
var (
	ErrValidation        = errors.New("validation failed")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrIllegalTransition = errors.New("illegal status transition")
	ErrIllegalState      = errors.New("illegal state")
)
