package errs

import "errors"

// Sentinel errors enable classification of failures with errors.Is
// regardless of which constructor produced the concrete error value.
var (
	ErrObjectNotFound    = errors.New("object not found")
	ErrValueIsInvalid    = errors.New("value is invalid")
	ErrValueIsOutOfRange = errors.New("value is out of range")
	ErrValueIsRequired   = errors.New("value is required")
)
