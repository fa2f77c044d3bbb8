package types

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrValidation           = errors.New("validation failed")
	ErrInvalidPayload       = errors.New("invalid webhook payload")
	ErrNetwork              = errors.New("network failure")
	ErrConfirmationRequired = errors.New("overwrite requires confirmation")
)

// ValidationError reports a rejected input. It always matches ErrValidation and
// additionally Kind when set (ErrInvalidPayload for webhook payloads).
type ValidationError struct {
	Field   string
	Message string
	Kind    error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() []error {
	if e.Kind != nil {
		return []error{ErrValidation, e.Kind}
	}
	return []error{ErrValidation}
}
