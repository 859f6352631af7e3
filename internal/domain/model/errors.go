package model

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("object not found")
	ErrNotReady         = errors.New("object has no blob yet")
	ErrQueueUnavailable = errors.New("job queue unavailable")
	ErrCacheUnavailable = errors.New("cache unavailable")
	ErrStatusConflict   = errors.New("object status changed concurrently")
)

// ValidationError reports malformed input to create or update.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}

	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func IsValidation(err error) bool {
	var v *ValidationError

	return errors.As(err, &v)
}

// ProcessingError is a failure inside the processing step of a job. Retryable
// failures are handed back to the queue for another attempt.
type ProcessingError struct {
	Retryable bool
	Err       error
}

func (e *ProcessingError) Error() string {
	return fmt.Sprintf("processing failed: %v", e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

func Retryable(err error) error {
	return &ProcessingError{Retryable: true, Err: err}
}

func Permanent(err error) error {
	return &ProcessingError{Retryable: false, Err: err}
}

func IsRetryable(err error) bool {
	var p *ProcessingError
	if errors.As(err, &p) {
		return p.Retryable
	}

	return false
}
