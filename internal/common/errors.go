// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Input-shape errors: the uploaded report is missing structure the
	// pipeline requires. These abort the whole upload.
	ErrColumnNotFound = errors.New("required column not found")
	ErrEmptyReport    = errors.New("report contains no rows")

	// Database errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// StageError wraps a failure with the pipeline stage it occurred in, so
// operators can tell a normalization rejection from a persistence abort.
type StageError struct {
	Err   error
	Stage string
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// NewStageError wraps err with the originating pipeline stage.
func NewStageError(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}
