// Package apperrors defines the error kinds surfaced by the ledger core.
// Callers match kinds with errors.Is against the exported sentinels.
package apperrors

import (
	"context"
	"errors"
	"fmt"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation failed")
	ErrConflict     = errors.New("conflict")
	ErrStorage      = errors.New("storage failure")
)

// Error is a typed error carrying one of the sentinel kinds.
type Error struct {
	Kind   error
	Field  string
	Detail string
	Err    error
}

func (e *Error) Error() string {
	msg := e.Kind.Error()
	if e.Field != "" {
		msg += ": " + e.Field
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Is(target error) bool {
	return target == e.Kind
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NotFound reports that the named entity is absent or owned by someone else.
func NotFound(entity string) error {
	return &Error{Kind: ErrNotFound, Field: entity}
}

// Validation reports invalid input for field.
func Validation(field, reason string) error {
	return &Error{Kind: ErrValidation, Field: field, Detail: reason}
}

// Conflict wraps a concurrency failure that exhausted its retries.
func Conflict(err error) error {
	return &Error{Kind: ErrConflict, Err: err}
}

// Storage wraps an underlying store failure during op.
func Storage(op string, err error) error {
	return &Error{Kind: ErrStorage, Detail: op, Err: err}
}

// IsKnown reports whether err already belongs to the taxonomy or is a
// context cancellation, meaning it should be passed through unchanged.
func IsKnown(err error) bool {
	switch {
	case errors.Is(err, ErrUnauthorized),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrValidation),
		errors.Is(err, ErrConflict),
		errors.Is(err, ErrStorage),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return true
	}
	return false
}

// Wrap classifies err, turning anything untyped into a storage failure.
func Wrap(op string, err error) error {
	if err == nil || IsKnown(err) {
		return err
	}
	return Storage(op, fmt.Errorf("%w", err))
}
