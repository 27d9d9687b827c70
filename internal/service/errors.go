package service

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("not found")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")
	ErrRateLimited   = errors.New("too many attempts")
	ErrNoPinSet      = errors.New("no pin set")
	ErrInternal      = errors.New("internal error")
	ErrMisconfigured = errors.New("auth config invalid")
)

// PinMismatchError is returned for a wrong PIN. It matches ErrUnauthorized.
type PinMismatchError struct {
	AttemptsRemaining int
}

func (e *PinMismatchError) Error() string {
	return fmt.Sprintf("incorrect pin (%d attempts remaining)", e.AttemptsRemaining)
}

func (e *PinMismatchError) Unwrap() error { return ErrUnauthorized }

// RateLimitError is returned when a PIN check is refused before comparison.
// It matches ErrRateLimited.
type RateLimitError struct {
	RetryAfterSeconds int
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("too many pin attempts, retry after %ds", e.RetryAfterSeconds)
}

func (e *RateLimitError) Unwrap() error { return ErrRateLimited }
