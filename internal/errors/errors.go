package errors

import (
	"errors"
	"fmt"
)

// Common error types for the user gateway
var (
	// Session errors
	ErrNoSession         = errors.New("no active session")
	ErrSessionIncomplete = errors.New("onboarding not completed")
	ErrTokenMalformed    = errors.New("malformed bearer token")

	// Meter errors
	ErrNoActiveMeter   = errors.New("no active meter")
	ErrMeterNotOwned   = errors.New("meter not owned by user")
	ErrMetersNotLoaded = errors.New("owned meters not loaded yet")

	// API errors
	ErrAPIUnavailable = errors.New("api unavailable")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrBadEnvelope    = errors.New("unexpected response envelope")

	// Polling errors
	ErrPollExhausted = errors.New("poll attempts exhausted")

	// Validation errors
	ErrInvalidInput = errors.New("invalid input")

	// Local store errors
	ErrKeyNotFound = errors.New("key not found")
	ErrSealedValue = errors.New("cannot unseal value")

	// General errors
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// Wrapf wraps an error with context using fmt.Errorf
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf(format+": %w", append(args, err)...)
}

// Is reports whether any error in err's chain matches target
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
