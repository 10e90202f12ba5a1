// Package apperr defines the error taxonomy shared by services and handlers.
// All of these are expected, recoverable outcomes; anything outside the
// taxonomy is treated as an infrastructure failure.
package apperr

import "errors"

var (
	// ErrNotFound is returned when an order, restaurant, food or user is absent.
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned for malformed input, e.g. an order spanning
	// more than one restaurant or a non-positive delivery time.
	ErrValidation = errors.New("validation failed")
	// ErrInvalidTransition is returned when an order state guard fails.
	ErrInvalidTransition = errors.New("invalid state transition")
	// ErrPermissionDenied is returned by the authorization layer; the wrap
	// message carries a human-readable reason.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrUnauthenticated is returned when no actor identity is present.
	ErrUnauthenticated = errors.New("unauthenticated")
)
