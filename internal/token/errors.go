package token

import "errors"

var (
	// ErrUnauthorized is returned when a token is requested without an active session.
	ErrUnauthorized = errors.New("no active session")

	// ErrSigningFailed is returned when signing produced no artifact. Fatal for
	// the request; callers must not retry.
	ErrSigningFailed = errors.New("token signing failed")
)
