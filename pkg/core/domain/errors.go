package domain

import "errors"

// Sentinel errors returned by services. Handlers map these to HTTP statuses
// with errors.Is, so services may wrap them with extra context.
var (
	// ErrNotFound covers both missing rows and rows owned by another user;
	// the two cases must stay indistinguishable to callers.
	ErrNotFound = errors.New("not found")

	// ErrConflict signals a duplicate url, username or email.
	ErrConflict = errors.New("already exists")

	// ErrValidation signals malformed input, rejected before any write.
	ErrValidation = errors.New("invalid input")

	// ErrInvalidCredentials covers bad logins and bad/expired tokens.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrShortCodeExhausted is returned when the short-code retry cap is hit.
	ErrShortCodeExhausted = errors.New("short code space exhausted")
)
