package domain

import "errors"

// Sentinel errors for domain-level error discrimination.
// Services wrap these so handlers can map to HTTP status codes and
// machine-readable error codes without leaking infrastructure details.
var (
	ErrNotFound   = errors.New("not found")
	ErrConflict   = errors.New("conflict")
	ErrValidation = errors.New("validation failed")
	ErrForbidden  = errors.New("forbidden")

	// ErrAuth is deliberately generic: bad credentials and bad security
	// answers both surface as this error, never revealing which part failed.
	ErrAuth = errors.New("invalid credentials")

	// ErrVerificationRequired means the credentials were correct but the
	// account's email is not verified yet. Clients redirect to the
	// resend-verification flow instead of showing a generic failure.
	ErrVerificationRequired = errors.New("email verification required")

	// ErrInvalidToken covers unknown, expired, superseded and already
	// consumed verification tokens.
	ErrInvalidToken = errors.New("invalid or expired token")

	// ErrTokenConsumed is returned by the issuer when a token exists but was
	// already used. The verify-email path inspects it to degrade a re-clicked
	// link into an "already verified" success.
	ErrTokenConsumed = errors.New("token already consumed")

	// ErrNotConfigured means the user has no security questions on file.
	ErrNotConfigured = errors.New("no security questions configured")

	// ErrAreaRequired is the typed replacement for the legacy
	// "direccion obligatoria" message sniffing: profile updates are rejected
	// until an incident area is set.
	ErrAreaRequired = errors.New("incident area required")

	// ErrCooldown signals a re-issue request inside the cooldown window.
	// Enumeration-sensitive callers translate it into a silent success.
	ErrCooldown = errors.New("token recently issued")
)
