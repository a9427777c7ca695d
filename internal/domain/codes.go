package domain

import "errors"

// Wire-level error codes. These travel in the response envelope so clients
// can branch on the taxonomy without sniffing message text (the legacy
// behavior this replaces matched Spanish error strings).
const (
	CodeValidation           = "validation"
	CodeConflict             = "conflict"
	CodeAuth                 = "auth"
	CodeVerificationRequired = "verification_required"
	CodeInvalidToken         = "invalid_token"
	CodeNotConfigured        = "not_configured"
	CodeAreaRequired         = "incident_area_required"
	CodeNotFound             = "not_found"
	CodeForbidden            = "forbidden"
	CodeInternal             = "internal"
)

// Code maps a domain error to its wire code.
func Code(err error) string {
	switch {
	case errors.Is(err, ErrValidation):
		return CodeValidation
	case errors.Is(err, ErrConflict):
		return CodeConflict
	case errors.Is(err, ErrVerificationRequired):
		return CodeVerificationRequired
	case errors.Is(err, ErrInvalidToken), errors.Is(err, ErrTokenConsumed):
		return CodeInvalidToken
	case errors.Is(err, ErrNotConfigured):
		return CodeNotConfigured
	case errors.Is(err, ErrAreaRequired):
		return CodeAreaRequired
	case errors.Is(err, ErrAuth):
		return CodeAuth
	case errors.Is(err, ErrNotFound):
		return CodeNotFound
	case errors.Is(err, ErrForbidden):
		return CodeForbidden
	default:
		return CodeInternal
	}
}

// FromCode maps a wire code back to its sentinel, so client-side callers can
// use errors.Is against the same taxonomy the server raised.
func FromCode(code string) error {
	switch code {
	case CodeValidation:
		return ErrValidation
	case CodeConflict:
		return ErrConflict
	case CodeAuth:
		return ErrAuth
	case CodeVerificationRequired:
		return ErrVerificationRequired
	case CodeInvalidToken:
		return ErrInvalidToken
	case CodeNotConfigured:
		return ErrNotConfigured
	case CodeAreaRequired:
		return ErrAreaRequired
	case CodeNotFound:
		return ErrNotFound
	case CodeForbidden:
		return ErrForbidden
	default:
		return nil
	}
}
