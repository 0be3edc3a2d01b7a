package api

import "errors"

var (
	// ErrNetwork marks transport failures and timeouts. The caller may retry.
	ErrNetwork = errors.New("network error")
	// ErrSessionExpired marks a 401 on an authenticated call: the stored
	// credential is no longer valid and must be erased.
	ErrSessionExpired = errors.New("session expired")
	// ErrAuthRejected is the errors.Is target for AuthRejectedError.
	ErrAuthRejected = errors.New("authentication rejected")
	// ErrValidation is the errors.Is target for ValidationError.
	ErrValidation = errors.New("validation failed")
)

// AuthRejectedError is returned when the server refuses the presented
// credentials. Detail carries the server-supplied human-readable reason
// when present.
type AuthRejectedError struct {
	Detail string
}

func (e *AuthRejectedError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return "authentication rejected"
}

func (e *AuthRejectedError) Is(target error) bool { return target == ErrAuthRejected }

// ValidationError is returned for malformed or conflicting input.
// Fields maps field names to their individual problems when the server
// (or the client-side validator) provides that level of detail.
type ValidationError struct {
	Detail string
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return "validation failed"
}

func (e *ValidationError) Is(target error) bool { return target == ErrValidation }
