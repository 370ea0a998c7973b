package services

import "errors"

// Sentinel errors shared by the service layer. Handlers map these onto HTTP
// status codes; wrap them with fmt.Errorf("%w: ...") for detail.
var (
	// ErrValidation marks missing or malformed input fields.
	ErrValidation = errors.New("validation error")

	// ErrUnauthorized marks a missing or invalid session.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrForbidden marks a valid session acting on someone else's resource.
	ErrForbidden = errors.New("forbidden")

	// ErrNotFound marks a lookup with no matching id.
	ErrNotFound = errors.New("not found")

	// ErrConflict marks a uniqueness violation, e.g. a taken username.
	ErrConflict = errors.New("conflict")

	// ErrUpstream marks an asset store or database failure.
	ErrUpstream = errors.New("upstream failure")
)
