package core

import "errors"

// Error taxonomy shared across the service. Write failures must leave any
// in-memory record set untouched; callers map these onto HTTP statuses.
var (
	// ErrUnauthorized means no valid current identity.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrBackendUnavailable covers network failures and 5xx responses from
	// the tabular backend. Never retried inside the core.
	ErrBackendUnavailable = errors.New("backend unavailable")

	// ErrBackendRejected covers 4xx responses to writes. The backend's error
	// detail is not guaranteed parseable and must not drive control flow.
	ErrBackendRejected = errors.New("backend rejected request")
)
