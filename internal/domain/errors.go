package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. missing required field, non-positive amount).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrNoMatch means no interpreter rule recognized the input. It is a routing
// signal, not a failure: the caller should hand the command to the remote
// fallback interpreter (or, lacking one, tell the user).
var ErrNoMatch = errors.New("no rule matched")

// Remote fallback failures. The service surfaces these as distinct
// user-visible messages and never retries silently.
var (
	// ErrRemoteTimeout means the fallback interpreter did not answer within
	// its deadline. Handlers map this to HTTP 504.
	ErrRemoteTimeout = errors.New("remote interpreter timed out")

	// ErrRemoteQuota means the fallback provider rejected the call for
	// quota/rate-limit reasons. Handlers map this to HTTP 429.
	ErrRemoteQuota = errors.New("remote interpreter quota exceeded")

	// ErrRemoteFailure covers every other fallback failure.
	// Handlers map this to HTTP 502.
	ErrRemoteFailure = errors.New("remote interpreter failed")
)
