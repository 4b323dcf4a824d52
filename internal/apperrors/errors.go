package apperrors

import "errors"

// ErrNotFound indicates the upstream explicitly has no data for the resolved
// query. It is an absence outcome, not a transport fault, and is cacheable.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrUnavailable indicates the upstream could not be reached within the retry
// budget. Callers may retry later.
var ErrUnavailable = errors.New("upstream temporarily unavailable")

// ErrCircuitOpen indicates the upstream circuit breaker is open and the call
// failed fast without a network attempt. Kept distinct from ErrUnavailable so
// callers can apply different backoff and messaging.
var ErrCircuitOpen = errors.New("upstream circuit open")

// ErrUpstream indicates an unrecoverable upstream failure: an unexpected
// response status or an unparsable payload. Never retried.
var ErrUpstream = errors.New("upstream failure")
