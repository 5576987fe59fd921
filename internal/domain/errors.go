package domain

import "errors"

// Domain errors represent error conditions in the hostbridge domain.
// These errors are returned by the public API and can be checked with errors.Is.
var (
	// ErrNotBridged is returned when a request does not match the routing
	// rules and must be served over the real network instead.
	ErrNotBridged = errors.New("hostbridge: request not bridged")

	// ErrBodyUnserializable is returned when a structured request body cannot
	// be serialized before crossing the native boundary.
	ErrBodyUnserializable = errors.New("hostbridge: request body cannot be serialized")

	// ErrBridgeUnavailable is returned when the native command channel rejects
	// an invocation (channel unreachable, malformed command).
	ErrBridgeUnavailable = errors.New("hostbridge: native channel unavailable")

	// ErrDecode is returned when a response body fails its declared-type
	// decoding. The raw bytes remain retrievable; the call itself succeeds.
	ErrDecode = errors.New("hostbridge: response body decode failed")

	// ErrTooManyRedirects is returned when redirect chasing exceeds the cap.
	ErrTooManyRedirects = errors.New("hostbridge: too many redirects")

	// ErrNotReady is returned when the readiness probe does not succeed within
	// the startup timeout. Distinct from ErrBridgeUnavailable so callers can
	// retry with backoff instead of failing hard.
	ErrNotReady = errors.New("hostbridge: backend not ready")

	// ErrAborted is returned when a legacy client operation is aborted before
	// completion.
	ErrAborted = errors.New("hostbridge: request aborted")

	// ErrAlreadyStarted is returned when Start() is called on a started bridge.
	ErrAlreadyStarted = errors.New("hostbridge: already started")

	// ErrNotStarted is returned when an operation requires a started bridge.
	ErrNotStarted = errors.New("hostbridge: not started")

	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("hostbridge: invalid configuration")
)
