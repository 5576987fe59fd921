package bridge

import "time"

// State represents the lifecycle state of a Bridge.
type State int

const (
	// StateCreated is the initial state: the handle exists, the backend has
	// not been probed.
	StateCreated State = iota

	// StateStarting means the readiness gate is running.
	StateStarting

	// StateReady means the backend answered its probe; bridged traffic flows
	// over the native channel.
	StateReady

	// StateUnavailable means startup gave up; bridged traffic degrades to
	// the fallback network path.
	StateUnavailable
)

// String returns a human-readable representation of the state.
func (s State) String() string {
	switch s {
	case StateCreated:
		return "Created"
	case StateStarting:
		return "Starting"
	case StateReady:
		return "Ready"
	case StateUnavailable:
		return "Unavailable"
	default:
		return "Unknown"
	}
}

// StateChangeEvent reports a lifecycle transition.
type StateChangeEvent struct {
	Previous State
	Current  State
	Reason   string
}

// ReadyEvent reports that the backend answered its readiness probe.
type ReadyEvent struct {
	// Attempts is the number of failed probes before success.
	Attempts int

	// Elapsed is the time from Start to readiness.
	Elapsed time.Duration
}

// ErrorEvent reports a startup failure or a bridge failure with diagnostic
// detail. Observational only; the error also reaches the caller.
type ErrorEvent struct {
	Err    error
	Detail string
}

// EventHandler receives bridge lifecycle notifications. Handlers are called
// synchronously and should return quickly.
type EventHandler interface {
	// OnStateChange is called on every lifecycle transition.
	OnStateChange(event StateChangeEvent)

	// OnBridgeReady is called once the backend signals operational.
	OnBridgeReady(event ReadyEvent)

	// OnBridgeError is called when startup exhausts its retries or a bridged
	// call fails without a fallback.
	OnBridgeError(event ErrorEvent)
}

// BaseEventHandler provides no-op defaults. Embed it to implement only the
// notifications you care about.
type BaseEventHandler struct{}

// OnStateChange does nothing.
func (BaseEventHandler) OnStateChange(StateChangeEvent) {}

// OnBridgeReady does nothing.
func (BaseEventHandler) OnBridgeReady(ReadyEvent) {}

// OnBridgeError does nothing.
func (BaseEventHandler) OnBridgeError(ErrorEvent) {}
