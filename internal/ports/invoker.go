package ports

import (
	"context"

	"github.com/corehost-labs/hostbridge/internal/domain"
)

// CommandInvoker sends one request envelope over the native command channel
// and awaits exactly one response envelope or a failure.
//
// Implementations must be safe for concurrent use: many invocations may be in
// flight at once and must not interfere with each other. Channel rejection
// (unreachable backend, malformed command) is reported as an error wrapping
// domain.ErrBridgeUnavailable, distinct from a normal envelope carrying an
// error status code.
type CommandInvoker interface {
	// Invoke executes the named command with the given request envelope.
	Invoke(ctx context.Context, command string, req domain.Request) (domain.Response, error)
}

// InvokerFunc adapts an in-process handler function to CommandInvoker. Host
// shells that embed their backend router directly mount it this way.
type InvokerFunc func(ctx context.Context, command string, req domain.Request) (domain.Response, error)

// Invoke calls f.
func (f InvokerFunc) Invoke(ctx context.Context, command string, req domain.Request) (domain.Response, error) {
	return f(ctx, command, req)
}
