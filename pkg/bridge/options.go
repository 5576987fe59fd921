package bridge

import (
	"context"

	"github.com/corehost-labs/hostbridge/internal/domain"
	"github.com/corehost-labs/hostbridge/internal/ports"
)

// Logger is the structured logging interface accepted by WithLogger.
type Logger = ports.Logger

// Field is a structured logging field passed to Logger methods.
type Field = ports.Field

// HTTPClient is the real-network client interface accepted by WithHTTPClient.
// *http.Client satisfies this interface.
type HTTPClient = ports.HTTPClient

// Invoker sends request envelopes over the native command channel.
type Invoker = ports.CommandInvoker

// Request is the transport-neutral request envelope.
type Request = domain.Request

// Response is the transport-neutral response envelope.
type Response = domain.Response

// Header is the case-insensitive header mapping used by both envelopes.
type Header = domain.Header

// InvokerFunc adapts an in-process handler function to Invoker. Host shells
// that embed their backend router mount it this way.
type InvokerFunc = ports.InvokerFunc

// HandlerFunc is the signature of an in-process native handler bound to the
// default command. See WithHandler.
type HandlerFunc func(ctx context.Context, req Request) (Response, error)

// Option configures optional behavior of a Bridge.
type Option func(*options)

// options holds the optional configuration for a Bridge instance.
type options struct {
	invoker      ports.CommandInvoker
	httpClient   ports.HTTPClient
	logger       ports.Logger
	eventHandler EventHandler
	watcher      *watcherConfig
}

// watcherConfig is set by plugins (see plugins/configwatcher) through
// WithWatcher; the facade starts and stops it with the bridge.
type watcherConfig struct {
	start func(ctx context.Context, b *Bridge) error
	stop  func()
}

// WithInvoker sets the native command channel implementation.
func WithInvoker(invoker Invoker) Option {
	return func(o *options) {
		o.invoker = invoker
	}
}

// WithHandler mounts an in-process native handler as the command channel.
// The command name is ignored: the handler owns every invocation.
func WithHandler(handler HandlerFunc) Option {
	return func(o *options) {
		o.invoker = ports.InvokerFunc(func(ctx context.Context, _ string, req domain.Request) (domain.Response, error) {
			return handler(ctx, req)
		})
	}
}

// WithHTTPClient sets the client used for pass-through and fallback traffic.
// If not provided, a default client with the configured timeout is used.
func WithHTTPClient(client HTTPClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithLogger sets a custom logger for structured logging.
// If not provided, a no-op logger is used (no output).
func WithLogger(logger Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithEventHandler sets a handler for bridge lifecycle notifications.
// Events are called synchronously; implementations should return quickly.
func WithEventHandler(handler EventHandler) Option {
	return func(o *options) {
		o.eventHandler = handler
	}
}

// WithWatcher registers a config watcher lifecycle. Used by the
// plugins/configwatcher package; most applications do not call it directly.
func WithWatcher(start func(ctx context.Context, b *Bridge) error, stop func()) Option {
	return func(o *options) {
		o.watcher = &watcherConfig{start: start, stop: stop}
	}
}
