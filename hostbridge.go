// Package hostbridge routes HTTP-shaped calls over a native command channel.
//
// Example usage:
//
//	cfg := hostbridge.Config{
//	    Origin:      "http://localhost:1420",
//	    FallbackURL: "http://localhost:8080",
//	}
//	b, err := hostbridge.New(cfg, hostbridge.WithHandler(handler))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := b.Start(context.Background()); err != nil {
//	    log.Printf("degrading to fallback: %v", err)
//	}
//	client := &http.Client{Transport: b}
package hostbridge

import (
	"github.com/corehost-labs/hostbridge/pkg/bridge"
)

// Config is the routing configuration for a Bridge.
// The zero value plus SetDefaults gives a working local setup.
type Config = bridge.Config

// Bridge routes HTTP-shaped calls over the native channel or the network.
type Bridge = bridge.Bridge

// Client is the event-driven request object for legacy call sites.
type Client = bridge.Client

// Option configures optional behavior of a Bridge.
type Option = bridge.Option

// New creates a Bridge. An invoker is required; see WithInvoker and
// WithHandler.
func New(cfg Config, opts ...Option) (*Bridge, error) {
	return bridge.New(cfg, opts...)
}

// NewClient creates an unsent legacy Client bound to b.
func NewClient(b *Bridge) *Client {
	return bridge.NewClient(b)
}

// WithInvoker sets the native command channel implementation.
var WithInvoker = bridge.WithInvoker

// WithHandler mounts an in-process native handler as the command channel.
var WithHandler = bridge.WithHandler

// WithLogger sets a custom logger for structured logging.
var WithLogger = bridge.WithLogger

// WithEventHandler sets a handler for bridge lifecycle notifications.
var WithEventHandler = bridge.WithEventHandler

// DefaultCommand is the native invocation name for handling an HTTP request.
const DefaultCommand = bridge.DefaultCommand
