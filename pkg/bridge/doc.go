// Package bridge routes HTTP-shaped calls from an embedded application over
// a native command channel instead of the real network.
//
// Requests whose paths match the routing configuration are translated into
// request envelopes, carried across the native boundary by a command invoker,
// and answered by the native backend; everything else passes through to the
// real network untouched. Bridge errors degrade to a fallback replay over the
// network when a fallback base address is configured.
//
// # Basic Usage
//
//	cfg := bridge.Config{
//	    Origin:      "http://localhost:1420",
//	    FallbackURL: "http://localhost:8080",
//	}
//
//	b, err := bridge.New(cfg, bridge.WithInvoker(invoker))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := b.Start(ctx); err != nil {
//	    log.Printf("backend not ready, degrading to fallback: %v", err)
//	}
//
//	client := &http.Client{Transport: b}
//	resp, err := client.Get("/api/config")
//
// # The Native Channel
//
// The native channel is abstracted behind [Invoker]. Provide one via
// [WithInvoker] (for example the socket adapter) or [WithHandler] for an
// in-process handler function, which is also the easiest way to test.
//
// # Legacy Client
//
// [Client] reproduces the older event-driven request object contract on top
// of the same pipeline: Open, SetRequestHeader, Send, lifecycle events,
// Abort. New call sites should prefer [Bridge.Do] or the RoundTripper.
//
// # Event Handling
//
// Implement [EventHandler] and pass it via [WithEventHandler] to observe
// lifecycle state changes, readiness, and bridge errors. Handlers are called
// synchronously and should return quickly.
//
// # Reconfiguration
//
// [Bridge.Reconfigure] swaps the whole routing configuration atomically;
// in-flight calls complete against the configuration they started with.
package bridge
