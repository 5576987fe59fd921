// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// In Clean Architecture / Hexagonal Architecture, ports are the boundaries
// between the application core and the outside world. They define what the
// application needs from external systems without specifying how those needs
// are fulfilled.
//
// # Port Interfaces
//
//   - [CommandInvoker]: Sends request envelopes over the native command channel
//   - [HTTPClient]: Real-network HTTP abstraction for pass-through and fallback
//   - [Logger]: Structured logging abstraction
//
// # Usage
//
// The application layer (internal/bridge) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with concrete
// implementations (socket channel, net/http, zerolog, etc.).
//
// This separation enables:
//   - Testing the pipeline with fake invokers and clients
//   - Hosting the bridge in any native shell without binding to its runtime
//   - Clear boundaries and dependency direction
package ports
