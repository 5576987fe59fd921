// Package bridge implements the bridged-call pipeline: invocation over the
// native command channel, bounded redirect chasing, real-network fallback,
// and the readiness gate that holds traffic until the backend answers its
// probe.
//
// The package depends only on internal/ports interfaces and internal/domain
// envelopes; concrete channel and network implementations live in
// internal/adapters.
package bridge
