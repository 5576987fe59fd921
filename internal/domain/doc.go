// Package domain contains the core domain entities and value objects for hostbridge.
//
// This package represents the innermost layer of the Clean Architecture. It has
// no dependencies on infrastructure concerns (sockets, HTTP, logging) and
// contains only the envelope model and the error taxonomy.
//
// # Entities
//
//   - [Request]: transport-neutral HTTP request envelope crossing the native boundary
//   - [Response]: transport-neutral HTTP response envelope, body kept as raw bytes
//   - [Header]: case-insensitive string mapping shared by both envelopes
//
// # Design Principles
//
// Domain entities are:
//   - Immutable after construction (where practical)
//   - Free of infrastructure dependencies
//   - Focused on the native command contract and its invariants
//   - Testable without mocks or external systems
package domain
