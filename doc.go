// Package callgate issues short-lived media access tokens for real-time
// voice sessions. Each issued token is bound to a freshly created room, a
// freshly generated participant identity, and an agent dispatch directive.
// Callers authenticate with a static API key resolved against a remote
// Redis-backed allow-list.
//
// The package is designed for concurrent server workloads: Engine methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// callgate is the public surface. It exposes [Engine], [Builder], [Config],
// and value types (Grant, SessionDescriptor, MetricsSnapshot). Credential
// resolution lives in the keystore package, media-server calls in the media
// package, and audit dispatch under internal/.
//
// # What this package must NOT do
//
//   - Expose Redis clients, media SDK clients, or store key layouts in its
//     public API.
//   - Perform I/O outside of Engine methods (construction via Builder is
//     allocation-only until Build).
//   - Retain any per-request state after the request returns: issued tokens
//     are never persisted and rooms are never tracked.
package callgate
