// Package audit provides the asynchronous audit event pipeline for the
// token service.
//
// Events carry the server-side detail that is deliberately withheld from
// callers: which stage of the pipeline failed and why. The dispatcher
// forwards events to a pluggable sink on its own goroutine so that audit
// I/O never blocks the request path.
//
// # What this package must NOT do
//
//   - Record caller credentials. Events describe outcomes, never key
//     material.
//   - Import callgate or any sibling package.
package audit
