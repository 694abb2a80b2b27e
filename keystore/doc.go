// Package keystore resolves caller API keys against a Redis allow-list.
//
// # Architecture boundaries
//
// The store answers exactly one question: does a record exist for this
// credential. It never inspects the stored value beyond presence, never
// writes on the read path, and never decides how an unknown credential is
// reported to the caller.
//
// # What this package must NOT do
//
//   - It must not cache negative results across the configured TTL.
//   - It must not retry a failed lookup; the caller owns retry policy.
//   - It must not log or persist credential values.
package keystore
