// Package server exposes the token-issuance engine over HTTP.
//
// Two routes exist: GET / returns a welcome payload, POST /token validates
// the X-API-Key header and returns a signed session grant. Error responses
// never echo credentials or internal error detail to the caller.
package server
