// Package secrets loads deployment configuration from AWS Secrets Manager,
// with a plain-environment fallback for local development.
//
// The secret is a single JSON object of string values. Key-store and agent
// fields are optional; media-server fields are required because the service
// cannot issue anything without them.
package secrets
