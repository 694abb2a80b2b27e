package callgate

import (
	"context"
	"io"

	internalaudit "callgate/internal/audit"
)

// CredentialResolver resolves a caller-supplied API key to an authorization
// decision. Implementations look the credential up verbatim in a remote
// store: (true, nil) means a well-formed record exists, (false, nil) means
// the credential is unknown, and a non-nil error means the store could not
// answer. The keystore package provides the Redis-backed implementation;
// tests substitute a double.
type CredentialResolver interface {
	Resolve(ctx context.Context, credential string) (bool, error)
}

// MediaService abstracts the two media-server capabilities the issuer
// needs: room creation and token signing. The media package provides the
// production implementation.
type MediaService interface {
	CreateRoom(ctx context.Context, roomName string) error
	SignToken(ctx context.Context, roomName, participant, agent, metadata string) (string, error)
}

// SessionDescriptor is the room/participant/agent triple bound into an
// issued token. It is created per request and never persisted.
type SessionDescriptor struct {
	RoomName    string
	Participant string
	Agent       string
	// Metadata is the JSON dispatch metadata handed to the agent.
	Metadata string
}

// Grant is the result of a successful issuance: the signed token plus the
// descriptor fields echoed for the caller.
type Grant struct {
	Token       string `json:"token"`
	RoomName    string `json:"room_name"`
	Participant string `json:"participant"`
	Agent       string `json:"agent"`
}

// TokenRequest is the optional caller-supplied body of a token request.
// A zero value requests the configured default agent with no customer
// metadata.
type TokenRequest struct {
	AgentName string        `json:"agent_name,omitempty"`
	Customer  *CustomerInfo `json:"customer,omitempty"`
}

// CustomerInfo is optional caller context embedded into the dispatch
// metadata so the agent knows who it is talking to.
type CustomerInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuditEvent is a structured audit record emitted by the engine.
type AuditEvent = internalaudit.Event

// AuditSink receives [AuditEvent] values from the engine's audit
// dispatcher.
type AuditSink = internalaudit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = internalaudit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = internalaudit.ChannelSink

// JSONWriterSink is an [AuditSink] that writes JSON-encoded events to an
// [io.Writer], one object per line.
type JSONWriterSink = internalaudit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return internalaudit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return internalaudit.NewJSONWriterSink(w)
}
