package callgate

import "errors"

var (
	// ErrUnauthorized is returned when the caller credential is missing,
	// empty, or not present in the key store. It is deliberately free of
	// detail about which of those it was.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrKeyStoreUnavailable is returned when the key store could not be
	// reached or timed out. It is distinct from ErrUnauthorized: an
	// unreachable store never silently denies or silently passes.
	ErrKeyStoreUnavailable = errors.New("key store unavailable")
	// ErrRoomCreateFailed is returned when the media service rejected or
	// failed the room-creation call.
	ErrRoomCreateFailed = errors.New("room creation failed")
	// ErrTokenSignFailed is returned when the media token could not be
	// built or signed.
	ErrTokenSignFailed = errors.New("token signing failed")
	// ErrAgentNotConfigured is returned when no dispatch agent is available
	// for the request and no default is configured.
	ErrAgentNotConfigured = errors.New("agent not configured")
	// ErrEngineNotReady is returned when an Engine method is called before
	// the engine was built.
	ErrEngineNotReady = errors.New("engine not initialized")
)
