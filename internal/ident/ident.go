// Package ident generates the identifiers embedded in media sessions.
//
// Identifiers are random, not sequential: uniqueness is probabilistic and
// nothing in the service tracks previously issued values.
package ident

import (
	"encoding/hex"

	"github.com/google/uuid"
)

const (
	roomPrefix        = "web-call-"
	participantPrefix = "identity-"

	// participantHexLen keeps participant identities short; the room name
	// carries the full entropy for the session.
	participantHexLen = 6
)

// NewRoomName returns a fresh room name of the form "web-call-" followed by
// 32 lowercase hex characters.
func NewRoomName() string {
	id := uuid.New()
	return roomPrefix + hex.EncodeToString(id[:])
}

// NewParticipantIdentity returns a fresh participant identity of the form
// "identity-" followed by 6 lowercase hex characters.
func NewParticipantIdentity() string {
	id := uuid.New()
	return participantPrefix + hex.EncodeToString(id[:])[:participantHexLen]
}
