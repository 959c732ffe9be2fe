package model

import "github.com/google/uuid"

// Identity is the verified result of the authentication handshake.
// Immutable for the lifetime of a connection.
type Identity struct {
	UserID uuid.UUID
	Name   string
}
