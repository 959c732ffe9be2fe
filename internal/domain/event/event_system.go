package event

import (
	"time"

	"github.com/google/uuid"
)

var (
	_ Eventer = (*SystemEvent)(nil)
)

// ConnectedPayload is sent to the client upon a successful handshake.
type ConnectedPayload struct {
	Ok            bool   `json:"ok"`
	ConnectionID  string `json:"connection_id"`
	ServerVersion string `json:"server_version"`
}

// ErrorPayload carries a sender-only failure description.
type ErrorPayload struct {
	Reason string `json:"reason"`
}

// SystemEvent is a static container for service-generated signals that are
// delivered directly to one connector, bypassing channel routing.
type SystemEvent struct {
	ID         string
	ChannelID  uuid.UUID
	UserID     uuid.UUID
	Kind       EventKind
	Priority   EventPriority
	OccurredAt int64
	Payload    any
}

func (e *SystemEvent) GetID() string              { return e.ID }
func (e *SystemEvent) GetKind() EventKind         { return e.Kind }
func (e *SystemEvent) GetChannelID() uuid.UUID    { return e.ChannelID }
func (e *SystemEvent) GetUserID() uuid.UUID       { return e.UserID }
func (e *SystemEvent) GetPriority() EventPriority { return e.Priority }
func (e *SystemEvent) GetOccurredAt() int64       { return e.OccurredAt }
func (e *SystemEvent) GetPayload() any            { return e.Payload }

// NewConnectedEvent creates the handshake confirmation signal.
func NewConnectedEvent(userID uuid.UUID, connID string, version string) *SystemEvent {
	return &SystemEvent{
		ID:         uuid.NewString(),
		UserID:     userID,
		Kind:       Connected,
		Priority:   PriorityNormal,
		OccurredAt: time.Now().UnixMilli(),
		Payload: &ConnectedPayload{
			Ok:            true,
			ConnectionID:  connID,
			ServerVersion: version,
		},
	}
}

// NewMessageError signals a failed send back to the originating connection
// only. Other members of the channel are never affected.
func NewMessageError(channelID, userID uuid.UUID, reason string) *SystemEvent {
	return &SystemEvent{
		ID:         uuid.NewString(),
		ChannelID:  channelID,
		UserID:     userID,
		Kind:       MessageError,
		Priority:   PriorityHigh,
		OccurredAt: time.Now().UnixMilli(),
		Payload:    &ErrorPayload{Reason: reason},
	}
}
