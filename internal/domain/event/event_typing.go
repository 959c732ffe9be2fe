package event

import (
	"time"

	"github.com/google/uuid"
)

var _ Eventer = (*TypingEvent)(nil)

type TypingPayload struct {
	UserID    string `json:"userId"`
	ChannelID string `json:"channelId"`
}

// TypingEvent is purely best-effort UI hinting: no persistence, no cache
// interaction, lowest priority so it is the first thing shed under
// backpressure.
type TypingEvent struct {
	id         string
	channelID  uuid.UUID
	userID     uuid.UUID
	started    bool
	occurredAt int64
}

func NewTypingStarted(channelID, userID uuid.UUID) *TypingEvent {
	return newTyping(channelID, userID, true)
}

func NewTypingStopped(channelID, userID uuid.UUID) *TypingEvent {
	return newTyping(channelID, userID, false)
}

func newTyping(channelID, userID uuid.UUID, started bool) *TypingEvent {
	return &TypingEvent{
		id:         uuid.NewString(),
		channelID:  channelID,
		userID:     userID,
		started:    started,
		occurredAt: time.Now().UnixMilli(),
	}
}

func (e *TypingEvent) GetID() string { return e.id }

func (e *TypingEvent) GetKind() EventKind {
	if e.started {
		return TypingStarted
	}
	return TypingStopped
}

func (e *TypingEvent) GetChannelID() uuid.UUID    { return e.channelID }
func (e *TypingEvent) GetUserID() uuid.UUID       { return e.userID }
func (e *TypingEvent) GetPriority() EventPriority { return PriorityLow }
func (e *TypingEvent) GetOccurredAt() int64       { return e.occurredAt }

func (e *TypingEvent) GetPayload() any {
	return &TypingPayload{
		UserID:    e.userID.String(),
		ChannelID: e.channelID.String(),
	}
}
