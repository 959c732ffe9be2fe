package event

import (
	"github.com/campuslink/channel-delivery-service/internal/domain/model"
	"github.com/google/uuid"
)

var _ Eventer = (*MessageEvent)(nil)

// MessageEvent wraps a persisted message for fan-out to every live
// subscriber of its channel, the author included. The same shape carries the
// sender-only acknowledgment with kind MessageSent.
type MessageEvent struct {
	message *model.Message
	kind    EventKind
}

func NewMessageReceived(msg *model.Message) *MessageEvent {
	return &MessageEvent{message: msg, kind: MessageReceived}
}

// NewMessageAck is delivered straight to the sender's connector, never
// through the Hub.
func NewMessageAck(msg *model.Message) *MessageEvent {
	return &MessageEvent{message: msg, kind: MessageSent}
}

func (e *MessageEvent) GetID() string              { return e.message.ID.String() }
func (e *MessageEvent) GetKind() EventKind         { return e.kind }
func (e *MessageEvent) GetChannelID() uuid.UUID    { return e.message.ChannelID }
func (e *MessageEvent) GetUserID() uuid.UUID       { return e.message.AuthorID }
func (e *MessageEvent) GetPriority() EventPriority { return PriorityHigh }
func (e *MessageEvent) GetOccurredAt() int64       { return e.message.CreatedAt.UnixMilli() }
func (e *MessageEvent) GetPayload() any            { return e.message }
