package event

import "github.com/google/uuid"

type EventKind int16

//go:generate stringer -type=EventKind
const (
	Connected       EventKind = iota + 1 // [SYSTEM]
	MessageReceived                      // [BUSINESS]
	MessageSent                          // [BUSINESS] sender-only acknowledgment
	MessageError                         // [BUSINESS] sender-only failure signal
	TypingStarted                        // [EPHEMERAL]
	TypingStopped                        // [EPHEMERAL]
)

type EventPriority int32

const (
	PriorityLow    EventPriority = 10
	PriorityNormal EventPriority = 20
	PriorityHigh   EventPriority = 30
)

// Eventer defines the contract for all data packets flowing through the Hub.
// Routing is channel-scoped: the Hub looks up the cell for GetChannelID.
type Eventer interface {
	GetID() string
	GetKind() EventKind
	GetChannelID() uuid.UUID
	GetUserID() uuid.UUID
	GetPriority() EventPriority
	GetOccurredAt() int64
	GetPayload() any
}
