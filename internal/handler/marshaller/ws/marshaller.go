package wsmarshaller

import (
	"encoding/json"
	"fmt"

	"github.com/campuslink/channel-delivery-service/internal/domain/event"
)

// WSEvent is a generic wrapper for WebSocket messages to provide consistent structure
type WSEvent struct {
	Event   string `json:"event"` // e.g., "message:received", "connected"
	ID      string `json:"id"`    // message or event ID
	SentAt  int64  `json:"sent_at"`
	Payload any    `json:"payload"`
}

var kindNames = map[event.EventKind]string{
	event.Connected:       "connected",
	event.MessageReceived: "message:received",
	event.MessageSent:     "message:sent",
	event.MessageError:    "message:error",
	event.TypingStarted:   "typing:started",
	event.TypingStopped:   "typing:stopped",
}

// MarshallDeliveryEvent prepares data for WebSocket transmission.
// Domain payloads are mapped to wire-friendly JSON shapes; the transport
// never sees GORM models directly.
func MarshallDeliveryEvent(ev event.Eventer) ([]byte, error) {
	name, ok := kindNames[ev.GetKind()]
	if !ok {
		return nil, fmt.Errorf("ws marshaller: unknown event kind %d", ev.GetKind())
	}

	res := &WSEvent{
		Event:   name,
		ID:      ev.GetID(),
		SentAt:  ev.GetOccurredAt(),
		Payload: mapPayload(ev.GetPayload()),
	}

	return json.Marshal(res)
}
