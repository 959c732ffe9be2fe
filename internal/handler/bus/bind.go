package bus

import (
	"context"
	"encoding/json"
	"runtime/debug"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/campuslink/channel-delivery-service/internal/adapter/pubsub"
	"github.com/campuslink/channel-delivery-service/internal/domain/event"
	"github.com/google/uuid"
)

// DomainHandler defines the functional signature for business logic.
type DomainHandler[T any] func(ctx context.Context, channelID uuid.UUID, payload *T) (event.Eventer, error)

// [INFRASTRUCTURE_BRIDGE]
// Bind connects Watermill to Domain logic, handling Panic Recovery, Locality, and Fan-out.
func Bind[T any](h *MessageHandler, fn DomainHandler[T]) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		// [PANIC_RECOVERY]
		// Safely handle runtime panics to keep the consumer alive.
		defer func() {
			if r := recover(); r != nil {
				h.logger.Error("PANIC_RECOVERED",
					"err", r,
					"stack", string(debug.Stack()),
					"msg_id", msg.UUID)
			}
		}()

		// [IDENTIFICATION]
		// Extract the target channel UUID from metadata for routing decisions.
		channelID, ok := resolveChannelID(msg)
		if !ok {
			h.logger.Warn("ROUTING_FAILED: channel_missing", "msg_id", msg.UUID)
			return nil // ACK: Invalid routing is a terminal state.
		}

		// [LOCALITY_FILTER]
		// Fan-out is cut short when no live session follows this channel here.
		if !h.hub.HasSubscribers(channelID) {
			return nil // ACK: Nobody to deliver to.
		}

		// [DECODING]
		payload := new(T)
		if err := json.Unmarshal(msg.Payload, payload); err != nil {
			h.logger.Error("DECODE_FAILED", "err", err, "msg_id", msg.UUID)
			return nil // ACK: Poison Pill protection.
		}

		// [EXECUTION]
		ev, err := fn(msg.Context(), channelID, payload)
		if err != nil {
			return err // NACK: Business failure triggers Retry policy.
		}

		if ev == nil {
			return nil
		}

		// [FAN_OUT_DISPATCH]
		// Delivery to every live subscriber of the channel on this node.
		h.hub.Broadcast(ev)
		return nil
	}
}

func resolveChannelID(msg *message.Message) (uuid.UUID, bool) {
	raw := msg.Metadata.Get(pubsub.MetaChannelID)
	if raw == "" {
		return uuid.Nil, false
	}

	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, false
	}
	return id, true
}
