package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
)

// Topics of the in-process event pipeline between ingestion and fan-out.
const (
	TopicMessageCreated = "channel.message.created.v1"
)

// MetaChannelID carries the routing channel through message metadata.
const MetaChannelID = "channel_id"

// EventDispatcher defines the high-level contract for outgoing events.
// This keeps the ingestion service agnostic of the transport implementation.
type EventDispatcher interface {
	Publish(ctx context.Context, topic, channelID string, payload any) error
	Publisher() message.Publisher
}

// eventDispatcher is the concrete implementation (private).
type eventDispatcher struct {
	publisher message.Publisher
}

// NewEventDispatcher returns the interface instead of the pointer to the struct.
func NewEventDispatcher(pub message.Publisher) EventDispatcher {
	return &eventDispatcher{
		publisher: pub,
	}
}

func (d *eventDispatcher) Publish(ctx context.Context, topic, channelID string, payload any) error {
	if payload == nil {
		return fmt.Errorf("event dispatcher: cannot publish nil payload")
	}

	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("event dispatcher: marshal failure: %w", err)
	}

	msg := message.NewMessage(watermill.NewUUID(), raw)
	msg.Metadata.Set(MetaChannelID, channelID)
	msg.SetContext(ctx)

	if err := d.publisher.Publish(topic, msg); err != nil {
		return fmt.Errorf("event dispatcher: failed to publish to topic %s: %w", topic, err)
	}

	return nil
}

func (d *eventDispatcher) Publisher() message.Publisher {
	return d.publisher
}
