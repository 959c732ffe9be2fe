package bus

import (
	"context"

	"github.com/campuslink/channel-delivery-service/internal/domain/event"
	"github.com/campuslink/channel-delivery-service/internal/service/dto"
	"github.com/google/uuid"
)

// [ON_MESSAGE_CREATED]
// Turns the wire DTO back into the broadcast event for local fan-out.
func (h *MessageHandler) OnMessageCreatedV1(ctx context.Context, channelID uuid.UUID, raw *dto.MessageCreatedV1) (event.Eventer, error) {
	msg := raw.ToDomain()
	if msg.ID == uuid.Nil || msg.ChannelID == uuid.Nil {
		h.logger.Warn("MALFORMED_MESSAGE_DROPPED", "msg_id", raw.MessageID)
		return nil, nil // ACK: nothing to retry.
	}

	return event.NewMessageReceived(msg), nil
}
