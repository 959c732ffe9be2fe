package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/campuslink/channel-delivery-service/internal/domain/model"
	"github.com/google/uuid"
)

// MessengerMiddleware decorates the ingestion engine with observability
// without touching business logic.
type MessengerMiddleware struct {
	Next   Messenger
	Logger *slog.Logger
}

func (m *MessengerMiddleware) Send(ctx context.Context, channelID, authorID uuid.UUID, content string) (*model.Message, error) {
	start := time.Now()

	msg, err := m.Next.Send(ctx, channelID, authorID, content)

	duration := time.Since(start)
	if err != nil {
		m.Logger.Warn("MESSAGE_SEND_FAILED",
			"channel_id", channelID,
			"author_id", authorID,
			"err", err,
			"duration_ms", duration.Milliseconds(),
		)
	} else {
		m.Logger.Debug("MESSAGE_SEND_COMPLETED",
			"msg_id", msg.ID,
			"channel_id", channelID,
			"duration_ms", duration.Milliseconds(),
		)
	}

	return msg, err
}

func (m *MessengerMiddleware) Delete(ctx context.Context, actorID, channelID, messageID uuid.UUID) error {
	err := m.Next.Delete(ctx, actorID, channelID, messageID)
	if err != nil {
		m.Logger.Warn("MESSAGE_DELETE_FAILED",
			"msg_id", messageID,
			"channel_id", channelID,
			"actor_id", actorID,
			"err", err,
		)
	} else {
		m.Logger.Info("MESSAGE_DELETED",
			"msg_id", messageID,
			"channel_id", channelID,
			"actor_id", actorID,
		)
	}
	return err
}

func (m *MessengerMiddleware) Create(ctx context.Context, channelID, authorID uuid.UUID, content string) (*model.Message, error) {
	start := time.Now()

	msg, err := m.Next.Create(ctx, channelID, authorID, content)
	if err != nil {
		m.Logger.Warn("MESSAGE_CREATE_FAILED",
			"channel_id", channelID,
			"author_id", authorID,
			"err", err,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	}

	return msg, err
}
