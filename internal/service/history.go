package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/campuslink/channel-delivery-service/internal/cache"
	"github.com/campuslink/channel-delivery-service/internal/domain/model"
	"github.com/google/uuid"
)

// Historian answers "give me the last N messages of channel C", cache-first
// with a durable-store fallback.
type Historian interface {
	GetHistory(ctx context.Context, channelID, userID uuid.UUID, page, limit int) ([]*model.Message, error)
	ListChannels(ctx context.Context, userID uuid.UUID) ([]*model.Channel, error)
}

var _ Historian = (*HistoryService)(nil)

type HistoryService struct {
	guard    *memberGuard
	recent   cache.RecentMessages
	messages model.MessageRepository
	channels model.ChannelRepository
	logger   *slog.Logger
}

func NewHistoryService(
	guard *memberGuard,
	recent cache.RecentMessages,
	messages model.MessageRepository,
	channels model.ChannelRepository,
	logger *slog.Logger,
) *HistoryService {
	return &HistoryService{
		guard:    guard,
		recent:   recent,
		messages: messages,
		channels: channels,
		logger:   logger.With("component", "history"),
	}
}

// GetHistory requires a durable membership record. On a warm cache the
// capped list is returned as-is (page/limit only apply to the fallback);
// cache unavailability is treated as a miss and falls through silently.
func (s *HistoryService) GetHistory(ctx context.Context, channelID, userID uuid.UUID, page, limit int) ([]*model.Message, error) {
	if _, err := s.guard.role(ctx, channelID, userID); err != nil {
		return nil, err
	}

	cached, err := s.recent.List(ctx, channelID)
	if err != nil {
		s.logger.Debug("RECENT_CACHE_MISS", "channel_id", channelID, "err", err)
	}
	if len(cached) > 0 {
		return cached, nil
	}

	list, err := s.messages.ListByChannel(ctx, channelID, page, limit)
	if err != nil {
		return nil, fmt.Errorf("history fallback: %w", err)
	}
	return list, nil
}

func (s *HistoryService) ListChannels(ctx context.Context, userID uuid.UUID) ([]*model.Channel, error) {
	return s.channels.ListByUser(ctx, userID)
}
