package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/campuslink/channel-delivery-service/internal/adapter/pubsub"
	"github.com/campuslink/channel-delivery-service/internal/cache"
	"github.com/campuslink/channel-delivery-service/internal/domain/model"
	"github.com/campuslink/channel-delivery-service/internal/service/dto"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Messenger is the ingestion contract. Send is the live path: persist, cache,
// then hand the message to the fan-out pipeline. Create is the REST path:
// persist and cache only, no live fan-out.
type Messenger interface {
	Send(ctx context.Context, channelID, authorID uuid.UUID, content string) (*model.Message, error)
	Create(ctx context.Context, channelID, authorID uuid.UUID, content string) (*model.Message, error)
	Delete(ctx context.Context, actorID, channelID, messageID uuid.UUID) error
}

var _ Messenger = (*ChatService)(nil)

type ChatService struct {
	messages   model.MessageRepository
	channels   model.ChannelRepository
	recent     cache.RecentMessages
	guard      *memberGuard
	dispatcher pubsub.EventDispatcher
	logger     *slog.Logger
}

func NewChatService(
	messages model.MessageRepository,
	channels model.ChannelRepository,
	recent cache.RecentMessages,
	guard *memberGuard,
	dispatcher pubsub.EventDispatcher,
	logger *slog.Logger,
) *ChatService {
	return &ChatService{
		messages:   messages,
		channels:   channels,
		recent:     recent,
		guard:      guard,
		dispatcher: dispatcher,
		logger:     logger.With("component", "chat"),
	}
}

// Send validates, persists and caches the message, then publishes it for
// fan-out. The returned message doubles as the sender acknowledgment: it is
// only non-nil once the durable write has succeeded.
func (s *ChatService) Send(ctx context.Context, channelID, authorID uuid.UUID, content string) (*model.Message, error) {
	msg, err := s.persist(ctx, channelID, authorID, content)
	if err != nil {
		return nil, err
	}

	// Fan-out is best-effort downstream of persistence; a publish failure is
	// logged but never turns a durably saved message into a client error.
	payload := dto.FromMessage(msg)
	if err := s.dispatcher.Publish(ctx, pubsub.TopicMessageCreated, payload.ChannelID, payload); err != nil {
		s.logger.Error("FANOUT_PUBLISH_FAILED", "msg_id", msg.ID, "channel_id", channelID, "err", err)
	}

	return msg, nil
}

// Create persists and caches without publishing. Clients with an open
// connection get the message on their next history read.
func (s *ChatService) Create(ctx context.Context, channelID, authorID uuid.UUID, content string) (*model.Message, error) {
	return s.persist(ctx, channelID, authorID, content)
}

// Delete is the moderation path: admins remove a message from the durable
// store. The cached copy is not plucked out of the capped list; it ages out
// with normal traffic.
func (s *ChatService) Delete(ctx context.Context, actorID, channelID, messageID uuid.UUID) error {
	role, err := s.guard.role(ctx, channelID, actorID)
	if err != nil {
		return err
	}
	if role != model.RoleAdmin {
		return ErrForbidden
	}

	if err := s.messages.DeleteByID(ctx, messageID); err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

func (s *ChatService) persist(ctx context.Context, channelID, authorID uuid.UUID, content string) (*model.Message, error) {
	if channelID == uuid.Nil {
		return nil, ErrChannelRequired
	}
	if authorID == uuid.Nil {
		return nil, ErrAuthorRequired
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyContent
	}
	// The durable column is sized to MaxContentLen; oversized input must be
	// refused here, not surface as a store error.
	if utf8.RuneCountInString(content) > model.MaxContentLen {
		return nil, ErrContentTooLong
	}

	// Write access rides the durable membership record, never the volatile
	// member set in the cache.
	if _, err := s.guard.role(ctx, channelID, authorID); err != nil {
		return nil, err
	}

	msg := &model.Message{
		ID:        uuid.New(),
		ChannelID: channelID,
		AuthorID:  authorID,
		Content:   content,
		Status:    model.StatusSent,
		CreatedAt: time.Now(),
	}

	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("persist message: %w", err)
	}

	// Cache insertion and the last-message pointer are best-effort once the
	// durable write has landed.
	g, gCtx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := s.recent.Push(gCtx, msg); err != nil {
			s.logger.Warn("RECENT_CACHE_PUSH_FAILED", "msg_id", msg.ID, "err", err)
		}
		return nil
	})
	g.Go(func() error {
		if err := s.channels.SetLastMessage(gCtx, channelID, msg.ID); err != nil {
			s.logger.Warn("LAST_MESSAGE_UPDATE_FAILED", "channel_id", channelID, "err", err)
		}
		return nil
	})
	_ = g.Wait()

	return msg, nil
}
