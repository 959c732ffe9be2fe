package service

import (
	"context"
	"log/slog"
	"os"

	"github.com/campuslink/channel-delivery-service/config"
	"github.com/campuslink/channel-delivery-service/internal/cache"
	"github.com/campuslink/channel-delivery-service/internal/domain/event"
	"github.com/campuslink/channel-delivery-service/internal/domain/model"
	"github.com/campuslink/channel-delivery-service/internal/domain/registry"
	"github.com/google/uuid"
)

// Sessioner is the primary interface for the websocket gateway. It owns the
// connection lifecycle glue: presence, member-set maintenance and hub
// subscriptions.
type Sessioner interface {
	Connect(ctx context.Context, identity model.Identity) (registry.Connector, error)
	Disconnect(ctx context.Context, conn registry.Connector, joined []uuid.UUID)
	Join(ctx context.Context, channelID uuid.UUID, conn registry.Connector) error
	Leave(ctx context.Context, channelID uuid.UUID, conn registry.Connector) error
	Typing(channelID uuid.UUID, conn registry.Connector, started bool)
	Online(ctx context.Context, channelID, userID uuid.UUID) ([]uuid.UUID, error)
}

var _ Sessioner = (*SessionService)(nil)

type SessionService struct {
	hub      registry.Hubber
	presence cache.Presence
	members  cache.Members
	guard    *memberGuard
	buffer   int
	node     string
	logger   *slog.Logger
}

// defaultSessionBuffer backs connectors when the configuration leaves the
// per-session mailbox size unset.
const defaultSessionBuffer = 1024

func NewSessionService(cfg *config.Config, hub registry.Hubber, presence cache.Presence, members cache.Members, guard *memberGuard, logger *slog.Logger) *SessionService {
	node, _ := os.Hostname()

	buffer := cfg.Hub.SessionBuffer
	if buffer <= 0 {
		buffer = defaultSessionBuffer
	}

	return &SessionService{
		hub:      hub,
		presence: presence,
		members:  members,
		guard:    guard,
		buffer:   buffer,
		node:     node,
		logger:   logger.With("component", "session"),
	}
}

// Connect creates the session handle and registers presence. Presence is
// last-write-wins and degrades silently: a down cache never blocks a
// handshake that already authenticated.
func (s *SessionService) Connect(ctx context.Context, identity model.Identity) (registry.Connector, error) {
	conn := registry.NewConnector(ctx, identity.UserID, s.buffer)

	if err := s.presence.Register(ctx, identity.UserID, cache.PresenceHandle{
		ConnectionID: conn.GetID().String(),
		Node:         s.node,
	}); err != nil {
		s.logger.Warn("PRESENCE_REGISTER_DEGRADED", "user_id", identity.UserID, "err", err)
	}

	return conn, nil
}

// Disconnect tears down presence and this connection's own subscriptions.
// The cache member sets are intentionally left alone: only an explicit leave
// removes a user from a channel's member set.
func (s *SessionService) Disconnect(ctx context.Context, conn registry.Connector, joined []uuid.UUID) {
	if err := s.presence.Deregister(ctx, conn.GetUserID()); err != nil {
		s.logger.Warn("PRESENCE_DEREGISTER_DEGRADED", "user_id", conn.GetUserID(), "err", err)
	}

	for _, channelID := range joined {
		s.hub.Unsubscribe(channelID, conn.GetID())
	}

	conn.Close()
}

// Join adds the user to the channel's cache member set and subscribes the
// connection for fan-out. Both halves are idempotent. Access is checked
// against the durable membership record, not the volatile member set.
func (s *SessionService) Join(ctx context.Context, channelID uuid.UUID, conn registry.Connector) error {
	if _, err := s.guard.role(ctx, channelID, conn.GetUserID()); err != nil {
		return err
	}

	if err := s.members.Add(ctx, channelID, conn.GetUserID()); err != nil {
		s.logger.Warn("MEMBER_SET_ADD_DEGRADED", "channel_id", channelID, "err", err)
	}

	s.hub.Subscribe(channelID, conn)
	return nil
}

func (s *SessionService) Leave(ctx context.Context, channelID uuid.UUID, conn registry.Connector) error {
	if err := s.members.Remove(ctx, channelID, conn.GetUserID()); err != nil {
		s.logger.Warn("MEMBER_SET_REMOVE_DEGRADED", "channel_id", channelID, "err", err)
	}

	s.hub.Unsubscribe(channelID, conn.GetID())
	return nil
}

// Typing broadcasts an ephemeral indicator to every other subscriber of the
// channel. No persistence, no cache, no delivery guarantee.
func (s *SessionService) Typing(channelID uuid.UUID, conn registry.Connector, started bool) {
	var ev event.Eventer
	if started {
		ev = event.NewTypingStarted(channelID, conn.GetUserID())
	} else {
		ev = event.NewTypingStopped(channelID, conn.GetUserID())
	}

	s.hub.BroadcastExcept(ev, conn.GetID())
}

// Online lists the channel members that currently hold a presence handle.
// Both the member set and presence are best-effort views: a degraded cache
// yields an empty answer, never an error to the caller.
func (s *SessionService) Online(ctx context.Context, channelID, userID uuid.UUID) ([]uuid.UUID, error) {
	if _, err := s.guard.role(ctx, channelID, userID); err != nil {
		return nil, err
	}

	candidates, err := s.members.List(ctx, channelID)
	if err != nil {
		s.logger.Warn("MEMBER_SET_LIST_DEGRADED", "channel_id", channelID, "err", err)
		return nil, nil
	}

	online := make([]uuid.UUID, 0, len(candidates))
	for _, memberID := range candidates {
		handle, err := s.presence.Lookup(ctx, memberID)
		if err != nil || handle == nil {
			continue
		}
		online = append(online, memberID)
	}
	return online, nil
}
