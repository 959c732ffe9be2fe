package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/campuslink/channel-delivery-service/internal/domain/model"
	"github.com/google/uuid"
)

// ChannelManager covers the channel admin surface of the REST layer.
// Mutating operations require the admin role in the channel's durable
// membership record.
type ChannelManager interface {
	CreateChannel(ctx context.Context, creatorID uuid.UUID, name string, kind model.ChannelKind) (*model.Channel, error)
	UpdateChannel(ctx context.Context, actorID uuid.UUID, ch *model.Channel) error
	DeleteChannel(ctx context.Context, actorID, channelID uuid.UUID) error
	AddMember(ctx context.Context, actorID, channelID, userID uuid.UUID, role model.Role) error
	RemoveMember(ctx context.Context, actorID, channelID, userID uuid.UUID) error
	ListMembers(ctx context.Context, actorID, channelID uuid.UUID) ([]*model.Membership, error)
}

var _ ChannelManager = (*ChannelService)(nil)

type ChannelService struct {
	channels model.ChannelRepository
	members  model.MembershipRepository
	guard    *memberGuard
	logger   *slog.Logger
}

func NewChannelService(
	channels model.ChannelRepository,
	members model.MembershipRepository,
	guard *memberGuard,
	logger *slog.Logger,
) *ChannelService {
	return &ChannelService{
		channels: channels,
		members:  members,
		guard:    guard,
		logger:   logger.With("component", "channels"),
	}
}

// CreateChannel persists the channel and makes the creator its first admin.
func (s *ChannelService) CreateChannel(ctx context.Context, creatorID uuid.UUID, name string, kind model.ChannelKind) (*model.Channel, error) {
	if name == "" {
		return nil, fmt.Errorf("channel name is required")
	}
	if kind == "" {
		kind = model.ChannelPublic
	}

	ch := &model.Channel{
		ID:        uuid.New(),
		Name:      name,
		Kind:      kind,
		CreatorID: creatorID,
	}
	if err := s.channels.Create(ctx, ch); err != nil {
		return nil, fmt.Errorf("create channel: %w", err)
	}

	if err := s.members.Add(ctx, &model.Membership{
		ChannelID: ch.ID,
		UserID:    creatorID,
		Role:      model.RoleAdmin,
	}); err != nil {
		return nil, fmt.Errorf("create channel admin membership: %w", err)
	}

	return ch, nil
}

func (s *ChannelService) UpdateChannel(ctx context.Context, actorID uuid.UUID, ch *model.Channel) error {
	if err := s.requireAdmin(ctx, ch.ID, actorID); err != nil {
		return err
	}
	return s.channels.Update(ctx, ch)
}

func (s *ChannelService) DeleteChannel(ctx context.Context, actorID, channelID uuid.UUID) error {
	if err := s.requireAdmin(ctx, channelID, actorID); err != nil {
		return err
	}
	return s.channels.Delete(ctx, channelID)
}

// AddMember is idempotent at the store level; re-adding a member is a no-op.
func (s *ChannelService) AddMember(ctx context.Context, actorID, channelID, userID uuid.UUID, role model.Role) error {
	if err := s.requireAdmin(ctx, channelID, actorID); err != nil {
		return err
	}
	if role == "" {
		role = model.RoleMember
	}

	err := s.members.Add(ctx, &model.Membership{
		ChannelID: channelID,
		UserID:    userID,
		Role:      role,
	})
	if err != nil {
		return fmt.Errorf("add member: %w", err)
	}

	// A stale cached role (e.g. a demotion re-add) must not survive.
	s.guard.forget(channelID, userID)
	return nil
}

// RemoveMember revokes the durable membership. The user's cached role is
// dropped immediately so history and ingestion see the revocation on their
// next check.
func (s *ChannelService) RemoveMember(ctx context.Context, actorID, channelID, userID uuid.UUID) error {
	if err := s.requireAdmin(ctx, channelID, actorID); err != nil {
		return err
	}

	if err := s.members.Remove(ctx, channelID, userID); err != nil {
		return fmt.Errorf("remove member: %w", err)
	}

	s.guard.forget(channelID, userID)
	return nil
}

// ListMembers requires plain membership, not admin.
func (s *ChannelService) ListMembers(ctx context.Context, actorID, channelID uuid.UUID) ([]*model.Membership, error) {
	if _, err := s.guard.role(ctx, channelID, actorID); err != nil {
		return nil, err
	}
	return s.members.ListByChannel(ctx, channelID)
}

func (s *ChannelService) requireAdmin(ctx context.Context, channelID, actorID uuid.UUID) error {
	role, err := s.guard.role(ctx, channelID, actorID)
	if err != nil {
		return err
	}
	if role != model.RoleAdmin {
		return ErrForbidden
	}
	return nil
}
