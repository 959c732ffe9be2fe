package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/campuslink/channel-delivery-service/internal/domain/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newChannelFixture() (*ChannelService, *fakeChannels, *fakeMemberships) {
	channels := newFakeChannels()
	memberships := newFakeMemberships()

	svc := NewChannelService(channels, memberships, newMemberGuard(memberships), slog.Default())
	return svc, channels, memberships
}

func TestChannelService_CreateChannel(t *testing.T) {
	ctx := context.Background()

	t.Run("should make the creator the first admin", func(t *testing.T) {
		req := require.New(t)
		svc, channels, memberships := newChannelFixture()
		creatorID := uuid.New()

		ch, err := svc.CreateChannel(ctx, creatorID, "cs-101", model.ChannelPublic)

		req.NoError(err)
		req.NotNil(ch)
		req.Len(channels.created, 1)

		m, err := memberships.Get(ctx, ch.ID, creatorID)
		req.NoError(err)
		req.NotNil(m)
		req.Equal(model.RoleAdmin, m.Role)
	})

	t.Run("should default the kind to public", func(t *testing.T) {
		req := require.New(t)
		svc, _, _ := newChannelFixture()

		ch, err := svc.CreateChannel(ctx, uuid.New(), "lounge", "")

		req.NoError(err)
		req.Equal(model.ChannelPublic, ch.Kind)
	})

	t.Run("should require a name", func(t *testing.T) {
		req := require.New(t)
		svc, _, _ := newChannelFixture()

		_, err := svc.CreateChannel(ctx, uuid.New(), "", model.ChannelPublic)

		req.Error(err)
	})
}

func TestChannelService_AddMember(t *testing.T) {
	ctx := context.Background()

	t.Run("should let an admin add a member", func(t *testing.T) {
		req := require.New(t)
		svc, _, memberships := newChannelFixture()
		channelID := uuid.New()
		adminID := uuid.New()
		newUserID := uuid.New()
		memberships.put(channelID, adminID, model.RoleAdmin)

		req.NoError(svc.AddMember(ctx, adminID, channelID, newUserID, model.RoleMember))

		m, err := memberships.Get(ctx, channelID, newUserID)
		req.NoError(err)
		req.NotNil(m)
		req.Equal(model.RoleMember, m.Role)
	})

	t.Run("should refuse a plain member", func(t *testing.T) {
		req := require.New(t)
		svc, _, memberships := newChannelFixture()
		channelID := uuid.New()
		memberID := uuid.New()
		memberships.put(channelID, memberID, model.RoleMember)

		err := svc.AddMember(ctx, memberID, channelID, uuid.New(), model.RoleMember)

		req.ErrorIs(err, ErrForbidden)
	})

	t.Run("should refuse an outsider", func(t *testing.T) {
		req := require.New(t)
		svc, _, _ := newChannelFixture()

		err := svc.AddMember(ctx, uuid.New(), uuid.New(), uuid.New(), model.RoleMember)

		req.ErrorIs(err, ErrNotMember)
	})
}

func TestChannelService_RemoveMember(t *testing.T) {
	ctx := context.Background()

	t.Run("should revoke membership and the cached role", func(t *testing.T) {
		req := require.New(t)
		svc, _, memberships := newChannelFixture()
		channelID := uuid.New()
		adminID := uuid.New()
		memberID := uuid.New()
		memberships.put(channelID, adminID, model.RoleAdmin)
		memberships.put(channelID, memberID, model.RoleMember)

		// Warm the guard cache with the member's role first.
		_, err := svc.ListMembers(ctx, memberID, channelID)
		req.NoError(err)

		req.NoError(svc.RemoveMember(ctx, adminID, channelID, memberID))

		// The revocation is visible immediately despite the earlier lookup.
		_, err = svc.ListMembers(ctx, memberID, channelID)
		req.ErrorIs(err, ErrNotMember)
	})

	t.Run("should refuse a plain member", func(t *testing.T) {
		req := require.New(t)
		svc, _, memberships := newChannelFixture()
		channelID := uuid.New()
		memberID := uuid.New()
		memberships.put(channelID, memberID, model.RoleMember)

		err := svc.RemoveMember(ctx, memberID, channelID, uuid.New())

		req.ErrorIs(err, ErrForbidden)
	})
}

func TestChannelService_ListMembers(t *testing.T) {
	ctx := context.Background()

	t.Run("should require plain membership only", func(t *testing.T) {
		req := require.New(t)
		svc, _, memberships := newChannelFixture()
		channelID := uuid.New()
		memberID := uuid.New()
		memberships.put(channelID, memberID, model.RoleMember)

		list, err := svc.ListMembers(ctx, memberID, channelID)

		req.NoError(err)
		req.Len(list, 1)
	})

	t.Run("should refuse non-members", func(t *testing.T) {
		req := require.New(t)
		svc, _, memberships := newChannelFixture()
		channelID := uuid.New()
		memberships.put(channelID, uuid.New(), model.RoleMember)

		_, err := svc.ListMembers(ctx, uuid.New(), channelID)

		req.ErrorIs(err, ErrNotMember)
	})
}

func TestChannelService_DeleteChannel(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	svc, _, memberships := newChannelFixture()
	channelID := uuid.New()
	adminID := uuid.New()
	memberID := uuid.New()
	memberships.put(channelID, adminID, model.RoleAdmin)
	memberships.put(channelID, memberID, model.RoleMember)

	req.ErrorIs(svc.DeleteChannel(ctx, memberID, channelID), ErrForbidden)
	req.NoError(svc.DeleteChannel(ctx, adminID, channelID))
}
