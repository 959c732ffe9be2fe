package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/campuslink/channel-delivery-service/internal/adapter/pubsub"
	"github.com/campuslink/channel-delivery-service/internal/domain/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newChatFixture() (*ChatService, *fakeMessages, *fakeChannels, *fakeRecent, *fakeDispatcher, *fakeMemberships) {
	messages := &fakeMessages{}
	channels := newFakeChannels()
	recent := &fakeRecent{}
	dispatcher := &fakeDispatcher{}
	memberships := newFakeMemberships()

	svc := NewChatService(messages, channels, recent, newMemberGuard(memberships), dispatcher, slog.Default())
	return svc, messages, channels, recent, dispatcher, memberships
}

func TestChatService_Send(t *testing.T) {
	ctx := context.Background()
	channelID := uuid.New()
	authorID := uuid.New()

	t.Run("should persist, cache and publish when input is valid", func(t *testing.T) {
		req := require.New(t)
		svc, messages, channels, recent, dispatcher, memberships := newChatFixture()
		memberships.put(channelID, authorID, model.RoleMember)

		msg, err := svc.Send(ctx, channelID, authorID, "hello")

		req.NoError(err)
		req.NotNil(msg)
		req.Equal(model.StatusSent, msg.Status)
		req.Equal(channelID, msg.ChannelID)
		req.Equal(authorID, msg.AuthorID)

		req.Len(messages.created, 1)
		req.Len(recent.items, 1)
		req.Equal(msg.ID, channels.lastMessage[channelID])

		req.Equal(1, dispatcher.count())
		req.Equal(pubsub.TopicMessageCreated, dispatcher.events[0].topic)
		req.Equal(channelID.String(), dispatcher.events[0].channelID)
	})

	t.Run("should reject blank content before touching the store", func(t *testing.T) {
		req := require.New(t)
		svc, messages, _, _, dispatcher, memberships := newChatFixture()
		memberships.put(channelID, authorID, model.RoleMember)

		msg, err := svc.Send(ctx, channelID, authorID, "   \t\n")

		req.ErrorIs(err, ErrEmptyContent)
		req.Nil(msg)
		req.Empty(messages.created)
		req.Zero(dispatcher.count())
	})

	t.Run("should reject content longer than the durable column", func(t *testing.T) {
		req := require.New(t)
		svc, messages, _, _, dispatcher, memberships := newChatFixture()
		memberships.put(channelID, authorID, model.RoleMember)

		msg, err := svc.Send(ctx, channelID, authorID, strings.Repeat("a", model.MaxContentLen+1))

		req.ErrorIs(err, ErrContentTooLong)
		req.Nil(msg)
		req.Empty(messages.created)
		req.Zero(dispatcher.count())
	})

	t.Run("should accept content exactly at the limit", func(t *testing.T) {
		req := require.New(t)
		svc, messages, _, _, _, memberships := newChatFixture()
		memberships.put(channelID, authorID, model.RoleMember)

		msg, err := svc.Send(ctx, channelID, authorID, strings.Repeat("a", model.MaxContentLen))

		req.NoError(err)
		req.NotNil(msg)
		req.Len(messages.created, 1)
	})

	t.Run("should reject non-members", func(t *testing.T) {
		req := require.New(t)
		svc, messages, _, _, dispatcher, _ := newChatFixture()

		msg, err := svc.Send(ctx, channelID, authorID, "hello")

		req.ErrorIs(err, ErrNotMember)
		req.Nil(msg)
		req.Empty(messages.created)
		req.Zero(dispatcher.count())
	})

	t.Run("should not publish or cache when the durable write fails", func(t *testing.T) {
		req := require.New(t)
		svc, messages, channels, recent, dispatcher, memberships := newChatFixture()
		memberships.put(channelID, authorID, model.RoleMember)
		messages.createErr = errors.New("db down")

		msg, err := svc.Send(ctx, channelID, authorID, "hello")

		req.Error(err)
		req.Nil(msg)
		req.Empty(recent.items)
		req.Empty(channels.lastMessage)
		req.Zero(dispatcher.count())
	})

	t.Run("should still succeed when the cache write fails", func(t *testing.T) {
		req := require.New(t)
		svc, _, _, recent, dispatcher, memberships := newChatFixture()
		memberships.put(channelID, authorID, model.RoleMember)
		recent.pushErr = errors.New("redis down")

		msg, err := svc.Send(ctx, channelID, authorID, "hello")

		req.NoError(err)
		req.NotNil(msg)
		req.Equal(1, dispatcher.count())
	})

	t.Run("should still return the message when publishing fails", func(t *testing.T) {
		req := require.New(t)
		svc, _, _, _, dispatcher, memberships := newChatFixture()
		memberships.put(channelID, authorID, model.RoleMember)
		dispatcher.publishErr = errors.New("bus closed")

		msg, err := svc.Send(ctx, channelID, authorID, "hello")

		req.NoError(err)
		req.NotNil(msg)
	})

	t.Run("should reject a nil channel id", func(t *testing.T) {
		req := require.New(t)
		svc, _, _, _, _, _ := newChatFixture()

		_, err := svc.Send(ctx, uuid.Nil, authorID, "hello")

		req.ErrorIs(err, ErrChannelRequired)
	})
}

func TestChatService_Create(t *testing.T) {
	ctx := context.Background()
	channelID := uuid.New()
	authorID := uuid.New()

	t.Run("should persist and cache without publishing", func(t *testing.T) {
		req := require.New(t)
		svc, messages, _, recent, dispatcher, memberships := newChatFixture()
		memberships.put(channelID, authorID, model.RoleMember)

		msg, err := svc.Create(ctx, channelID, authorID, "via rest")

		req.NoError(err)
		req.NotNil(msg)
		req.Len(messages.created, 1)
		req.Len(recent.items, 1)
		req.Zero(dispatcher.count())
	})
}

func TestChatService_Delete(t *testing.T) {
	ctx := context.Background()
	channelID := uuid.New()
	adminID := uuid.New()
	memberID := uuid.New()
	messageID := uuid.New()

	t.Run("should let an admin delete", func(t *testing.T) {
		req := require.New(t)
		svc, _, _, _, _, memberships := newChatFixture()
		memberships.put(channelID, adminID, model.RoleAdmin)

		req.NoError(svc.Delete(ctx, adminID, channelID, messageID))
	})

	t.Run("should refuse a plain member", func(t *testing.T) {
		req := require.New(t)
		svc, _, _, _, _, memberships := newChatFixture()
		memberships.put(channelID, memberID, model.RoleMember)

		req.ErrorIs(svc.Delete(ctx, memberID, channelID, messageID), ErrForbidden)
	})

	t.Run("should refuse an outsider", func(t *testing.T) {
		req := require.New(t)
		svc, _, _, _, _, _ := newChatFixture()

		req.ErrorIs(svc.Delete(ctx, uuid.New(), channelID, messageID), ErrNotMember)
	})
}

func TestRecentCache_Cap(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	channelID := uuid.New()
	authorID := uuid.New()

	svc, _, _, recent, _, memberships := newChatFixture()
	memberships.put(channelID, authorID, model.RoleMember)

	var last *model.Message
	for range 120 {
		msg, err := svc.Create(ctx, channelID, authorID, "spam")
		req.NoError(err)
		last = msg
	}

	list, err := recent.List(ctx, channelID)
	req.NoError(err)
	req.Len(list, 100)
	// Newest entry stays at the head after trimming.
	req.Equal(last.ID, list[0].ID)
}
