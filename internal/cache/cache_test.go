package cache

import (
	"errors"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestKeys(t *testing.T) {
	req := require.New(t)
	userID := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	channelID := uuid.MustParse("aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee")

	req.Equal("presence:user:11111111-2222-3333-4444-555555555555", presenceKey(userID))
	req.Equal("channel:aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee:members", membersKey(channelID))
	req.Equal("channel:aaaaaaaa-bbbb-cccc-dddd-eeeeeeeeeeee:messages", recentKey(channelID))
}

func TestGuard(t *testing.T) {
	t.Run("should pass through successful operations", func(t *testing.T) {
		req := require.New(t)
		g := newGuard(slog.Default())

		req.NoError(g.do("noop", func() error { return nil }))
	})

	t.Run("should surface the underlying error while the breaker is closed", func(t *testing.T) {
		req := require.New(t)
		g := newGuard(slog.Default())
		boom := errors.New("dial tcp: refused")

		err := g.do("get", func() error { return boom })
		req.ErrorIs(err, boom)
	})

	t.Run("should map the open breaker onto ErrUnavailable", func(t *testing.T) {
		req := require.New(t)
		g := newGuard(slog.Default())
		boom := errors.New("dial tcp: refused")

		// Trip the breaker: six consecutive failures.
		for range 6 {
			_ = g.do("get", func() error { return boom })
		}

		called := false
		err := g.do("get", func() error {
			called = true
			return nil
		})

		req.ErrorIs(err, ErrUnavailable)
		req.False(called, "the breaker must short-circuit the operation")
	})
}
