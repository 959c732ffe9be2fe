package cache

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Members maintains the cache-resident set of joined user ids per channel.
// It is an ephemeral, best-effort view rebuilt by explicit join calls.
// Disconnects deliberately do not touch it; only explicit leave does.
type Members interface {
	Add(ctx context.Context, channelID, userID uuid.UUID) error
	Remove(ctx context.Context, channelID, userID uuid.UUID) error
	List(ctx context.Context, channelID uuid.UUID) ([]uuid.UUID, error)
}

var _ Members = (*RedisMembers)(nil)

type RedisMembers struct {
	rdb    *redis.Client
	guard  *guard
	logger *slog.Logger
}

func NewRedisMembers(rdb *redis.Client, guard *guard, logger *slog.Logger) *RedisMembers {
	return &RedisMembers{
		rdb:    rdb,
		guard:  guard,
		logger: logger.With("component", "members"),
	}
}

// Add is idempotent: SADD of a present member is a no-op.
func (m *RedisMembers) Add(ctx context.Context, channelID, userID uuid.UUID) error {
	return m.guard.do("members.add", func() error {
		return m.rdb.SAdd(ctx, membersKey(channelID), userID.String()).Err()
	})
}

func (m *RedisMembers) Remove(ctx context.Context, channelID, userID uuid.UUID) error {
	return m.guard.do("members.remove", func() error {
		return m.rdb.SRem(ctx, membersKey(channelID), userID.String()).Err()
	})
}

func (m *RedisMembers) List(ctx context.Context, channelID uuid.UUID) ([]uuid.UUID, error) {
	var raw []string
	err := m.guard.do("members.list", func() error {
		var listErr error
		raw, listErr = m.rdb.SMembers(ctx, membersKey(channelID)).Result()
		return listErr
	})
	if err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, parseErr := uuid.Parse(s)
		if parseErr != nil {
			m.logger.Warn("MEMBER_SET_CORRUPT_ENTRY", "channel_id", channelID, "entry", s)
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}
