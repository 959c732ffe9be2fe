package cache

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/campuslink/channel-delivery-service/internal/domain/model"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RecentMessages is the capped, most-recent-first list of serialized
// messages per channel. Push relies on the store's atomic LPUSH+LTRIM; the
// core adds no locking of its own.
type RecentMessages interface {
	Push(ctx context.Context, msg *model.Message) error
	List(ctx context.Context, channelID uuid.UUID) ([]*model.Message, error)
}

var _ RecentMessages = (*RedisRecent)(nil)

type RedisRecent struct {
	rdb    *redis.Client
	guard  *guard
	logger *slog.Logger
}

func NewRedisRecent(rdb *redis.Client, guard *guard, logger *slog.Logger) *RedisRecent {
	return &RedisRecent{
		rdb:    rdb,
		guard:  guard,
		logger: logger.With("component", "recent"),
	}
}

// Push inserts the message at the head of its channel's list and trims the
// tail back to RecentCap entries in the same pipeline.
func (r *RedisRecent) Push(ctx context.Context, msg *model.Message) error {
	payload, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	key := recentKey(msg.ChannelID)

	return r.guard.do("recent.push", func() error {
		_, pipeErr := r.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.LPush(ctx, key, payload)
			pipe.LTrim(ctx, key, 0, RecentCap-1)
			return nil
		})
		return pipeErr
	})
}

// List returns the cached window, most-recent first. An empty result means a
// cache miss; callers fall back to the durable store.
func (r *RedisRecent) List(ctx context.Context, channelID uuid.UUID) ([]*model.Message, error) {
	var raw []string
	err := r.guard.do("recent.list", func() error {
		var rangeErr error
		raw, rangeErr = r.rdb.LRange(ctx, recentKey(channelID), 0, RecentCap-1).Result()
		return rangeErr
	})
	if err != nil {
		return nil, err
	}

	msgs := make([]*model.Message, 0, len(raw))
	for _, s := range raw {
		var m model.Message
		if unmarshalErr := json.Unmarshal([]byte(s), &m); unmarshalErr != nil {
			r.logger.Warn("RECENT_LIST_CORRUPT_ENTRY", "channel_id", channelID)
			continue
		}
		msgs = append(msgs, &m)
	}
	return msgs, nil
}
