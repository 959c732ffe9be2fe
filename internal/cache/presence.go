package cache

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// PresenceHandle identifies the connection currently representing a user.
type PresenceHandle struct {
	ConnectionID string `json:"connection_id"`
	Node         string `json:"node"`
}

// Presence is the live mapping from user id to its current connection
// handle. At most one mapping per user; register overwrites (last write
// wins), deregister is a no-op when absent.
type Presence interface {
	Register(ctx context.Context, userID uuid.UUID, handle PresenceHandle) error
	Deregister(ctx context.Context, userID uuid.UUID) error
	Lookup(ctx context.Context, userID uuid.UUID) (*PresenceHandle, error)
}

var _ Presence = (*RedisPresence)(nil)

type RedisPresence struct {
	rdb    *redis.Client
	guard  *guard
	logger *slog.Logger
}

func NewRedisPresence(rdb *redis.Client, guard *guard, logger *slog.Logger) *RedisPresence {
	return &RedisPresence{
		rdb:    rdb,
		guard:  guard,
		logger: logger.With("component", "presence"),
	}
}

func (p *RedisPresence) Register(ctx context.Context, userID uuid.UUID, handle PresenceHandle) error {
	payload, err := json.Marshal(handle)
	if err != nil {
		return err
	}
	return p.guard.do("presence.register", func() error {
		return p.rdb.Set(ctx, presenceKey(userID), payload, 0).Err()
	})
}

func (p *RedisPresence) Deregister(ctx context.Context, userID uuid.UUID) error {
	return p.guard.do("presence.deregister", func() error {
		return p.rdb.Del(ctx, presenceKey(userID)).Err()
	})
}

// Lookup returns (nil, nil) when the user has no registered connection.
func (p *RedisPresence) Lookup(ctx context.Context, userID uuid.UUID) (*PresenceHandle, error) {
	var raw string
	err := p.guard.do("presence.lookup", func() error {
		var getErr error
		raw, getErr = p.rdb.Get(ctx, presenceKey(userID)).Result()
		if getErr == redis.Nil {
			raw = ""
			return nil
		}
		return getErr
	})
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	var handle PresenceHandle
	if err := json.Unmarshal([]byte(raw), &handle); err != nil {
		return nil, err
	}
	return &handle, nil
}
