// Package cache holds the shared-cache services: presence, channel member
// sets and the capped recent-message lists. All state here is ephemeral and
// best-effort; the durable store stays the source of truth.
package cache

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"
)

// RecentCap bounds the per-channel recent-message list. Insertion of a new
// message evicts the oldest entry once the cap is exceeded.
const RecentCap = 100

// ErrUnavailable is returned when the shared cache cannot be reached or the
// breaker is open. Callers treat it as "best effort absent", never fatal.
var ErrUnavailable = errors.New("cache: unavailable")

func presenceKey(userID uuid.UUID) string   { return "presence:user:" + userID.String() }
func membersKey(channelID uuid.UUID) string { return "channel:" + channelID.String() + ":members" }
func recentKey(channelID uuid.UUID) string  { return "channel:" + channelID.String() + ":messages" }

// guard wraps every cache operation in a shared circuit breaker so a down
// redis degrades fast instead of stalling each caller on a dial timeout.
type guard struct {
	breaker *gobreaker.CircuitBreaker
	logger  *slog.Logger
}

func newGuard(logger *slog.Logger) *guard {
	return &guard{
		logger: logger.With("component", "cache"),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "shared-cache",
			MaxRequests: 3,
			Timeout:     10 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 5
			},
		}),
	}
}

func (g *guard) do(op string, fn func() error) error {
	_, err := g.breaker.Execute(func() (any, error) {
		return nil, fn()
	})
	if err == nil {
		return nil
	}
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return ErrUnavailable
	}
	g.logger.Warn("CACHE_OP_FAILED", "op", op, "err", err)
	return err
}
