package registry

import (
	"sync"
	"time"

	"github.com/campuslink/channel-delivery-service/internal/domain/event"
	"github.com/campuslink/channel-delivery-service/internal/domain/model"
	"github.com/google/uuid"
)

// Hubber defines the gateway for channel subscription management and fan-out.
type Hubber interface {
	Broadcast(ev event.Eventer) bool
	BroadcastExcept(ev event.Eventer, exceptConnID uuid.UUID) bool
	Subscribe(channelID uuid.UUID, conn Connector)
	Unsubscribe(channelID, connID uuid.UUID)
	HasSubscribers(channelID uuid.UUID) bool
	Stats() model.HubStats
	Shutdown()
}

type hubConfig struct {
	evictionInterval time.Duration
	idleTimeout      time.Duration
	mailboxSize      int
}

// Hub routes events to per-channel cells. Cells are created lazily on the
// first subscription and reclaimed when the last session detaches.
type Hub struct {
	// cells stores Map[uuid.UUID]Celler keyed by channel id.
	cells     sync.Map
	config    hubConfig
	startedAt time.Time
	stopCh    chan struct{}
	stopOnce  sync.Once
}

func NewHub(opts ...Option) *Hub {
	h := &Hub{
		config: hubConfig{
			evictionInterval: 15 * time.Minute,
			idleTimeout:      30 * time.Minute,
			mailboxSize:      2048,
		},
		startedAt: time.Now(),
		stopCh:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	go h.janitor()
	return h
}

func (h *Hub) HasSubscribers(channelID uuid.UUID) bool {
	_, ok := h.cells.Load(channelID)
	return ok
}

// Broadcast routes the event to every live session of its channel.
// Returns false on a cold channel or a saturated mailbox.
func (h *Hub) Broadcast(ev event.Eventer) bool {
	return h.push(ev, uuid.Nil)
}

// BroadcastExcept routes the event to every session of the channel except
// the named connection. Used by typing indicators to skip the sender.
func (h *Hub) BroadcastExcept(ev event.Eventer, exceptConnID uuid.UUID) bool {
	return h.push(ev, exceptConnID)
}

func (h *Hub) push(ev event.Eventer, except uuid.UUID) bool {
	if val, ok := h.cells.Load(ev.GetChannelID()); ok {
		if cell, ok := val.(Celler); ok {
			return cell.Push(ev, except)
		}
	}
	return false
}

// Subscribe ensures idempotent cell creation and attaches the session.
// Subscribing the same connection twice is a no-op at the cell level.
func (h *Hub) Subscribe(channelID uuid.UUID, conn Connector) {
	val, _ := h.cells.LoadOrStore(channelID, NewCell(channelID, h.config.mailboxSize))

	if cell, ok := val.(Celler); ok {
		cell.Attach(conn)
	}
}

// Unsubscribe detaches the session and purges the cell once empty.
func (h *Hub) Unsubscribe(channelID, connID uuid.UUID) {
	if val, ok := h.cells.Load(channelID); ok {
		if cell, ok := val.(Celler); ok {
			if cell.Detach(connID) {
				cell.Stop()
				h.cells.Delete(channelID)
			}
		}
	}
}

func (h *Hub) Stats() model.HubStats {
	stats := model.HubStats{Uptime: time.Since(h.startedAt)}
	h.cells.Range(func(_, val any) bool {
		if cell, ok := val.(Celler); ok {
			stats.ActiveChannels++
			stats.TotalSessions += cell.Sessions()
		}
		return true
	})
	return stats
}

// janitor reclaims cells whose channel has had no sessions and no traffic
// for the configured quiet period.
func (h *Hub) janitor() {
	ticker := time.NewTicker(h.config.evictionInterval)
	defer ticker.Stop()

	for {
		select {
		case <-h.stopCh:
			return
		case <-ticker.C:
			h.cells.Range(func(key, val any) bool {
				if cell, ok := val.(Celler); ok && cell.IsIdle(h.config.idleTimeout) {
					cell.Stop()
					h.cells.Delete(key)
				}
				return true
			})
		}
	}
}

// Shutdown stops the janitor and every cell goroutine.
func (h *Hub) Shutdown() {
	h.stopOnce.Do(func() {
		close(h.stopCh)
		h.cells.Range(func(key, val any) bool {
			if cell, ok := val.(Celler); ok {
				cell.Stop()
			}
			h.cells.Delete(key)
			return true
		})
	})
}
