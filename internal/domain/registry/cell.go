/*
Package registry provides the fan-out core: an event distribution system
based on the Actor Model.

Key Architectural Concepts:
  - Channel Cells: every channel with at least one live subscriber is
    represented by an isolated 'Cell' (Actor) that encapsulates all concurrent
    sessions currently joined to that channel.
  - Decoupling & Backpressure: per-channel mailboxes ensure that slow network
    consumers do not block global system throughput.
  - Concurrency Management: lock-free cell lookups via sync.Map plus
    fine-grained locking inside individual cells; no global mutex.
*/
package registry

import (
	"sync"
	"time"

	"github.com/campuslink/channel-delivery-service/internal/domain/event"
	"github.com/google/uuid"
)

// Celler defines the internal API for channel-specific delivery units.
type Celler interface {
	Push(ev event.Eventer, except uuid.UUID) bool
	Attach(conn Connector)
	Detach(connID uuid.UUID) bool
	Sessions() int
	IsIdle(timeout time.Duration) bool
	Stop()
}

// delivery pairs an event with an optional excluded connection, so the
// sender-exclusion decision rides the mailbox instead of a second channel.
type delivery struct {
	ev     event.Eventer
	except uuid.UUID
}

// Cell implements isolated fan-out for a single channel.
type Cell struct {
	channelID uuid.UUID

	// mailbox decouples the dispatcher from individual delivery. It acts as
	// a shock absorber, preventing slow consumer latency from propagating
	// back to the Hub or the ingestion pipeline.
	mailbox chan delivery

	// sessions holds all live connections currently joined to the channel.
	// A connection appears here only through its own join event.
	sessions map[uuid.UUID]Connector

	// mu guards sessions. RWMutex: delivery reads outnumber join/leave writes.
	mu sync.RWMutex

	doneCh   chan struct{}
	stopOnce sync.Once

	// lastActivityAt records the last time an event was pushed to this cell.
	lastActivityAt time.Time
}

func NewCell(channelID uuid.UUID, bufferSize int) *Cell {
	c := &Cell{
		channelID:      channelID,
		mailbox:        make(chan delivery, bufferSize),
		sessions:       make(map[uuid.UUID]Connector),
		doneCh:         make(chan struct{}),
		lastActivityAt: time.Now(),
	}
	go c.loop()
	return c
}

// IsIdle reports whether the channel has no sessions and no recent traffic.
func (c *Cell) IsIdle(timeout time.Duration) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.sessions) == 0 && time.Since(c.lastActivityAt) > timeout
}

func (c *Cell) Sessions() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.sessions)
}

func (c *Cell) touch() {
	c.mu.Lock()
	c.lastActivityAt = time.Now()
	c.mu.Unlock()
}

func (c *Cell) Push(ev event.Eventer, except uuid.UUID) bool {
	c.touch()
	select {
	case c.mailbox <- delivery{ev: ev, except: except}:
		return true
	default:
		return false
	}
}

func (c *Cell) Attach(conn Connector) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastActivityAt = time.Now()
	c.sessions[conn.GetID()] = conn
}

// Detach removes the session and reports whether the cell is now empty.
func (c *Cell) Detach(connID uuid.UUID) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sessions, connID)
	c.lastActivityAt = time.Now()
	return len(c.sessions) == 0
}

func (c *Cell) loop() {
	for {
		select {
		case <-c.doneCh:
			return
		case d := <-c.mailbox:
			c.deliver(d)
		}
	}
}

func (c *Cell) deliver(d delivery) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if len(c.sessions) == 0 {
		return
	}

	for id, conn := range c.sessions {
		if id == d.except {
			continue
		}
		conn.Send(d.ev, time.Millisecond*500)
	}
}

func (c *Cell) Stop() {
	c.stopOnce.Do(func() {
		close(c.doneCh)
	})
}
