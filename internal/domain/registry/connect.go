package registry

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/campuslink/channel-delivery-service/internal/domain/event"
	"github.com/google/uuid"
)

// Interface guard
var _ Connector = (*connect)(nil)

// Connector is the handle the Hub and services hold for one live session.
// This allows mocking and decoupling from the concrete implementation.
type Connector interface {
	GetID() uuid.UUID
	GetUserID() uuid.UUID
	Send(ev event.Eventer, timeout time.Duration) bool // thread-safe, backpressure-aware
	Recv() <-chan event.Eventer
	Close() // terminate connection and release resources
}

// connect is unexported to force interface usage.
type connect struct {
	id        uuid.UUID
	userID    uuid.UUID
	createdAt time.Time
	ctx       context.Context
	cancelFn  context.CancelFunc
	sendCh    chan event.Eventer
	closeOnce sync.Once

	// atomic fields
	lastActivityAt int64
	droppedCount   uint64
}

var connectPool = sync.Pool{
	New: func() any {
		return &connect{}
	},
}

// NewConnector returns a pooled session handle bound to the given user.
func NewConnector(ctx context.Context, userID uuid.UUID, bufferSize int) Connector {
	c := connectPool.Get().(*connect)
	c.reset(ctx, userID, bufferSize)
	return c
}

// reset re-initializes the connector's internal state using a struct literal,
// wiping stale data from pooled objects and re-arming the sync.Once guard.
func (c *connect) reset(ctx context.Context, userID uuid.UUID, bufferSize int) {
	childCtx, cancel := context.WithCancel(ctx)

	*c = connect{
		id:             uuid.New(),
		userID:         userID,
		createdAt:      time.Now(),
		ctx:            childCtx,
		cancelFn:       cancel,
		sendCh:         make(chan event.Eventer, bufferSize),
		lastActivityAt: time.Now().UnixNano(),
	}
}

func (c *connect) GetID() uuid.UUID     { return c.id }
func (c *connect) GetUserID() uuid.UUID { return c.userID }

// Send attempts to enqueue the event into the session's mailbox, waiting up
// to timeout for space. A saturated buffer triggers priority shedding.
func (c *connect) Send(ev event.Eventer, timeout time.Duration) bool {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	select {
	// Abort immediately if the underlying transport is already dead.
	case <-c.ctx.Done():
		return false

	case c.sendCh <- ev:
		atomic.StoreInt64(&c.lastActivityAt, time.Now().UnixNano())
		return true

	// Buffer stayed saturated for the whole window: persistent slow consumer.
	case <-ctx.Done():
		return c.handleBackpressure(ev, timeout)
	}
}

// handleBackpressure manages full buffers by dropping low-priority events.
// Typing indicators go first; message events evict older low-priority noise.
func (c *connect) handleBackpressure(ev event.Eventer, timeout time.Duration) bool {
	if ev.GetPriority() <= event.PriorityLow {
		atomic.AddUint64(&c.droppedCount, 1)
		return false
	}

	// Try to evict one queued event of lower priority to make room.
	select {
	case oldEv := <-c.sendCh:
		if oldEv.GetPriority() < ev.GetPriority() {
			c.sendCh <- ev
			return true
		}
		// The queued event mattered too; put it back, best effort.
		select {
		case c.sendCh <- oldEv:
		default:
		}
	case <-time.After(timeout):
	}

	atomic.AddUint64(&c.droppedCount, 1)
	return false
}

func (c *connect) Recv() <-chan event.Eventer { return c.sendCh }

// Close terminates the session, triggers cleanup, and recycles the object.
// Safe under concurrent calls from the Hub (shutdown), Cell (eviction) and
// the gateway's own defer.
func (c *connect) Close() {
	c.closeOnce.Do(func() {
		// Cancel first so pending Send operations bail out.
		c.cancelFn()

		// Closing the channel signals the write pump (via !ok) to exit.
		if c.sendCh != nil {
			close(c.sendCh)
		}

		// Zero references before the object idles in the pool.
		c.sendCh = nil

		connectPool.Put(c)
	})
}
