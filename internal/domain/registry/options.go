package registry

import "time"

// Option defines a functional configuration type for the Hub.
type Option func(*Hub)

// WithEvictionInterval configures how often the janitor process runs
// to reclaim memory from inactive channels.
func WithEvictionInterval(d time.Duration) Option {
	return func(h *Hub) {
		h.config.evictionInterval = d
	}
}

// WithIdleTimeout defines the quiet period after which a channel cell
// without active sessions is considered eligible for eviction.
func WithIdleTimeout(d time.Duration) Option {
	return func(h *Hub) {
		h.config.idleTimeout = d
	}
}

// WithMailboxSize sets the buffer capacity of each channel's actor mailbox.
func WithMailboxSize(size int) Option {
	return func(h *Hub) {
		h.config.mailboxSize = size
	}
}
