// Package events carries the refresh signal from the parser to the tree renderer.
package events

import "sync/atomic"

// Bus delivers refresh requests without blocking the sender.
// Requests made while one is still pending are coalesced into it.
type Bus struct {
	ch    chan struct{}
	total atomic.Int64
}

// NewBus creates a refresh bus.
func NewBus() *Bus {
	return &Bus{ch: make(chan struct{}, 1)}
}

// RefreshRequested records a refresh request. It never blocks.
func (b *Bus) RefreshRequested() {
	b.total.Add(1)
	select {
	case b.ch <- struct{}{}:
	default:
	}
}

// Refresh returns the channel a renderer receives pending refreshes from.
func (b *Bus) Refresh() <-chan struct{} {
	return b.ch
}

// Requested returns how many refreshes were requested since the bus was created.
func (b *Bus) Requested() int64 {
	return b.total.Load()
}
