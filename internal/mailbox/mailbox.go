// Package mailbox provides an ordered, unbounded hand-off buffer between a
// producer that must never block and a consumer that may be slow.
package mailbox

import (
	"context"
	"errors"
	"sync"
)

// ErrClosed is returned by Put once the mailbox has been closed.
var ErrClosed = errors.New("mailbox closed")

// Mailbox is a FIFO buffer. Put never blocks; Take blocks until an item is
// available, the mailbox is closed and drained, or the context ends.
type Mailbox[T any] struct {
	mu     sync.Mutex
	items  []T
	closed bool
	ready  chan struct{} // closed and replaced whenever state changes
}

// New creates an empty mailbox.
func New[T any]() *Mailbox[T] {
	return &Mailbox[T]{ready: make(chan struct{})}
}

// Put appends an item. It never blocks.
func (m *Mailbox[T]) Put(v T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	m.items = append(m.items, v)
	m.signalLocked()
	return nil
}

// Take removes and returns the oldest item. ok is false when the mailbox is
// closed and empty, or when ctx is done first.
func (m *Mailbox[T]) Take(ctx context.Context) (v T, ok bool) {
	for {
		m.mu.Lock()
		if len(m.items) > 0 {
			v = m.items[0]
			var zero T
			m.items[0] = zero
			m.items = m.items[1:]
			m.mu.Unlock()
			return v, true
		}
		if m.closed {
			m.mu.Unlock()
			return v, false
		}
		wait := m.ready
		m.mu.Unlock()

		select {
		case <-wait:
		case <-ctx.Done():
			return v, false
		}
	}
}

// TryTake returns the oldest item if present. It never blocks.
func (m *Mailbox[T]) TryTake() (v T, ok bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.items) == 0 {
		return v, false
	}
	v = m.items[0]
	var zero T
	m.items[0] = zero
	m.items = m.items[1:]
	return v, true
}

// Len reports how many items are waiting.
func (m *Mailbox[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Close stops accepting items and wakes every waiter. Items already queued
// can still be taken. Closing twice is a no-op.
func (m *Mailbox[T]) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return
	}
	m.closed = true
	m.signalLocked()
}

// Closed reports whether Close has been called.
func (m *Mailbox[T]) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *Mailbox[T]) signalLocked() {
	close(m.ready)
	m.ready = make(chan struct{})
}
