// Package membus is an in-process Bus: messages fan out synchronously to
// every subscriber. Useful for tests (each subscriber stands in for one
// process) and for single-process deployments that still want the
// invalidation path exercised.
package membus

import (
	"context"
	"errors"
	"sync"

	"github.com/unkn0wn-root/tiercache/bus"
)

var ErrClosed = errors.New("membus: closed")

type Bus struct {
	mu     sync.RWMutex
	subs   map[int]bus.Handler
	nextID int
	closed bool
}

var _ bus.Bus = (*Bus)(nil)

func New() *Bus {
	return &Bus{subs: make(map[int]bus.Handler)}
}

// Publish delivers m to every subscriber inline. Handlers are expected to be
// fast (the facade's handler only touches in-memory state).
func (b *Bus) Publish(_ context.Context, m bus.Message) error {
	b.mu.RLock()
	if b.closed {
		b.mu.RUnlock()
		return ErrClosed
	}
	handlers := make([]bus.Handler, 0, len(b.subs))
	for _, h := range b.subs {
		handlers = append(handlers, h)
	}
	b.mu.RUnlock()

	for _, h := range handlers {
		h(m)
	}
	return nil
}

func (b *Bus) Subscribe(h bus.Handler) (func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil, ErrClosed
	}
	id := b.nextID
	b.nextID++
	b.subs[id] = h
	return func() {
		b.mu.Lock()
		delete(b.subs, id)
		b.mu.Unlock()
	}, nil
}

func (b *Bus) Close(context.Context) error {
	b.mu.Lock()
	b.closed = true
	b.subs = make(map[int]bus.Handler)
	b.mu.Unlock()
	return nil
}
