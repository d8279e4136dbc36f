package broadcast

import (
	"context"
	"sync"
	"sync/atomic"
)

// Stats counts deliveries since the hub was created.
type Stats struct {
	Delivered uint64
	Evicted   uint64
}

// Hub fans values out to subscribers grouped by key. Publishing never
// blocks: a subscriber whose buffer is full is evicted and its channel
// closed, so the consumer can reconnect and resynchronise.
type Hub[K comparable, T any] struct {
	mu     sync.RWMutex
	subs   map[K]map[*Subscription[T]]struct{}
	buffer int
	closed bool

	delivered atomic.Uint64
	evicted   atomic.Uint64
}

// New creates a hub whose subscriptions buffer up to buffer values
// (minimum 1).
func New[K comparable, T any](buffer int) *Hub[K, T] {
	return &Hub[K, T]{
		subs:   make(map[K]map[*Subscription[T]]struct{}),
		buffer: max(buffer, 1),
	}
}

// Subscribe registers a subscription on key that ends when ctx is done or
// Close is called. After the hub is closed the returned subscription is
// already closed.
func (h *Hub[K, T]) Subscribe(ctx context.Context, key K) *Subscription[T] {
	sub := &Subscription[T]{ch: make(chan T, h.buffer)}
	sub.release = func() { h.remove(key, sub) }

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		sub.shut()
		return sub
	}
	set, ok := h.subs[key]
	if !ok {
		set = make(map[*Subscription[T]]struct{})
		h.subs[key] = set
	}
	set[sub] = struct{}{}
	h.mu.Unlock()

	stop := context.AfterFunc(ctx, sub.Close)
	sub.mu.Lock()
	sub.stop = stop
	sub.mu.Unlock()
	return sub
}

// Publish offers v to every subscriber of key and returns how many
// accepted it.
func (h *Hub[K, T]) Publish(key K, v T) int {
	var (
		sent int
		slow  []*Subscription[T]
	)
	h.mu.RLock()
	for sub := range h.subs[key] {
		if sub.offer(v) {
			sent++
		} else {
			slow = append(slow, sub)
		}
	}
	h.mu.RUnlock()

	for _, sub := range slow {
		sub.Close()
	}
	h.delivered.Add(uint64(sent))
	h.evicted.Add(uint64(len(slow)))
	return sent
}

// Len returns the number of subscribers on key.
func (h *Hub[K, T]) Len(key K) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[key])
}

func (h *Hub[K, T]) Stats() Stats {
	return Stats{Delivered: h.delivered.Load(), Evicted: h.evicted.Load()}
}

// Close closes every subscription. Later Subscribe calls get closed
// subscriptions and Publish reaches nobody.
func (h *Hub[K, T]) Close() error {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return nil
	}
	h.closed = true
	subs := h.subs
	h.subs = make(map[K]map[*Subscription[T]]struct{})
	h.mu.Unlock()

	for _, set := range subs {
		for sub := range set {
			if stop := sub.shut(); stop != nil {
				stop()
			}
		}
	}
	return nil
}

func (h *Hub[K, T]) remove(key K, sub *Subscription[T]) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if set, ok := h.subs[key]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, key)
		}
	}
}
