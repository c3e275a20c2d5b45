// Package events fans typed notifications out to subscribers over channels.
package events

import (
	"sync"

	"github.com/google/uuid"
)

// Subscription is a handle returned by Subscribe. Events arrive on C until the
// subscription is cancelled.
type Subscription[T any] struct {
	ID uuid.UUID
	C  <-chan T
}

// Broadcaster delivers every published event to all current subscribers. Publish never
// blocks: when a subscriber's buffer is full the oldest queued event is replaced, since
// only the latest settings matter.
type Broadcaster[T any] struct {
	mu     sync.Mutex
	subs   map[uuid.UUID]chan T
	buffer int
}

// NewBroadcaster returns a broadcaster whose subscriber channels hold buffer events.
func NewBroadcaster[T any](buffer int) *Broadcaster[T] {
	return &Broadcaster[T]{
		subs:   make(map[uuid.UUID]chan T),
		buffer: max(buffer, 1),
	}
}

// Subscribe registers a new subscriber.
func (b *Broadcaster[T]) Subscribe() Subscription[T] {
	ch := make(chan T, b.buffer)
	id := uuid.New()

	b.mu.Lock()
	b.subs[id] = ch
	b.mu.Unlock()

	return Subscription[T]{ID: id, C: ch}
}

// Unsubscribe removes the subscriber and closes its channel. Unknown or already removed
// IDs are ignored.
func (b *Broadcaster[T]) Unsubscribe(id uuid.UUID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if ch, ok := b.subs[id]; ok {
		delete(b.subs, id)
		close(ch)
	}
}

// Publish sends ev to every subscriber.
func (b *Broadcaster[T]) Publish(ev T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs {
		select {
		case ch <- ev:
			continue
		default:
		}
		// Full. Only Publish sends, under mu, so one receive makes room.
		select {
		case <-ch:
		default:
		}
		ch <- ev
	}
}

// Len returns the number of subscribers.
func (b *Broadcaster[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

// Close unsubscribes everyone.
func (b *Broadcaster[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	for id, ch := range b.subs {
		delete(b.subs, id)
		close(ch)
	}
}

// Latest drains a subscription without blocking and returns the most recent event.
func Latest[T any](sub Subscription[T]) (T, bool) {
	var (
		last T
		ok   bool
	)
	for {
		select {
		case ev, open := <-sub.C:
			if !open {
				return last, ok
			}
			last, ok = ev, true
		default:
			return last, ok
		}
	}
}
