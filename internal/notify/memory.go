package notify

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
)

// ErrBrokerClosed is returned when subscribing to or publishing on a closed broker.
var ErrBrokerClosed = errors.New("broker closed")

// MemoryBroker fans events out to subscribers in the same process.
type MemoryBroker struct {
	mu     sync.Mutex
	subs   map[*memorySubscription]struct{}
	closed bool
}

var _ Broker = (*MemoryBroker)(nil)

// NewMemoryBroker creates an in-process broker.
func NewMemoryBroker() *MemoryBroker {
	return &MemoryBroker{subs: make(map[*memorySubscription]struct{})}
}

// Publish delivers ev to every subscriber without blocking. Subscribers whose
// buffer is full miss the event and are marked as having missed one.
func (b *MemoryBroker) Publish(ctx context.Context, ev Event) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrBrokerClosed
	}
	for sub := range b.subs {
		select {
		case sub.ch <- ev:
		default:
			sub.missed.Store(true)
			droppedEvents.WithLabelValues("memory").Inc()
			slog.Warn("Dropped event for slow subscriber",
				"collection", ev.Collection,
				"document_id", ev.DocumentID,
			)
		}
	}
	return nil
}

// Subscribe registers a subscriber that lives until ctx is done or it is closed.
func (b *MemoryBroker) Subscribe(ctx context.Context) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrBrokerClosed
	}
	sub := &memorySubscription{broker: b, ch: make(chan Event, subscriberBuffer)}
	b.subs[sub] = struct{}{}
	sub.stop = context.AfterFunc(ctx, sub.shutdown)
	return sub, nil
}

// Close ends every subscription.
func (b *MemoryBroker) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil
	}
	b.closed = true
	for sub := range b.subs {
		delete(b.subs, sub)
		close(sub.ch)
	}
	return nil
}

func (b *MemoryBroker) remove(sub *memorySubscription) {
	b.mu.Lock()
	defer b.mu.Unlock()

	// The channel is closed exactly once: here, or in Close.
	if _, ok := b.subs[sub]; ok {
		delete(b.subs, sub)
		close(sub.ch)
	}
}

type memorySubscription struct {
	broker *MemoryBroker
	ch     chan Event
	stop   func() bool
	once   sync.Once
	missed atomic.Bool
}

func (s *memorySubscription) Events() <-chan Event {
	return s.ch
}

func (s *memorySubscription) Missed() bool {
	return s.missed.Swap(false)
}

func (s *memorySubscription) Close() error {
	s.stop()
	s.shutdown()
	return nil
}

func (s *memorySubscription) shutdown() {
	s.once.Do(func() { s.broker.remove(s) })
}
