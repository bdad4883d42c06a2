package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisChannel is the pub/sub channel used when none is configured.
const DefaultRedisChannel = "splitpocket:changes"

// RedisBroker shares events between server instances over Redis pub/sub.
type RedisBroker struct {
	client  *redis.Client
	channel string

	mu     sync.Mutex
	subs   map[*redisSubscription]struct{}
	closed bool
}

var _ Broker = (*RedisBroker)(nil)

// NewRedisBroker creates a broker that publishes on channel. The broker owns
// client and closes it on Close.
func NewRedisBroker(client *redis.Client, channel string) *RedisBroker {
	if channel == "" {
		channel = DefaultRedisChannel
	}
	return &RedisBroker{
		client:  client,
		channel: channel,
		subs:    make(map[*redisSubscription]struct{}),
	}
}

// Publish sends ev to every instance subscribed to the channel.
func (b *RedisBroker) Publish(ctx context.Context, ev Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to encode event: %w", err)
	}
	if err := b.client.Publish(ctx, b.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// Subscribe returns once Redis has confirmed the subscription, so events
// published after Subscribe returns are delivered.
func (b *RedisBroker) Subscribe(ctx context.Context) (Subscription, error) {
	ps := b.client.Subscribe(ctx, b.channel)
	if _, err := ps.Receive(ctx); err != nil {
		ps.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", b.channel, err)
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		ps.Close()
		return nil, ErrBrokerClosed
	}

	sub := &redisSubscription{broker: b, ps: ps, ch: make(chan Event, subscriberBuffer)}
	b.subs[sub] = struct{}{}
	go sub.run()
	sub.stop = context.AfterFunc(ctx, func() { _ = sub.shutdown() })
	return sub, nil
}

// Close ends every subscription and closes the Redis client.
func (b *RedisBroker) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	subs := b.subs
	b.subs = nil
	b.mu.Unlock()

	for sub := range subs {
		_ = sub.shutdown()
	}
	return b.client.Close()
}

func (b *RedisBroker) remove(sub *redisSubscription) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subs, sub)
}

type redisSubscription struct {
	broker *RedisBroker
	ps     *redis.PubSub
	ch     chan Event
	stop   func() bool
	once   sync.Once
	missed atomic.Bool
}

func (s *redisSubscription) run() {
	defer close(s.ch)
	for msg := range s.ps.Channel() {
		var ev Event
		if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
			slog.Warn("Ignoring malformed event", "channel", msg.Channel, "error", err)
			continue
		}
		select {
		case s.ch <- ev:
		default:
			s.missed.Store(true)
			droppedEvents.WithLabelValues("redis").Inc()
			slog.Warn("Dropped event for slow subscriber",
				"collection", ev.Collection,
				"document_id", ev.DocumentID,
			)
		}
	}
}

func (s *redisSubscription) Events() <-chan Event {
	return s.ch
}

func (s *redisSubscription) Missed() bool {
	return s.missed.Swap(false)
}

func (s *redisSubscription) Close() error {
	s.stop()
	return s.shutdown()
}

func (s *redisSubscription) shutdown() error {
	var err error
	s.once.Do(func() {
		s.broker.remove(s)
		err = s.ps.Close()
	})
	return err
}
