package notify

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receive(t *testing.T, sub Subscription) Event {
	t.Helper()
	select {
	case ev, ok := <-sub.Events():
		require.True(t, ok, "subscription closed")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
	}
	return Event{}
}

func assertClosed(t *testing.T, sub Subscription) {
	t.Helper()
	select {
	case _, ok := <-sub.Events():
		assert.False(t, ok, "expected closed channel")
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for close")
	}
}

func setupRedisBroker(t *testing.T) *RedisBroker {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	b := NewRedisBroker(client, "")
	t.Cleanup(func() { b.Close() })
	return b
}

func TestBrokers_FanOut(t *testing.T) {
	brokers := map[string]func(t *testing.T) Broker{
		"memory": func(t *testing.T) Broker {
			b := NewMemoryBroker()
			t.Cleanup(func() { b.Close() })
			return b
		},
		"redis": func(t *testing.T) Broker { return setupRedisBroker(t) },
	}

	for name, newBroker := range brokers {
		t.Run(name, func(t *testing.T) {
			b := newBroker(t)
			ctx := context.Background()

			first, err := b.Subscribe(ctx)
			require.NoError(t, err)
			defer first.Close()
			second, err := b.Subscribe(ctx)
			require.NoError(t, err)
			defer second.Close()

			ev := Event{Collection: CollectionGroups, DocumentID: "g1", GroupID: "g1", UserIDs: []string{"u1", "u2"}}
			require.NoError(t, b.Publish(ctx, ev))

			assert.Equal(t, ev, receive(t, first))
			assert.Equal(t, ev, receive(t, second))
		})
	}
}

func TestMemoryBroker_ContextCancelEndsSubscription(t *testing.T) {
	b := NewMemoryBroker()
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	sub, err := b.Subscribe(ctx)
	require.NoError(t, err)

	cancel()
	assertClosed(t, sub)

	// Publishing after the subscriber left is fine.
	assert.NoError(t, b.Publish(context.Background(), Event{Collection: CollectionUsers}))
	assert.NoError(t, sub.Close())
}

func TestMemoryBroker_SlowSubscriberDoesNotBlock(t *testing.T) {
	b := NewMemoryBroker()
	defer b.Close()

	sub, err := b.Subscribe(context.Background())
	require.NoError(t, err)
	defer sub.Close()

	require.NoError(t, b.Publish(context.Background(), Event{Collection: CollectionExpenses}))
	assert.False(t, sub.Missed())

	for i := 0; i < subscriberBuffer+10; i++ {
		require.NoError(t, b.Publish(context.Background(), Event{Collection: CollectionExpenses}))
	}
	assert.Len(t, sub.Events(), subscriberBuffer)
	assert.True(t, sub.Missed())
	assert.False(t, sub.Missed(), "Missed resets once reported")
}

func TestMemoryBroker_Close(t *testing.T) {
	b := NewMemoryBroker()
	sub, err := b.Subscribe(context.Background())
	require.NoError(t, err)

	require.NoError(t, b.Close())
	assertClosed(t, sub)
	assert.NoError(t, sub.Close())

	_, err = b.Subscribe(context.Background())
	assert.ErrorIs(t, err, ErrBrokerClosed)
	assert.ErrorIs(t, b.Publish(context.Background(), Event{}), ErrBrokerClosed)
}

func TestRedisBroker_CloseEndsSubscription(t *testing.T) {
	b := setupRedisBroker(t)

	sub, err := b.Subscribe(context.Background())
	require.NoError(t, err)

	require.NoError(t, sub.Close())
	assertClosed(t, sub)
}

func TestRedisBroker_Close(t *testing.T) {
	b := setupRedisBroker(t)

	sub, err := b.Subscribe(context.Background())
	require.NoError(t, err)

	require.NoError(t, b.Close())
	assertClosed(t, sub)
	assert.NoError(t, b.Close())

	_, err = b.Subscribe(context.Background())
	assert.Error(t, err)
}
