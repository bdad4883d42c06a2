// Package watch turns store change notifications into snapshot streams.
//
// A subscription delivers the full current result set of a query every time
// it changes, together with the per-document changes since the previous
// snapshot. The first snapshot is delivered as soon as the subscription is
// created.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/mmynk/splitpocket/internal/notify"
)

// ChangeKind says how a document differs from the previous snapshot.
type ChangeKind int

const (
	Added ChangeKind = iota + 1
	Modified
	Removed
)

func (k ChangeKind) String() string {
	switch k {
	case Added:
		return "added"
	case Modified:
		return "modified"
	case Removed:
		return "removed"
	default:
		return "unknown"
	}
}

// Change is one document's difference from the previous snapshot.
// Removed changes carry the document as it last was.
type Change[T any] struct {
	Kind ChangeKind
	Doc  T
}

// Snapshot is the result set of a query at one point in time.
type Snapshot[T any] struct {
	Docs    []T
	Changes []Change[T]
}

// query describes what a subscription watches.
type query[T any] struct {
	name  string
	load  func(ctx context.Context) ([]T, error)
	match func(ev notify.Event) bool
	key   func(doc T) string
	clone func(doc T) T
}

// Subscription is a live query. Snapshots arrive on C until the
// subscription is cancelled or fails, after which C is closed and Err
// reports the failure, if any.
type Subscription[T any] struct {
	ch     chan Snapshot[T]
	cancel context.CancelFunc
	done   chan struct{}

	mu  sync.Mutex
	err error
}

// C returns the snapshot channel.
func (s *Subscription[T]) C() <-chan Snapshot[T] {
	return s.ch
}

// Cancel ends the subscription and waits for it to stop.
func (s *Subscription[T]) Cancel() {
	s.cancel()
	<-s.done
}

// Err returns the error that ended the subscription. It is nil while the
// subscription is running and after a cancellation.
func (s *Subscription[T]) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *Subscription[T]) fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

// start subscribes to the broker before the initial load so that no write
// between the two goes unseen.
func start[T any](ctx context.Context, broker notify.Broker, q query[T]) (*Subscription[T], error) {
	ctx, cancel := context.WithCancel(ctx)

	events, err := broker.Subscribe(ctx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("failed to subscribe to changes: %w", err)
	}

	docs, err := q.load(ctx)
	if err != nil {
		cancel()
		events.Close()
		return nil, fmt.Errorf("failed to load %s: %w", q.name, err)
	}

	sub := &Subscription[T]{
		ch:     make(chan Snapshot[T], 1),
		cancel: cancel,
		done:   make(chan struct{}),
	}
	prev := make(map[string]T)
	sub.ch <- diff(q, prev, docs)

	go sub.run(ctx, events, q, prev)
	return sub, nil
}

func (s *Subscription[T]) run(ctx context.Context, events notify.Subscription, q query[T], prev map[string]T) {
	defer close(s.done)
	defer close(s.ch)
	defer events.Close()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events.Events():
			if !ok {
				if ctx.Err() == nil {
					s.fail(notify.ErrBrokerClosed)
				}
				return
			}
			matched := q.match(ev)
			if drainMatching(events, q.match) {
				matched = true
			}
			// A dropped event may have been the only one that mattered.
			if events.Missed() {
				matched = true
			}
			if !matched {
				continue
			}
		}

		docs, err := q.load(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			slog.Error("Failed to reload watched query", "query", q.name, "error", err)
			s.fail(fmt.Errorf("failed to reload %s: %w", q.name, err))
			return
		}

		snap := diff(q, prev, docs)
		if len(snap.Changes) == 0 {
			continue
		}
		slog.Debug("Snapshot changed", "query", q.name, "docs", len(snap.Docs), "changes", len(snap.Changes))

		select {
		case s.ch <- snap:
		case <-ctx.Done():
			return
		}
	}
}

// drainMatching consumes the events already queued and reports whether any
// of them matched, so that a burst of writes costs one reload.
func drainMatching(events notify.Subscription, match func(notify.Event) bool) bool {
	matched := false
	for {
		select {
		case ev, ok := <-events.Events():
			if !ok {
				return matched
			}
			matched = matched || match(ev)
		default:
			return matched
		}
	}
}

// diff builds the snapshot for docs and replaces prev with its contents.
func diff[T any](q query[T], prev map[string]T, docs []T) Snapshot[T] {
	snap := Snapshot[T]{Docs: make([]T, 0, len(docs))}
	seen := make(map[string]struct{}, len(docs))

	for _, doc := range docs {
		key := q.key(doc)
		seen[key] = struct{}{}
		snap.Docs = append(snap.Docs, q.clone(doc))

		old, ok := prev[key]
		switch {
		case !ok:
			snap.Changes = append(snap.Changes, Change[T]{Kind: Added, Doc: q.clone(doc)})
		case !reflect.DeepEqual(old, doc):
			snap.Changes = append(snap.Changes, Change[T]{Kind: Modified, Doc: q.clone(doc)})
		}
	}

	for key, old := range prev {
		if _, ok := seen[key]; !ok {
			snap.Changes = append(snap.Changes, Change[T]{Kind: Removed, Doc: old})
			delete(prev, key)
		}
	}
	for _, doc := range docs {
		prev[q.key(doc)] = q.clone(doc)
	}
	return snap
}
