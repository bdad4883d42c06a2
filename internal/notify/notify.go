// Package notify carries change notifications from store writes to snapshot
// watchers. Brokers deliver at most once. A subscriber that falls behind
// loses events, and its subscription reports that through Missed so the
// subscriber can reload instead of trusting the events it did receive.
package notify

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collections named in events.
const (
	CollectionUsers    = "users"
	CollectionGroups   = "groups"
	CollectionExpenses = "expenses"
)

// Event says that a document changed.
type Event struct {
	Collection string `json:"collection"`
	DocumentID string `json:"documentId"`

	// GroupID is the group an expense belongs to, or the group itself.
	GroupID string `json:"groupId,omitempty"`

	// UserIDs are the users whose views may have changed
	// (the group's members for group events).
	UserIDs []string `json:"userIds,omitempty"`
}

// Publisher sends events to every current subscriber.
type Publisher interface {
	Publish(ctx context.Context, ev Event) error
}

// Broker is a Publisher that can also be subscribed to.
type Broker interface {
	Publisher

	// Subscribe registers a new subscriber. The subscription ends when ctx
	// is done or Close is called, whichever comes first.
	Subscribe(ctx context.Context) (Subscription, error)

	// Close releases the broker's resources.
	Close() error
}

// Subscription is a stream of events. Events is closed when the
// subscription ends.
type Subscription interface {
	Events() <-chan Event

	// Missed reports whether events were dropped since the previous call.
	Missed() bool

	Close() error
}

// subscriberBuffer is the number of undelivered events a subscriber may hold.
const subscriberBuffer = 64

var droppedEvents = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "splitpocket",
		Subsystem: "notify",
		Name:      "dropped_events_total",
		Help:      "Events dropped because a subscriber was not keeping up.",
	},
	[]string{"broker"},
)
