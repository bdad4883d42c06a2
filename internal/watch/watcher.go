package watch

import (
	"context"
	"slices"

	"github.com/mmynk/splitpocket/internal/models"
	"github.com/mmynk/splitpocket/internal/notify"
	"github.com/mmynk/splitpocket/internal/storage"
)

// Source is the part of the store that watched queries read from.
type Source interface {
	ListGroupsForMember(ctx context.Context, userID string) ([]models.Group, error)
	ListExpenses(ctx context.Context, filter storage.ExpenseFilter) ([]models.Expense, error)
}

// Watcher opens live queries over a store.
type Watcher struct {
	source Source
	broker notify.Broker
}

// NewWatcher creates a watcher that reloads from source whenever broker
// announces a relevant change.
func NewWatcher(source Source, broker notify.Broker) *Watcher {
	return &Watcher{source: source, broker: broker}
}

// WatchGroups follows the groups userID belongs to, newest first, each
// carrying userID's balance.
func (w *Watcher) WatchGroups(ctx context.Context, userID string) (*Subscription[models.Group], error) {
	return start(ctx, w.broker, query[models.Group]{
		name: "groups",
		load: func(ctx context.Context) ([]models.Group, error) {
			return w.source.ListGroupsForMember(ctx, userID)
		},
		match: func(ev notify.Event) bool {
			return ev.Collection == notify.CollectionGroups && slices.Contains(ev.UserIDs, userID)
		},
		key:   func(g models.Group) string { return g.ID },
		clone: models.Group.Clone,
	})
}

// WatchGroupExpenses follows the expenses of one group, newest first.
func (w *Watcher) WatchGroupExpenses(ctx context.Context, groupID string) (*Subscription[models.Expense], error) {
	return start(ctx, w.broker, query[models.Expense]{
		name: "group expenses",
		load: func(ctx context.Context) ([]models.Expense, error) {
			return w.source.ListExpenses(ctx, storage.ExpenseFilter{GroupID: groupID})
		},
		match: func(ev notify.Event) bool {
			return ev.Collection == notify.CollectionExpenses && ev.GroupID == groupID
		},
		key:   func(e models.Expense) string { return e.ID },
		clone: models.Expense.Clone,
	})
}
