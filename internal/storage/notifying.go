package storage

import (
	"context"
	"log/slog"

	"github.com/mmynk/splitpocket/internal/models"
	"github.com/mmynk/splitpocket/internal/notify"
)

// NotifyingStore wraps a Store and publishes a notify.Event after every
// successful write. A failed publish is logged; the write still succeeds.
type NotifyingStore struct {
	Store
	pub notify.Publisher
}

var _ Store = (*NotifyingStore)(nil)

// WithNotifications wraps store so that writes are announced on pub.
func WithNotifications(store Store, pub notify.Publisher) *NotifyingStore {
	return &NotifyingStore{Store: store, pub: pub}
}

func (s *NotifyingStore) publish(ctx context.Context, ev notify.Event) {
	if err := s.pub.Publish(ctx, ev); err != nil {
		slog.Warn("Failed to publish change",
			"collection", ev.Collection,
			"document_id", ev.DocumentID,
			"error", err,
		)
	}
}

// publishGroup re-reads the group so that the event names its current members.
func (s *NotifyingStore) publishGroup(ctx context.Context, groupID string) {
	group, err := s.Store.GetGroup(ctx, groupID, "")
	if err != nil {
		slog.Warn("Failed to read group for change event", "group_id", groupID, "error", err)
		return
	}
	s.publish(ctx, notify.Event{
		Collection: notify.CollectionGroups,
		DocumentID: group.ID,
		GroupID:    group.ID,
		UserIDs:    group.MemberIDs,
	})
}

func (s *NotifyingStore) CreateUser(ctx context.Context, user *models.User) error {
	if err := s.Store.CreateUser(ctx, user); err != nil {
		return err
	}
	s.publish(ctx, notify.Event{Collection: notify.CollectionUsers, DocumentID: user.ID, UserIDs: []string{user.ID}})
	return nil
}

func (s *NotifyingStore) UpdateProfile(ctx context.Context, user *models.User) error {
	if err := s.Store.UpdateProfile(ctx, user); err != nil {
		return err
	}
	s.publish(ctx, notify.Event{Collection: notify.CollectionUsers, DocumentID: user.ID, UserIDs: []string{user.ID}})
	return nil
}

func (s *NotifyingStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if err := s.Store.CreateGroup(ctx, group); err != nil {
		return err
	}
	s.publish(ctx, notify.Event{
		Collection: notify.CollectionGroups,
		DocumentID: group.ID,
		GroupID:    group.ID,
		UserIDs:    group.MemberIDs,
	})
	return nil
}

func (s *NotifyingStore) AddGroupMembers(ctx context.Context, groupID string, userIDs []string) error {
	if err := s.Store.AddGroupMembers(ctx, groupID, userIDs); err != nil {
		return err
	}
	s.publishGroup(ctx, groupID)
	return nil
}

func (s *NotifyingStore) SetMemberBalance(ctx context.Context, groupID, userID string, balance float64) error {
	if err := s.Store.SetMemberBalance(ctx, groupID, userID, balance); err != nil {
		return err
	}
	s.publish(ctx, notify.Event{
		Collection: notify.CollectionGroups,
		DocumentID: groupID,
		GroupID:    groupID,
		UserIDs:    []string{userID},
	})
	return nil
}

func (s *NotifyingStore) SetGroupSettled(ctx context.Context, groupID string, settled bool) error {
	if err := s.Store.SetGroupSettled(ctx, groupID, settled); err != nil {
		return err
	}
	s.publishGroup(ctx, groupID)
	return nil
}

func (s *NotifyingStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if err := s.Store.CreateExpense(ctx, expense); err != nil {
		return err
	}
	users := []string{expense.CreatorUserID}
	for _, split := range expense.Splits {
		users = append(users, split.UserID)
	}
	s.publish(ctx, notify.Event{
		Collection: notify.CollectionExpenses,
		DocumentID: expense.ID,
		GroupID:    expense.GroupID,
		UserIDs:    users,
	})
	return nil
}
