// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/mmynk/splitpocket/internal/models"
)

// ExpenseFilter selects expenses for ListExpenses. Empty fields do not filter.
// Results are ordered by creation time, newest first.
type ExpenseFilter struct {
	GroupID       string
	CreatorUserID string
	Limit         uint64
}

// UserStore holds user accounts and profiles.
type UserStore interface {
	// CreateUser persists a new user. The user.ID field will be populated by the store.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail returns nil and no error if no user has that email.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID returns an apperr NotFound error if the user does not exist.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// UpdateProfile replaces the profile fields (username, avatar, default currency).
	UpdateProfile(ctx context.Context, user *models.User) error

	// ListUsers returns every user ordered by username.
	ListUsers(ctx context.Context) ([]*models.User, error)
}

// GroupStore holds groups, their members, and the externally maintained balances.
type GroupStore interface {
	// CreateGroup persists a new group with its members.
	// The group.ID and group.CreatedAt fields will be populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup retrieves a group by ID. When viewerID is not empty, the
	// group's Balance is the viewer's balance.
	GetGroup(ctx context.Context, groupID, viewerID string) (*models.Group, error)

	// ListGroupsForMember returns the groups userID belongs to, newest first,
	// each carrying userID's balance.
	ListGroupsForMember(ctx context.Context, userID string) ([]models.Group, error)

	// AddGroupMembers merges userIDs into the group's members as a single
	// atomic set union. Existing members are left untouched.
	AddGroupMembers(ctx context.Context, groupID string, userIDs []string) error

	// SetMemberBalance records a member's balance in a group.
	SetMemberBalance(ctx context.Context, groupID, userID string, balance float64) error

	// SetGroupSettled records whether a group's debts are cleared.
	SetGroupSettled(ctx context.Context, groupID string, settled bool) error
}

// ExpenseStore holds expenses and their splits.
type ExpenseStore interface {
	// CreateExpense persists a new expense.
	// The expense.ID and expense.CreatedAt fields will be populated by the store.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// GetExpense retrieves an expense with its splits.
	GetExpense(ctx context.Context, expenseID string) (*models.Expense, error)

	// ListExpenses returns the expenses matching filter, newest first.
	ListExpenses(ctx context.Context, filter ExpenseFilter) ([]models.Expense, error)
}

// Store defines the interface for all storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	UserStore
	GroupStore
	ExpenseStore

	// Close releases any resources held by the store.
	Close() error
}
