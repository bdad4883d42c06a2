package models

import "slices"

// DefaultCategory is used when an expense is submitted without a category.
const DefaultCategory = "Others"

// Payment statuses of a split. Other values are stored as-is.
const (
	PaidStatusPaid    = "paid"
	PaidStatusPending = "pending"
)

// Split is one member's share of an expense.
type Split struct {
	UserID     string
	AmountOwed float64
	PaidStatus string
}

// Expense represents a single spend recorded by a user.
// Expenses are immutable once created.
type Expense struct {
	// ID is the unique identifier for the expense (UUID format).
	ID string

	Description string
	Amount      float64

	// Currency is a 3-letter code such as "MYR". It is not checked against a
	// currency list.
	Currency string
	Category string

	// GroupID links the expense to a group. Empty for a personal expense.
	GroupID string

	// Splits partition Amount among group members. Empty when not split.
	Splits []Split

	// CreatorUserID is the user who recorded the expense.
	CreatorUserID string

	// ReceiptImageURL is an optional link to a receipt photo.
	ReceiptImageURL string

	// Date is the Unix timestamp when the expense happened.
	Date int64

	// CreatedAt is the Unix timestamp when the expense was recorded.
	CreatedAt int64
}

// IsPersonal reports whether the expense is not attached to any group.
func (e *Expense) IsPersonal() bool {
	return e.GroupID == ""
}

// Clone returns a deep copy of the expense.
func (e Expense) Clone() Expense {
	e.Splits = slices.Clone(e.Splits)
	return e
}
