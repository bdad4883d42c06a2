package models

import "slices"

// Group represents a set of users who share expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Trip to Penang").
	Name string

	// CreatedByUserID is the user who created the group.
	CreatedByUserID string

	// MemberIDs are the user IDs of the members, in the order they joined.
	// Each ID appears at most once.
	MemberIDs []string

	// Balance is the viewing member's net position in the group:
	// positive means the member is owed money, negative means they owe.
	// Nil when the group was read without a viewer or the balance is unknown.
	Balance *float64

	// Settled reports whether the group's debts have been cleared.
	Settled bool

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether userID belongs to the group.
func (g *Group) HasMember(userID string) bool {
	return slices.Contains(g.MemberIDs, userID)
}

// Clone returns a deep copy of the group.
func (g Group) Clone() Group {
	g.MemberIDs = slices.Clone(g.MemberIDs)
	if g.Balance != nil {
		b := *g.Balance
		g.Balance = &b
	}
	return g
}
