package models

import (
	"strings"
	"time"
)

// DefaultCurrency is assigned to new profiles until the user picks another one.
const DefaultCurrency = "MYR"

// User represents a registered user account and its profile.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique). Used for login.
	Email string

	// Username is the display name chosen on profile completion.
	// Empty until the user completes their profile.
	Username string

	// AvatarURL is an optional profile picture URL.
	AvatarURL string

	// DefaultCurrency is the currency code pre-selected for new expenses.
	DefaultCurrency string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// CreatedAt is the Unix timestamp when the user account was created.
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last profile change.
	UpdatedAt int64
}

// NewUser creates a new user with the given email and password hash.
// The ID is assigned by the store.
func NewUser(email, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		Email:           email,
		PasswordHash:    passwordHash,
		DefaultCurrency: DefaultCurrency,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// NeedsProfile reports whether the user still has to pick a username.
func (u *User) NeedsProfile() bool {
	return strings.TrimSpace(u.Username) == ""
}
