package api

// User is a user's public profile.
type User struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	Username        string `json:"username,omitempty"`
	AvatarURL       string `json:"avatarUrl,omitempty"`
	DefaultCurrency string `json:"defaultCurrency"`
	CreatedAt       int64  `json:"createdAt"`
}

// Group is a group as seen by the requesting user. Balance is that user's
// net position in the group and is absent when unknown.
type Group struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	CreatedByUserID string   `json:"createdByUserId"`
	MemberIDs       []string `json:"memberIds"`
	Balance         *float64 `json:"balance,omitempty"`
	Settled         bool     `json:"settled"`
	CreatedAt       int64    `json:"createdAt"`
}

type Split struct {
	UserID     string  `json:"userId"`
	AmountOwed float64 `json:"amountOwed"`
	PaidStatus string  `json:"paidStatus,omitempty"`
}

type Expense struct {
	ID              string  `json:"id"`
	Description     string  `json:"description"`
	Amount          float64 `json:"amount"`
	Currency        string  `json:"currency"`
	Category        string  `json:"category"`
	GroupID         string  `json:"groupId,omitempty"`
	Splits          []Split `json:"splits,omitempty"`
	CreatorUserID   string  `json:"creatorUserId"`
	ReceiptImageURL string  `json:"receiptImageUrl,omitempty"`
	Date            int64   `json:"date"`
	CreatedAt       int64   `json:"createdAt"`
}

// BalanceSummary totals a user's balances across groups.
type BalanceSummary struct {
	Net  float64 `json:"net"`
	Owed float64 `json:"owed"`
	Owe  float64 `json:"owe"`
}

// Change names a document that differs from the previous stream message.
// Kind is one of "added", "modified" or "removed".
type Change struct {
	Kind string `json:"kind"`
	ID   string `json:"id"`
}
