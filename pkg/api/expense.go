package api

// AddExpenseRequest is an expense as submitted. Amount is a pointer so that
// a missing amount can be told apart from zero. Date is a Unix timestamp and
// defaults to now.
type AddExpenseRequest struct {
	Description     string   `json:"description"`
	Amount          *float64 `json:"amount"`
	Currency        string   `json:"currency"`
	Category        string   `json:"category,omitempty"`
	GroupID         string   `json:"groupId,omitempty"`
	Splits          []Split  `json:"splits,omitempty"`
	ReceiptImageURL string   `json:"receiptImageUrl,omitempty"`
	Date            *int64   `json:"date,omitempty"`
}

type AddExpenseResponse struct {
	Expense *Expense `json:"expense"`
}

type ListGroupExpensesRequest struct {
	GroupID string `json:"groupId"`
	Limit   uint64 `json:"limit,omitempty"`
}

type ListGroupExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

// ListMyExpensesRequest lists the expenses the caller recorded.
type ListMyExpensesRequest struct {
	Limit uint64 `json:"limit,omitempty"`
}

type ListMyExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
}

type WatchGroupExpensesRequest struct {
	GroupID string `json:"groupId"`
}

// WatchGroupExpensesResponse is one snapshot of a group's expenses, newest first.
type WatchGroupExpensesResponse struct {
	Expenses []*Expense `json:"expenses"`
	Changes  []Change   `json:"changes,omitempty"`
}
