// Package validation checks and normalizes user input before it reaches the store.
package validation

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/mmynk/splitpocket/internal/apperr"
	"github.com/mmynk/splitpocket/internal/calculator"
	"github.com/mmynk/splitpocket/internal/models"
)

// ExpenseInput is an expense as submitted by a user.
// Amount is a pointer so that "not provided" can be told apart from zero.
type ExpenseInput struct {
	Description     string
	Amount          *float64
	Currency        string
	Category        string
	GroupID         string
	Splits          []models.Split
	ReceiptImageURL string
	Date            *time.Time
}

// ValidateExpense checks a submitted expense and returns the normalized
// record ready for the store. It has no side effects.
//
// The returned expense has no ID, creator or creation time; the store
// assigns those. Category falls back to models.DefaultCategory, split
// statuses fall back to pending, and Date falls back to now.
func ValidateExpense(in ExpenseInput) (models.Expense, error) {
	description := strings.TrimSpace(in.Description)
	if description == "" {
		return models.Expense{}, apperr.MissingField("description")
	}

	if in.Amount == nil {
		return models.Expense{}, apperr.MissingField("amount")
	}
	amount := *in.Amount
	if !isFinite(amount) {
		return models.Expense{}, apperr.InvalidAmount("amount")
	}

	currency := strings.TrimSpace(in.Currency)
	if currency == "" {
		return models.Expense{}, apperr.MissingField("currency")
	}

	category := strings.TrimSpace(in.Category)
	if category == "" {
		category = models.DefaultCategory
	}

	splits := make([]models.Split, len(in.Splits))
	for i, s := range in.Splits {
		if !isFinite(s.AmountOwed) {
			return models.Expense{}, apperr.InvalidAmount(fmt.Sprintf("splits[%d].amountOwed", i))
		}
		if s.PaidStatus == "" {
			s.PaidStatus = models.PaidStatusPending
		}
		splits[i] = s
	}

	if len(splits) > 0 {
		total, ok := calculator.SplitsMatch(amount, splits)
		if !ok {
			return models.Expense{}, apperr.SplitMismatch(total.String(), fmt.Sprint(amount))
		}
	}

	date := time.Now()
	if in.Date != nil && !in.Date.IsZero() {
		date = *in.Date
	}

	return models.Expense{
		Description:     description,
		Amount:          amount,
		Currency:        currency,
		Category:        category,
		GroupID:         strings.TrimSpace(in.GroupID),
		Splits:          splits,
		ReceiptImageURL: strings.TrimSpace(in.ReceiptImageURL),
		Date:            date.Unix(),
	}, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
