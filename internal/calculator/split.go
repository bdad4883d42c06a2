package calculator

import (
	"github.com/shopspring/decimal"

	"github.com/mmynk/splitpocket/internal/models"
)

// SplitTolerance is the largest difference between the sum of split amounts
// and the expense amount that is still accepted (one minor currency unit).
var SplitTolerance = decimal.New(1, -2)

// SplitTotal sums the amounts owed across splits.
// Amounts must be finite; callers validate them first.
func SplitTotal(splits []models.Split) decimal.Decimal {
	total := decimal.Zero
	for _, s := range splits {
		total = total.Add(decimal.NewFromFloat(s.AmountOwed))
	}
	return total
}

// SplitsMatch reports whether splits partition amount within SplitTolerance.
// It also returns the split total so callers can report a mismatch.
func SplitsMatch(amount float64, splits []models.Split) (decimal.Decimal, bool) {
	total := SplitTotal(splits)
	diff := total.Sub(decimal.NewFromFloat(amount)).Abs()
	return total, diff.LessThanOrEqual(SplitTolerance)
}
