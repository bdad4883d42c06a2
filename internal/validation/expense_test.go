package validation

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/splitpocket/internal/apperr"
	"github.com/mmynk/splitpocket/internal/models"
)

func amount(v float64) *float64 { return &v }

func TestValidateExpense_RequiredFields(t *testing.T) {
	tests := []struct {
		name    string
		in      ExpenseInput
		wantErr error
		field   string
	}{
		{
			name:    "blank description",
			in:      ExpenseInput{Description: "   ", Amount: amount(10), Currency: "MYR"},
			wantErr: apperr.ErrMissingField,
			field:   "description",
		},
		{
			name:    "missing amount",
			in:      ExpenseInput{Description: "Lunch", Currency: "MYR"},
			wantErr: apperr.ErrMissingField,
			field:   "amount",
		},
		{
			name:    "NaN amount",
			in:      ExpenseInput{Description: "Lunch", Amount: amount(math.NaN()), Currency: "MYR"},
			wantErr: apperr.ErrInvalidAmount,
			field:   "amount",
		},
		{
			name:    "infinite amount",
			in:      ExpenseInput{Description: "Lunch", Amount: amount(math.Inf(1)), Currency: "MYR"},
			wantErr: apperr.ErrInvalidAmount,
			field:   "amount",
		},
		{
			name:    "blank currency",
			in:      ExpenseInput{Description: "Lunch", Amount: amount(10), Currency: " "},
			wantErr: apperr.ErrMissingField,
			field:   "currency",
		},
		{
			name: "non-finite split amount",
			in: ExpenseInput{Description: "Lunch", Amount: amount(10), Currency: "MYR",
				Splits: []models.Split{{UserID: "a", AmountOwed: 5}, {UserID: "b", AmountOwed: math.NaN()}}},
			wantErr: apperr.ErrInvalidAmount,
			field:   "splits[1].amountOwed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ValidateExpense(tt.in)
			require.ErrorIs(t, err, tt.wantErr)

			var appErr *apperr.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.field, appErr.Field)
		})
	}
}

func TestValidateExpense_NoSplits(t *testing.T) {
	// Without splits, only description, amount and currency matter.
	for _, v := range []float64{0, -12.5, 0.01, 1e9} {
		_, err := ValidateExpense(ExpenseInput{Description: "x", Amount: amount(v), Currency: "USD"})
		assert.NoError(t, err, "amount %v", v)
	}
}

func TestValidateExpense_Normalizes(t *testing.T) {
	when := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)

	got, err := ValidateExpense(ExpenseInput{
		Description: "  Groceries ",
		Amount:      amount(42.5),
		Currency:    " MYR ",
		Date:        &when,
		Splits: []models.Split{
			{UserID: "a", AmountOwed: 20, PaidStatus: models.PaidStatusPaid},
			{UserID: "b", AmountOwed: 22.5},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Groceries", got.Description)
	assert.Equal(t, "MYR", got.Currency)
	assert.Equal(t, models.DefaultCategory, got.Category)
	assert.Equal(t, when.Unix(), got.Date)
	assert.True(t, got.IsPersonal())
	assert.Equal(t, models.PaidStatusPaid, got.Splits[0].PaidStatus)
	assert.Equal(t, models.PaidStatusPending, got.Splits[1].PaidStatus)
}

func TestValidateExpense_DoesNotMutateInput(t *testing.T) {
	splits := []models.Split{{UserID: "a", AmountOwed: 10}}
	_, err := ValidateExpense(ExpenseInput{Description: "x", Amount: amount(10), Currency: "MYR", Splits: splits})
	require.NoError(t, err)
	assert.Empty(t, splits[0].PaidStatus)
}

func TestValidateExpense_Splits(t *testing.T) {
	t.Run("within tolerance", func(t *testing.T) {
		_, err := ValidateExpense(ExpenseInput{
			Description: "Lunch", Amount: amount(30), Currency: "MYR",
			Splits: []models.Split{{UserID: "a", AmountOwed: 15}, {UserID: "b", AmountOwed: 15.005}},
		})
		assert.NoError(t, err)
	})

	t.Run("mismatch", func(t *testing.T) {
		_, err := ValidateExpense(ExpenseInput{
			Description: "Lunch", Amount: amount(30), Currency: "MYR",
			Splits: []models.Split{{UserID: "a", AmountOwed: 10}, {UserID: "b", AmountOwed: 10}},
		})
		assert.ErrorIs(t, err, apperr.ErrSplitMismatch)
		assert.Equal(t, "Splits do not add up to total amount", apperr.Message(err))
	})

	t.Run("empty split list is not checked", func(t *testing.T) {
		_, err := ValidateExpense(ExpenseInput{
			Description: "Lunch", Amount: amount(30), Currency: "MYR", Splits: []models.Split{},
		})
		assert.NoError(t, err)
	})
}
