package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"math"

	"github.com/mmynk/splitpocket/internal/models"
)

// ErrCorruptRecord is returned when a stored row does not decode into a valid model.
var ErrCorruptRecord = errors.New("corrupt record")

func corrupt(kind, id, reason string) error {
	return fmt.Errorf("%w: %s %q: %s", ErrCorruptRecord, kind, id, reason)
}

// userRecord mirrors a users row.
type userRecord struct {
	ID              string
	Email           string
	Username        sql.NullString
	AvatarURL       sql.NullString
	DefaultCurrency string
	PasswordHash    string
	CreatedAt       int64
	UpdatedAt       int64
}

func (r *userRecord) fields() []any {
	return []any{&r.ID, &r.Email, &r.Username, &r.AvatarURL, &r.DefaultCurrency,
		&r.PasswordHash, &r.CreatedAt, &r.UpdatedAt}
}

func (r *userRecord) decode() (*models.User, error) {
	if r.ID == "" {
		return nil, corrupt("user", r.ID, "empty id")
	}
	if r.Email == "" {
		return nil, corrupt("user", r.ID, "empty email")
	}
	currency := r.DefaultCurrency
	if currency == "" {
		currency = models.DefaultCurrency
	}
	return &models.User{
		ID:              r.ID,
		Email:           r.Email,
		Username:        r.Username.String,
		AvatarURL:       r.AvatarURL.String,
		DefaultCurrency: currency,
		PasswordHash:    r.PasswordHash,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}, nil
}

// groupRecord mirrors a groups row, optionally joined with one member's balance.
type groupRecord struct {
	ID        string
	Name      string
	CreatedBy string
	Settled   bool
	CreatedAt int64
	Balance   sql.NullFloat64
}

func (r *groupRecord) decode(memberIDs []string) (models.Group, error) {
	if r.ID == "" {
		return models.Group{}, corrupt("group", r.ID, "empty id")
	}
	if r.Name == "" {
		return models.Group{}, corrupt("group", r.ID, "empty name")
	}
	g := models.Group{
		ID:              r.ID,
		Name:            r.Name,
		CreatedByUserID: r.CreatedBy,
		MemberIDs:       memberIDs,
		Settled:         r.Settled,
		CreatedAt:       r.CreatedAt,
	}
	if r.Balance.Valid {
		if math.IsNaN(r.Balance.Float64) || math.IsInf(r.Balance.Float64, 0) {
			return models.Group{}, corrupt("group", r.ID, "non-finite balance")
		}
		b := r.Balance.Float64
		g.Balance = &b
	}
	return g, nil
}

// expenseRecord mirrors an expenses row.
type expenseRecord struct {
	ID              string
	Description     string
	Amount          float64
	Currency        string
	Category        string
	CreatorUserID   string
	ReceiptImageURL sql.NullString
	GroupID         sql.NullString
	Date            int64
	CreatedAt       int64
}

func (r *expenseRecord) fields() []any {
	return []any{&r.ID, &r.Description, &r.Amount, &r.Currency, &r.Category,
		&r.CreatorUserID, &r.ReceiptImageURL, &r.GroupID, &r.Date, &r.CreatedAt}
}

func (r *expenseRecord) decode(splits []models.Split) (models.Expense, error) {
	if r.ID == "" {
		return models.Expense{}, corrupt("expense", r.ID, "empty id")
	}
	if r.Description == "" || r.Currency == "" {
		return models.Expense{}, corrupt("expense", r.ID, "missing required field")
	}
	if math.IsNaN(r.Amount) || math.IsInf(r.Amount, 0) {
		return models.Expense{}, corrupt("expense", r.ID, "non-finite amount")
	}
	category := r.Category
	if category == "" {
		category = models.DefaultCategory
	}
	return models.Expense{
		ID:              r.ID,
		Description:     r.Description,
		Amount:          r.Amount,
		Currency:        r.Currency,
		Category:        category,
		GroupID:         r.GroupID.String,
		Splits:          splits,
		CreatorUserID:   r.CreatorUserID,
		ReceiptImageURL: r.ReceiptImageURL.String,
		Date:            r.Date,
		CreatedAt:       r.CreatedAt,
	}, nil
}

// nullString stores empty strings as NULL.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
