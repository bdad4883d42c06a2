package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"

	"github.com/mmynk/splitpocket/internal/apperr"
	"github.com/mmynk/splitpocket/internal/models"
	"github.com/mmynk/splitpocket/internal/storage"
)

var expenseColumns = []string{
	"id", "description", "amount", "currency", "category", "creator_user_id",
	"receipt_image_url", "group_id", "date", "created_at",
}

// CreateExpense persists a new expense and its splits.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = uuid.New().String()
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}
	if expense.Date == 0 {
		expense.Date = expense.CreatedAt
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query, args, err := psql.
		Insert("expenses").
		Columns(expenseColumns...).
		Values(
			expense.ID,
			expense.Description,
			expense.Amount,
			expense.Currency,
			expense.Category,
			expense.CreatorUserID,
			nullString(expense.ReceiptImageURL),
			nullString(expense.GroupID),
			expense.Date,
			expense.CreatedAt,
		).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i, split := range expense.Splits {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO expense_splits (expense_id, position, user_id, amount_owed, paid_status)
			 VALUES (?, ?, ?, ?, ?)`,
			expense.ID, i, split.UserID, split.AmountOwed, split.PaidStatus,
		)
		if err != nil {
			return fmt.Errorf("failed to insert split: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetExpense retrieves an expense by ID, including its splits.
func (s *SQLiteStore) GetExpense(ctx context.Context, expenseID string) (*models.Expense, error) {
	query, args, err := psql.
		Select(expenseColumns...).
		From("expenses").
		Where(sq.Eq{"id": expenseID}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	var rec expenseRecord
	err = s.db.QueryRowContext(ctx, query, args...).Scan(rec.fields()...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("expense", expenseID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}

	splits, err := s.splitsOf(ctx, []string{expenseID})
	if err != nil {
		return nil, err
	}

	expense, err := rec.decode(splits[expenseID])
	if err != nil {
		return nil, err
	}
	return &expense, nil
}

// ListExpenses returns the expenses matching filter, newest first.
func (s *SQLiteStore) ListExpenses(ctx context.Context, filter storage.ExpenseFilter) ([]models.Expense, error) {
	builder := psql.
		Select(expenseColumns...).
		From("expenses").
		OrderBy("created_at DESC", "rowid DESC")
	if filter.GroupID != "" {
		builder = builder.Where(sq.Eq{"group_id": filter.GroupID})
	}
	if filter.CreatorUserID != "" {
		builder = builder.Where(sq.Eq{"creator_user_id": filter.CreatorUserID})
	}
	if filter.Limit > 0 {
		builder = builder.Limit(filter.Limit)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	var recs []expenseRecord
	for rows.Next() {
		var rec expenseRecord
		if err := rows.Scan(rec.fields()...); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		recs = append(recs, rec)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}

	ids := make([]string, len(recs))
	for i, rec := range recs {
		ids[i] = rec.ID
	}
	splits, err := s.splitsOf(ctx, ids)
	if err != nil {
		return nil, err
	}

	expenses := make([]models.Expense, 0, len(recs))
	for _, rec := range recs {
		expense, err := rec.decode(splits[rec.ID])
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, nil
}

// splitsOf returns the splits of each expense, in submission order.
func (s *SQLiteStore) splitsOf(ctx context.Context, expenseIDs []string) (map[string][]models.Split, error) {
	splits := make(map[string][]models.Split, len(expenseIDs))
	if len(expenseIDs) == 0 {
		return splits, nil
	}

	query, args, err := psql.
		Select("expense_id", "user_id", "amount_owed", "paid_status").
		From("expense_splits").
		Where(sq.Eq{"expense_id": expenseIDs}).
		OrderBy("expense_id", "position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get splits: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var expenseID string
		var split models.Split
		if err := rows.Scan(&expenseID, &split.UserID, &split.AmountOwed, &split.PaidStatus); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		splits[expenseID] = append(splits[expenseID], split)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}

	return splits, nil
}
