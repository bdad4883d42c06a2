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
)

// CreateGroup persists a new group and its members.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO groups (id, name, created_by, settled, created_at) VALUES (?, ?, ?, ?, ?)",
		group.ID, group.Name, group.CreatedByUserID, group.Settled, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	if err := insertMembers(ctx, tx, group.ID, group.MemberIDs, 0); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// insertMembers adds members after position start. Existing members are skipped.
func insertMembers(ctx context.Context, tx *sql.Tx, groupID string, userIDs []string, start int) error {
	for i, userID := range userIDs {
		_, err := tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO group_members (group_id, user_id, position) VALUES (?, ?, ?)",
			groupID, userID, start+i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group member: %w", err)
		}
	}
	return nil
}

// GetGroup retrieves a group with its members. When viewerID is set and is a
// member, the group carries the viewer's balance.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID, viewerID string) (*models.Group, error) {
	var rec groupRecord
	err := s.db.QueryRowContext(ctx,
		`SELECT g.id, g.name, g.created_by, g.settled, g.created_at, m.balance
		 FROM groups g
		 LEFT JOIN group_members m ON m.group_id = g.id AND m.user_id = ?
		 WHERE g.id = ?`,
		viewerID, groupID,
	).Scan(&rec.ID, &rec.Name, &rec.CreatedBy, &rec.Settled, &rec.CreatedAt, &rec.Balance)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("group", groupID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	members, err := s.membersOf(ctx, []string{groupID})
	if err != nil {
		return nil, err
	}

	group, err := rec.decode(members[groupID])
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// ListGroupsForMember returns the groups userID belongs to, newest first.
func (s *SQLiteStore) ListGroupsForMember(ctx context.Context, userID string) ([]models.Group, error) {
	query, args, err := psql.
		Select("g.id", "g.name", "g.created_by", "g.settled", "g.created_at", "m.balance").
		From("groups g").
		Join("group_members m ON m.group_id = g.id").
		Where(sq.Eq{"m.user_id": userID}).
		OrderBy("g.created_at DESC", "g.rowid DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	var recs []groupRecord
	for rows.Next() {
		var rec groupRecord
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.CreatedBy, &rec.Settled, &rec.CreatedAt, &rec.Balance); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		recs = append(recs, rec)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	ids := make([]string, len(recs))
	for i, rec := range recs {
		ids[i] = rec.ID
	}
	members, err := s.membersOf(ctx, ids)
	if err != nil {
		return nil, err
	}

	groups := make([]models.Group, 0, len(recs))
	for _, rec := range recs {
		group, err := rec.decode(members[rec.ID])
		if err != nil {
			return nil, err
		}
		groups = append(groups, group)
	}
	return groups, nil
}

// membersOf returns the member IDs of each group, in joining order.
func (s *SQLiteStore) membersOf(ctx context.Context, groupIDs []string) (map[string][]string, error) {
	members := make(map[string][]string, len(groupIDs))
	if len(groupIDs) == 0 {
		return members, nil
	}

	query, args, err := psql.
		Select("group_id", "user_id").
		From("group_members").
		Where(sq.Eq{"group_id": groupIDs}).
		OrderBy("group_id", "position").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var groupID, userID string
		if err := rows.Scan(&groupID, &userID); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		members[groupID] = append(members[groupID], userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate group members: %w", err)
	}

	return members, nil
}

// AddGroupMembers merges userIDs into the group's members in one transaction.
// Either every new member is added or none is.
func (s *SQLiteStore) AddGroupMembers(ctx context.Context, groupID string, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var next sql.NullInt64
	err = tx.QueryRowContext(ctx,
		`SELECT (SELECT MAX(position) + 1 FROM group_members WHERE group_id = g.id)
		 FROM groups g WHERE g.id = ?`,
		groupID,
	).Scan(&next)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("group", groupID)
	}
	if err != nil {
		return fmt.Errorf("failed to check group: %w", err)
	}

	if err := insertMembers(ctx, tx, groupID, userIDs, int(next.Int64)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// SetMemberBalance records userID's balance in the group.
func (s *SQLiteStore) SetMemberBalance(ctx context.Context, groupID, userID string, balance float64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE group_members SET balance = ? WHERE group_id = ? AND user_id = ?",
		balance, groupID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to set member balance: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("group member", groupID+"/"+userID)
	}
	return nil
}

// SetGroupSettled records whether the group's debts are cleared.
func (s *SQLiteStore) SetGroupSettled(ctx context.Context, groupID string, settled bool) error {
	res, err := s.db.ExecContext(ctx, "UPDATE groups SET settled = ? WHERE id = ?", settled, groupID)
	if err != nil {
		return fmt.Errorf("failed to set group settled: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("group", groupID)
	}
	return nil
}
