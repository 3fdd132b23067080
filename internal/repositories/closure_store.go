package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"family_expenses/internal/settlement"
)

// ClosureStore persists one settlement record per (group, month). The
// closed_months table carries UNIQUE KEY uq_group_month (group_id, month_key);
// that constraint, not application locking, is what serializes concurrent
// close attempts on the same key.
type ClosureStore struct {
	DB *sql.DB
}

func NewClosureStore(db *sql.DB) *ClosureStore {
	return &ClosureStore{DB: db}
}

func (s *ClosureStore) Get(ctx context.Context, groupID int, monthKey string) (*settlement.Closure, error) {
	var (
		c         settlement.Closure
		createdAt time.Time
	)
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, group_id, month_key, created_at
		FROM closed_months
		WHERE group_id = ? AND month_key = ?
	`, groupID, monthKey).Scan(&c.ID, &c.GroupID, &c.MonthKey, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query closed month: %w", err)
	}
	c.CreatedAt = createdAt

	rows, err := s.DB.QueryContext(ctx, `
		SELECT member_id, total
		FROM closed_month_totals
		WHERE closed_month_id = ?
		ORDER BY member_id
	`, c.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to query closure totals: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			t      settlement.MemberTotal
			amount string
		)
		if err := rows.Scan(&t.MemberID, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan closure total: %w", err)
		}
		t.Total, err = parseAmount(amount)
		if err != nil {
			return nil, err
		}
		c.Totals = append(c.Totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating closure totals: %w", err)
	}
	return &c, nil
}

// Create writes the closure and its per-member totals in one transaction.
// A duplicate (group_id, month_key) insert is reported as
// settlement.ErrAlreadyClosed and leaves no partial record behind.
func (s *ClosureStore) Create(ctx context.Context, groupID int, monthKey string, totals []settlement.MemberTotal) (*settlement.Closure, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}

	now := time.Now()
	res, err := tx.ExecContext(ctx, `
		INSERT INTO closed_months (group_id, month_key, created_at)
		VALUES (?, ?, ?)
	`, groupID, monthKey, now)
	if err != nil {
		tx.Rollback()
		if strings.Contains(err.Error(), "Duplicate entry") {
			return nil, settlement.ErrAlreadyClosed
		}
		return nil, fmt.Errorf("failed to insert closed month: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to read closure id: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO closed_month_totals (closed_month_id, member_id, total)
		VALUES (?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to prepare totals insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range totals {
		if _, err := stmt.ExecContext(ctx, id, t.MemberID, t.Total); err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to insert closure total: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit closure: %w", err)
	}

	return &settlement.Closure{
		ID:        int(id),
		GroupID:   groupID,
		MonthKey:  monthKey,
		Totals:    append([]settlement.MemberTotal(nil), totals...),
		CreatedAt: now,
	}, nil
}

// List returns a group's closures, most recent calendar month first. The
// key is MMYYYY, so ordering sorts the year part before the month part.
func (s *ClosureStore) List(ctx context.Context, groupID int) ([]settlement.Closure, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, group_id, month_key, created_at
		FROM closed_months
		WHERE group_id = ?
		ORDER BY SUBSTRING(month_key, 3, 4) DESC, SUBSTRING(month_key, 1, 2) DESC
	`, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query closed months: %w", err)
	}
	defer rows.Close()

	closures := make([]settlement.Closure, 0)
	for rows.Next() {
		var (
			c         settlement.Closure
			createdAt time.Time
		)
		if err := rows.Scan(&c.ID, &c.GroupID, &c.MonthKey, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan closed month: %w", err)
		}
		c.CreatedAt = createdAt
		closures = append(closures, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating closed months: %w", err)
	}
	return closures, nil
}
