package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"family_expenses/internal/models"
	"family_expenses/internal/settlement"
)

// ExpenseStore reads and writes expense rows. Expenses are immutable once
// created; there is no update or delete path.
type ExpenseStore struct {
	DB *sql.DB
}

func NewExpenseStore(db *sql.DB) *ExpenseStore {
	return &ExpenseStore{DB: db}
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

// dateArg binds a boundary against the DATE column expense_date. Passing a
// time.Time would let the driver re-render it in its own location (UTC by
// default), shifting month boundaries for any non-UTC service zone; a plain
// YYYY-MM-DD string compares against DATE values exactly as intended.
func dateArg(t time.Time) string {
	return t.Format("2006-01-02")
}

// ListByMembers returns the expenses owned by any of the given members with
// an expense date in [from, to). This is the settlement engine's read path.
func (s *ExpenseStore) ListByMembers(ctx context.Context, memberIDs []int, from, to time.Time) ([]settlement.Expense, error) {
	if len(memberIDs) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`
		SELECT id, user_id, description, amount, expense_date, due_date, comments
		FROM expenses
		WHERE user_id IN (%s) AND expense_date >= ? AND expense_date < ?
		ORDER BY expense_date, id
	`, placeholders(len(memberIDs)))

	args := make([]interface{}, 0, len(memberIDs)+2)
	for _, id := range memberIDs {
		args = append(args, id)
	}
	args = append(args, dateArg(from), dateArg(to))

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	var expenses []settlement.Expense
	for rows.Next() {
		var (
			e        settlement.Expense
			amount   string
			dueDate  sql.NullTime
			comments sql.NullString
		)
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.Description, &amount, &e.ExpenseDate, &dueDate, &comments); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Amount, err = parseAmount(amount)
		if err != nil {
			return nil, err
		}
		if dueDate.Valid {
			d := dueDate.Time
			e.DueDate = &d
		}
		e.Comments = comments.String
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}
	return expenses, nil
}

// CreateBatch inserts a batch of expenses in one transaction, all or nothing.
func (s *ExpenseStore) CreateBatch(ctx context.Context, expenses []models.Expense) ([]int64, error) {
	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to start transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO expenses (user_id, description, amount, expense_date, due_date, comments)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		tx.Rollback()
		return nil, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	ids := make([]int64, 0, len(expenses))
	for _, e := range expenses {
		res, err := stmt.ExecContext(ctx, e.UserID, e.Description, e.Amount, e.ExpenseDate, e.DueDate, e.Comments)
		if err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to insert expense: %w", err)
		}
		id, err := res.LastInsertId()
		if err != nil {
			tx.Rollback()
			return nil, fmt.Errorf("failed to read insert id: %w", err)
		}
		ids = append(ids, id)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit expenses: %w", err)
	}
	return ids, nil
}

// ExpenseFilter narrows the listing endpoint. Zero values mean "any".
type ExpenseFilter struct {
	MemberIDs []int
	From      time.Time
	To        time.Time
	SortBy    string
	SortOrder string
	Limit     int
	Offset    int
}

var expenseSortColumns = map[string]bool{
	"expense_date": true,
	"amount":       true,
	"created_at":   true,
}

// ListFiltered backs GET /expenses with optional member set, date range,
// sorting and pagination.
func (s *ExpenseStore) ListFiltered(ctx context.Context, f ExpenseFilter) ([]models.Expense, error) {
	query := `
		SELECT id, user_id, description, amount,
		       DATE_FORMAT(expense_date, '%Y-%m-%d'),
		       DATE_FORMAT(due_date, '%Y-%m-%d'),
		       comments, DATE_FORMAT(created_at, '%Y-%m-%d %H:%i:%s')
		FROM expenses
		WHERE 1=1
	`
	args := []interface{}{}

	if len(f.MemberIDs) > 0 {
		query += fmt.Sprintf(" AND user_id IN (%s)", placeholders(len(f.MemberIDs)))
		for _, id := range f.MemberIDs {
			args = append(args, id)
		}
	}
	if !f.From.IsZero() {
		query += " AND expense_date >= ?"
		args = append(args, dateArg(f.From))
	}
	if !f.To.IsZero() {
		query += " AND expense_date < ?"
		args = append(args, dateArg(f.To))
	}

	sortBy := "expense_date"
	if expenseSortColumns[f.SortBy] {
		sortBy = f.SortBy
	}
	order := "DESC"
	if strings.EqualFold(f.SortOrder, "asc") {
		order = "ASC"
	}
	query += fmt.Sprintf(" ORDER BY %s %s, id %s", sortBy, order, order)

	if f.Limit > 0 {
		query += " LIMIT ? OFFSET ?"
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query expenses: %w", err)
	}
	defer rows.Close()

	expenses := make([]models.Expense, 0)
	for rows.Next() {
		var (
			e      models.Expense
			amount string
		)
		if err := rows.Scan(&e.ID, &e.UserID, &e.Description, &amount, &e.ExpenseDate, &e.DueDate, &e.Comments, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		e.Amount, err = parseAmount(amount)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating expenses: %w", err)
	}
	return expenses, nil
}
