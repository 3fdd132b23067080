package repositories

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"family_expenses/internal/models"
)

func mustDec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestExpenseStore_ListByMembers(t *testing.T) {
	db, mock := NewMock()
	defer db.Close()
	store := NewExpenseStore(db)

	from := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	rows := sqlmock.NewRows([]string{"id", "user_id", "description", "amount", "expense_date", "due_date", "comments"}).
		AddRow(1, 10, "rent", "700.00", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), nil, nil).
		AddRow(2, 20, "groceries", "55.25", time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC),
			time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC), "card payment")

	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id IN (?,?) AND expense_date >= ? AND expense_date < ?")).
		WithArgs(10, 20, "2025-03-01", "2025-04-01").
		WillReturnRows(rows)

	expenses, err := store.ListByMembers(context.Background(), []int{10, 20}, from, to)
	assert.NoError(t, err)
	assert.Len(t, expenses, 2)

	assert.Equal(t, 10, expenses[0].OwnerID)
	assert.True(t, expenses[0].Amount.Equal(mustDec("700.00")))
	assert.Nil(t, expenses[0].DueDate)
	assert.Empty(t, expenses[0].Comments)

	assert.Equal(t, 20, expenses[1].OwnerID)
	assert.NotNil(t, expenses[1].DueDate)
	assert.Equal(t, "card payment", expenses[1].Comments)

	assert.NoError(t, mock.ExpectationsWereMet())
}

// The month range arrives as midnight-to-midnight in the service zone. The
// store must compare it against the DATE column as plain calendar dates: a
// time.Time arg would be re-rendered by the driver in its own location and
// shift the boundary by the zone offset (a March 1 expense falling out of
// March in a UTC-3 zone).
func TestExpenseStore_ListByMembersBindsCalendarDates(t *testing.T) {
	db, mock := NewMock()
	defer db.Close()
	store := NewExpenseStore(db)

	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	assert.NoError(t, err)

	from := time.Date(2025, 3, 1, 0, 0, 0, 0, loc)
	to := from.AddDate(0, 1, 0)

	mock.ExpectQuery(regexp.QuoteMeta("expense_date >= ? AND expense_date < ?")).
		WithArgs(10, 20, "2025-03-01", "2025-04-01").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "description", "amount", "expense_date", "due_date", "comments"}).
			AddRow(1, 10, "rent", "700.00", time.Date(2025, 3, 1, 0, 0, 0, 0, loc), nil, nil))

	expenses, err := store.ListByMembers(context.Background(), []int{10, 20}, from, to)
	assert.NoError(t, err)
	assert.Len(t, expenses, 1)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseStore_ListFilteredBindsCalendarDates(t *testing.T) {
	db, mock := NewMock()
	defer db.Close()
	store := NewExpenseStore(db)

	loc, err := time.LoadLocation("America/Argentina/Buenos_Aires")
	assert.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("expense_date >= ? AND expense_date < ?")).
		WithArgs(10, "2025-03-01", "2025-04-01").
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "description", "amount", "expense_date", "due_date", "comments", "created_at"}))

	_, err = store.ListFiltered(context.Background(), ExpenseFilter{
		MemberIDs: []int{10},
		From:      time.Date(2025, 3, 1, 0, 0, 0, 0, loc),
		To:        time.Date(2025, 4, 1, 0, 0, 0, 0, loc),
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseStore_ListByMembersEmptyMemberSet(t *testing.T) {
	db, mock := NewMock()
	defer db.Close()
	store := NewExpenseStore(db)

	expenses, err := store.ListByMembers(context.Background(), nil, time.Now(), time.Now())
	assert.NoError(t, err)
	assert.Empty(t, expenses)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExpenseStore_CreateBatch(t *testing.T) {
	t.Run("inserts all rows in one transaction", func(t *testing.T) {
		db, mock := NewMock()
		defer db.Close()
		store := NewExpenseStore(db)

		batch := []models.Expense{
			{UserID: 10, Description: "rent", Amount: mustDec("700.00"), ExpenseDate: "2025-03-01"},
			{UserID: 10, Description: "internet", Amount: mustDec("45.50"), ExpenseDate: "2025-03-05"},
		}

		mock.ExpectBegin()
		mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO expenses"))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO expenses")).
			WithArgs(10, "rent", sqlmock.AnyArg(), "2025-03-01", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(1, 1))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO expenses")).
			WithArgs(10, "internet", sqlmock.AnyArg(), "2025-03-05", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnResult(sqlmock.NewResult(2, 1))
		mock.ExpectCommit()

		ids, err := store.CreateBatch(context.Background(), batch)
		assert.NoError(t, err)
		assert.Equal(t, []int64{1, 2}, ids)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("failed insert rolls back the batch", func(t *testing.T) {
		db, mock := NewMock()
		defer db.Close()
		store := NewExpenseStore(db)

		batch := []models.Expense{
			{UserID: 10, Description: "rent", Amount: mustDec("700.00"), ExpenseDate: "2025-03-01"},
		}

		mock.ExpectBegin()
		mock.ExpectPrepare(regexp.QuoteMeta("INSERT INTO expenses"))
		mock.ExpectExec(regexp.QuoteMeta("INSERT INTO expenses")).
			WillReturnError(assert.AnError)
		mock.ExpectRollback()

		ids, err := store.CreateBatch(context.Background(), batch)
		assert.Error(t, err)
		assert.Nil(t, ids)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGroupDirectory_Members(t *testing.T) {
	db, mock := NewMock()
	defer db.Close()
	dir := NewGroupDirectory(db)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE group_id = ?")).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id", "first_name", "email"}).
			AddRow(10, "Ana", "ana@example.com").
			AddRow(20, "Bruno", "bruno@example.com"))

	members, err := dir.Members(context.Background(), 1)
	assert.NoError(t, err)
	assert.Len(t, members, 2)
	assert.Equal(t, "Ana", members[0].FirstName)
	assert.Equal(t, 20, members[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
