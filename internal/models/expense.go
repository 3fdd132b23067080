package models

import (
	"database/sql"

	"github.com/shopspring/decimal"
)

type Expense struct {
	ID          int             `json:"id,omitempty" db:"id,omitempty"`
	UserID      int             `json:"user_id,omitempty" db:"user_id,omitempty"`
	Description string          `json:"description,omitempty" db:"description,omitempty"`
	Amount      decimal.Decimal `json:"amount" db:"amount"`
	ExpenseDate string          `json:"expense_date,omitempty" db:"expense_date,omitempty"`
	DueDate     sql.NullString  `json:"due_date,omitempty" db:"due_date,omitempty"`
	Comments    sql.NullString  `json:"comments,omitempty" db:"comments,omitempty"`
	CreatedAt   sql.NullString  `json:"created_at,omitempty" db:"created_at,omitempty"`
}
