// Package settlement computes monthly summaries for two-member expense
// groups and closes months with a once-only settlement record.
package settlement

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

var (
	// ErrAlreadyClosed marks the terminal state of a (group, month) pair.
	ErrAlreadyClosed = errors.New("month already closed for this group")

	// ErrGroupResolution means the group cannot back a two-party split
	// (unknown group, no members, or more than two members).
	ErrGroupResolution = errors.New("group does not resolve to two members")

	// ErrInsufficientMembers means the group has a single member recorded,
	// so a debt figure would point at a non-existent counterpart.
	ErrInsufficientMembers = errors.New("group has fewer than two members")

	ErrInvalidPeriod = errors.New("invalid year or month")
)

type Member struct {
	ID        int    `json:"id"`
	FirstName string `json:"first_name"`
	Email     string `json:"email"`
}

type Expense struct {
	ID          int             `json:"id"`
	OwnerID     int             `json:"owner_id"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	ExpenseDate time.Time       `json:"expense_date"`
	DueDate     *time.Time      `json:"due_date,omitempty"`
	Comments    string          `json:"comments,omitempty"`
}

type MemberTotal struct {
	MemberID  int             `json:"member_id"`
	FirstName string          `json:"first_name,omitempty"`
	Total     decimal.Decimal `json:"total"`
}

type CategoryTotal struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
}

// Debt points from the member with the lower total toward the higher one.
// DebtorID and CreditorID are zero when the totals are exactly equal.
type Debt struct {
	DebtorID   int             `json:"debtor_id"`
	CreditorID int             `json:"creditor_id"`
	Amount     decimal.Decimal `json:"amount"`
}

type Summary struct {
	GroupID          int               `json:"group_id"`
	MonthKey         string            `json:"month_key"`
	Members          []Member          `json:"members"`
	MemberTotals     []MemberTotal     `json:"per_member_totals"`
	ExpensesByMember map[int][]Expense `json:"expenses_by_member"`
	TopCategories    []CategoryTotal   `json:"top5_categories"`
	Debt             Debt              `json:"debt"`
	IsClosed         bool              `json:"is_closed"`
}

type Closure struct {
	ID        int           `json:"id"`
	GroupID   int           `json:"group_id"`
	MonthKey  string        `json:"month_key"`
	Totals    []MemberTotal `json:"per_member_totals"`
	CreatedAt time.Time     `json:"created_at"`
}

// ExpenseStore fetches expenses owned by any of the given members with an
// expense date in [from, to).
type ExpenseStore interface {
	ListByMembers(ctx context.Context, memberIDs []int, from, to time.Time) ([]Expense, error)
}

// GroupDirectory resolves the member identities belonging to a group.
type GroupDirectory interface {
	Members(ctx context.Context, groupID int) ([]Member, error)
}

// ClosureStore holds at most one closure per (group, month). Create must be
// backed by a uniqueness constraint on that composite key and return
// ErrAlreadyClosed on conflict; the check-then-write in Close relies on it.
type ClosureStore interface {
	Get(ctx context.Context, groupID int, monthKey string) (*Closure, error)
	Create(ctx context.Context, groupID int, monthKey string, totals []MemberTotal) (*Closure, error)
	List(ctx context.Context, groupID int) ([]Closure, error)
}

// Notifier is a fire-and-forget side effect after a successful closure. It is
// handed only the (group, month) key and re-derives the breakdown itself.
type Notifier interface {
	MonthClosed(ctx context.Context, groupID int, monthKey string) error
}

type Engine struct {
	expenses ExpenseStore
	groups   GroupDirectory
	closures ClosureStore
	notifier Notifier
	loc      *time.Location
	log      *logrus.Logger
}

func NewEngine(expenses ExpenseStore, groups GroupDirectory, closures ClosureStore, loc *time.Location, log *logrus.Logger) *Engine {
	if loc == nil {
		loc = time.UTC
	}
	return &Engine{
		expenses: expenses,
		groups:   groups,
		closures: closures,
		loc:      loc,
		log:      log,
	}
}

// SetNotifier wires the optional closure notifier. The notifier itself
// usually summarizes through the engine, hence the late binding.
func (e *Engine) SetNotifier(n Notifier) {
	e.notifier = n
}
