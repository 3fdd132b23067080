package settlement

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// aggregate resolves the group's two members and partitions the month's
// expenses by owner, summing each side with exact decimal arithmetic.
func (e *Engine) aggregate(ctx context.Context, groupID, year, month int) ([]Member, []MemberTotal, map[int][]Expense, []Expense, error) {
	members, err := e.groups.Members(ctx, groupID)
	if err != nil {
		return nil, nil, nil, nil, err
	}
	switch {
	case len(members) == 0:
		return nil, nil, nil, nil, ErrGroupResolution
	case len(members) == 1:
		return nil, nil, nil, nil, ErrInsufficientMembers
	case len(members) > 2:
		return nil, nil, nil, nil, ErrGroupResolution
	}

	from, to := MonthRange(year, month, e.loc)
	memberIDs := []int{members[0].ID, members[1].ID}
	all, err := e.expenses.ListByMembers(ctx, memberIDs, from, to)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	byMember := make(map[int][]Expense, 2)
	totals := make([]MemberTotal, 2)
	for i, m := range members {
		byMember[m.ID] = []Expense{}
		totals[i] = MemberTotal{MemberID: m.ID, FirstName: m.FirstName, Total: decimal.Zero}
	}
	for _, exp := range all {
		byMember[exp.OwnerID] = append(byMember[exp.OwnerID], exp)
		for i := range totals {
			if totals[i].MemberID == exp.OwnerID {
				totals[i].Total = totals[i].Total.Add(exp.Amount)
			}
		}
	}
	return members, totals, byMember, all, nil
}

// Summarize builds the monthly report for a group: per-member totals, the
// two-way debt, the top-5 category ranking and the closed flag.
func (e *Engine) Summarize(ctx context.Context, groupID, year, month int) (*Summary, error) {
	key, err := MonthKey(year, month)
	if err != nil {
		return nil, err
	}

	members, totals, byMember, all, err := e.aggregate(ctx, groupID, year, month)
	if err != nil {
		return nil, err
	}

	closure, err := e.closures.Get(ctx, groupID, key)
	if err != nil {
		return nil, err
	}

	return &Summary{
		GroupID:          groupID,
		MonthKey:         key,
		Members:          members,
		MemberTotals:     totals,
		ExpensesByMember: byMember,
		TopCategories:    TopCategories(all),
		Debt:             ComputeDebt(totals[0], totals[1]),
		IsClosed:         closure != nil,
	}, nil
}

// Close transitions a (group, month) pair from OPEN to CLOSED. The stored
// totals are a snapshot: later expense edits never change a closed month.
// The pre-check is a fast path only; the closure store's uniqueness
// constraint is what keeps two concurrent attempts from both succeeding.
func (e *Engine) Close(ctx context.Context, groupID, year, month int) (*Closure, error) {
	key, err := MonthKey(year, month)
	if err != nil {
		return nil, err
	}

	existing, err := e.closures.Get(ctx, groupID, key)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadyClosed
	}

	_, totals, _, _, err := e.aggregate(ctx, groupID, year, month)
	if err != nil {
		return nil, err
	}

	closure, err := e.closures.Create(ctx, groupID, key, totals)
	if err != nil {
		return nil, err
	}

	if e.notifier != nil {
		go func() {
			nctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := e.notifier.MonthClosed(nctx, groupID, key); err != nil {
				e.log.Errorf("failed to notify closure of %s for group %d: %v", key, groupID, err)
			}
		}()
	}

	return closure, nil
}

// ClosedMonths lists a group's closures, most recent month first.
func (e *Engine) ClosedMonths(ctx context.Context, groupID int) ([]Closure, error) {
	return e.closures.List(ctx, groupID)
}
