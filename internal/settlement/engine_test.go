package settlement

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type fakeExpenseStore struct {
	mu       sync.Mutex
	expenses []Expense
}

func (s *fakeExpenseStore) ListByMembers(_ context.Context, memberIDs []int, from, to time.Time) ([]Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make(map[int]bool, len(memberIDs))
	for _, id := range memberIDs {
		ids[id] = true
	}

	var out []Expense
	for _, e := range s.expenses {
		if ids[e.OwnerID] && !e.ExpenseDate.Before(from) && e.ExpenseDate.Before(to) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *fakeExpenseStore) add(ownerID int, desc, amount string, date time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expenses = append(s.expenses, Expense{
		ID:          len(s.expenses) + 1,
		OwnerID:     ownerID,
		Description: desc,
		Amount:      dec(amount),
		ExpenseDate: date,
	})
}

type fakeDirectory struct {
	members map[int][]Member
}

func (d *fakeDirectory) Members(_ context.Context, groupID int) ([]Member, error) {
	return d.members[groupID], nil
}

// fakeClosureStore enforces the same (group_id, month_key) uniqueness the
// SQL store gets from its composite unique key.
type fakeClosureStore struct {
	mu       sync.Mutex
	closures map[string]*Closure
	nextID   int
}

func newFakeClosureStore() *fakeClosureStore {
	return &fakeClosureStore{closures: make(map[string]*Closure)}
}

func closureKey(groupID int, monthKey string) string {
	return fmt.Sprintf("%d/%s", groupID, monthKey)
}

func (s *fakeClosureStore) Get(_ context.Context, groupID int, monthKey string) (*Closure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.closures[closureKey(groupID, monthKey)]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (s *fakeClosureStore) Create(_ context.Context, groupID int, monthKey string, totals []MemberTotal) (*Closure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := closureKey(groupID, monthKey)
	if _, ok := s.closures[key]; ok {
		return nil, ErrAlreadyClosed
	}
	s.nextID++
	c := &Closure{
		ID:        s.nextID,
		GroupID:   groupID,
		MonthKey:  monthKey,
		Totals:    append([]MemberTotal(nil), totals...),
		CreatedAt: time.Now(),
	}
	s.closures[key] = c
	cp := *c
	return &cp, nil
}

func (s *fakeClosureStore) List(_ context.Context, groupID int) ([]Closure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Closure
	for _, c := range s.closures {
		if c.GroupID == groupID {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (s *fakeClosureStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.closures)
}

type fakeNotifier struct {
	mu    sync.Mutex
	calls []string
	err   error
	done  chan struct{}
}

func (n *fakeNotifier) MonthClosed(_ context.Context, groupID int, monthKey string) error {
	n.mu.Lock()
	n.calls = append(n.calls, closureKey(groupID, monthKey))
	n.mu.Unlock()
	if n.done != nil {
		close(n.done)
	}
	return n.err
}

func newTestEngine(expenses *fakeExpenseStore, dir *fakeDirectory, closures *fakeClosureStore) *Engine {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewEngine(expenses, dir, closures, time.UTC, log)
}

func twoMemberFixture() (*fakeExpenseStore, *fakeDirectory, *fakeClosureStore) {
	expenses := &fakeExpenseStore{}
	dir := &fakeDirectory{members: map[int][]Member{
		1: {
			{ID: 10, FirstName: "Ana", Email: "ana@example.com"},
			{ID: 20, FirstName: "Bruno", Email: "bruno@example.com"},
		},
	}}
	return expenses, dir, newFakeClosureStore()
}

func TestSummarizeMarchScenario(t *testing.T) {
	expenses, dir, closures := twoMemberFixture()
	engine := newTestEngine(expenses, dir, closures)

	expenses.add(10, "rent", "700.00", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC))
	expenses.add(10, "groceries", "300.00", time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC))
	expenses.add(20, "utilities", "400.00", time.Date(2025, 3, 31, 12, 0, 0, 0, time.UTC))
	// Outside the month, must not count.
	expenses.add(20, "utilities", "999.00", time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC))
	expenses.add(10, "rent", "700.00", time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC))

	summary, err := engine.Summarize(context.Background(), 1, 2025, 3)
	assert.NoError(t, err)

	assert.Equal(t, "032025", summary.MonthKey)
	assert.False(t, summary.IsClosed)
	assert.True(t, summary.MemberTotals[0].Total.Equal(dec("1000.00")), "Ana total %s", summary.MemberTotals[0].Total)
	assert.True(t, summary.MemberTotals[1].Total.Equal(dec("400.00")), "Bruno total %s", summary.MemberTotals[1].Total)
	assert.Equal(t, 20, summary.Debt.DebtorID)
	assert.Equal(t, 10, summary.Debt.CreditorID)
	assert.True(t, summary.Debt.Amount.Equal(dec("300.00")))
	assert.Len(t, summary.ExpensesByMember[10], 2)
	assert.Len(t, summary.ExpensesByMember[20], 1)
	assert.Len(t, summary.TopCategories, TopCount)
	assert.Equal(t, "rent", summary.TopCategories[0].Label)
}

func TestSummarizeEmptyMonth(t *testing.T) {
	expenses, dir, closures := twoMemberFixture()
	engine := newTestEngine(expenses, dir, closures)

	summary, err := engine.Summarize(context.Background(), 1, 2025, 6)
	assert.NoError(t, err)

	assert.True(t, summary.MemberTotals[0].Total.IsZero())
	assert.True(t, summary.MemberTotals[1].Total.IsZero())
	assert.True(t, summary.Debt.Amount.IsZero())
	assert.Zero(t, summary.Debt.DebtorID)
	for _, c := range summary.TopCategories {
		assert.Equal(t, PlaceholderCategory, c.Label)
	}
}

func TestSummarizeGroupResolutionFailures(t *testing.T) {
	expenses := &fakeExpenseStore{}
	dir := &fakeDirectory{members: map[int][]Member{
		2: {{ID: 30, FirstName: "Solo"}},
		3: {{ID: 40}, {ID: 41}, {ID: 42}},
	}}
	engine := newTestEngine(expenses, dir, newFakeClosureStore())

	_, err := engine.Summarize(context.Background(), 99, 2025, 3)
	assert.ErrorIs(t, err, ErrGroupResolution)

	_, err = engine.Summarize(context.Background(), 2, 2025, 3)
	assert.ErrorIs(t, err, ErrInsufficientMembers)

	_, err = engine.Summarize(context.Background(), 3, 2025, 3)
	assert.ErrorIs(t, err, ErrGroupResolution)
}

func TestCloseIsTerminal(t *testing.T) {
	expenses, dir, closures := twoMemberFixture()
	engine := newTestEngine(expenses, dir, closures)

	expenses.add(10, "rent", "1000.00", time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC))
	expenses.add(20, "groceries", "400.00", time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC))

	closure, err := engine.Close(context.Background(), 1, 2025, 3)
	assert.NoError(t, err)
	assert.Equal(t, "032025", closure.MonthKey)
	assert.True(t, closure.Totals[0].Total.Equal(dec("1000.00")))
	assert.True(t, closure.Totals[1].Total.Equal(dec("400.00")))

	_, err = engine.Close(context.Background(), 1, 2025, 3)
	assert.ErrorIs(t, err, ErrAlreadyClosed)
	assert.Equal(t, 1, closures.count())

	// Other months and groups are unaffected.
	_, err = engine.Close(context.Background(), 1, 2025, 4)
	assert.NoError(t, err)

	summary, err := engine.Summarize(context.Background(), 1, 2025, 3)
	assert.NoError(t, err)
	assert.True(t, summary.IsClosed)
}

func TestCloseEmptyMonthIsValid(t *testing.T) {
	expenses, dir, closures := twoMemberFixture()
	engine := newTestEngine(expenses, dir, closures)

	closure, err := engine.Close(context.Background(), 1, 2025, 7)
	assert.NoError(t, err)
	assert.True(t, closure.Totals[0].Total.IsZero())
	assert.True(t, closure.Totals[1].Total.IsZero())
}

func TestCloseConcurrentAttemptsCreateOneClosure(t *testing.T) {
	expenses, dir, closures := twoMemberFixture()
	engine := newTestEngine(expenses, dir, closures)

	expenses.add(10, "rent", "500.00", time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC))

	const attempts = 8
	errs := make(chan error, attempts)
	var start sync.WaitGroup
	start.Add(1)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			start.Wait()
			_, err := engine.Close(context.Background(), 1, 2025, 3)
			errs <- err
		}()
	}
	start.Done()
	wg.Wait()
	close(errs)

	succeeded, conflicted := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			succeeded++
		default:
			assert.ErrorIs(t, err, ErrAlreadyClosed)
			conflicted++
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, conflicted)
	assert.Equal(t, 1, closures.count())
}

func TestCloseSnapshotIsImmutable(t *testing.T) {
	expenses, dir, closures := twoMemberFixture()
	engine := newTestEngine(expenses, dir, closures)

	expenses.add(10, "rent", "600.00", time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC))

	_, err := engine.Close(context.Background(), 1, 2025, 3)
	assert.NoError(t, err)

	// Late expense lands in the already-closed month.
	expenses.add(20, "furniture", "250.00", time.Date(2025, 3, 20, 0, 0, 0, 0, time.UTC))

	stored, err := closures.Get(context.Background(), 1, "032025")
	assert.NoError(t, err)
	assert.True(t, stored.Totals[0].Total.Equal(dec("600.00")))
	assert.True(t, stored.Totals[1].Total.IsZero())
}

func TestCloseNotifierIsBestEffort(t *testing.T) {
	expenses, dir, closures := twoMemberFixture()
	engine := newTestEngine(expenses, dir, closures)

	notifier := &fakeNotifier{err: assert.AnError, done: make(chan struct{})}
	engine.SetNotifier(notifier)

	_, err := engine.Close(context.Background(), 1, 2025, 3)
	assert.NoError(t, err)

	select {
	case <-notifier.done:
	case <-time.After(2 * time.Second):
		t.Fatal("notifier was not invoked")
	}

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.Equal(t, []string{"1/032025"}, notifier.calls)
	assert.Equal(t, 1, closures.count(), "notifier failure must not roll back the closure")
}

func TestSummarizeTotalsUseExactDecimals(t *testing.T) {
	expenses, dir, closures := twoMemberFixture()
	engine := newTestEngine(expenses, dir, closures)

	// 0.1 repeated ten times: classic float drift trap, must be exactly 1.
	for i := 0; i < 10; i++ {
		expenses.add(10, "coffee", "0.10", time.Date(2025, 3, 2+i, 0, 0, 0, 0, time.UTC))
	}

	summary, err := engine.Summarize(context.Background(), 1, 2025, 3)
	assert.NoError(t, err)
	assert.True(t, summary.MemberTotals[0].Total.Equal(decimal.NewFromInt(1)))
}
