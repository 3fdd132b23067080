// Package notify delivers the monthly summary email after a month closes.
package notify

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"family_expenses/internal/settlement"
	"family_expenses/pkg/utils"
)

// Summarizer is the slice of the settlement engine the notifier needs to
// re-derive a month's breakdown from its (group, month) key.
type Summarizer interface {
	Summarize(ctx context.Context, groupID, year, month int) (*settlement.Summary, error)
}

// EmailNotifier mails both group members the final breakdown of a closed
// month. Delivery failures are logged and reported to the caller; the
// closure itself has already been committed by then.
type EmailNotifier struct {
	db      *sql.DB
	summary Summarizer
	log     *logrus.Logger
}

func NewEmailNotifier(db *sql.DB, summary Summarizer, log *logrus.Logger) *EmailNotifier {
	return &EmailNotifier{db: db, summary: summary, log: log}
}

func (n *EmailNotifier) MonthClosed(ctx context.Context, groupID int, monthKey string) error {
	year, month, err := settlement.ParseMonthKey(monthKey)
	if err != nil {
		return err
	}

	s, err := n.summary.Summarize(ctx, groupID, year, month)
	if err != nil {
		return fmt.Errorf("failed to summarize closed month %s: %w", monthKey, err)
	}

	groupName, err := n.groupName(ctx, groupID)
	if err != nil {
		return err
	}

	var recipients []string
	for _, m := range s.Members {
		if m.Email != "" {
			recipients = append(recipients, m.Email)
		}
	}
	if len(recipients) == 0 {
		n.log.Warnf("no recipient emails for group %d, skipping summary email", groupID)
		return nil
	}

	monthLabel := fmt.Sprintf("%s %d", time.Month(month), year)

	names := make(map[int]string, len(s.Members))
	for _, m := range s.Members {
		names[m.ID] = m.FirstName
	}

	grandTotal := decimal.Zero
	members := make([]utils.SummaryEmailMember, 0, len(s.MemberTotals))
	for _, t := range s.MemberTotals {
		grandTotal = grandTotal.Add(t.Total)
		section := utils.SummaryEmailMember{
			FirstName: t.FirstName,
			Total:     t.Total.StringFixed(2),
		}
		for _, e := range s.ExpensesByMember[t.MemberID] {
			section.Expenses = append(section.Expenses, utils.SummaryEmailExpense{
				Description: e.Description,
				Amount:      e.Amount.StringFixed(2),
				Date:        e.ExpenseDate.Format("Jan 2"),
			})
		}
		members = append(members, section)
	}

	var debtLine string
	if s.Debt.Amount.IsZero() {
		debtLine = "Both of you spent exactly the same. Nothing to settle!"
	} else {
		debtLine = fmt.Sprintf("%s owes %s $%s",
			names[s.Debt.DebtorID], names[s.Debt.CreditorID], s.Debt.Amount.StringFixed(2))
	}

	topCategories := make([]utils.SummaryEmailCategory, 0, len(s.TopCategories))
	for _, c := range s.TopCategories {
		topCategories = append(topCategories, utils.SummaryEmailCategory{
			Description: c.Label,
			Amount:      c.Amount.StringFixed(2),
		})
	}

	if err := utils.SendMonthlySummaryEmail(recipients, groupName, monthLabel, members, grandTotal.StringFixed(2), debtLine, topCategories); err != nil {
		n.log.Errorf("failed to send monthly summary for group %d: %v", groupID, err)
		return err
	}

	n.log.Infof("monthly summary for %s sent to group %d", monthLabel, groupID)
	return nil
}

func (n *EmailNotifier) groupName(ctx context.Context, groupID int) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var name string
	err := n.db.QueryRowContext(ctx, "SELECT name FROM groups WHERE id = ?", groupID).Scan(&name)
	if err != nil {
		return "", fmt.Errorf("failed to look up group name: %w", err)
	}
	return name, nil
}
