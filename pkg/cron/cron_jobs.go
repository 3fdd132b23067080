package cron

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"family_expenses/internal/settlement"
	"family_expenses/pkg/utils"
)

func StartCronJob(db *sql.DB, loc *time.Location) *cron.Cron {
	c := cron.New(cron.WithLocation(loc))

	// Runs daily at 9am — nudge groups whose previous month is still open
	_, err := c.AddFunc("0 9 * * *", func() {
		err := SendClosingReminders(db, loc)
		if err != nil {
			utils.Logger.Errorf("Cron job failed to send closing reminders: %v", err)
		}
	})
	if err != nil {
		utils.Logger.Errorf("Failed to schedule closing reminder job: %v", err)
	}

	c.Start()
	utils.Logger.Info("Cron jobs started (closing reminders daily at 9am)")
	return c
}

// -------------------------------------------------------------
// Remind groups that recorded expenses last month but never closed it
// -------------------------------------------------------------
func SendClosingReminders(db *sql.DB, loc *time.Location) error {
	ctx, cancel := context.WithTimeout(context.Background(), 45*time.Second)
	defer cancel()

	prev := time.Now().In(loc).AddDate(0, -1, 0)
	year, month := prev.Year(), int(prev.Month())

	key, err := settlement.MonthKey(year, month)
	if err != nil {
		return err
	}
	from, to := settlement.MonthRange(year, month, loc)
	monthLabel := fmt.Sprintf("%s %d", time.Month(month), year)

	rows, err := db.QueryContext(ctx, `
		SELECT
			u.group_id,
			g.name AS group_name,
			SUM(e.amount) AS total
		FROM expenses e
		JOIN users u ON e.user_id = u.id
		JOIN groups g ON u.group_id = g.id
		WHERE e.expense_date >= ? AND e.expense_date < ?
		AND NOT EXISTS (
			SELECT 1 FROM closed_months cm
			WHERE cm.group_id = u.group_id AND cm.month_key = ?
		)
		GROUP BY u.group_id, g.name
	`, from, to, key)
	if err != nil {
		return utils.ErrorHandler(err, "failed to query groups with an open previous month")
	}
	defer rows.Close()

	type openGroup struct {
		id    int
		name  string
		total string
	}

	var open []openGroup
	for rows.Next() {
		var g openGroup
		if err := rows.Scan(&g.id, &g.name, &g.total); err != nil {
			utils.Logger.Errorf("Failed to scan open group row: %v", err)
			continue
		}
		open = append(open, g)
	}
	if err := rows.Err(); err != nil {
		utils.Logger.Errorf("Error iterating open group rows: %v", err)
		return err
	}

	var wg sync.WaitGroup
	errChan := make(chan error, 10)

	for _, g := range open {
		emails, err := memberEmails(ctx, db, g.id)
		if err != nil {
			utils.Logger.Errorf("Failed to load member emails for group %d: %v", g.id, err)
			continue
		}
		if len(emails) == 0 {
			continue
		}

		wg.Add(1)
		go func(g openGroup, emails []string) {
			defer wg.Done()

			if err := utils.SendClosingReminderEmail(emails, g.name, monthLabel, g.total); err != nil {
				errChan <- fmt.Errorf("failed to send closing reminder to group %d: %v", g.id, err)
				return
			}

			utils.Logger.Infof("📧 Sent closing reminder to '%s' — $%s still open for %s", g.name, g.total, monthLabel)
		}(g, emails)
	}

	wg.Wait()
	close(errChan)

	for e := range errChan {
		utils.Logger.Error(e)
	}

	utils.Logger.Info("✅ Finished sending closing reminder emails.")
	return nil
}

func memberEmails(ctx context.Context, db *sql.DB, groupID int) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT email FROM users WHERE group_id = ?", groupID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []string
	for rows.Next() {
		var email string
		if err := rows.Scan(&email); err != nil {
			return nil, err
		}
		if email != "" {
			emails = append(emails, email)
		}
	}
	return emails, rows.Err()
}
