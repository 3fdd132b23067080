package utils

import (
	"fmt"
	"strings"
	"time"
)

// SummaryEmailExpense is one listed expense line in the monthly summary email.
type SummaryEmailExpense struct {
	Description string
	Amount      string
	Date        string
}

// SummaryEmailMember is one member section in the monthly summary email.
type SummaryEmailMember struct {
	FirstName string
	Total     string
	Expenses  []SummaryEmailExpense
}

// SummaryEmailCategory is one entry of the top-spending table.
type SummaryEmailCategory struct {
	Description string
	Amount      string
}

func SendMonthlySummaryEmail(to []string, groupName, monthLabel string, members []SummaryEmailMember, grandTotal, debtLine string, topCategories []SummaryEmailCategory) error {
	subject := fmt.Sprintf("📊 %s Closed: Expense Summary for %s", monthLabel, groupName)

	var memberSections strings.Builder
	for _, m := range members {
		memberSections.WriteString(fmt.Sprintf(`
				<div class="member-box">
					<h3>%s — $%s</h3>
					<table class="expense-table">`, m.FirstName, m.Total))
		if len(m.Expenses) == 0 {
			memberSections.WriteString(`
						<tr><td colspan="3" class="empty">No expenses this month</td></tr>`)
		}
		for _, e := range m.Expenses {
			memberSections.WriteString(fmt.Sprintf(`
						<tr><td>%s</td><td>%s</td><td class="num">$%s</td></tr>`, e.Date, e.Description, e.Amount))
		}
		memberSections.WriteString(`
					</table>
				</div>`)
	}

	var topRows strings.Builder
	for i, c := range topCategories {
		topRows.WriteString(fmt.Sprintf(`
						<tr><td>%d</td><td>%s</td><td class="num">$%s</td></tr>`, i+1, c.Description, c.Amount))
	}

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Monthly Summary</title>
	<style>
		body {
			font-family: 'Segoe UI', Roboto, Arial, sans-serif;
			background-color: #f6f8f7;
			margin: 0;
			padding: 0;
			color: #333;
		}
		.container {
			max-width: 520px;
			margin: 25px auto;
			background: #ffffff;
			border-radius: 12px;
			box-shadow: 0 4px 16px rgba(0, 0, 0, 0.08);
			overflow: hidden;
			border-top: 5px solid #0a4d3c;
		}
		.header {
			background-color: #0a4d3c;
			color: #ffffff;
			text-align: center;
			padding: 18px 12px;
		}
		.header h1 {
			margin: 0;
			font-size: 18px;
			font-weight: 600;
		}
		.content {
			padding: 20px 18px;
		}
		.message {
			font-size: 14px;
			line-height: 1.6;
			color: #444;
		}
		.total-box {
			background: #f2faf6;
			border: 1px solid #bfe3d0;
			border-radius: 8px;
			padding: 12px 14px;
			margin: 16px 0;
			text-align: center;
		}
		.total-box h3 {
			margin: 0;
			color: #0a4d3c;
			font-size: 16px;
			font-weight: 700;
		}
		.total-box p {
			margin: 6px 0 0;
			font-size: 13px;
			color: #555;
		}
		.member-box {
			margin: 14px 0;
			padding: 10px 12px;
			background: #fafafa;
			border: 1px solid #e5e5e5;
			border-radius: 8px;
		}
		.member-box h3 {
			margin: 0 0 8px;
			font-size: 14px;
			color: #0a4d3c;
		}
		.expense-table, .top-table {
			width: 100%%;
			border-collapse: collapse;
			font-size: 13px;
		}
		.expense-table td, .top-table td, .top-table th {
			padding: 4px 6px;
			border-bottom: 1px solid #eee;
			text-align: left;
		}
		.num {
			text-align: right;
		}
		.empty {
			color: #999;
			font-style: italic;
		}
		.footer {
			background: #f6f6f6;
			text-align: center;
			padding: 14px;
			font-size: 12px;
			color: #777;
			border-top: 1px solid #e5e5e5;
		}
		.brand {
			color: #0a4d3c;
			font-weight: bold;
		}
	</style>
	</head>

	<body>
		<div class="container">
			<div class="header">
				<h1>%s Summary 📊</h1>
			</div>
			<div class="content">
				<p class="message">
					Hi,<br><br>
					<b>%s</b> has closed the books for <b>%s</b>. Here is how the month looks.
				</p>

				<div class="total-box">
					<h3>$%s Spent in Total</h3>
					<p>%s</p>
				</div>
				%s
				<p class="message"><b>Top spending of the month:</b></p>
				<table class="top-table">
					<tr><th>#</th><th>Expense</th><th class="num">Amount</th></tr>%s
				</table>

				<p class="message">
					These numbers are final. New expenses will count toward the next month. 💚
				</p>
			</div>
			<div class="footer">
				&copy; %d <span class="brand">Family Expenses</span> — Fair Shares. No Surprises.
			</div>
		</div>
	</body>
	</html>
	`, monthLabel, groupName, monthLabel, grandTotal, debtLine, memberSections.String(), topRows.String(), time.Now().Year())

	return SendEmail(to, subject, body)
}
