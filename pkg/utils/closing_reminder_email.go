package utils

import (
	"fmt"
	"time"
)

func SendClosingReminderEmail(to []string, groupName, monthLabel, total string) error {
	subject := fmt.Sprintf("⏰ Reminder: %s Is Still Open for %s", monthLabel, groupName)

	body := fmt.Sprintf(`
	<!DOCTYPE html>
	<html lang="en">
	<head>
	<meta charset="UTF-8">
	<meta name="viewport" content="width=device-width, initial-scale=1.0">
	<title>Closing Reminder</title>
	<style>
		body {
			font-family: 'Segoe UI', Roboto, Arial, sans-serif;
			background-color: #f6f8f7;
			margin: 0;
			padding: 0;
			color: #333;
		}
		.container {
			max-width: 480px;
			margin: 25px auto;
			background: #ffffff;
			border-radius: 12px;
			box-shadow: 0 4px 16px rgba(0, 0, 0, 0.08);
			overflow: hidden;
			border-top: 5px solid #e8a33d;
		}
		.header {
			background-color: #e8a33d;
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
		.amount-box {
			background: #fdf8ef;
			border: 1px solid #f0d9ad;
			border-radius: 8px;
			padding: 12px 14px;
			margin: 16px 0;
			text-align: center;
		}
		.amount-box h3 {
			margin: 0;
			color: #b97f1e;
			font-size: 16px;
			font-weight: 700;
		}
		.amount-box p {
			margin: 6px 0 0;
			font-size: 13px;
			color: #555;
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
				<h1>Time to Close the Month ⏰</h1>
			</div>
			<div class="content">
				<p class="message">
					Hi,<br><br>
					Your group <b>%s</b> recorded expenses in <b>%s</b>, but the month
					has not been closed yet. Closing it settles who owes whom.
				</p>

				<div class="amount-box">
					<h3>$%s Recorded So Far</h3>
					<p>Group: %s</p>
					<p>Month: %s</p>
				</div>

				<p class="message">
					Log in to <b>Family Expenses</b> and close <b>%s</b> to lock in the totals.
				</p>

				<p class="message">
					Thanks for keeping the household books tidy. 💚
				</p>
			</div>
			<div class="footer">
				&copy; %d <span class="brand">Family Expenses</span> — Fair Shares. No Surprises.
			</div>
		</div>
	</body>
	</html>
	`, groupName, monthLabel, total, groupName, monthLabel, monthLabel, time.Now().Year())

	return SendEmail(to, subject, body)
}
