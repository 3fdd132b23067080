package utils

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/gomail.v2"
)

func SendEmail(to []string, subject, body string) error {
	from := os.Getenv("SMTP_EMAIL")
	password := os.Getenv("SMTP_PASS")
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")

	smtpPort, err := strconv.Atoi(port)
	if err != nil {
		return fmt.Errorf("invalid SMTP_PORT: %v", err)
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", from)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	d := gomail.NewDialer(host, smtpPort, from, password)
	if err := d.DialAndSend(msg); err != nil {
		Logger.Errorf("failed to send email to %v", to)
		return fmt.Errorf("failed to send email: %v", err)
	}

	return nil
}
