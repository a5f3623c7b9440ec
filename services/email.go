package services

import (
	"fmt"
	"net/smtp"
	"os"
	"strconv"
)

// Mailer sends transactional email over SMTP. Delivery is best-effort
// everywhere it is used; callers log failures and move on.
type Mailer struct {
	host     string
	port     int
	from     string
	password string
}

func NewMailerFromEnv() *Mailer {
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if port == 0 {
		port = 587
	}
	return &Mailer{
		host:     os.Getenv("SMTP_HOST"),
		port:     port,
		from:     os.Getenv("SMTP_FROM"),
		password: os.Getenv("SMTP_PASSWORD"),
	}
}

// Send delivers a single HTML email.
func (m *Mailer) Send(to, subject, html string) error {
	if m.host == "" || m.from == "" {
		return fmt.Errorf("mailer is not configured")
	}

	addr := fmt.Sprintf("%s:%d", m.host, m.port)

	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s",
		m.from, to, subject, html)

	var auth smtp.Auth
	if m.password != "" {
		auth = smtp.PlainAuth("", m.from, m.password, m.host)
	}

	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg))
}
