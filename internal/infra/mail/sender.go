package mail

import (
	"fmt"

	"gopkg.in/gomail.v2"
)

// Sender is the outbound mail transport contract the dispatcher depends on.
type Sender interface {
	Send(to, subject, html, text string) error
}

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	if from == "" {
		from = "CHIRAL <noreply@chiral-robotics.com>"
	}
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

func (s *EmailSender) Send(to, subject, html, text string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	if text != "" {
		m.SetBody("text/plain", text)
		if html != "" {
			m.AddAlternative("text/html", html)
		}
	} else {
		m.SetBody("text/html", html)
	}

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}
	return nil
}

var _ Sender = (*EmailSender)(nil)
