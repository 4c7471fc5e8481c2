package mailer

import (
	"fmt"
	"net/smtp"
	"strings"
)

// Sender hands a message to the email transport. It carries no retry
// logic; retry-on-failure is the alert dispatcher's responsibility.
type Sender interface {
	Send(recipients []string, subject, body string) error
}

type SMTPConfig struct {
	Server   string
	Port     int
	User     string
	Password string
}

type SMTPSender struct {
	conf SMTPConfig
}

func NewSMTPSender(conf SMTPConfig) *SMTPSender {
	return &SMTPSender{conf: conf}
}

func (s *SMTPSender) Send(recipients []string, subject, body string) error {
	if len(recipients) == 0 {
		return fmt.Errorf("no recipients configured")
	}

	var msg strings.Builder
	fmt.Fprintf(&msg, "From: %s\r\n", s.conf.User)
	fmt.Fprintf(&msg, "To: %s\r\n", strings.Join(recipients, ","))
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	msg.WriteString("MIME-Version: 1.0\r\n")
	msg.WriteString("Content-Type: text/plain; charset=\"utf-8\"\r\n")
	msg.WriteString("\r\n")
	msg.WriteString(body)

	addr := fmt.Sprintf("%s:%d", s.conf.Server, s.conf.Port)
	auth := smtp.PlainAuth("", s.conf.User, s.conf.Password, s.conf.Server)

	if err := smtp.SendMail(addr, auth, s.conf.User, recipients, []byte(msg.String())); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
