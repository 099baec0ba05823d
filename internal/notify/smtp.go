package notify

import (
	"fmt"
	"net/smtp"
	"strings"
)

// SMTPMailer sends mail via unauthenticated SMTP (Mailpit-compatible).
type SMTPMailer struct {
	addr string
}

// NewSMTPMailer builds a mailer for the given host and port.
func NewSMTPMailer(host, port string) *SMTPMailer {
	return &SMTPMailer{
		addr: fmt.Sprintf("%s:%s", strings.TrimSpace(host), strings.TrimSpace(port)),
	}
}

func (s *SMTPMailer) Send(msg Message) error {
	return smtp.SendMail(s.addr, nil, msg.From, msg.To, []byte(buildMessage(msg)))
}

func buildMessage(msg Message) string {
	// Minimal RFC 5322 message; enough for Mailpit and most SMTP relays.
	return fmt.Sprintf(
		"From: %s\r\nTo: %s\r\nSubject: %s\r\nMIME-Version: 1.0\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		msg.From,
		strings.Join(msg.To, ", "),
		msg.Subject,
		msg.Body,
	)
}
