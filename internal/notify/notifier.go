package notify

import (
	"github.com/rs/zerolog"
)

// Message is a notification request emitted by a lifecycle mutation: a
// subject, a plain-text body, a sender address and the recipient addresses.
type Message struct {
	Subject string
	Body    string
	From    string
	To      []string
}

// Mailer delivers a single message. Implementations must not be relied on
// for atomicity with the mutation that produced the message.
type Mailer interface {
	Send(msg Message) error
}

// Enqueuer accepts notification requests without blocking the caller.
// The lifecycle services depend on this interface rather than on a concrete
// transport so that delivery stays decoupled from the committed mutation.
type Enqueuer interface {
	Enqueue(msg Message)
}

// NoopMailer swallows messages. Used in development when no SMTP host is
// configured, and as a safe default.
type NoopMailer struct {
	Log zerolog.Logger
}

func (n NoopMailer) Send(msg Message) error {
	n.Log.Debug().Str("subject", msg.Subject).Strs("to", msg.To).Msg("mail suppressed (noop mailer)")
	return nil
}
