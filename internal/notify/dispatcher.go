package notify

import (
	"sync"

	"github.com/rs/zerolog"
)

// Dispatcher consumes queued notification requests on a background goroutine
// and hands them to the mailer. A slow or failing mail transport therefore
// cannot block or fail the lifecycle mutation that already committed:
// Enqueue never blocks, and delivery errors are logged, not surfaced.
type Dispatcher struct {
	mailer Mailer
	log    zerolog.Logger
	queue  chan Message

	closeOnce sync.Once
	done      chan struct{}
}

// NewDispatcher starts a dispatcher draining into mailer. buffer bounds the
// number of in-flight messages; when the queue is full new messages are
// dropped with an error log rather than stalling a request.
func NewDispatcher(mailer Mailer, log zerolog.Logger, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	d := &Dispatcher{
		mailer: mailer,
		log:    log,
		queue:  make(chan Message, buffer),
		done:   make(chan struct{}),
	}
	go d.run()
	return d
}

func (d *Dispatcher) run() {
	defer close(d.done)
	for msg := range d.queue {
		if err := d.mailer.Send(msg); err != nil {
			d.log.Error().Err(err).
				Str("subject", msg.Subject).
				Strs("to", msg.To).
				Msg("notification delivery failed")
			continue
		}
		d.log.Info().Str("subject", msg.Subject).Strs("to", msg.To).Msg("notification sent")
	}
}

// Enqueue queues a message for delivery. It never blocks.
func (d *Dispatcher) Enqueue(msg Message) {
	select {
	case d.queue <- msg:
	default:
		d.log.Error().Str("subject", msg.Subject).Strs("to", msg.To).Msg("notification queue full, dropping message")
	}
}

// Close stops accepting messages and waits for the queue to drain.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.queue)
	})
	<-d.done
}
