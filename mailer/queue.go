package mailer

import (
	"context"
	"log/slog"
	"time"

	"event-scheduler/monitoring"
	"event-scheduler/utils"

	pbmailer "github.com/pocketbase/pocketbase/tools/mailer"
)

// Sender delivers a single message. The platform mail client satisfies it in
// production; tests inject a fake.
type Sender interface {
	Send(message *pbmailer.Message) error
}

// Queue is the bounded-rate outbound mail queue: a buffered channel drained
// by one worker that enforces a minimum interval between sends. Mail is
// best-effort; a full queue drops the message and logs.
type Queue struct {
	sender   Sender
	logger   *slog.Logger
	interval time.Duration
	messages chan *pbmailer.Message
	breaker  *utils.CircuitBreaker
}

func NewQueue(sender Sender, logger *slog.Logger, interval time.Duration, size int) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{
		sender:   sender,
		logger:   logger,
		interval: interval,
		messages: make(chan *pbmailer.Message, size),
		breaker:  utils.NewCircuitBreaker("mailer"),
	}
}

// Enqueue accepts a message for later delivery. It never blocks.
func (q *Queue) Enqueue(message *pbmailer.Message) bool {
	select {
	case q.messages <- message:
		monitoring.SetMailQueueDepth(len(q.messages))
		return true
	default:
		monitoring.TrackMail("dropped")
		q.logger.Warn("mail queue full, dropping message", "subject", message.Subject)
		return false
	}
}

// Start drains the queue until ctx is cancelled, sleeping the configured
// interval after every send.
func (q *Queue) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case message := <-q.messages:
			monitoring.SetMailQueueDepth(len(q.messages))
			q.send(message)

			select {
			case <-ctx.Done():
				return
			case <-time.After(q.interval):
			}
		}
	}
}

func (q *Queue) send(message *pbmailer.Message) {
	err := q.breaker.Execute(func() error {
		return q.sender.Send(message)
	})
	if err != nil {
		monitoring.TrackMail("error")
		q.logger.Error("mail send failed", "subject", message.Subject, "error", err)
		return
	}
	monitoring.TrackMail("sent")
}
