package mailer

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	pbmailer "github.com/pocketbase/pocketbase/tools/mailer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	mu      sync.Mutex
	sentAt  []time.Time
	failing bool
}

func (f *fakeSender) Send(message *pbmailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failing {
		return assert.AnError
	}
	f.sentAt = append(f.sentAt, time.Now())
	return nil
}

func (f *fakeSender) sent() []time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]time.Time, len(f.sentAt))
	copy(out, f.sentAt)
	return out
}

func message(subject string) *pbmailer.Message {
	return &pbmailer.Message{Subject: subject}
}

func TestQueue_SendsAllQueuedMessages(t *testing.T) {
	sender := &fakeSender{}
	queue := NewQueue(sender, slog.Default(), time.Millisecond, 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go queue.Start(ctx)

	require.True(t, queue.Enqueue(message("one")))
	require.True(t, queue.Enqueue(message("two")))
	require.True(t, queue.Enqueue(message("three")))

	assert.Eventually(t, func() bool {
		return len(sender.sent()) == 3
	}, time.Second, 5*time.Millisecond)
}

func TestQueue_EnforcesMinimumSendInterval(t *testing.T) {
	sender := &fakeSender{}
	interval := 30 * time.Millisecond
	queue := NewQueue(sender, slog.Default(), interval, 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go queue.Start(ctx)

	queue.Enqueue(message("one"))
	queue.Enqueue(message("two"))

	assert.Eventually(t, func() bool {
		return len(sender.sent()) == 2
	}, time.Second, 5*time.Millisecond)

	sent := sender.sent()
	assert.GreaterOrEqual(t, sent[1].Sub(sent[0]), interval)
}

func TestQueue_DropsWhenFull(t *testing.T) {
	sender := &fakeSender{}
	queue := NewQueue(sender, slog.Default(), time.Minute, 1)
	// No worker running: the buffer holds one message, the next drops.

	assert.True(t, queue.Enqueue(message("kept")))
	assert.False(t, queue.Enqueue(message("dropped")))
}

func TestQueue_SenderFailureDoesNotStopTheWorker(t *testing.T) {
	sender := &fakeSender{failing: true}
	queue := NewQueue(sender, slog.Default(), time.Millisecond, 8)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go queue.Start(ctx)

	queue.Enqueue(message("fails"))

	time.Sleep(20 * time.Millisecond)
	sender.mu.Lock()
	sender.failing = false
	sender.mu.Unlock()

	queue.Enqueue(message("recovers"))
	assert.Eventually(t, func() bool {
		return len(sender.sent()) == 1
	}, time.Second, 5*time.Millisecond)
}
