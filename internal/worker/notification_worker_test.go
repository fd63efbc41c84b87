package worker

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/spec-kit/ticketdesk/internal/config"
	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/service"
)

func TestEnqueueNeverBlocks(t *testing.T) {
	notifications := service.NewNotificationService(zap.NewNop(), config.NotificationConfig{})
	w := NewNotificationWorker(notifications, zap.NewNop())

	// No consumer is running; overfilling the queue must drop, not block.
	events := make([]domain.Event, 600)
	for i := range events {
		events[i] = domain.Event{Type: domain.EventTicketCreated, SubjectID: "t"}
	}

	done := make(chan struct{})
	go func() {
		w.Enqueue(events)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
}

func TestWorkerDrainsQueue(t *testing.T) {
	notifications := service.NewNotificationService(zap.NewNop(), config.NotificationConfig{})
	w := NewNotificationWorker(notifications, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	w.Enqueue([]domain.Event{
		{Type: domain.EventTicketCreated, SubjectID: "t1"},
		{Type: domain.EventTicketStatusChanged, SubjectID: "t1"},
	})

	// Delivery is best-effort; all we assert is that the queue empties.
	assert.Eventually(t, func() bool {
		return len(w.queue) == 0
	}, 2*time.Second, 10*time.Millisecond)
}
