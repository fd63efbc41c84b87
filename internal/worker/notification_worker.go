package worker

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/service"
)

// NotificationWorker drains committed events onto the notification service on
// its own goroutine, keeping notification latency off the request path.
type NotificationWorker struct {
	notifications *service.NotificationService
	logger        *zap.Logger
	queue         chan domain.Event
}

// NewNotificationWorker builds the worker with a bounded queue.
func NewNotificationWorker(notifications *service.NotificationService, logger *zap.Logger) *NotificationWorker {
	return &NotificationWorker{
		notifications: notifications,
		logger:        logger,
		queue:         make(chan domain.Event, 256),
	}
}

// Start consumes the queue until ctx is cancelled.
func (w *NotificationWorker) Start(ctx context.Context) {
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case event := <-w.queue:
				w.notifications.Notify(event)
			}
		}
	}()
}

// Enqueue accepts committed events. Delivery is best-effort: when the queue
// is full events are dropped rather than blocking the request path.
func (w *NotificationWorker) Enqueue(events []domain.Event) {
	for _, event := range events {
		select {
		case w.queue <- event:
		default:
			w.logger.Warn("notification queue full, dropping event",
				zap.String("event_type", string(event.Type)))
		}
	}
}
