package events

import (
	"context"
	"fmt"
	"sync"

	"github.com/spec-kit/ticketdesk/internal/domain"
	"github.com/spec-kit/ticketdesk/internal/repository"
)

// Handler handles one dispatched event inside the open transaction.
type Handler func(ctx context.Context, tx repository.Tx, event domain.Event) error

// Dispatcher fans out domain events to registered handlers.
type Dispatcher interface {
	// Dispatch delivers events in emission order, synchronously, before the
	// enclosing unit of work commits. A handler error aborts delivery and
	// must fail the whole use case: audit records are a correctness
	// requirement, not best-effort telemetry.
	Dispatch(ctx context.Context, tx repository.Tx, events []domain.Event) error
	Subscribe(eventType domain.EventType, handler Handler)
}

// inMemoryDispatcher is a simple synchronous dispatcher. Handlers are
// registered at process start and must be stateless per dispatch.
type inMemoryDispatcher struct {
	mu        sync.RWMutex
	listeners map[domain.EventType][]Handler
}

// NewInMemoryDispatcher creates a dispatcher instance.
func NewInMemoryDispatcher() Dispatcher {
	return &inMemoryDispatcher{
		listeners: make(map[domain.EventType][]Handler),
	}
}

func (d *inMemoryDispatcher) Dispatch(ctx context.Context, tx repository.Tx, events []domain.Event) error {
	for _, event := range events {
		d.mu.RLock()
		handlers := append([]Handler{}, d.listeners[event.Type]...)
		d.mu.RUnlock()

		for _, handler := range handlers {
			if err := handler(ctx, tx, event); err != nil {
				return fmt.Errorf("dispatch %s: %w", event.Type, err)
			}
		}
	}
	return nil
}

// Subscribe registers a handler for the given event type.
func (d *inMemoryDispatcher) Subscribe(eventType domain.EventType, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}
