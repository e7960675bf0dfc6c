package events

import (
	"context"
	"sync"

	"go.uber.org/zap"
)

// AsyncDispatcher queues events on a buffered channel and delivers them from a
// worker goroutine. Publish never blocks the caller: when the queue is full
// the event is dropped and logged. This keeps ticket mutations decoupled from
// notification handling.
type AsyncDispatcher struct {
	mu        sync.RWMutex
	listeners map[EventType][]EventHandler
	queue     chan Event
	logger    *zap.Logger
	stopOnce  sync.Once
	done      chan struct{}
}

// NewAsyncDispatcher creates the dispatcher. Run must be called to start
// delivery.
func NewAsyncDispatcher(logger *zap.Logger, queueSize int) *AsyncDispatcher {
	if queueSize <= 0 {
		queueSize = 256
	}
	return &AsyncDispatcher{
		listeners: make(map[EventType][]EventHandler),
		queue:     make(chan Event, queueSize),
		logger:    logger,
		done:      make(chan struct{}),
	}
}

// Subscribe registers a handler for the given event type.
func (d *AsyncDispatcher) Subscribe(eventType EventType, handler EventHandler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.listeners[eventType] = append(d.listeners[eventType], handler)
}

// Publish enqueues the event without waiting for delivery.
func (d *AsyncDispatcher) Publish(ctx context.Context, event Event) error {
	select {
	case d.queue <- event:
	default:
		d.logger.Warn("event queue full; dropping event",
			zap.String("type", string(event.Type)),
			zap.String("ticket_id", event.TicketID))
	}
	return nil
}

// Run consumes queued events until the context is cancelled or Stop is called.
func (d *AsyncDispatcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-d.done:
			return
		case event := <-d.queue:
			d.deliver(ctx, event)
		}
	}
}

// Stop terminates the delivery loop.
func (d *AsyncDispatcher) Stop() {
	d.stopOnce.Do(func() { close(d.done) })
}

func (d *AsyncDispatcher) deliver(ctx context.Context, event Event) {
	d.mu.RLock()
	handlers := append([]EventHandler{}, d.listeners[event.Type]...)
	d.mu.RUnlock()

	for _, handler := range handlers {
		if err := handler(ctx, event); err != nil {
			d.logger.Warn("event handler failed",
				zap.String("type", string(event.Type)),
				zap.String("ticket_id", event.TicketID),
				zap.Error(err))
		}
	}
}
