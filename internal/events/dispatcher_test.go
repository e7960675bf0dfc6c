package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestInMemoryDispatcherDeliversInOrder(t *testing.T) {
	d := NewInMemoryDispatcher()
	var got []string
	d.Subscribe(EventTicketAssigned, func(_ context.Context, e Event) error {
		got = append(got, e.ID)
		return nil
	})

	for _, id := range []string{"e1", "e2", "e3"} {
		if err := d.Publish(context.Background(), Event{ID: id, Type: EventTicketAssigned}); err != nil {
			t.Fatalf("publish: %v", err)
		}
	}
	if len(got) != 3 || got[0] != "e1" || got[2] != "e3" {
		t.Errorf("delivered = %v", got)
	}
}

func TestInMemoryDispatcherHandlerErrorDoesNotStopDelivery(t *testing.T) {
	d := NewInMemoryDispatcher()
	var second bool
	d.Subscribe(EventTicketCommented, func(context.Context, Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventTicketCommented, func(context.Context, Event) error {
		second = true
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventTicketCommented}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if !second {
		t.Error("second handler not invoked after first failed")
	}
}

func TestInMemoryDispatcherIgnoresUnsubscribedTypes(t *testing.T) {
	d := NewInMemoryDispatcher()
	var called bool
	d.Subscribe(EventTicketAssigned, func(context.Context, Event) error {
		called = true
		return nil
	})

	if err := d.Publish(context.Background(), Event{Type: EventTicketForwarded}); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if called {
		t.Error("handler invoked for a different event type")
	}
}

func TestAsyncDispatcherDelivers(t *testing.T) {
	d := NewAsyncDispatcher(zap.NewNop(), 8)
	var mu sync.Mutex
	var got []string
	done := make(chan struct{})
	d.Subscribe(EventTicketStatusChanged, func(_ context.Context, e Event) error {
		mu.Lock()
		got = append(got, e.ID)
		n := len(got)
		mu.Unlock()
		if n == 2 {
			close(done)
		}
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go d.Run(ctx)
	defer d.Stop()

	_ = d.Publish(ctx, Event{ID: "a", Type: EventTicketStatusChanged})
	_ = d.Publish(ctx, Event{ID: "b", Type: EventTicketStatusChanged})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("events not delivered")
	}
	mu.Lock()
	defer mu.Unlock()
	if got[0] != "a" || got[1] != "b" {
		t.Errorf("delivered = %v", got)
	}
}

func TestAsyncDispatcherPublishNeverBlocks(t *testing.T) {
	// No Run loop draining the queue; publishing past capacity must drop
	// instead of blocking.
	d := NewAsyncDispatcher(zap.NewNop(), 1)
	finished := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			_ = d.Publish(context.Background(), Event{Type: EventTicketAssigned})
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(time.Second):
		t.Fatal("publish blocked on a full queue")
	}
}
