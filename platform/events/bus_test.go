package events

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/logger"
)

type testEvent struct {
	BaseEvent
	name string
}

func (e testEvent) EventName() string { return e.name }

func TestPublishSyncRunsHandlersInOrder(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))
	var order []int
	for i := 1; i <= 3; i++ {
		i := i
		bus.Subscribe("x", HandlerFunc(func(context.Context, Event) error {
			order = append(order, i)
			return nil
		}))
	}

	if err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "x"}); err != nil {
		t.Fatalf("PublishSync returned error: %v", err)
	}
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("handler order = %v, want [1 2 3]", order)
	}
}

func TestPublishSyncJoinsHandlerErrors(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))
	errA := errors.New("a failed")
	bus.Subscribe("x", HandlerFunc(func(context.Context, Event) error { return errA }))
	bus.Subscribe("x", HandlerFunc(func(context.Context, Event) error { return nil }))

	err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "x"})
	if !errors.Is(err, errA) {
		t.Errorf("PublishSync error = %v, want errA", err)
	}
}

func TestPublishSwallowsHandlerFailures(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))
	done := make(chan struct{})
	bus.Subscribe("x", HandlerFunc(func(context.Context, Event) error {
		return errors.New("delivery failed")
	}))
	bus.Subscribe("x", HandlerFunc(func(context.Context, Event) error {
		panic("handler exploded")
	}))
	bus.Subscribe("x", HandlerFunc(func(context.Context, Event) error {
		close(done)
		return nil
	}))

	// Publish has no error return; a failing or panicking sibling must not
	// stop delivery to the remaining handlers.
	bus.Publish(context.Background(), testEvent{NewBaseEvent(), "x"})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("healthy handler never ran after siblings failed")
	}
}

func TestPublishSurvivesCancelledRequestContext(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))
	got := make(chan error, 1)
	bus.Subscribe("x", HandlerFunc(func(ctx context.Context, _ Event) error {
		got <- ctx.Err()
		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bus.Publish(ctx, testEvent{NewBaseEvent(), "x"})

	select {
	case err := <-got:
		if err != nil {
			t.Errorf("handler context error = %v, want nil on a detached context", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler never ran")
	}
}

func TestPublishOnlyReachesMatchingSubscribers(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))
	var mu sync.Mutex
	var seen []string
	record := func(name string) Handler {
		return HandlerFunc(func(_ context.Context, e Event) error {
			mu.Lock()
			seen = append(seen, name+":"+e.EventName())
			mu.Unlock()
			return nil
		})
	}
	bus.Subscribe("leads.created", record("created"))
	bus.Subscribe("leads.converted", record("converted"))

	if err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "leads.created"}); err != nil {
		t.Fatalf("PublishSync returned error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 1 || seen[0] != "created:leads.created" {
		t.Errorf("deliveries = %v, want only the leads.created subscriber", seen)
	}
}

func TestSubscribeIgnoresNilHandler(t *testing.T) {
	bus := NewInMemoryBus(logger.New("development"))
	bus.Subscribe("x", nil)

	if err := bus.PublishSync(context.Background(), testEvent{NewBaseEvent(), "x"}); err != nil {
		t.Fatalf("PublishSync returned error: %v", err)
	}
}
