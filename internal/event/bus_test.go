package event

import (
	"sync"
	"testing"
)

func TestSubscribeAndPublish(t *testing.T) {
	bus := NewBus()
	var received any
	bus.Subscribe(EventStateChanged, func(evt any) {
		received = evt
	})

	bus.Publish(EventStateChanged, StateChangedEvent{From: "running", To: "sprinting"})

	evt, ok := received.(StateChangedEvent)
	if !ok {
		t.Fatalf("received %T, want StateChangedEvent", received)
	}
	if evt.From != "running" || evt.To != "sprinting" {
		t.Fatalf("received %+v, want running->sprinting", evt)
	}
}

func TestPublishWithoutSubscribers(t *testing.T) {
	bus := NewBus()
	bus.Publish("nonexistent", "data")
}

func TestHandlersRunInSubscriptionOrder(t *testing.T) {
	bus := NewBus()
	var order []int
	for i := 0; i < 4; i++ {
		i := i
		bus.Subscribe(EventJump, func(any) { order = append(order, i) })
	}

	bus.Publish(EventJump, JumpEvent{Impulse: 6})

	if len(order) != 4 {
		t.Fatalf("delivered to %d handlers, want 4", len(order))
	}
	for i, got := range order {
		if got != i {
			t.Fatalf("delivery order %v, want ascending", order)
		}
	}
}

func TestEventNamesDoNotCross(t *testing.T) {
	bus := NewBus()
	var jumpSeen, stateSeen bool
	bus.Subscribe(EventJump, func(any) { jumpSeen = true })
	bus.Subscribe(EventStateChanged, func(any) { stateSeen = true })

	bus.Publish(EventJump, JumpEvent{})

	if !jumpSeen {
		t.Fatalf("jump handler not called")
	}
	if stateSeen {
		t.Fatalf("state handler called for jump event")
	}
}

func TestPanickingHandlerDoesNotStopDelivery(t *testing.T) {
	bus := NewBus()
	delivered := false
	bus.Subscribe(EventInteraction, func(any) { panic("boom") })
	bus.Subscribe(EventInteraction, func(any) { delivered = true })

	bus.Publish(EventInteraction, InteractionEvent{Gate: "primary"})

	if !delivered {
		t.Fatalf("second handler not reached after panic in first")
	}
}

func TestConcurrentSubscribeAndPublish(t *testing.T) {
	bus := NewBus()
	var mu sync.Mutex
	count := 0
	bus.Subscribe(EventJump, func(any) {
		mu.Lock()
		count++
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				bus.Publish(EventJump, JumpEvent{})
			}
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if count != 8*50 {
		t.Fatalf("delivered %d events, want %d", count, 8*50)
	}
}

func TestNilBusIsSafe(t *testing.T) {
	var bus *Bus
	bus.Subscribe(EventJump, func(any) {})
	bus.Publish(EventJump, JumpEvent{})
}
