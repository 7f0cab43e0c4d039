package event

import (
	"log/slog"
	"sync"
)

type HandlerFunc func(raw any)

// Bus is a small name-keyed pub/sub hub. Delivery is synchronous and in
// subscription order: the simulation is one logical thread and observers
// (status lines, logs) want to see events before the next tick runs. A
// panicking handler is contained so it cannot take down the tick loop.
type Bus struct {
	mu       sync.RWMutex
	handlers map[string][]HandlerFunc
}

func NewBus() *Bus {
	return &Bus{
		handlers: make(map[string][]HandlerFunc),
	}
}

func (b *Bus) Subscribe(eventName string, handler HandlerFunc) {
	if b == nil || handler == nil {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[eventName] = append(b.handlers[eventName], handler)
}

func (b *Bus) Publish(eventName string, evt any) {
	if b == nil {
		return
	}
	b.mu.RLock()
	handlers := make([]HandlerFunc, len(b.handlers[eventName]))
	copy(handlers, b.handlers[eventName])
	b.mu.RUnlock()

	for _, handler := range handlers {
		deliver(eventName, handler, evt)
	}
}

func deliver(eventName string, handler HandlerFunc, evt any) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Event handler panicked", "event", eventName, "panic", r)
		}
	}()
	handler(evt)
}
