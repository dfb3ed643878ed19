package events

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/KirkDiggler/shinobi-bot/internal/logging"
)

// EventListener processes events
type EventListener interface {
	HandleEvent(ctx context.Context, event Event) error
	Priority() int
	ID() string
}

// Bus manages event distribution
type Bus struct {
	listeners map[EventType][]EventListener
	mu        sync.RWMutex
	logger    *zap.Logger
}

// NewBus creates a new event bus
func NewBus(logger *zap.Logger) *Bus {
	return &Bus{
		listeners: make(map[EventType][]EventListener),
		logger:    logging.OrNop(logger),
	}
}

// Subscribe adds a listener for specific event types
func (b *Bus) Subscribe(eventType EventType, listener EventListener) {
	b.mu.Lock()
	defer b.mu.Unlock()

	listeners := append(b.listeners[eventType], listener)
	sort.SliceStable(listeners, func(i, j int) bool {
		return listeners[i].Priority() < listeners[j].Priority()
	})
	b.listeners[eventType] = listeners

	b.logger.Debug("subscribed listener",
		zap.String("listener", listener.ID()),
		zap.String("event", string(eventType)),
		zap.Int("priority", listener.Priority()))
}

// Unsubscribe removes a listener
func (b *Bus) Unsubscribe(eventType EventType, listenerID string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	listeners := b.listeners[eventType]
	for i, l := range listeners {
		if l.ID() != listenerID {
			continue
		}
		// keep the remaining listeners in priority order
		b.listeners[eventType] = append(listeners[:i:i], listeners[i+1:]...)
		return
	}
}

// Emit sends an event to every listener in priority order. A failing or
// panicking listener is logged and skipped so the rest still run; the
// combined failures are returned.
func (b *Bus) Emit(ctx context.Context, event Event) error {
	b.mu.RLock()
	listeners := make([]EventListener, len(b.listeners[event.GetType()]))
	copy(listeners, b.listeners[event.GetType()])
	b.mu.RUnlock()

	var failed []string
	for _, listener := range listeners {
		if err := b.deliver(ctx, listener, event); err != nil {
			b.logger.Warn("listener failed",
				zap.String("listener", listener.ID()),
				zap.String("event", string(event.GetType())),
				zap.Error(err))
			failed = append(failed, listener.ID())
		}
	}

	if len(failed) > 0 {
		return fmt.Errorf("%d listener(s) failed on %s: %v", len(failed), event.GetType(), failed)
	}
	return nil
}

func (b *Bus) deliver(ctx context.Context, listener EventListener, event Event) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return listener.HandleEvent(ctx, event)
}

// Clear removes all listeners
func (b *Bus) Clear() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.listeners = make(map[EventType][]EventListener)
}
