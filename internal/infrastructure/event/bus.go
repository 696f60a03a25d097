package event

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/bloodbank/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// InMemoryEventBus implements shared.EventBus with in-process pub/sub.
// Handlers run synchronously on the publishing goroutine; a failing
// handler is logged and never fails the publish.
type InMemoryEventBus struct {
	mu       sync.RWMutex
	handlers map[string][]shared.EventHandler
	wildcard []shared.EventHandler
	logger   *zap.Logger
	running  atomic.Bool
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InMemoryEventBus{
		handlers: make(map[string][]shared.EventHandler),
		wildcard: make([]shared.EventHandler, 0),
		logger:   logger,
	}
}

// Publish delivers events to every registered handler
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, evt := range events {
		for _, handler := range b.handlersFor(evt.EventType()) {
			if err := b.dispatch(ctx, handler, evt); err != nil {
				b.logger.Error("event handler failed",
					zap.String("event_type", evt.EventType()),
					zap.String("event_id", evt.EventID().String()),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// Subscribe registers a handler. With no explicit event types the
// handler's own EventTypes() list is used; an empty list subscribes to
// all events.
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if len(eventTypes) == 0 {
		b.wildcard = append(b.wildcard, handler)
	} else {
		for _, eventType := range eventTypes {
			b.handlers[eventType] = append(b.handlers[eventType], handler)
		}
	}

	b.logger.Debug("event handler subscribed", zap.Strings("event_types", eventTypes))
}

// Unsubscribe removes a handler from every event type
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.wildcard = removeHandler(b.wildcard, handler)
	for eventType, handlers := range b.handlers {
		b.handlers[eventType] = removeHandler(handlers, handler)
		if len(b.handlers[eventType]) == 0 {
			delete(b.handlers, eventType)
		}
	}
}

// Start marks the bus as running
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	b.running.Store(true)
	b.logger.Info("event bus started")
	return nil
}

// Stop marks the bus as stopped
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	b.running.Store(false)
	b.logger.Info("event bus stopped")
	return nil
}

func (b *InMemoryEventBus) handlersFor(eventType string) []shared.EventHandler {
	b.mu.RLock()
	defer b.mu.RUnlock()

	typed := b.handlers[eventType]
	result := make([]shared.EventHandler, 0, len(typed)+len(b.wildcard))
	result = append(result, typed...)
	result = append(result, b.wildcard...)
	return result
}

// dispatch shields the bus from panicking handlers
func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, evt shared.DomainEvent) (err error) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("event handler panicked",
				zap.String("event_type", evt.EventType()),
				zap.Any("panic", r),
			)
		}
	}()

	return handler.Handle(ctx, evt)
}

func removeHandler(handlers []shared.EventHandler, target shared.EventHandler) []shared.EventHandler {
	result := handlers[:0]
	for _, h := range handlers {
		if h != target {
			result = append(result, h)
		}
	}
	return result
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
