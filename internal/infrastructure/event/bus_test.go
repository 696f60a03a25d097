package event

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/bloodbank/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingHandler struct {
	mu         sync.Mutex
	eventTypes []string
	received   []shared.DomainEvent
	err        error
	panics     bool
}

func (h *recordingHandler) Handle(_ context.Context, evt shared.DomainEvent) error {
	if h.panics {
		panic("handler blew up")
	}
	h.mu.Lock()
	h.received = append(h.received, evt)
	h.mu.Unlock()
	return h.err
}

func (h *recordingHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *recordingHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.received)
}

func newTestBatch(t *testing.T) *stock.ReagentBatch {
	t.Helper()
	batch, err := stock.NewReagentBatch(uuid.New(), "LOT-2024-001", nil, decimal.NewFromInt(50), "Fridge 2", "2-8C")
	require.NoError(t, err)
	return batch
}

func TestInMemoryEventBusPublish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{eventTypes: []string{stock.EventTypeBatchReceived}}
	bus.Subscribe(handler)

	evt := stock.NewBatchReceivedEvent(newTestBatch(t))
	err := bus.Publish(context.Background(), evt)

	require.NoError(t, err)
	assert.Equal(t, 1, handler.count())
}

func TestInMemoryEventBusTypeFiltering(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	received := &recordingHandler{eventTypes: []string{stock.EventTypeDispositionApplied}}
	ignored := &recordingHandler{eventTypes: []string{stock.EventTypeBatchReconciled}}
	bus.Subscribe(received)
	bus.Subscribe(ignored)

	batch := newTestBatch(t)
	evt := stock.NewDispositionAppliedEvent(batch, stock.ActionDisposed, decimal.NewFromInt(5))
	require.NoError(t, bus.Publish(context.Background(), evt))

	assert.Equal(t, 1, received.count())
	assert.Equal(t, 0, ignored.count())
}

func TestInMemoryEventBusWildcardHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	wildcard := &recordingHandler{}
	bus.Subscribe(wildcard)

	batch := newTestBatch(t)
	require.NoError(t, bus.Publish(context.Background(),
		stock.NewBatchReceivedEvent(batch),
		stock.NewStockWithdrawnEvent(batch, decimal.NewFromInt(10)),
	))

	assert.Equal(t, 2, wildcard.count())
}

func TestInMemoryEventBusHandlerErrorDoesNotStopDelivery(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	failing := &recordingHandler{eventTypes: []string{stock.EventTypeBatchReceived}, err: errors.New("boom")}
	healthy := &recordingHandler{eventTypes: []string{stock.EventTypeBatchReceived}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), stock.NewBatchReceivedEvent(newTestBatch(t)))

	require.NoError(t, err)
	assert.Equal(t, 1, healthy.count())
}

func TestInMemoryEventBusHandlerPanicIsContained(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	panicking := &recordingHandler{eventTypes: []string{stock.EventTypeBatchReceived}, panics: true}
	healthy := &recordingHandler{eventTypes: []string{stock.EventTypeBatchReceived}}
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	assert.NotPanics(t, func() {
		_ = bus.Publish(context.Background(), stock.NewBatchReceivedEvent(newTestBatch(t)))
	})
	assert.Equal(t, 1, healthy.count())
}

func TestInMemoryEventBusUnsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	handler := &recordingHandler{eventTypes: []string{stock.EventTypeBatchReceived}}
	bus.Subscribe(handler)
	bus.Unsubscribe(handler)

	require.NoError(t, bus.Publish(context.Background(), stock.NewBatchReceivedEvent(newTestBatch(t))))
	assert.Equal(t, 0, handler.count())
}

func TestInMemoryEventBusStartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	ctx := context.Background()

	require.NoError(t, bus.Start(ctx))
	assert.True(t, bus.running.Load())

	require.NoError(t, bus.Stop(ctx))
	assert.False(t, bus.running.Load())
}
