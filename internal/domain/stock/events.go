package stock

import (
	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeReagentBatch = "ReagentBatch"

// Event type constants
const (
	EventTypeBatchReceived      = "BatchReceived"
	EventTypeStockWithdrawn     = "StockWithdrawn"
	EventTypeDispositionApplied = "DispositionApplied"
	EventTypeBatchReconciled    = "BatchReconciled"
)

// BatchReceivedEvent is raised when a batch is registered from a delivery
type BatchReceivedEvent struct {
	shared.BaseDomainEvent
	ReagentID   uuid.UUID       `json:"reagent_id"`
	BatchNumber string          `json:"batch_number"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// NewBatchReceivedEvent creates a new BatchReceivedEvent
func NewBatchReceivedEvent(b *ReagentBatch) *BatchReceivedEvent {
	return &BatchReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchReceived, AggregateTypeReagentBatch, b.ID),
		ReagentID:       b.ReagentID,
		BatchNumber:     b.BatchNumber,
		Quantity:        b.InitialQuantity,
	}
}

// EventType returns the event type name
func (e *BatchReceivedEvent) EventType() string {
	return EventTypeBatchReceived
}

// StockWithdrawnEvent is raised when quantity leaves a batch for routine use
type StockWithdrawnEvent struct {
	shared.BaseDomainEvent
	ReagentID         uuid.UUID       `json:"reagent_id"`
	BatchNumber       string          `json:"batch_number"`
	Quantity          decimal.Decimal `json:"quantity"`
	RemainingQuantity decimal.Decimal `json:"remaining_quantity"`
}

// NewStockWithdrawnEvent creates a new StockWithdrawnEvent
func NewStockWithdrawnEvent(b *ReagentBatch, quantity decimal.Decimal) *StockWithdrawnEvent {
	return &StockWithdrawnEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeStockWithdrawn, AggregateTypeReagentBatch, b.ID),
		ReagentID:         b.ReagentID,
		BatchNumber:       b.BatchNumber,
		Quantity:          quantity,
		RemainingQuantity: b.CurrentQuantity,
	}
}

// EventType returns the event type name
func (e *StockWithdrawnEvent) EventType() string {
	return EventTypeStockWithdrawn
}

// DispositionAppliedEvent is raised when a disposition action removes quantity
type DispositionAppliedEvent struct {
	shared.BaseDomainEvent
	ReagentID         uuid.UUID         `json:"reagent_id"`
	BatchNumber       string            `json:"batch_number"`
	Action            DispositionAction `json:"action"`
	Quantity          decimal.Decimal   `json:"quantity"`
	RemainingQuantity decimal.Decimal   `json:"remaining_quantity"`
	NewStatus         BatchStatus       `json:"new_status"`
}

// NewDispositionAppliedEvent creates a new DispositionAppliedEvent
func NewDispositionAppliedEvent(b *ReagentBatch, action DispositionAction, quantity decimal.Decimal) *DispositionAppliedEvent {
	return &DispositionAppliedEvent{
		BaseDomainEvent:   shared.NewBaseDomainEvent(EventTypeDispositionApplied, AggregateTypeReagentBatch, b.ID),
		ReagentID:         b.ReagentID,
		BatchNumber:       b.BatchNumber,
		Action:            action,
		Quantity:          quantity,
		RemainingQuantity: b.CurrentQuantity,
		NewStatus:         b.Status,
	}
}

// EventType returns the event type name
func (e *DispositionAppliedEvent) EventType() string {
	return EventTypeDispositionApplied
}

// BatchReconciledEvent is raised when an inventory count adjusts a batch
type BatchReconciledEvent struct {
	shared.BaseDomainEvent
	ReagentID   uuid.UUID       `json:"reagent_id"`
	BatchNumber string          `json:"batch_number"`
	Delta       decimal.Decimal `json:"delta"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
}

// NewBatchReconciledEvent creates a new BatchReconciledEvent
func NewBatchReconciledEvent(b *ReagentBatch, delta decimal.Decimal) *BatchReconciledEvent {
	return &BatchReconciledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeBatchReconciled, AggregateTypeReagentBatch, b.ID),
		ReagentID:       b.ReagentID,
		BatchNumber:     b.BatchNumber,
		Delta:           delta,
		NewQuantity:     b.CurrentQuantity,
	}
}

// EventType returns the event type name
func (e *BatchReconciledEvent) EventType() string {
	return EventTypeBatchReconciled
}
