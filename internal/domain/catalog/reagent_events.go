package catalog

import (
	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Aggregate type constant
const AggregateTypeReagent = "Reagent"

// Event type constants
const (
	EventTypeReagentCreated             = "ReagentCreated"
	EventTypeReagentAggregateRecomputed = "ReagentAggregateRecomputed"
)

// ReagentCreatedEvent is raised when a reagent is added to the catalog
type ReagentCreatedEvent struct {
	shared.BaseDomainEvent
	Name          string `json:"name"`
	CatalogNumber string `json:"catalog_number"`
	Category      string `json:"category"`
}

// NewReagentCreatedEvent creates a new ReagentCreatedEvent
func NewReagentCreatedEvent(r *Reagent) *ReagentCreatedEvent {
	return &ReagentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReagentCreated, AggregateTypeReagent, r.ID),
		Name:            r.Name,
		CatalogNumber:   r.CatalogNumber,
		Category:        r.Category,
	}
}

// EventType returns the event type name
func (e *ReagentCreatedEvent) EventType() string {
	return EventTypeReagentCreated
}

// ReagentAggregateRecomputedEvent is raised after the cached batch
// projection on a reagent has been refreshed
type ReagentAggregateRecomputedEvent struct {
	shared.BaseDomainEvent
	TotalQuantity decimal.Decimal `json:"total_quantity"`
	ActiveBatches int             `json:"active_batches"`
	StockStatus   string          `json:"stock_status"`
}

// NewReagentAggregateRecomputedEvent creates a new ReagentAggregateRecomputedEvent
func NewReagentAggregateRecomputedEvent(r *Reagent) *ReagentAggregateRecomputedEvent {
	return &ReagentAggregateRecomputedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeReagentAggregateRecomputed, AggregateTypeReagent, r.ID),
		TotalQuantity:   r.TotalQuantityAllBatches,
		ActiveBatches:   r.ActiveBatchesCount,
		StockStatus:     r.CurrentStockStatus.String(),
	}
}

// EventType returns the event type name
func (e *ReagentAggregateRecomputedEvent) EventType() string {
	return EventTypeReagentAggregateRecomputed
}
