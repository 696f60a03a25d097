package catalog

import (
	"time"

	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockStatus is the reagent-level stock health derived from its batches
type StockStatus string

const (
	StockStatusOutOfStock StockStatus = "out_of_stock"
	StockStatusLow        StockStatus = "low"
	StockStatusOK         StockStatus = "ok"
)

// String returns the string representation of StockStatus
func (s StockStatus) String() string {
	return string(s)
}

// Reagent is a catalog entry for a laboratory reagent. It is the
// aggregate root for reagent master data.
//
// TotalQuantityAllBatches, ActiveBatchesCount and CurrentStockStatus
// are a read-optimized projection recomputed from the batch set after
// any batch mutation; ownership of truth lies with the batches.
type Reagent struct {
	shared.BaseAggregateRoot
	Name          string          `gorm:"type:varchar(255);not null"`
	CatalogNumber string          `gorm:"type:varchar(100);not null;uniqueIndex"`
	Category      string          `gorm:"type:varchar(100);index"`
	Unit          string          `gorm:"type:varchar(30)"`
	SupplierID    *uuid.UUID      `gorm:"type:uuid;index"`
	MinQuantity   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Low-stock threshold

	// Cached aggregate fields, recomputed from batches
	TotalQuantityAllBatches decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ActiveBatchesCount      int             `gorm:"not null;default:0"`
	CurrentStockStatus      StockStatus     `gorm:"type:varchar(20);not null;default:'out_of_stock'"`
}

// TableName returns the table name for GORM
func (Reagent) TableName() string {
	return "reagents"
}

// NewReagent creates a new reagent catalog entry
func NewReagent(name, catalogNumber, category, unit string) (*Reagent, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Reagent name cannot be empty")
	}
	if catalogNumber == "" {
		return nil, shared.NewDomainError("INVALID_CATALOG_NUMBER", "Catalog number cannot be empty")
	}

	r := &Reagent{
		BaseAggregateRoot:       shared.NewBaseAggregateRoot(),
		Name:                    name,
		CatalogNumber:           catalogNumber,
		Category:                category,
		Unit:                    unit,
		MinQuantity:             decimal.Zero,
		TotalQuantityAllBatches: decimal.Zero,
		ActiveBatchesCount:      0,
		CurrentStockStatus:      StockStatusOutOfStock,
	}
	r.AddDomainEvent(NewReagentCreatedEvent(r))
	return r, nil
}

// AssignSupplier links the reagent to a supplier
func (r *Reagent) AssignSupplier(supplierID uuid.UUID) {
	r.SupplierID = &supplierID
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
}

// SetMinQuantity sets the low-stock threshold
func (r *Reagent) SetMinQuantity(min decimal.Decimal) error {
	if min.IsNegative() {
		return shared.NewDomainError("INVALID_QUANTITY", "Minimum quantity cannot be negative")
	}
	r.MinQuantity = min
	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	return nil
}

// ApplyAggregate replaces the cached projection with freshly computed
// totals and derives the stock status from the configured threshold.
func (r *Reagent) ApplyAggregate(totalQuantity decimal.Decimal, activeBatches int) {
	r.TotalQuantityAllBatches = totalQuantity
	r.ActiveBatchesCount = activeBatches

	switch {
	case totalQuantity.LessThanOrEqual(decimal.Zero):
		r.CurrentStockStatus = StockStatusOutOfStock
	case totalQuantity.LessThanOrEqual(r.MinQuantity):
		r.CurrentStockStatus = StockStatusLow
	default:
		r.CurrentStockStatus = StockStatusOK
	}

	r.UpdatedAt = time.Now()
	r.IncrementVersion()
	r.AddDomainEvent(NewReagentAggregateRecomputedEvent(r))
}

// IsLowStock returns true if the cached projection is at or below the threshold
func (r *Reagent) IsLowStock() bool {
	return r.CurrentStockStatus == StockStatusLow || r.CurrentStockStatus == StockStatusOutOfStock
}
