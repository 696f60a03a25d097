package catalog

import (
	"context"

	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ReagentRepository defines the interface for reagent persistence
type ReagentRepository interface {
	// FindByID finds a reagent by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Reagent, error)

	// FindByCatalogNumber finds a reagent by its catalog number
	FindByCatalogNumber(ctx context.Context, catalogNumber string) (*Reagent, error)

	// FindAll finds reagents matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Reagent, error)

	// FindByCategory finds reagents in a category
	FindByCategory(ctx context.Context, category string, filter shared.Filter) ([]Reagent, error)

	// FindLowStock finds reagents whose cached projection is low or out of stock
	FindLowStock(ctx context.Context, filter shared.Filter) ([]Reagent, error)

	// Save creates or updates a reagent
	Save(ctx context.Context, reagent *Reagent) error

	// SaveWithLock saves with optimistic locking (checks version)
	SaveWithLock(ctx context.Context, reagent *Reagent) error

	// Count counts reagents matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	// FindByID finds a supplier by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)

	// FindAll finds suppliers matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Supplier, error)

	// FindActive finds active suppliers
	FindActive(ctx context.Context, filter shared.Filter) ([]Supplier, error)

	// Save creates or updates a supplier together with its contacts
	Save(ctx context.Context, supplier *Supplier) error

	// Count counts suppliers matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
