package stock

import (
	"context"
	"time"

	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ReagentBatchRepository defines the interface for batch persistence
type ReagentBatchRepository interface {
	// FindByID finds a batch by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*ReagentBatch, error)

	// FindByReagent finds all batches for a reagent
	FindByReagent(ctx context.Context, reagentID uuid.UUID, filter shared.Filter) ([]ReagentBatch, error)

	// FindUsableByReagent finds active batches with stock for a reagent,
	// ordered by expiry date ascending (FEFO order)
	FindUsableByReagent(ctx context.Context, reagentID uuid.UUID) ([]ReagentBatch, error)

	// FindByBatchNumber finds a batch by reagent and batch number
	FindByBatchNumber(ctx context.Context, reagentID uuid.UUID, batchNumber string) (*ReagentBatch, error)

	// FindExpiringWithin finds non-terminal batches with stock whose
	// expiry date falls within the given number of days from the
	// reference date, already-expired batches included
	FindExpiringWithin(ctx context.Context, reference time.Time, days int, filter shared.Filter) ([]ReagentBatch, error)

	// FindExpired finds non-terminal batches with stock whose expiry
	// date is before the reference date
	FindExpired(ctx context.Context, reference time.Time, filter shared.Filter) ([]ReagentBatch, error)

	// Save creates or updates a batch
	Save(ctx context.Context, batch *ReagentBatch) error

	// SaveWithLock saves with optimistic locking (checks version).
	// Returns shared.ErrConcurrencyConflict when the stored version does
	// not match.
	SaveWithLock(ctx context.Context, batch *ReagentBatch) error

	// SumQuantityByReagent sums current quantity over non-terminal batches
	SumQuantityByReagent(ctx context.Context, reagentID uuid.UUID) (decimal.Decimal, error)

	// CountActiveByReagent counts active batches with stock
	CountActiveByReagent(ctx context.Context, reagentID uuid.UUID) (int64, error)

	// Count counts batches matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// StockTransactionRepository defines the interface for the append-only
// ledger. Entries are created, never updated or deleted.
type StockTransactionRepository interface {
	// Create appends a ledger entry
	Create(ctx context.Context, tx *StockTransaction) error

	// FindByReagent finds ledger entries for a reagent
	FindByReagent(ctx context.Context, reagentID uuid.UUID, filter shared.Filter) ([]StockTransaction, error)

	// FindByBatch finds ledger entries for a batch
	FindByBatch(ctx context.Context, batchID uuid.UUID, filter shared.Filter) ([]StockTransaction, error)

	// FindByDateRange finds ledger entries within a date range
	FindByDateRange(ctx context.Context, start, end time.Time, filter shared.Filter) ([]StockTransaction, error)

	// Count counts entries matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// DispositionRecordRepository defines the interface for the append-only
// disposition audit trail
type DispositionRecordRepository interface {
	// Create appends a disposition record
	Create(ctx context.Context, record *DispositionRecord) error

	// FindByID finds a record by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*DispositionRecord, error)

	// FindByReagent finds records for a reagent
	FindByReagent(ctx context.Context, reagentID uuid.UUID, filter shared.Filter) ([]DispositionRecord, error)

	// FindByBatch finds records for a batch
	FindByBatch(ctx context.Context, batchID uuid.UUID, filter shared.Filter) ([]DispositionRecord, error)

	// FindByIdempotencyKey finds the record created under a key, if any
	FindByIdempotencyKey(ctx context.Context, key string) (*DispositionRecord, error)

	// FindAll finds records matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]DispositionRecord, error)

	// Count counts records matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
