package stock

import (
	"context"
	"sync"
	"time"

	"github.com/bloodbank/backend/internal/domain/catalog"
	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/bloodbank/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// fakeBatchRepo is an in-memory ReagentBatchRepository
type fakeBatchRepo struct {
	mu      sync.Mutex
	batches map[uuid.UUID]*stock.ReagentBatch

	saveErr    error
	sumErr     error
	saveCalls  int
	savedCopy  map[uuid.UUID]stock.ReagentBatch
	failOnSave int // fail the Nth SaveWithLock call, 0 disables
}

func newFakeBatchRepo(batches ...*stock.ReagentBatch) *fakeBatchRepo {
	r := &fakeBatchRepo{
		batches:   make(map[uuid.UUID]*stock.ReagentBatch),
		savedCopy: make(map[uuid.UUID]stock.ReagentBatch),
	}
	for _, b := range batches {
		r.batches[b.ID] = b
	}
	return r
}

func (r *fakeBatchRepo) FindByID(_ context.Context, id uuid.UUID) (*stock.ReagentBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.batches[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return b, nil
}

func (r *fakeBatchRepo) FindByReagent(_ context.Context, reagentID uuid.UUID, _ shared.Filter) ([]stock.ReagentBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []stock.ReagentBatch
	for _, b := range r.batches {
		if b.ReagentID == reagentID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBatchRepo) FindUsableByReagent(_ context.Context, reagentID uuid.UUID) ([]stock.ReagentBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []stock.ReagentBatch
	for _, b := range r.batches {
		if b.ReagentID == reagentID && b.IsUsable() {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBatchRepo) FindByBatchNumber(_ context.Context, reagentID uuid.UUID, batchNumber string) (*stock.ReagentBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.batches {
		if b.ReagentID == reagentID && b.BatchNumber == batchNumber {
			return b, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeBatchRepo) FindExpiringWithin(_ context.Context, reference time.Time, days int, _ shared.Filter) ([]stock.ReagentBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	horizon := reference.AddDate(0, 0, days)
	var out []stock.ReagentBatch
	for _, b := range r.batches {
		if b.Status.IsTerminal() || !b.HasStock() {
			continue
		}
		if b.ExpiryDate != nil && !b.ExpiryDate.After(horizon) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBatchRepo) FindExpired(_ context.Context, reference time.Time, _ shared.Filter) ([]stock.ReagentBatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []stock.ReagentBatch
	for _, b := range r.batches {
		if !b.Status.IsTerminal() && b.HasStock() && b.IsExpiredAt(reference) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *fakeBatchRepo) Save(_ context.Context, batch *stock.ReagentBatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.batches[batch.ID] = batch
	r.savedCopy[batch.ID] = *batch
	return nil
}

func (r *fakeBatchRepo) SaveWithLock(_ context.Context, batch *stock.ReagentBatch) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saveCalls++
	if r.failOnSave > 0 && r.saveCalls == r.failOnSave {
		return shared.ErrConcurrencyConflict
	}
	if r.saveErr != nil {
		return r.saveErr
	}
	r.batches[batch.ID] = batch
	r.savedCopy[batch.ID] = *batch
	return nil
}

func (r *fakeBatchRepo) SumQuantityByReagent(_ context.Context, reagentID uuid.UUID) (decimal.Decimal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.sumErr != nil {
		return decimal.Zero, r.sumErr
	}
	total := decimal.Zero
	for _, b := range r.batches {
		if b.ReagentID == reagentID && !b.Status.IsTerminal() {
			total = total.Add(b.CurrentQuantity)
		}
	}
	return total, nil
}

func (r *fakeBatchRepo) CountActiveByReagent(_ context.Context, reagentID uuid.UUID) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var n int64
	for _, b := range r.batches {
		if b.ReagentID == reagentID && b.IsUsable() {
			n++
		}
	}
	return n, nil
}

func (r *fakeBatchRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.batches)), nil
}

// fakeTransactionRepo is an in-memory StockTransactionRepository
type fakeTransactionRepo struct {
	mu        sync.Mutex
	entries   []stock.StockTransaction
	createErr error
}

func (r *fakeTransactionRepo) Create(_ context.Context, tx *stock.StockTransaction) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	r.entries = append(r.entries, *tx)
	return nil
}

func (r *fakeTransactionRepo) FindByReagent(_ context.Context, reagentID uuid.UUID, _ shared.Filter) ([]stock.StockTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []stock.StockTransaction
	for _, e := range r.entries {
		if e.ReagentID == reagentID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) FindByBatch(_ context.Context, batchID uuid.UUID, _ shared.Filter) ([]stock.StockTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []stock.StockTransaction
	for _, e := range r.entries {
		if e.BatchID != nil && *e.BatchID == batchID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) FindByDateRange(_ context.Context, start, end time.Time, _ shared.Filter) ([]stock.StockTransaction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []stock.StockTransaction
	for _, e := range r.entries {
		if !e.TransactionDate.Before(start) && !e.TransactionDate.After(end) {
			out = append(out, e)
		}
	}
	return out, nil
}

func (r *fakeTransactionRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.entries)), nil
}

func (r *fakeTransactionRepo) all() []stock.StockTransaction {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]stock.StockTransaction, len(r.entries))
	copy(out, r.entries)
	return out
}

// fakeDispositionRepo is an in-memory DispositionRecordRepository
type fakeDispositionRepo struct {
	mu        sync.Mutex
	records   []stock.DispositionRecord
	createErr error
}

func (r *fakeDispositionRepo) Create(_ context.Context, record *stock.DispositionRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	for _, existing := range r.records {
		if record.IdempotencyKey != "" && existing.IdempotencyKey == record.IdempotencyKey {
			return shared.ErrAlreadyExists
		}
	}
	r.records = append(r.records, *record)
	return nil
}

func (r *fakeDispositionRepo) FindByID(_ context.Context, id uuid.UUID) (*stock.DispositionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.records {
		if r.records[i].ID == id {
			rec := r.records[i]
			return &rec, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeDispositionRepo) FindByReagent(_ context.Context, reagentID uuid.UUID, _ shared.Filter) ([]stock.DispositionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []stock.DispositionRecord
	for _, rec := range r.records {
		if rec.ReagentID == reagentID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeDispositionRepo) FindByBatch(_ context.Context, batchID uuid.UUID, _ shared.Filter) ([]stock.DispositionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []stock.DispositionRecord
	for _, rec := range r.records {
		if rec.BatchID == batchID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *fakeDispositionRepo) FindByIdempotencyKey(_ context.Context, key string) (*stock.DispositionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.records {
		if r.records[i].IdempotencyKey == key {
			rec := r.records[i]
			return &rec, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeDispositionRepo) FindAll(_ context.Context, _ shared.Filter) ([]stock.DispositionRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]stock.DispositionRecord, len(r.records))
	copy(out, r.records)
	return out, nil
}

func (r *fakeDispositionRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.records)), nil
}

// fakeReagentRepo is an in-memory catalog.ReagentRepository
type fakeReagentRepo struct {
	mu       sync.Mutex
	reagents map[uuid.UUID]*catalog.Reagent
	saveErr  error
}

func newFakeReagentRepo(reagents ...*catalog.Reagent) *fakeReagentRepo {
	r := &fakeReagentRepo{reagents: make(map[uuid.UUID]*catalog.Reagent)}
	for _, reagent := range reagents {
		r.reagents[reagent.ID] = reagent
	}
	return r
}

func (r *fakeReagentRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Reagent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	reagent, ok := r.reagents[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return reagent, nil
}

func (r *fakeReagentRepo) FindByCatalogNumber(_ context.Context, catalogNumber string) (*catalog.Reagent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, reagent := range r.reagents {
		if reagent.CatalogNumber == catalogNumber {
			return reagent, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *fakeReagentRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Reagent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []catalog.Reagent
	for _, reagent := range r.reagents {
		out = append(out, *reagent)
	}
	return out, nil
}

func (r *fakeReagentRepo) FindByCategory(_ context.Context, category string, _ shared.Filter) ([]catalog.Reagent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []catalog.Reagent
	for _, reagent := range r.reagents {
		if reagent.Category == category {
			out = append(out, *reagent)
		}
	}
	return out, nil
}

func (r *fakeReagentRepo) FindLowStock(_ context.Context, _ shared.Filter) ([]catalog.Reagent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []catalog.Reagent
	for _, reagent := range r.reagents {
		if reagent.IsLowStock() {
			out = append(out, *reagent)
		}
	}
	return out, nil
}

func (r *fakeReagentRepo) Save(_ context.Context, reagent *catalog.Reagent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.reagents[reagent.ID] = reagent
	return nil
}

func (r *fakeReagentRepo) SaveWithLock(_ context.Context, reagent *catalog.Reagent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return r.saveErr
	}
	r.reagents[reagent.ID] = reagent
	return nil
}

func (r *fakeReagentRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return int64(len(r.reagents)), nil
}

// fakeIdempotencyStore is an in-memory shared.IdempotencyStore
type fakeIdempotencyStore struct {
	mu   sync.Mutex
	keys map[string]bool
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{keys: make(map[string]bool)}
}

func (s *fakeIdempotencyStore) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.keys[key] {
		return false, nil
	}
	s.keys[key] = true
	return true, nil
}

func (s *fakeIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keys[key], nil
}

func (s *fakeIdempotencyStore) Close() error { return nil }
