package stock

import (
	"context"
	"testing"
	"time"

	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/bloodbank/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLedgerEntry(t *testing.T, reagentID uuid.UUID, txType stock.TransactionType, qty int64, when time.Time) *stock.StockTransaction {
	t.Helper()
	entry, err := stock.NewStockTransaction(reagentID, txType, decimal.NewFromInt(qty), "")
	require.NoError(t, err)
	return entry.WithTransactionDate(when)
}

func TestLedgerServiceListByBatch(t *testing.T) {
	ctx := context.Background()
	repo := &fakeTransactionRepo{}
	svc := NewLedgerService(repo, nil)

	reagentID := uuid.New()
	batchID := uuid.New()
	otherBatchID := uuid.New()
	now := time.Now()

	first := newLedgerEntry(t, reagentID, stock.TransactionTypeDelivery, 100, now)
	first.WithBatch(batchID, "LOT-2024-007", nil)
	second := newLedgerEntry(t, reagentID, stock.TransactionTypeWithdrawal, -20, now)
	second.WithBatch(batchID, "LOT-2024-007", nil)
	other := newLedgerEntry(t, reagentID, stock.TransactionTypeDelivery, 50, now)
	other.WithBatch(otherBatchID, "LOT-2024-008", nil)

	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, other))

	entries, err := svc.ListByBatch(ctx, batchID, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "delivery", entries[0].TransactionType)
	assert.Equal(t, "LOT-2024-007", entries[0].BatchNumber)
	assert.True(t, entries[1].Quantity.IsNegative())
}

func TestLedgerServiceListByReagent(t *testing.T) {
	ctx := context.Background()
	repo := &fakeTransactionRepo{}
	svc := NewLedgerService(repo, nil)

	reagentID := uuid.New()
	now := time.Now()
	require.NoError(t, repo.Create(ctx, newLedgerEntry(t, reagentID, stock.TransactionTypeDelivery, 30, now)))
	require.NoError(t, repo.Create(ctx, newLedgerEntry(t, uuid.New(), stock.TransactionTypeDelivery, 10, now)))

	entries, err := svc.ListByReagent(ctx, reagentID, shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, reagentID, entries[0].ReagentID)
}

func TestLedgerServiceListByReagentEmpty(t *testing.T) {
	svc := NewLedgerService(&fakeTransactionRepo{}, nil)

	entries, err := svc.ListByReagent(context.Background(), uuid.New(), shared.DefaultFilter())
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NotNil(t, entries)
}

func TestLedgerServiceListByDateRange(t *testing.T) {
	ctx := context.Background()
	repo := &fakeTransactionRepo{}
	svc := NewLedgerService(repo, nil)

	reagentID := uuid.New()
	monday := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Create(ctx, newLedgerEntry(t, reagentID, stock.TransactionTypeDelivery, 30, monday)))
	require.NoError(t, repo.Create(ctx, newLedgerEntry(t, reagentID, stock.TransactionTypeDelivery, 40, monday.AddDate(0, 0, 10))))

	entries, err := svc.ListByDateRange(ctx, monday.AddDate(0, 0, -1), monday.AddDate(0, 0, 1), shared.DefaultFilter())
	require.NoError(t, err)
	require.Len(t, entries, 1)

	_, err = svc.ListByDateRange(ctx, monday, monday, shared.DefaultFilter())
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_DATE_RANGE", domainErr.Code)
}
