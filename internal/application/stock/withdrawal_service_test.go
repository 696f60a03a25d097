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

func fixedClock(t time.Time) Clock {
	return func() time.Time { return t }
}

func activeBatch(t *testing.T, reagentID uuid.UUID, batchNumber string, expiry *time.Time, quantity int64) *stock.ReagentBatch {
	t.Helper()
	b, err := stock.NewReagentBatch(reagentID, batchNumber, expiry, decimal.NewFromInt(quantity), "", "")
	require.NoError(t, err)
	require.NoError(t, b.Activate())
	b.ClearDomainEvents()
	return b
}

func TestWithdrawalService_Withdraw(t *testing.T) {
	ctx := context.Background()
	today := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	soon := time.Date(2026, 3, 25, 0, 0, 0, 0, time.UTC)
	later := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	reagentID := uuid.New()
	actor := stock.Actor{ID: uuid.New(), DisplayName: "Dana Reyes", Role: stock.RoleTechnician}

	t.Run("spans batches in expiry order", func(t *testing.T) {
		first := activeBatch(t, reagentID, "LOT-SOON", &soon, 4)
		second := activeBatch(t, reagentID, "LOT-LATE", &later, 10)
		batchRepo := newFakeBatchRepo(first, second)
		txRepo := &fakeTransactionRepo{}
		scope := NewNoOpTransactionScope(batchRepo, txRepo, newFakeReagentRepo())
		service := NewWithdrawalService(batchRepo, scope, fixedClock(today), nil)

		resp, err := service.Withdraw(ctx, WithdrawStockRequest{
			ReagentID: reagentID,
			Quantity:  decimal.NewFromInt(6),
		}, actor)

		require.NoError(t, err)
		require.Len(t, resp.Picks, 2)
		assert.Equal(t, "LOT-SOON", resp.Picks[0].BatchNumber)
		assert.True(t, resp.Picks[0].Quantity.Equal(decimal.NewFromInt(4)))
		assert.Equal(t, "LOT-LATE", resp.Picks[1].BatchNumber)
		assert.True(t, resp.Picks[1].Quantity.Equal(decimal.NewFromInt(2)))

		// The drained batch is consumed, the other reduced.
		drained, err := batchRepo.FindByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, stock.BatchStatusConsumed, drained.Status)
		reduced, err := batchRepo.FindByID(ctx, second.ID)
		require.NoError(t, err)
		assert.True(t, reduced.CurrentQuantity.Equal(decimal.NewFromInt(8)))

		// One negative ledger entry per touched batch.
		entries := txRepo.all()
		require.Len(t, entries, 2)
		for _, e := range entries {
			assert.Equal(t, stock.TransactionTypeWithdrawal, e.TransactionType)
			assert.True(t, e.Quantity.IsNegative())
		}
	})

	t.Run("shipment posts shipment_out entries", func(t *testing.T) {
		b := activeBatch(t, reagentID, "LOT-A", &later, 10)
		batchRepo := newFakeBatchRepo(b)
		txRepo := &fakeTransactionRepo{}
		scope := NewNoOpTransactionScope(batchRepo, txRepo, newFakeReagentRepo())
		service := NewWithdrawalService(batchRepo, scope, fixedClock(today), nil)

		_, err := service.Withdraw(ctx, WithdrawStockRequest{
			ReagentID: reagentID,
			Quantity:  decimal.NewFromInt(3),
			Shipment:  true,
		}, actor)

		require.NoError(t, err)
		entries := txRepo.all()
		require.Len(t, entries, 1)
		assert.Equal(t, stock.TransactionTypeShipmentOut, entries[0].TransactionType)
	})

	t.Run("insufficient usable stock fails without writes", func(t *testing.T) {
		b := activeBatch(t, reagentID, "LOT-A", &later, 2)
		batchRepo := newFakeBatchRepo(b)
		txRepo := &fakeTransactionRepo{}
		scope := NewNoOpTransactionScope(batchRepo, txRepo, newFakeReagentRepo())
		service := NewWithdrawalService(batchRepo, scope, fixedClock(today), nil)

		_, err := service.Withdraw(ctx, WithdrawStockRequest{
			ReagentID: reagentID,
			Quantity:  decimal.NewFromInt(5),
		}, actor)

		assert.ErrorIs(t, err, shared.ErrInsufficientStock)
		assert.Empty(t, txRepo.all())
	})

	t.Run("requires an authenticated actor", func(t *testing.T) {
		batchRepo := newFakeBatchRepo()
		scope := NewNoOpTransactionScope(batchRepo, &fakeTransactionRepo{}, newFakeReagentRepo())
		service := NewWithdrawalService(batchRepo, scope, fixedClock(today), nil)

		_, err := service.Withdraw(ctx, WithdrawStockRequest{
			ReagentID: reagentID,
			Quantity:  decimal.NewFromInt(1),
		}, stock.Actor{})

		var vErr *shared.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, shared.ReasonMissingUser, vErr.Reason)
	})
}
