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

func TestIntakeService_RegisterBatch(t *testing.T) {
	ctx := context.Background()
	reagentID := uuid.New()
	actor := stock.Actor{ID: uuid.New(), DisplayName: "Dana Reyes", Role: stock.RoleTechnician}
	expiry := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)

	newService := func() (*IntakeService, *fakeBatchRepo, *fakeTransactionRepo) {
		batchRepo := newFakeBatchRepo()
		txRepo := &fakeTransactionRepo{}
		scope := NewNoOpTransactionScope(batchRepo, txRepo, newFakeReagentRepo())
		return NewIntakeService(batchRepo, scope, nil), batchRepo, txRepo
	}

	t.Run("registers a delivered batch with a delivery entry", func(t *testing.T) {
		service, batchRepo, txRepo := newService()

		resp, err := service.RegisterBatch(ctx, RegisterBatchRequest{
			ReagentID:   reagentID,
			BatchNumber: "LOT-2026-100",
			ExpiryDate:  &expiry,
			Quantity:    decimal.NewFromInt(20),
			Notes:       "PO-1042",
			Activate:    true,
		}, actor)

		require.NoError(t, err)
		assert.Equal(t, "active", resp.Status)
		assert.True(t, resp.CurrentQuantity.Equal(decimal.NewFromInt(20)))

		saved, err := batchRepo.FindByID(ctx, resp.ID)
		require.NoError(t, err)
		assert.Equal(t, "LOT-2026-100", saved.BatchNumber)

		entries := txRepo.all()
		require.Len(t, entries, 1)
		assert.Equal(t, stock.TransactionTypeDelivery, entries[0].TransactionType)
		assert.True(t, entries[0].Quantity.Equal(decimal.NewFromInt(20)))
		assert.Equal(t, "LOT-2026-100", entries[0].BatchNumber)
	})

	t.Run("batch stays incoming without activation", func(t *testing.T) {
		service, _, _ := newService()

		resp, err := service.RegisterBatch(ctx, RegisterBatchRequest{
			ReagentID:   reagentID,
			BatchNumber: "LOT-2026-101",
			Quantity:    decimal.NewFromInt(5),
		}, actor)

		require.NoError(t, err)
		assert.Equal(t, "incoming", resp.Status)
	})

	t.Run("rejects a duplicate batch number for the reagent", func(t *testing.T) {
		service, _, txRepo := newService()

		_, err := service.RegisterBatch(ctx, RegisterBatchRequest{
			ReagentID:   reagentID,
			BatchNumber: "LOT-2026-102",
			Quantity:    decimal.NewFromInt(5),
		}, actor)
		require.NoError(t, err)

		_, err = service.RegisterBatch(ctx, RegisterBatchRequest{
			ReagentID:   reagentID,
			BatchNumber: "LOT-2026-102",
			Quantity:    decimal.NewFromInt(5),
		}, actor)

		assert.ErrorIs(t, err, shared.ErrAlreadyExists)
		assert.Len(t, txRepo.all(), 1)
	})

	t.Run("requires an authenticated actor", func(t *testing.T) {
		service, _, _ := newService()

		_, err := service.RegisterBatch(ctx, RegisterBatchRequest{
			ReagentID:   reagentID,
			BatchNumber: "LOT-2026-103",
			Quantity:    decimal.NewFromInt(5),
		}, stock.Actor{})

		var vErr *shared.ValidationError
		require.ErrorAs(t, err, &vErr)
		assert.Equal(t, shared.ReasonMissingUser, vErr.Reason)
	})
}

func TestIntakeService_ActivateBatch(t *testing.T) {
	ctx := context.Background()
	b, err := stock.NewReagentBatch(uuid.New(), "LOT-1", nil, decimal.NewFromInt(5), "", "")
	require.NoError(t, err)

	batchRepo := newFakeBatchRepo(b)
	scope := NewNoOpTransactionScope(batchRepo, &fakeTransactionRepo{}, newFakeReagentRepo())
	service := NewIntakeService(batchRepo, scope, nil)

	resp, err := service.ActivateBatch(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, "active", resp.Status)

	_, err = service.ActivateBatch(ctx, b.ID)
	assert.Error(t, err)
}
