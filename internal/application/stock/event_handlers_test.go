package stock

import (
	"context"
	"testing"

	"github.com/bloodbank/backend/internal/domain/catalog"
	"github.com/bloodbank/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newAlertTestReagent(t *testing.T, total, min int64) *catalog.Reagent {
	t.Helper()
	reagent, err := catalog.NewReagent("Anti-A Serum", "CAT-001", "serology", "mL")
	require.NoError(t, err)
	require.NoError(t, reagent.SetMinQuantity(decimal.NewFromInt(min)))
	activeBatches := 1
	if total == 0 {
		activeBatches = 0
	}
	reagent.ApplyAggregate(decimal.NewFromInt(total), activeBatches)
	return reagent
}

func newAlertTestBatch(t *testing.T, reagentID uuid.UUID) *stock.ReagentBatch {
	t.Helper()
	batch, err := stock.NewReagentBatch(reagentID, "LOT-77", nil, decimal.NewFromInt(20), "Fridge 1", "2-8C")
	require.NoError(t, err)
	return batch
}

func TestLowStockAlertHandler(t *testing.T) {
	t.Run("warns when reagent at or below threshold", func(t *testing.T) {
		reagent := newAlertTestReagent(t, 5, 10)
		repo := newFakeReagentRepo(reagent)
		core, logs := observer.New(zapcore.WarnLevel)
		handler := NewLowStockAlertHandler(repo, zap.New(core))

		batch := newAlertTestBatch(t, reagent.ID)
		evt := stock.NewStockWithdrawnEvent(batch, decimal.NewFromInt(5))

		require.NoError(t, handler.Handle(context.Background(), evt))

		entries := logs.FilterMessage("reagent stock below threshold").All()
		require.Len(t, entries, 1)
		assert.Equal(t, reagent.ID.String(), entries[0].ContextMap()["reagent_id"])
	})

	t.Run("silent when stock is healthy", func(t *testing.T) {
		reagent := newAlertTestReagent(t, 100, 10)
		repo := newFakeReagentRepo(reagent)
		core, logs := observer.New(zapcore.WarnLevel)
		handler := NewLowStockAlertHandler(repo, zap.New(core))

		batch := newAlertTestBatch(t, reagent.ID)
		evt := stock.NewDispositionAppliedEvent(batch, stock.ActionDisposed, decimal.NewFromInt(5))

		require.NoError(t, handler.Handle(context.Background(), evt))
		assert.Zero(t, logs.Len())
	})

	t.Run("unknown reagent surfaces repository error", func(t *testing.T) {
		repo := newFakeReagentRepo()
		handler := NewLowStockAlertHandler(repo, zap.NewNop())

		batch := newAlertTestBatch(t, uuid.New())
		evt := stock.NewBatchReconciledEvent(batch, decimal.NewFromInt(-3))

		assert.Error(t, handler.Handle(context.Background(), evt))
	})

	t.Run("ignores unrelated events", func(t *testing.T) {
		repo := newFakeReagentRepo()
		handler := NewLowStockAlertHandler(repo, zap.NewNop())

		evt := stock.NewBatchReceivedEvent(newAlertTestBatch(t, uuid.New()))
		assert.NoError(t, handler.Handle(context.Background(), evt))
	})

	t.Run("declares the removal event types", func(t *testing.T) {
		handler := NewLowStockAlertHandler(newFakeReagentRepo(), nil)
		assert.ElementsMatch(t, []string{
			stock.EventTypeStockWithdrawn,
			stock.EventTypeDispositionApplied,
			stock.EventTypeBatchReconciled,
		}, handler.EventTypes())
	})
}
