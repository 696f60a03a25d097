package stock

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStockTransaction(t *testing.T) {
	reagentID := uuid.New()

	t.Run("records a delivery", func(t *testing.T) {
		tx, err := NewStockTransaction(reagentID, TransactionTypeDelivery, decimal.NewFromInt(20), "PO-1042")

		require.NoError(t, err)
		assert.Equal(t, TransactionTypeDelivery, tx.TransactionType)
		assert.True(t, tx.Quantity.Equal(decimal.NewFromInt(20)))
		assert.False(t, tx.IsRemoval())
		assert.False(t, tx.TransactionDate.IsZero())
	})

	t.Run("records a disposal with negative quantity", func(t *testing.T) {
		tx, err := NewStockTransaction(reagentID, TransactionTypeDisposal, decimal.NewFromInt(-10), "")

		require.NoError(t, err)
		assert.True(t, tx.IsRemoval())
	})

	t.Run("rejects empty reagent", func(t *testing.T) {
		_, err := NewStockTransaction(uuid.Nil, TransactionTypeDelivery, decimal.NewFromInt(1), "")
		assert.Error(t, err)
	})

	t.Run("rejects invalid type", func(t *testing.T) {
		_, err := NewStockTransaction(reagentID, TransactionType("theft"), decimal.NewFromInt(1), "")
		assert.Error(t, err)
	})

	t.Run("rejects zero quantity", func(t *testing.T) {
		_, err := NewStockTransaction(reagentID, TransactionTypeCountUpdate, decimal.Zero, "")
		assert.Error(t, err)
	})

	t.Run("removal types must be negative", func(t *testing.T) {
		removals := []TransactionType{
			TransactionTypeWithdrawal,
			TransactionTypeDisposal,
			TransactionTypeOtherUseExpired,
			TransactionTypeShipmentOut,
		}
		for _, txType := range removals {
			_, err := NewStockTransaction(reagentID, txType, decimal.NewFromInt(5), "")
			assert.Error(t, err, "%s should reject positive quantity", txType)

			_, err = NewStockTransaction(reagentID, txType, decimal.NewFromInt(-5), "")
			assert.NoError(t, err, "%s should accept negative quantity", txType)
		}
	})

	t.Run("delivery must be positive", func(t *testing.T) {
		_, err := NewStockTransaction(reagentID, TransactionTypeDelivery, decimal.NewFromInt(-5), "")
		assert.Error(t, err)
	})

	t.Run("count update carries either sign", func(t *testing.T) {
		_, err := NewStockTransaction(reagentID, TransactionTypeCountUpdate, decimal.NewFromInt(3), "")
		assert.NoError(t, err)

		_, err = NewStockTransaction(reagentID, TransactionTypeCountUpdate, decimal.NewFromInt(-3), "")
		assert.NoError(t, err)
	})
}

func TestStockTransaction_Builders(t *testing.T) {
	expiry := time.Date(2026, 9, 30, 0, 0, 0, 0, time.UTC)
	batchID := uuid.New()
	userID := uuid.New()
	date := time.Date(2026, 3, 10, 8, 30, 0, 0, time.UTC)

	tx, err := NewStockTransaction(uuid.New(), TransactionTypeDisposal, decimal.NewFromInt(-2), "expired")
	require.NoError(t, err)

	tx.WithBatch(batchID, "LOT-77", &expiry).WithRecordedBy(userID).WithTransactionDate(date)

	require.NotNil(t, tx.BatchID)
	assert.Equal(t, batchID, *tx.BatchID)
	assert.Equal(t, "LOT-77", tx.BatchNumber)
	require.NotNil(t, tx.ExpiryDate)
	assert.True(t, expiry.Equal(*tx.ExpiryDate))
	require.NotNil(t, tx.RecordedBy)
	assert.Equal(t, userID, *tx.RecordedBy)
	assert.True(t, date.Equal(tx.TransactionDate))
}

func TestDispositionAction_TransactionType(t *testing.T) {
	assert.Equal(t, TransactionTypeDisposal, ActionDisposed.TransactionType())
	assert.Equal(t, TransactionTypeOtherUseExpired, ActionOtherUse.TransactionType())
	assert.Equal(t, TransactionTypeWithdrawal, ActionConsumedByExpiry.TransactionType())
}
