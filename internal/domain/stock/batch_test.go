package stock

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestBatch(t *testing.T, quantity int64) *ReagentBatch {
	t.Helper()
	expiry := time.Now().AddDate(0, 6, 0)
	b, err := NewReagentBatch(uuid.New(), "LOT-2026-001", &expiry, decimal.NewFromInt(quantity), "Fridge 2", "2-8C")
	require.NoError(t, err)
	require.NoError(t, b.Activate())
	b.ClearDomainEvents()
	return b
}

func TestNewReagentBatch(t *testing.T) {
	t.Run("creates incoming batch with initial quantity", func(t *testing.T) {
		expiry := time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC)
		b, err := NewReagentBatch(uuid.New(), "LOT-001", &expiry, decimal.NewFromInt(20), "Shelf A", "room temperature")

		require.NoError(t, err)
		assert.Equal(t, BatchStatusIncoming, b.Status)
		assert.True(t, b.InitialQuantity.Equal(decimal.NewFromInt(20)))
		assert.True(t, b.CurrentQuantity.Equal(decimal.NewFromInt(20)))

		events := b.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeBatchReceived, events[0].EventType())
	})

	t.Run("rejects empty reagent", func(t *testing.T) {
		_, err := NewReagentBatch(uuid.Nil, "LOT-001", nil, decimal.NewFromInt(1), "", "")
		assert.Error(t, err)
	})

	t.Run("rejects empty batch number", func(t *testing.T) {
		_, err := NewReagentBatch(uuid.New(), "", nil, decimal.NewFromInt(1), "", "")
		assert.Error(t, err)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewReagentBatch(uuid.New(), "LOT-001", nil, decimal.Zero, "", "")
		assert.Error(t, err)
	})
}

func TestReagentBatch_Activate(t *testing.T) {
	b, err := NewReagentBatch(uuid.New(), "LOT-001", nil, decimal.NewFromInt(5), "", "")
	require.NoError(t, err)

	require.NoError(t, b.Activate())
	assert.Equal(t, BatchStatusActive, b.Status)

	// A second activation is a state error.
	assert.Error(t, b.Activate())
}

func TestReagentBatch_Withdraw(t *testing.T) {
	t.Run("reduces quantity", func(t *testing.T) {
		b := newTestBatch(t, 10)

		require.NoError(t, b.Withdraw(decimal.NewFromInt(4)))

		assert.True(t, b.CurrentQuantity.Equal(decimal.NewFromInt(6)))
		assert.Equal(t, BatchStatusActive, b.Status)
	})

	t.Run("consumes batch when emptied", func(t *testing.T) {
		b := newTestBatch(t, 10)

		require.NoError(t, b.Withdraw(decimal.NewFromInt(10)))

		assert.True(t, b.CurrentQuantity.IsZero())
		assert.Equal(t, BatchStatusConsumed, b.Status)
	})

	t.Run("rejects over-withdrawal", func(t *testing.T) {
		b := newTestBatch(t, 3)

		err := b.Withdraw(decimal.NewFromInt(5))

		assert.Error(t, err)
		assert.True(t, b.CurrentQuantity.Equal(decimal.NewFromInt(3)))
	})

	t.Run("rejects withdrawal from non-active batch", func(t *testing.T) {
		b, err := NewReagentBatch(uuid.New(), "LOT-001", nil, decimal.NewFromInt(5), "", "")
		require.NoError(t, err)

		assert.Error(t, b.Withdraw(decimal.NewFromInt(1)))
	})
}

func TestReagentBatch_ApplyDisposition(t *testing.T) {
	t.Run("full disposal closes batch as disposed", func(t *testing.T) {
		b := newTestBatch(t, 10)

		require.NoError(t, b.ApplyDisposition(ActionDisposed, decimal.NewFromInt(10)))

		assert.True(t, b.CurrentQuantity.IsZero())
		assert.Equal(t, BatchStatusDisposed, b.Status)
	})

	t.Run("full other_use closes batch as consumed", func(t *testing.T) {
		b := newTestBatch(t, 10)

		require.NoError(t, b.ApplyDisposition(ActionOtherUse, decimal.NewFromInt(10)))

		assert.Equal(t, BatchStatusConsumed, b.Status)
	})

	t.Run("partial disposition leaves status unchanged", func(t *testing.T) {
		b := newTestBatch(t, 10)

		require.NoError(t, b.ApplyDisposition(ActionOtherUse, decimal.NewFromInt(4)))

		assert.True(t, b.CurrentQuantity.Equal(decimal.NewFromInt(6)))
		assert.Equal(t, BatchStatusActive, b.Status)
	})

	t.Run("clamps quantity at zero", func(t *testing.T) {
		b := newTestBatch(t, 5)

		require.NoError(t, b.ApplyDisposition(ActionDisposed, decimal.NewFromInt(8)))

		assert.True(t, b.CurrentQuantity.IsZero())
		assert.Equal(t, BatchStatusDisposed, b.Status)
	})

	t.Run("rejects unknown action", func(t *testing.T) {
		b := newTestBatch(t, 5)
		assert.Error(t, b.ApplyDisposition(DispositionAction("shredded"), decimal.NewFromInt(1)))
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		b := newTestBatch(t, 5)
		assert.Error(t, b.ApplyDisposition(ActionDisposed, decimal.Zero))
	})

	t.Run("emits disposition event", func(t *testing.T) {
		b := newTestBatch(t, 5)

		require.NoError(t, b.ApplyDisposition(ActionDisposed, decimal.NewFromInt(2)))

		events := b.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeDispositionApplied, events[0].EventType())
	})
}

func TestReagentBatch_Reconcile(t *testing.T) {
	t.Run("returns signed delta", func(t *testing.T) {
		b := newTestBatch(t, 10)

		delta, err := b.Reconcile(decimal.NewFromInt(7))

		require.NoError(t, err)
		assert.True(t, delta.Equal(decimal.NewFromInt(-3)))
		assert.True(t, b.CurrentQuantity.Equal(decimal.NewFromInt(7)))
	})

	t.Run("count of zero consumes the batch", func(t *testing.T) {
		b := newTestBatch(t, 10)

		_, err := b.Reconcile(decimal.Zero)

		require.NoError(t, err)
		assert.Equal(t, BatchStatusConsumed, b.Status)
	})

	t.Run("rejects count above initial quantity", func(t *testing.T) {
		b := newTestBatch(t, 10)

		_, err := b.Reconcile(decimal.NewFromInt(11))

		assert.Error(t, err)
	})

	t.Run("rejects reconciliation of terminal batch", func(t *testing.T) {
		b := newTestBatch(t, 10)
		require.NoError(t, b.ApplyDisposition(ActionDisposed, decimal.NewFromInt(10)))

		_, err := b.Reconcile(decimal.NewFromInt(5))

		assert.Error(t, err)
	})
}

func TestReagentBatch_IsExpiredAt(t *testing.T) {
	ref := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	t.Run("no expiry date never expires", func(t *testing.T) {
		b, err := NewReagentBatch(uuid.New(), "LOT-001", nil, decimal.NewFromInt(1), "", "")
		require.NoError(t, err)
		assert.False(t, b.IsExpiredAt(ref))
	})

	t.Run("expiry today is not yet expired", func(t *testing.T) {
		expiry := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
		b, err := NewReagentBatch(uuid.New(), "LOT-001", &expiry, decimal.NewFromInt(1), "", "")
		require.NoError(t, err)
		assert.False(t, b.IsExpiredAt(ref))
	})

	t.Run("expiry yesterday is expired", func(t *testing.T) {
		expiry := time.Date(2026, 3, 9, 23, 0, 0, 0, time.UTC)
		b, err := NewReagentBatch(uuid.New(), "LOT-001", &expiry, decimal.NewFromInt(1), "", "")
		require.NoError(t, err)
		assert.True(t, b.IsExpiredAt(ref))
	})
}

func TestBatchStatus_IsTerminal(t *testing.T) {
	terminal := []BatchStatus{BatchStatusConsumed, BatchStatusDisposed, BatchStatusReturned, BatchStatusRecalled}
	for _, s := range terminal {
		assert.True(t, s.IsTerminal(), "%s should be terminal", s)
	}
	open := []BatchStatus{BatchStatusIncoming, BatchStatusActive, BatchStatusExpired}
	for _, s := range open {
		assert.False(t, s.IsTerminal(), "%s should not be terminal", s)
	}
}
