package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewReagent(t *testing.T) {
	t.Run("creates reagent with defaults", func(t *testing.T) {
		r, err := NewReagent("Anti-D (IgM)", "AD-1021", "antisera", "vial")

		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, r.ID)
		assert.Equal(t, "Anti-D (IgM)", r.Name)
		assert.Equal(t, "AD-1021", r.CatalogNumber)
		assert.Equal(t, StockStatusOutOfStock, r.CurrentStockStatus)
		assert.True(t, r.TotalQuantityAllBatches.IsZero())
		assert.Zero(t, r.ActiveBatchesCount)

		events := r.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeReagentCreated, events[0].EventType())
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewReagent("", "AD-1021", "antisera", "vial")
		assert.Error(t, err)
	})

	t.Run("rejects empty catalog number", func(t *testing.T) {
		_, err := NewReagent("Anti-D (IgM)", "", "antisera", "vial")
		assert.Error(t, err)
	})
}

func TestReagent_ApplyAggregate(t *testing.T) {
	newTestReagent := func(t *testing.T) *Reagent {
		r, err := NewReagent("Anti-A", "AA-100", "antisera", "vial")
		require.NoError(t, err)
		require.NoError(t, r.SetMinQuantity(decimal.NewFromInt(5)))
		r.ClearDomainEvents()
		return r
	}

	t.Run("out of stock when total is zero", func(t *testing.T) {
		r := newTestReagent(t)
		r.ApplyAggregate(decimal.Zero, 0)

		assert.Equal(t, StockStatusOutOfStock, r.CurrentStockStatus)
		assert.True(t, r.IsLowStock())
	})

	t.Run("low when total at or below threshold", func(t *testing.T) {
		r := newTestReagent(t)
		r.ApplyAggregate(decimal.NewFromInt(5), 1)

		assert.Equal(t, StockStatusLow, r.CurrentStockStatus)
		assert.True(t, r.IsLowStock())
	})

	t.Run("ok when total above threshold", func(t *testing.T) {
		r := newTestReagent(t)
		r.ApplyAggregate(decimal.NewFromInt(12), 3)

		assert.Equal(t, StockStatusOK, r.CurrentStockStatus)
		assert.False(t, r.IsLowStock())
		assert.Equal(t, 3, r.ActiveBatchesCount)
		assert.True(t, r.TotalQuantityAllBatches.Equal(decimal.NewFromInt(12)))
	})

	t.Run("increments version and emits event", func(t *testing.T) {
		r := newTestReagent(t)
		before := r.GetVersion()

		r.ApplyAggregate(decimal.NewFromInt(10), 2)

		assert.Equal(t, before+1, r.GetVersion())
		events := r.GetDomainEvents()
		require.Len(t, events, 1)
		assert.Equal(t, EventTypeReagentAggregateRecomputed, events[0].EventType())
	})
}

func TestSupplier_AddContact(t *testing.T) {
	s, err := NewSupplier("BioSupply GmbH", "orders@biosupply.example", "+49 30 1234", "Berlin")
	require.NoError(t, err)

	require.NoError(t, s.AddContact("Dana Kim", "sales", "dana@biosupply.example", ""))
	assert.Len(t, s.Contacts, 1)
	assert.Equal(t, s.ID, s.Contacts[0].SupplierID)

	assert.Error(t, s.AddContact("", "sales", "", ""))
}

func TestSupplier_Deactivate(t *testing.T) {
	s, err := NewSupplier("BioSupply GmbH", "", "", "")
	require.NoError(t, err)
	version := s.GetVersion()

	s.Deactivate()

	assert.False(t, s.Active)
	assert.Equal(t, version+1, s.GetVersion())
}
