package expiry

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func classified(days int, qty int64, category string) ClassifiedBatch {
	d := testToday.AddDate(0, 0, days)
	return ClassifiedBatch{
		Classification: Classify(&d, decimal.NewFromInt(qty), testToday),
		Category:       category,
	}
}

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil)

	assert.Empty(t, s.ByUrgencyTier)
	assert.Empty(t, s.ByCategory)
	assert.Zero(t, s.TotalHandled)
	assert.Zero(t, s.TotalPending)
}

func TestSummarize_CountsByTierAndCategory(t *testing.T) {
	batches := []ClassifiedBatch{
		classified(-2, 10, "antisera"),  // expired -> critical tier
		classified(0, 5, "antisera"),    // expires today -> critical tier
		classified(5, 3, "cell panels"), // urgent -> high tier
		classified(12, 8, "antisera"),   // warning -> medium tier
		classified(60, 4, "reagent red cells"),
		classified(2, 0, "antisera"), // handled
	}

	s := Summarize(batches)

	assert.Equal(t, 2, s.ByUrgencyTier[PriorityCritical])
	assert.Equal(t, 1, s.ByUrgencyTier[PriorityHigh])
	assert.Equal(t, 1, s.ByUrgencyTier[PriorityMedium])
	assert.Equal(t, 1, s.ByUrgencyTier[PriorityNone])

	// Handled batches are excluded from the category breakdown.
	assert.Equal(t, 3, s.ByCategory["antisera"])
	assert.Equal(t, 1, s.ByCategory["cell panels"])
	assert.Equal(t, 1, s.ByCategory["reagent red cells"])

	assert.Equal(t, 1, s.TotalHandled)
	assert.Equal(t, 4, s.TotalPending)
}

func TestSummarize_UncategorizedFallback(t *testing.T) {
	d := testToday.AddDate(0, 0, 3)
	batches := []ClassifiedBatch{
		{Classification: Classify(&d, decimal.NewFromInt(1), testToday)},
	}

	s := Summarize(batches)

	assert.Equal(t, 1, s.ByCategory["uncategorized"])
}

func TestSummarize_DoesNotMutateInput(t *testing.T) {
	d := time.Date(2026, 3, 20, 0, 0, 0, 0, time.UTC)
	in := []ClassifiedBatch{
		{Classification: Classify(&d, decimal.NewFromInt(2), testToday), Category: "antisera"},
	}
	before := in[0]

	_ = Summarize(in)

	assert.Equal(t, before, in[0])
}
