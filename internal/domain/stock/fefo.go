package stock

import (
	"sort"
	"time"

	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BatchPick is one slice of a FEFO withdrawal plan
type BatchPick struct {
	BatchID     uuid.UUID
	BatchNumber string
	ExpiryDate  *time.Time
	Quantity    decimal.Decimal
}

// PickBatchesFEFO plans a withdrawal across a reagent's batches using
// first-expiry-first-out ordering. Only usable, non-expired batches are
// considered; batches without an expiry date are picked last. Returns
// ErrInsufficientStock when the usable batches cannot cover the
// requested quantity.
func PickBatchesFEFO(batches []ReagentBatch, quantity decimal.Decimal, today time.Time) ([]BatchPick, error) {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Withdrawal quantity must be positive")
	}

	candidates := make([]ReagentBatch, 0, len(batches))
	for _, b := range batches {
		if b.IsUsable() && !b.IsExpiredAt(today) {
			candidates = append(candidates, b)
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		iExp, jExp := candidates[i].ExpiryDate, candidates[j].ExpiryDate
		if iExp == nil && jExp == nil {
			return candidates[i].CreatedAt.Before(candidates[j].CreatedAt)
		}
		if iExp == nil {
			return false
		}
		if jExp == nil {
			return true
		}
		return iExp.Before(*jExp)
	})

	picks := make([]BatchPick, 0, len(candidates))
	remaining := quantity
	for _, b := range candidates {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		take := b.CurrentQuantity
		if take.GreaterThan(remaining) {
			take = remaining
		}
		picks = append(picks, BatchPick{
			BatchID:     b.ID,
			BatchNumber: b.BatchNumber,
			ExpiryDate:  b.ExpiryDate,
			Quantity:    take,
		})
		remaining = remaining.Sub(take)
	}

	if remaining.GreaterThan(decimal.Zero) {
		return nil, shared.ErrInsufficientStock
	}
	return picks, nil
}
