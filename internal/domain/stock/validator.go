package stock

import (
	"fmt"

	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ActionValidator checks a proposed disposition action against the
// batch state and the configured authorization policy. Checks run
// eagerly in a fixed order; the first failing check aborts validation
// and surfaces its specific reason.
type ActionValidator struct {
	policy ActionPolicy
}

// NewActionValidator creates a validator with the given policy table
func NewActionValidator(policy ActionPolicy) *ActionValidator {
	if policy == nil {
		policy = DefaultActionPolicy()
	}
	return &ActionValidator{policy: policy}
}

// Validate checks the proposed action. A nil error means the action may
// proceed; otherwise the returned *shared.ValidationError names the
// first check that failed.
func (v *ActionValidator) Validate(batch *ReagentBatch, action DispositionAction, quantity decimal.Decimal, actor Actor) error {
	if batch == nil {
		return shared.NewValidationError(shared.ReasonBatchNotFound, "Batch reference does not resolve to an existing batch")
	}
	if !action.IsValid() {
		return shared.NewValidationError(shared.ReasonInvalidAction,
			fmt.Sprintf("Action %q is not one of disposed, other_use, consumed_by_expiry", action))
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewValidationError(shared.ReasonInvalidQuantity, "Quantity must be a positive number")
	}
	if quantity.GreaterThan(batch.CurrentQuantity) {
		return shared.NewValidationError(shared.ReasonQuantityExceeds,
			fmt.Sprintf("Requested quantity %s exceeds available quantity %s",
				quantity.String(), batch.CurrentQuantity.String()))
	}
	if !actor.IsPresent() {
		return shared.NewValidationError(shared.ReasonMissingUser, "An authenticated user is required")
	}
	if required := v.policy.RequiredRole(action, quantity); !actor.Role.Covers(required) {
		return shared.NewValidationError(shared.ReasonRequiresElevation,
			fmt.Sprintf("Action %q with quantity %s requires role %s", action, quantity.String(), required))
	}
	return nil
}
