package stock

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Role is the authorization level of a laboratory user
type Role string

const (
	RoleTechnician Role = "technician"
	RoleSupervisor Role = "supervisor"
	RoleAdmin      Role = "admin"
)

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// Rank returns a numeric rank for comparing roles
func (r Role) Rank() int {
	switch r {
	case RoleAdmin:
		return 3
	case RoleSupervisor:
		return 2
	case RoleTechnician:
		return 1
	default:
		return 0
	}
}

// Covers returns true if the role grants at least the given level
func (r Role) Covers(required Role) bool {
	return r.Rank() >= required.Rank()
}

// IsValid returns true if the role is one of the known roles
func (r Role) IsValid() bool {
	return r.Rank() > 0
}

// Actor is the authenticated user performing a stock operation
type Actor struct {
	ID          uuid.UUID
	DisplayName string
	Role        Role
}

// IsPresent returns true if the actor is authenticated
func (a Actor) IsPresent() bool {
	return a.ID != uuid.Nil
}

// ActionThresholds holds the quantity tiers for one disposition
// action. A nil threshold means unlimited at that tier.
type ActionThresholds struct {
	// MaxQuantitySelfService is the largest quantity any authenticated
	// user may handle without elevation.
	MaxQuantitySelfService *decimal.Decimal
	// MaxQuantitySupervisor is the largest quantity a supervisor may
	// handle; above it an admin is required.
	MaxQuantitySupervisor *decimal.Decimal
}

// ActionPolicy is the injected policy table mapping each disposition
// action to its quantity tiers. Thresholds are configuration, not
// hard-coded constants.
type ActionPolicy map[DispositionAction]ActionThresholds

// DefaultActionPolicy returns the policy used when no configuration is
// provided: disposal and other-use are self-service up to 10 units and
// supervisor territory up to 100, while consumed_by_expiry is always
// self-service.
func DefaultActionPolicy() ActionPolicy {
	selfService := decimal.NewFromInt(10)
	supervisor := decimal.NewFromInt(100)
	return ActionPolicy{
		ActionDisposed: {
			MaxQuantitySelfService: &selfService,
			MaxQuantitySupervisor:  &supervisor,
		},
		ActionOtherUse: {
			MaxQuantitySelfService: &selfService,
			MaxQuantitySupervisor:  &supervisor,
		},
		ActionConsumedByExpiry: {},
	}
}

// RequiredRole returns the minimum role needed to perform the action
// with the given quantity. Actions without configured thresholds are
// self-service at any quantity.
func (p ActionPolicy) RequiredRole(action DispositionAction, quantity decimal.Decimal) Role {
	thresholds, ok := p[action]
	if !ok {
		return RoleTechnician
	}
	if thresholds.MaxQuantitySelfService == nil || quantity.LessThanOrEqual(*thresholds.MaxQuantitySelfService) {
		return RoleTechnician
	}
	if thresholds.MaxQuantitySupervisor == nil || quantity.LessThanOrEqual(*thresholds.MaxQuantitySupervisor) {
		return RoleSupervisor
	}
	return RoleAdmin
}
