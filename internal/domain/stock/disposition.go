package stock

import (
	"time"

	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DispositionAction is the way quantity was removed from a batch due to expiry
type DispositionAction string

const (
	// ActionDisposed means the quantity was discarded
	ActionDisposed DispositionAction = "disposed"
	// ActionOtherUse means the quantity was diverted to a non-diagnostic use
	ActionOtherUse DispositionAction = "other_use"
	// ActionConsumedByExpiry means the quantity was used up ahead of its expiry
	ActionConsumedByExpiry DispositionAction = "consumed_by_expiry"
)

// String returns the string representation of DispositionAction
func (a DispositionAction) String() string {
	return string(a)
}

// IsValid returns true if the disposition action is valid
func (a DispositionAction) IsValid() bool {
	switch a {
	case ActionDisposed, ActionOtherUse, ActionConsumedByExpiry:
		return true
	}
	return false
}

// TransactionType returns the ledger transaction type for this action
func (a DispositionAction) TransactionType() TransactionType {
	switch a {
	case ActionDisposed:
		return TransactionTypeDisposal
	case ActionOtherUse:
		return TransactionTypeOtherUseExpired
	case ActionConsumedByExpiry:
		return TransactionTypeWithdrawal
	default:
		return ""
	}
}

// DispositionRecord is the append-only audit entry for a disposition
// action. Reagent name, batch number and expiry date are denormalized
// snapshots taken at write time: they must not change even if the
// source reagent or batch is later renamed. Records are created exactly
// once and never updated or deleted.
type DispositionRecord struct {
	shared.BaseEntity
	ReagentID          uuid.UUID         `gorm:"type:uuid;not null;index"`
	BatchID            uuid.UUID         `gorm:"type:uuid;not null;index"`
	ReagentName        string            `gorm:"type:varchar(255);not null"`
	BatchNumber        string            `gorm:"type:varchar(100);not null"`
	OriginalExpiryDate *time.Time        `gorm:"type:date"`
	ActionTaken        DispositionAction `gorm:"type:varchar(30);not null;index"`
	QuantityAffected   decimal.Decimal   `gorm:"type:decimal(18,4);not null"`
	ActionNotes        string            `gorm:"type:varchar(500)"`
	DocumentedAt       time.Time         `gorm:"type:timestamptz;not null"`
	DocumentedBy       uuid.UUID         `gorm:"type:uuid;not null"`
	DocumentedByName   string            `gorm:"type:varchar(255)"`
	IdempotencyKey     string            `gorm:"type:varchar(100);uniqueIndex"`
}

// TableName returns the table name for GORM
func (DispositionRecord) TableName() string {
	return "disposition_records"
}

// NewDispositionRecord creates the audit entry for a disposition
// action, snapshotting the identifying fields as they are now.
func NewDispositionRecord(
	batch *ReagentBatch,
	reagentName string,
	action DispositionAction,
	quantity decimal.Decimal,
	notes string,
	documentedBy uuid.UUID,
	documentedByName string,
	idempotencyKey string,
) (*DispositionRecord, error) {
	if batch == nil {
		return nil, shared.NewValidationError(shared.ReasonBatchNotFound, "Batch reference does not resolve")
	}
	if !action.IsValid() {
		return nil, shared.NewValidationError(shared.ReasonInvalidAction, "Unknown disposition action")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError(shared.ReasonInvalidQuantity, "Quantity affected must be positive")
	}
	if documentedBy == uuid.Nil {
		return nil, shared.NewValidationError(shared.ReasonMissingUser, "Documenting user is required")
	}

	var expirySnapshot *time.Time
	if batch.ExpiryDate != nil {
		e := *batch.ExpiryDate
		expirySnapshot = &e
	}

	return &DispositionRecord{
		BaseEntity:         shared.NewBaseEntity(),
		ReagentID:          batch.ReagentID,
		BatchID:            batch.ID,
		ReagentName:        reagentName,
		BatchNumber:        batch.BatchNumber,
		OriginalExpiryDate: expirySnapshot,
		ActionTaken:        action,
		QuantityAffected:   quantity,
		ActionNotes:        notes,
		DocumentedAt:       time.Now(),
		DocumentedBy:       documentedBy,
		DocumentedByName:   documentedByName,
		IdempotencyKey:     idempotencyKey,
	}, nil
}
