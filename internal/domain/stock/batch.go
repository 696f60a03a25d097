package stock

import (
	"time"

	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BatchStatus represents the lifecycle state of a reagent batch
type BatchStatus string

const (
	// BatchStatusIncoming means the batch is registered but not yet released for use
	BatchStatusIncoming BatchStatus = "incoming"
	// BatchStatusActive means the batch is in use
	BatchStatusActive BatchStatus = "active"
	// BatchStatusExpired means the batch passed its expiry date with stock remaining
	BatchStatusExpired BatchStatus = "expired"
	// BatchStatusConsumed means the batch was used up
	BatchStatusConsumed BatchStatus = "consumed"
	// BatchStatusDisposed means the batch was discarded
	BatchStatusDisposed BatchStatus = "disposed"
	// BatchStatusReturned means the batch was sent back to the supplier
	BatchStatusReturned BatchStatus = "returned"
	// BatchStatusRecalled means the batch was recalled by the supplier
	BatchStatusRecalled BatchStatus = "recalled"
)

// String returns the string representation of BatchStatus
func (s BatchStatus) String() string {
	return string(s)
}

// IsValid returns true if the batch status is valid
func (s BatchStatus) IsValid() bool {
	switch s {
	case BatchStatusIncoming, BatchStatusActive, BatchStatusExpired,
		BatchStatusConsumed, BatchStatusDisposed, BatchStatusReturned,
		BatchStatusRecalled:
		return true
	}
	return false
}

// IsTerminal returns true if the status ends the batch lifecycle.
// Terminal batches are retained for audit, never deleted.
func (s BatchStatus) IsTerminal() bool {
	switch s {
	case BatchStatusConsumed, BatchStatusDisposed, BatchStatusReturned, BatchStatusRecalled:
		return true
	}
	return false
}

// ReagentBatch is a received lot of a reagent, tracked separately for
// expiry and quantity. It is the aggregate root for all quantity
// mutations; the invariant 0 <= CurrentQuantity <= InitialQuantity
// holds at all times.
type ReagentBatch struct {
	shared.BaseAggregateRoot
	ReagentID         uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_batch_reagent_number,priority:1"`
	BatchNumber       string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_batch_reagent_number,priority:2"`
	ExpiryDate        *time.Time      `gorm:"type:date;index"`
	InitialQuantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Immutable after creation
	CurrentQuantity   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status            BatchStatus     `gorm:"type:varchar(20);not null;index"`
	StorageLocation   string          `gorm:"type:varchar(100)"`
	StorageConditions string          `gorm:"type:varchar(255)"`
	QCStatus          string          `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (ReagentBatch) TableName() string {
	return "reagent_batches"
}

// NewReagentBatch registers a batch received from a delivery or manual
// registration. The initial quantity is fixed at creation.
func NewReagentBatch(
	reagentID uuid.UUID,
	batchNumber string,
	expiryDate *time.Time,
	quantity decimal.Decimal,
	storageLocation, storageConditions string,
) (*ReagentBatch, error) {
	if reagentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REAGENT", "Reagent ID cannot be empty")
	}
	if batchNumber == "" {
		return nil, shared.NewDomainError("INVALID_BATCH_NUMBER", "Batch number cannot be empty")
	}
	if quantity.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Initial quantity must be positive")
	}

	b := &ReagentBatch{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ReagentID:         reagentID,
		BatchNumber:       batchNumber,
		ExpiryDate:        expiryDate,
		InitialQuantity:   quantity,
		CurrentQuantity:   quantity,
		Status:            BatchStatusIncoming,
		StorageLocation:   storageLocation,
		StorageConditions: storageConditions,
	}
	b.AddDomainEvent(NewBatchReceivedEvent(b))
	return b, nil
}

// Activate releases an incoming batch for use
func (b *ReagentBatch) Activate() error {
	if b.Status != BatchStatusIncoming {
		return shared.NewDomainError("INVALID_STATE", "Only incoming batches can be activated")
	}
	b.Status = BatchStatusActive
	b.touch()
	return nil
}

// MarkExpired flags a batch whose expiry date has passed while stock
// remains. Terminal batches are left alone.
func (b *ReagentBatch) MarkExpired() error {
	if b.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Batch lifecycle has already ended")
	}
	b.Status = BatchStatusExpired
	b.touch()
	return nil
}

// MarkRecalled closes the batch out following a supplier recall
func (b *ReagentBatch) MarkRecalled() error {
	if b.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Batch lifecycle has already ended")
	}
	b.Status = BatchStatusRecalled
	b.touch()
	return nil
}

// MarkReturned closes the batch out after it was sent back to the supplier
func (b *ReagentBatch) MarkReturned() error {
	if b.Status.IsTerminal() {
		return shared.NewDomainError("INVALID_STATE", "Batch lifecycle has already ended")
	}
	b.Status = BatchStatusReturned
	b.touch()
	return nil
}

// SetQCStatus records the quality-control verdict for the batch
func (b *ReagentBatch) SetQCStatus(qcStatus string) {
	b.QCStatus = qcStatus
	b.touch()
}

// HasStock returns true if the batch still holds quantity
func (b *ReagentBatch) HasStock() bool {
	return b.CurrentQuantity.GreaterThan(decimal.Zero)
}

// IsUsable returns true if quantity can be withdrawn from the batch
func (b *ReagentBatch) IsUsable() bool {
	return b.Status == BatchStatusActive && b.HasStock()
}

// IsExpiredAt returns true if the batch expiry date is before the given
// reference date (calendar comparison, time of day ignored)
func (b *ReagentBatch) IsExpiredAt(reference time.Time) bool {
	if b.ExpiryDate == nil {
		return false
	}
	e := *b.ExpiryDate
	expiry := time.Date(e.Year(), e.Month(), e.Day(), 0, 0, 0, 0, reference.Location())
	ref := time.Date(reference.Year(), reference.Month(), reference.Day(), 0, 0, 0, 0, reference.Location())
	return expiry.Before(ref)
}

// Withdraw removes quantity from the batch for routine use or shipment.
// Fails if the batch is not usable or holds insufficient stock.
func (b *ReagentBatch) Withdraw(quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Withdrawal quantity must be positive")
	}
	if !b.IsUsable() {
		return shared.ErrInvalidState
	}
	if quantity.GreaterThan(b.CurrentQuantity) {
		return shared.ErrInsufficientStock
	}

	b.CurrentQuantity = b.CurrentQuantity.Sub(quantity)
	if b.CurrentQuantity.IsZero() {
		b.Status = BatchStatusConsumed
	}
	b.touch()
	b.AddDomainEvent(NewStockWithdrawnEvent(b, quantity))
	return nil
}

// ApplyDisposition removes quantity as part of a disposition action.
// The new quantity is clamped at zero; when the batch is emptied its
// status becomes disposed for a disposal action and consumed otherwise.
// Callers must validate the action beforehand via ActionValidator.
func (b *ReagentBatch) ApplyDisposition(action DispositionAction, quantity decimal.Decimal) error {
	if quantity.LessThanOrEqual(decimal.Zero) {
		return shared.NewDomainError("INVALID_QUANTITY", "Disposition quantity must be positive")
	}
	if !action.IsValid() {
		return shared.NewDomainError("INVALID_ACTION", "Unknown disposition action")
	}

	newQuantity := b.CurrentQuantity.Sub(quantity)
	if newQuantity.IsNegative() {
		b.CurrentQuantity = decimal.Zero
	} else {
		b.CurrentQuantity = newQuantity
	}

	if newQuantity.LessThanOrEqual(decimal.Zero) {
		if action == ActionDisposed {
			b.Status = BatchStatusDisposed
		} else {
			b.Status = BatchStatusConsumed
		}
	}

	b.touch()
	b.AddDomainEvent(NewDispositionAppliedEvent(b, action, quantity))
	return nil
}

// Reconcile adjusts the batch to a counted quantity and returns the
// signed delta (counted minus recorded). Counts above the initial
// quantity are rejected to keep the batch invariant intact.
func (b *ReagentBatch) Reconcile(countedQuantity decimal.Decimal) (decimal.Decimal, error) {
	if countedQuantity.IsNegative() {
		return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Counted quantity cannot be negative")
	}
	if countedQuantity.GreaterThan(b.InitialQuantity) {
		return decimal.Zero, shared.NewDomainError("INVALID_QUANTITY", "Counted quantity cannot exceed the initial quantity")
	}
	if b.Status.IsTerminal() {
		return decimal.Zero, shared.NewDomainError("INVALID_STATE", "Batch lifecycle has already ended")
	}

	delta := countedQuantity.Sub(b.CurrentQuantity)
	b.CurrentQuantity = countedQuantity
	if b.CurrentQuantity.IsZero() {
		b.Status = BatchStatusConsumed
	}
	b.touch()
	b.AddDomainEvent(NewBatchReconciledEvent(b, delta))
	return delta, nil
}

func (b *ReagentBatch) touch() {
	b.UpdatedAt = time.Now()
	b.IncrementVersion()
}
