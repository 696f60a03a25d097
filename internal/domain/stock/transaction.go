package stock

import (
	"time"

	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TransactionType represents the type of stock ledger entry
type TransactionType string

const (
	// TransactionTypeDelivery records stock received from a supplier shipment
	TransactionTypeDelivery TransactionType = "delivery"
	// TransactionTypeWithdrawal records routine consumption
	TransactionTypeWithdrawal TransactionType = "withdrawal"
	// TransactionTypeDisposal records discarded stock
	TransactionTypeDisposal TransactionType = "disposal"
	// TransactionTypeOtherUseExpired records expired stock diverted to another use
	TransactionTypeOtherUseExpired TransactionType = "other_use_expired"
	// TransactionTypeCountUpdate records an inventory-count reconciliation
	TransactionTypeCountUpdate TransactionType = "count_update"
	// TransactionTypeShipmentOut records stock shipped to another site
	TransactionTypeShipmentOut TransactionType = "shipment_out"
)

// String returns the string representation of TransactionType
func (t TransactionType) String() string {
	return string(t)
}

// IsValid returns true if the transaction type is valid
func (t TransactionType) IsValid() bool {
	switch t {
	case TransactionTypeDelivery, TransactionTypeWithdrawal,
		TransactionTypeDisposal, TransactionTypeOtherUseExpired,
		TransactionTypeCountUpdate, TransactionTypeShipmentOut:
		return true
	}
	return false
}

// IsRemoval returns true if entries of this type must carry a negative quantity
func (t TransactionType) IsRemoval() bool {
	switch t {
	case TransactionTypeWithdrawal, TransactionTypeDisposal,
		TransactionTypeOtherUseExpired, TransactionTypeShipmentOut:
		return true
	}
	return false
}

// StockTransaction is an append-only ledger entry recorded as a side
// effect of any quantity-affecting operation. Quantity is signed:
// negative for removals, positive for receipts. Count updates may carry
// either sign. Entries are never updated or deleted; corrections are
// made with new entries.
type StockTransaction struct {
	shared.BaseEntity
	ReagentID       uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_tx_reagent_time,priority:1"`
	BatchID         *uuid.UUID      `gorm:"type:uuid;index"`
	BatchNumber     string          `gorm:"type:varchar(100)"`
	ExpiryDate      *time.Time      `gorm:"type:date"`
	TransactionType TransactionType `gorm:"type:varchar(30);not null;index"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"` // Signed: negative for removals
	Notes           string          `gorm:"type:varchar(500)"`
	RecordedBy      *uuid.UUID      `gorm:"type:uuid"`
	TransactionDate time.Time       `gorm:"type:timestamptz;not null;index:idx_stock_tx_reagent_time,priority:2"`
}

// TableName returns the table name for GORM
func (StockTransaction) TableName() string {
	return "stock_transactions"
}

// NewStockTransaction creates a new ledger entry. The quantity sign
// must be consistent with the direction of the transaction type.
func NewStockTransaction(
	reagentID uuid.UUID,
	txType TransactionType,
	quantity decimal.Decimal,
	notes string,
) (*StockTransaction, error) {
	if reagentID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_REAGENT", "Reagent ID cannot be empty")
	}
	if !txType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TRANSACTION_TYPE", "Invalid transaction type")
	}
	if quantity.IsZero() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be zero")
	}
	if txType.IsRemoval() && !quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Removal entries must carry a negative quantity")
	}
	if txType == TransactionTypeDelivery && quantity.IsNegative() {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Delivery entries must carry a positive quantity")
	}

	return &StockTransaction{
		BaseEntity:      shared.NewBaseEntity(),
		ReagentID:       reagentID,
		TransactionType: txType,
		Quantity:        quantity,
		Notes:           notes,
		TransactionDate: time.Now(),
	}, nil
}

// WithBatch attaches batch identity to the entry
func (t *StockTransaction) WithBatch(batchID uuid.UUID, batchNumber string, expiryDate *time.Time) *StockTransaction {
	t.BatchID = &batchID
	t.BatchNumber = batchNumber
	if expiryDate != nil {
		e := *expiryDate
		t.ExpiryDate = &e
	}
	return t
}

// WithRecordedBy sets the user who triggered the entry
func (t *StockTransaction) WithRecordedBy(userID uuid.UUID) *StockTransaction {
	t.RecordedBy = &userID
	return t
}

// WithTransactionDate overrides the transaction timestamp
func (t *StockTransaction) WithTransactionDate(date time.Time) *StockTransaction {
	t.TransactionDate = date
	return t
}

// IsRemoval returns true if this entry removed stock
func (t *StockTransaction) IsRemoval() bool {
	return t.Quantity.IsNegative()
}
