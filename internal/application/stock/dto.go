package stock

import (
	"time"

	"github.com/bloodbank/backend/internal/domain/expiry"
	"github.com/bloodbank/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordDispositionRequest represents a request to document a
// disposition action on a batch
type RecordDispositionRequest struct {
	BatchID        uuid.UUID       `json:"batch_id" binding:"required"`
	Action         string          `json:"action" binding:"required,oneof=disposed other_use consumed_by_expiry"`
	Quantity       decimal.Decimal `json:"quantity" binding:"required"`
	Notes          string          `json:"notes"`
	IdempotencyKey string          `json:"idempotency_key"`
}

// DispositionResponse represents the outcome of a disposition
type DispositionResponse struct {
	RecordID         uuid.UUID       `json:"record_id"`
	BatchID          uuid.UUID       `json:"batch_id"`
	ReagentID        uuid.UUID       `json:"reagent_id"`
	ActionTaken      string          `json:"action_taken"`
	QuantityAffected decimal.Decimal `json:"quantity_affected"`
	NewQuantity      decimal.Decimal `json:"new_quantity"`
	NewStatus        string          `json:"new_status"`
	TransactionType  string          `json:"transaction_type"`
	Duplicate        bool            `json:"duplicate"`
	Warnings         []string        `json:"warnings,omitempty"`
}

// DispositionRecordResponse represents an audit record in API responses
type DispositionRecordResponse struct {
	ID                 uuid.UUID       `json:"id"`
	ReagentID          uuid.UUID       `json:"reagent_id"`
	BatchID            uuid.UUID       `json:"batch_id"`
	ReagentName        string          `json:"reagent_name"`
	BatchNumber        string          `json:"batch_number"`
	OriginalExpiryDate *time.Time      `json:"original_expiry_date"`
	ActionTaken        string          `json:"action_taken"`
	QuantityAffected   decimal.Decimal `json:"quantity_affected"`
	ActionNotes        string          `json:"action_notes"`
	DocumentedAt       time.Time       `json:"documented_at"`
	DocumentedBy       uuid.UUID       `json:"documented_by"`
	DocumentedByName   string          `json:"documented_by_name"`
}

// ToDispositionRecordResponse converts a record to its response form
func ToDispositionRecordResponse(r *stock.DispositionRecord) DispositionRecordResponse {
	return DispositionRecordResponse{
		ID:                 r.ID,
		ReagentID:          r.ReagentID,
		BatchID:            r.BatchID,
		ReagentName:        r.ReagentName,
		BatchNumber:        r.BatchNumber,
		OriginalExpiryDate: r.OriginalExpiryDate,
		ActionTaken:        r.ActionTaken.String(),
		QuantityAffected:   r.QuantityAffected,
		ActionNotes:        r.ActionNotes,
		DocumentedAt:       r.DocumentedAt,
		DocumentedBy:       r.DocumentedBy,
		DocumentedByName:   r.DocumentedByName,
	}
}

// RegisterBatchRequest represents a delivery intake for one batch
type RegisterBatchRequest struct {
	ReagentID         uuid.UUID       `json:"reagent_id" binding:"required"`
	BatchNumber       string          `json:"batch_number" binding:"required"`
	ExpiryDate        *time.Time      `json:"expiry_date"`
	Quantity          decimal.Decimal `json:"quantity" binding:"required"`
	StorageLocation   string          `json:"storage_location"`
	StorageConditions string          `json:"storage_conditions"`
	Notes             string          `json:"notes"`
	Activate          bool            `json:"activate"`
}

// BatchResponse represents a batch in API responses
type BatchResponse struct {
	ID                uuid.UUID       `json:"id"`
	ReagentID         uuid.UUID       `json:"reagent_id"`
	BatchNumber       string          `json:"batch_number"`
	ExpiryDate        *time.Time      `json:"expiry_date"`
	InitialQuantity   decimal.Decimal `json:"initial_quantity"`
	CurrentQuantity   decimal.Decimal `json:"current_quantity"`
	Status            string          `json:"status"`
	StorageLocation   string          `json:"storage_location"`
	StorageConditions string          `json:"storage_conditions"`
	QCStatus          string          `json:"qc_status"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
	Version           int             `json:"version"`
}

// ToBatchResponse converts a batch to its response form
func ToBatchResponse(b *stock.ReagentBatch) BatchResponse {
	return BatchResponse{
		ID:                b.ID,
		ReagentID:         b.ReagentID,
		BatchNumber:       b.BatchNumber,
		ExpiryDate:        b.ExpiryDate,
		InitialQuantity:   b.InitialQuantity,
		CurrentQuantity:   b.CurrentQuantity,
		Status:            b.Status.String(),
		StorageLocation:   b.StorageLocation,
		StorageConditions: b.StorageConditions,
		QCStatus:          b.QCStatus,
		CreatedAt:         b.CreatedAt,
		UpdatedAt:         b.UpdatedAt,
		Version:           b.Version,
	}
}

// WithdrawStockRequest represents a FEFO withdrawal for a reagent
type WithdrawStockRequest struct {
	ReagentID uuid.UUID       `json:"reagent_id" binding:"required"`
	Quantity  decimal.Decimal `json:"quantity" binding:"required"`
	Shipment  bool            `json:"shipment"`
	Notes     string          `json:"notes"`
}

// WithdrawalResponse represents the outcome of a FEFO withdrawal
type WithdrawalResponse struct {
	ReagentID uuid.UUID           `json:"reagent_id"`
	Quantity  decimal.Decimal     `json:"quantity"`
	Picks     []BatchPickResponse `json:"picks"`
	Warnings  []string            `json:"warnings,omitempty"`
}

// BatchPickResponse is one slice of a withdrawal plan in API responses
type BatchPickResponse struct {
	BatchID     uuid.UUID       `json:"batch_id"`
	BatchNumber string          `json:"batch_number"`
	ExpiryDate  *time.Time      `json:"expiry_date"`
	Quantity    decimal.Decimal `json:"quantity"`
}

// ReconcileBatchRequest represents an inventory-count correction
type ReconcileBatchRequest struct {
	// BatchID may come from the request path rather than the body
	BatchID         uuid.UUID       `json:"batch_id"`
	CountedQuantity decimal.Decimal `json:"counted_quantity"`
	Notes           string          `json:"notes"`
}

// ReconcileResponse represents the outcome of a count reconciliation
type ReconcileResponse struct {
	BatchID     uuid.UUID       `json:"batch_id"`
	Delta       decimal.Decimal `json:"delta"`
	NewQuantity decimal.Decimal `json:"new_quantity"`
	NewStatus   string          `json:"new_status"`
	Warnings    []string        `json:"warnings,omitempty"`
}

// TransactionResponse represents a ledger entry in API responses
type TransactionResponse struct {
	ID              uuid.UUID       `json:"id"`
	ReagentID       uuid.UUID       `json:"reagent_id"`
	BatchID         *uuid.UUID      `json:"batch_id"`
	BatchNumber     string          `json:"batch_number"`
	ExpiryDate      *time.Time      `json:"expiry_date"`
	TransactionType string          `json:"transaction_type"`
	Quantity        decimal.Decimal `json:"quantity"`
	Notes           string          `json:"notes"`
	RecordedBy      *uuid.UUID      `json:"recorded_by"`
	TransactionDate time.Time       `json:"transaction_date"`
}

// ToTransactionResponse converts a ledger entry to its response form
func ToTransactionResponse(t *stock.StockTransaction) TransactionResponse {
	return TransactionResponse{
		ID:              t.ID,
		ReagentID:       t.ReagentID,
		BatchID:         t.BatchID,
		BatchNumber:     t.BatchNumber,
		ExpiryDate:      t.ExpiryDate,
		TransactionType: t.TransactionType.String(),
		Quantity:        t.Quantity,
		Notes:           t.Notes,
		RecordedBy:      t.RecordedBy,
		TransactionDate: t.TransactionDate,
	}
}

// ClassifiedBatchResponse represents a batch with its expiry classification
type ClassifiedBatchResponse struct {
	Batch          BatchResponse `json:"batch"`
	ReagentName    string        `json:"reagent_name"`
	Category       string        `json:"category"`
	Status         string        `json:"status"`
	Priority       string        `json:"priority"`
	DaysUntil      int           `json:"days_until_expiry"`
	IsUrgent       bool          `json:"is_urgent"`
	IsWarning      bool          `json:"is_warning"`
	NeedsAction    bool          `json:"needs_action"`
	HasKnownExpiry bool          `json:"has_known_expiry"`
}

// ExpiryDashboardResponse represents the expiry overview
type ExpiryDashboardResponse struct {
	ReferenceDate string                    `json:"reference_date"`
	Batches       []ClassifiedBatchResponse `json:"batches"`
	Summary       expiry.Summary            `json:"summary"`
}
