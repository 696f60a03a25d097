package catalog

import (
	"time"

	"github.com/bloodbank/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateReagentRequest represents a request to create a reagent
type CreateReagentRequest struct {
	Name          string          `json:"name" binding:"required"`
	CatalogNumber string          `json:"catalog_number" binding:"required"`
	Category      string          `json:"category"`
	Unit          string          `json:"unit"`
	SupplierID    *uuid.UUID      `json:"supplier_id"`
	MinQuantity   decimal.Decimal `json:"min_quantity"`
}

// UpdateReagentRequest represents a request to update reagent master data
type UpdateReagentRequest struct {
	Name        *string          `json:"name"`
	Category    *string          `json:"category"`
	Unit        *string          `json:"unit"`
	SupplierID  *uuid.UUID       `json:"supplier_id"`
	MinQuantity *decimal.Decimal `json:"min_quantity"`
}

// ReagentResponse represents a reagent in API responses
type ReagentResponse struct {
	ID                      uuid.UUID       `json:"id"`
	Name                    string          `json:"name"`
	CatalogNumber           string          `json:"catalog_number"`
	Category                string          `json:"category"`
	Unit                    string          `json:"unit"`
	SupplierID              *uuid.UUID      `json:"supplier_id"`
	MinQuantity             decimal.Decimal `json:"min_quantity"`
	TotalQuantityAllBatches decimal.Decimal `json:"total_quantity_all_batches"`
	ActiveBatchesCount      int             `json:"active_batches_count"`
	CurrentStockStatus      string          `json:"current_stock_status"`
	CreatedAt               time.Time       `json:"created_at"`
	UpdatedAt               time.Time       `json:"updated_at"`
	Version                 int             `json:"version"`
}

// ToReagentResponse converts a reagent to its response form
func ToReagentResponse(r *catalog.Reagent) ReagentResponse {
	return ReagentResponse{
		ID:                      r.ID,
		Name:                    r.Name,
		CatalogNumber:           r.CatalogNumber,
		Category:                r.Category,
		Unit:                    r.Unit,
		SupplierID:              r.SupplierID,
		MinQuantity:             r.MinQuantity,
		TotalQuantityAllBatches: r.TotalQuantityAllBatches,
		ActiveBatchesCount:      r.ActiveBatchesCount,
		CurrentStockStatus:      r.CurrentStockStatus.String(),
		CreatedAt:               r.CreatedAt,
		UpdatedAt:               r.UpdatedAt,
		Version:                 r.Version,
	}
}

// CreateSupplierRequest represents a request to create a supplier
type CreateSupplierRequest struct {
	Name     string                 `json:"name" binding:"required"`
	Email    string                 `json:"email" binding:"omitempty,email"`
	Phone    string                 `json:"phone"`
	Address  string                 `json:"address"`
	Contacts []SupplierContactInput `json:"contacts"`
}

// SupplierContactInput represents a contact person in requests
type SupplierContactInput struct {
	Name  string `json:"name" binding:"required"`
	Role  string `json:"role"`
	Email string `json:"email" binding:"omitempty,email"`
	Phone string `json:"phone"`
}

// SupplierResponse represents a supplier in API responses
type SupplierResponse struct {
	ID        uuid.UUID                 `json:"id"`
	Name      string                    `json:"name"`
	Email     string                    `json:"email"`
	Phone     string                    `json:"phone"`
	Address   string                    `json:"address"`
	Active    bool                      `json:"active"`
	Contacts  []SupplierContactResponse `json:"contacts"`
	CreatedAt time.Time                 `json:"created_at"`
	UpdatedAt time.Time                 `json:"updated_at"`
}

// SupplierContactResponse represents a contact person in API responses
type SupplierContactResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Role  string    `json:"role"`
	Email string    `json:"email"`
	Phone string    `json:"phone"`
}

// ToSupplierResponse converts a supplier to its response form
func ToSupplierResponse(s *catalog.Supplier) SupplierResponse {
	contacts := make([]SupplierContactResponse, 0, len(s.Contacts))
	for _, c := range s.Contacts {
		contacts = append(contacts, SupplierContactResponse{
			ID:    c.ID,
			Name:  c.Name,
			Role:  c.Role,
			Email: c.Email,
			Phone: c.Phone,
		})
	}
	return SupplierResponse{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		Phone:     s.Phone,
		Address:   s.Address,
		Active:    s.Active,
		Contacts:  contacts,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}
