package catalog

import (
	"context"

	"github.com/bloodbank/backend/internal/domain/catalog"
	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SupplierService manages the supplier directory
type SupplierService struct {
	supplierRepo catalog.SupplierRepository
	logger       *zap.Logger
}

// NewSupplierService creates a new SupplierService
func NewSupplierService(supplierRepo catalog.SupplierRepository, logger *zap.Logger) *SupplierService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SupplierService{supplierRepo: supplierRepo, logger: logger}
}

// CreateSupplier creates a supplier together with its contacts
func (s *SupplierService) CreateSupplier(ctx context.Context, req CreateSupplierRequest) (*SupplierResponse, error) {
	supplier, err := catalog.NewSupplier(req.Name, req.Email, req.Phone, req.Address)
	if err != nil {
		return nil, err
	}
	for _, c := range req.Contacts {
		if err := supplier.AddContact(c.Name, c.Role, c.Email, c.Phone); err != nil {
			return nil, err
		}
	}

	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}

	s.logger.Info("supplier created",
		zap.String("supplier_id", supplier.ID.String()),
		zap.String("name", supplier.Name))

	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// AddContact adds a contact person to an existing supplier
func (s *SupplierService) AddContact(ctx context.Context, supplierID uuid.UUID, req SupplierContactInput) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	if err := supplier.AddContact(req.Name, req.Role, req.Email, req.Phone); err != nil {
		return nil, err
	}
	if err := s.supplierRepo.Save(ctx, supplier); err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// DeactivateSupplier marks a supplier as no longer in use
func (s *SupplierService) DeactivateSupplier(ctx context.Context, supplierID uuid.UUID) error {
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return err
	}
	supplier.Deactivate()
	return s.supplierRepo.Save(ctx, supplier)
}

// GetSupplier returns one supplier by ID
func (s *SupplierService) GetSupplier(ctx context.Context, supplierID uuid.UUID) (*SupplierResponse, error) {
	supplier, err := s.supplierRepo.FindByID(ctx, supplierID)
	if err != nil {
		return nil, err
	}
	resp := ToSupplierResponse(supplier)
	return &resp, nil
}

// ListSuppliers returns suppliers matching the filter
func (s *SupplierService) ListSuppliers(ctx context.Context, filter shared.Filter, activeOnly bool) (*shared.Paginated[SupplierResponse], error) {
	var suppliers []catalog.Supplier
	var err error
	if activeOnly {
		suppliers, err = s.supplierRepo.FindActive(ctx, filter)
	} else {
		suppliers, err = s.supplierRepo.FindAll(ctx, filter)
	}
	if err != nil {
		return nil, err
	}
	total, err := s.supplierRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]SupplierResponse, 0, len(suppliers))
	for i := range suppliers {
		items = append(items, ToSupplierResponse(&suppliers[i]))
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.Limit())
	return &result, nil
}
