package catalog

import (
	"context"
	"errors"

	"github.com/bloodbank/backend/internal/domain/catalog"
	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/bloodbank/backend/internal/domain/stock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ReagentService manages reagent master data and its stock projection
type ReagentService struct {
	reagentRepo    catalog.ReagentRepository
	batchRepo      stock.ReagentBatchRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewReagentService creates a new ReagentService
func NewReagentService(
	reagentRepo catalog.ReagentRepository,
	batchRepo stock.ReagentBatchRepository,
	logger *zap.Logger,
) *ReagentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReagentService{
		reagentRepo: reagentRepo,
		batchRepo:   batchRepo,
		logger:      logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *ReagentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// CreateReagent creates a new reagent catalog entry
func (s *ReagentService) CreateReagent(ctx context.Context, req CreateReagentRequest) (*ReagentResponse, error) {
	existing, err := s.reagentRepo.FindByCatalogNumber(ctx, req.CatalogNumber)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	reagent, err := catalog.NewReagent(req.Name, req.CatalogNumber, req.Category, req.Unit)
	if err != nil {
		return nil, err
	}
	if req.SupplierID != nil {
		reagent.AssignSupplier(*req.SupplierID)
	}
	if !req.MinQuantity.IsZero() {
		if err := reagent.SetMinQuantity(req.MinQuantity); err != nil {
			return nil, err
		}
	}

	if err := s.reagentRepo.Save(ctx, reagent); err != nil {
		return nil, err
	}
	s.publishEvents(ctx, reagent)

	s.logger.Info("reagent created",
		zap.String("reagent_id", reagent.ID.String()),
		zap.String("catalog_number", reagent.CatalogNumber))

	resp := ToReagentResponse(reagent)
	return &resp, nil
}

// UpdateReagent updates reagent master data
func (s *ReagentService) UpdateReagent(ctx context.Context, id uuid.UUID, req UpdateReagentRequest) (*ReagentResponse, error) {
	reagent, err := s.reagentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, shared.NewDomainError("INVALID_NAME", "Reagent name cannot be empty")
		}
		reagent.Name = *req.Name
	}
	if req.Category != nil {
		reagent.Category = *req.Category
	}
	if req.Unit != nil {
		reagent.Unit = *req.Unit
	}
	if req.SupplierID != nil {
		reagent.AssignSupplier(*req.SupplierID)
	}
	if req.MinQuantity != nil {
		if err := reagent.SetMinQuantity(*req.MinQuantity); err != nil {
			return nil, err
		}
	}

	if err := s.reagentRepo.SaveWithLock(ctx, reagent); err != nil {
		return nil, err
	}

	resp := ToReagentResponse(reagent)
	return &resp, nil
}

// GetReagent returns one reagent by ID
func (s *ReagentService) GetReagent(ctx context.Context, id uuid.UUID) (*ReagentResponse, error) {
	reagent, err := s.reagentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToReagentResponse(reagent)
	return &resp, nil
}

// ListReagents returns reagents matching the filter
func (s *ReagentService) ListReagents(ctx context.Context, filter shared.Filter) (*shared.Paginated[ReagentResponse], error) {
	reagents, err := s.reagentRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.reagentRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ReagentResponse, 0, len(reagents))
	for i := range reagents {
		items = append(items, ToReagentResponse(&reagents[i]))
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.Limit())
	return &result, nil
}

// ListLowStock returns reagents whose projection is low or out of stock
func (s *ReagentService) ListLowStock(ctx context.Context, filter shared.Filter) ([]ReagentResponse, error) {
	reagents, err := s.reagentRepo.FindLowStock(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]ReagentResponse, 0, len(reagents))
	for i := range reagents {
		items = append(items, ToReagentResponse(&reagents[i]))
	}
	return items, nil
}

// RecomputeAggregate refreshes the reagent's cached stock projection
// from its batch set
func (s *ReagentService) RecomputeAggregate(ctx context.Context, id uuid.UUID) (*ReagentResponse, error) {
	reagent, err := s.reagentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	total, err := s.batchRepo.SumQuantityByReagent(ctx, id)
	if err != nil {
		return nil, shared.NewAggregationWarning(id.String(), err)
	}
	active, err := s.batchRepo.CountActiveByReagent(ctx, id)
	if err != nil {
		return nil, shared.NewAggregationWarning(id.String(), err)
	}

	reagent.ApplyAggregate(total, int(active))
	if err := s.reagentRepo.SaveWithLock(ctx, reagent); err != nil {
		return nil, shared.NewAggregationWarning(id.String(), err)
	}
	s.publishEvents(ctx, reagent)

	resp := ToReagentResponse(reagent)
	return &resp, nil
}

func (s *ReagentService) publishEvents(ctx context.Context, reagent *catalog.Reagent) {
	if s.eventPublisher == nil {
		return
	}
	events := reagent.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("event publish failed", zap.Error(err))
	}
	reagent.ClearDomainEvents()
}
