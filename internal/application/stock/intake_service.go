package stock

import (
	"context"
	"errors"

	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/bloodbank/backend/internal/domain/stock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IntakeService registers delivered batches and writes the matching
// delivery ledger entries.
type IntakeService struct {
	batchRepo      stock.ReagentBatchRepository
	txScope        TransactionScope
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewIntakeService creates a new IntakeService
func NewIntakeService(
	batchRepo stock.ReagentBatchRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *IntakeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &IntakeService{
		batchRepo: batchRepo,
		txScope:   txScope,
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *IntakeService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// RegisterBatch records one delivered batch. The batch row and the
// delivery ledger entry are written in one transaction.
func (s *IntakeService) RegisterBatch(ctx context.Context, req RegisterBatchRequest, actor stock.Actor) (*BatchResponse, error) {
	if !actor.IsPresent() {
		return nil, shared.NewValidationError(shared.ReasonMissingUser, "An authenticated user is required")
	}

	existing, err := s.batchRepo.FindByBatchNumber(ctx, req.ReagentID, req.BatchNumber)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}
	if existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	batch, err := stock.NewReagentBatch(
		req.ReagentID, req.BatchNumber, req.ExpiryDate,
		req.Quantity, req.StorageLocation, req.StorageConditions,
	)
	if err != nil {
		return nil, err
	}
	if req.Activate {
		if err := batch.Activate(); err != nil {
			return nil, err
		}
	}

	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := repos.BatchRepo().Save(ctx, batch); err != nil {
			return err
		}
		ledgerEntry, err := stock.NewStockTransaction(
			req.ReagentID, stock.TransactionTypeDelivery, req.Quantity, req.Notes,
		)
		if err != nil {
			return err
		}
		ledgerEntry.WithBatch(batch.ID, batch.BatchNumber, batch.ExpiryDate).
			WithRecordedBy(actor.ID)
		return repos.TransactionRepo().Create(ctx, ledgerEntry)
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("batch registered",
		zap.String("reagent_id", req.ReagentID.String()),
		zap.String("batch_number", req.BatchNumber),
		zap.String("quantity", req.Quantity.String()))

	if s.eventPublisher != nil {
		if err := s.eventPublisher.Publish(ctx, batch.GetDomainEvents()...); err != nil {
			s.logger.Warn("event publish failed", zap.Error(err))
		}
		batch.ClearDomainEvents()
	}

	resp := ToBatchResponse(batch)
	return &resp, nil
}

// ActivateBatch releases an incoming batch for use
func (s *IntakeService) ActivateBatch(ctx context.Context, batchID uuid.UUID) (*BatchResponse, error) {
	batch, err := s.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	if err := batch.Activate(); err != nil {
		return nil, err
	}
	if err := s.batchRepo.SaveWithLock(ctx, batch); err != nil {
		return nil, err
	}
	resp := ToBatchResponse(batch)
	return &resp, nil
}

// GetBatch returns one batch by ID
func (s *IntakeService) GetBatch(ctx context.Context, batchID uuid.UUID) (*BatchResponse, error) {
	batch, err := s.batchRepo.FindByID(ctx, batchID)
	if err != nil {
		return nil, err
	}
	resp := ToBatchResponse(batch)
	return &resp, nil
}

// ListBatchesByReagent returns a reagent's batches
func (s *IntakeService) ListBatchesByReagent(ctx context.Context, reagentID uuid.UUID, filter shared.Filter) ([]BatchResponse, error) {
	batches, err := s.batchRepo.FindByReagent(ctx, reagentID, filter)
	if err != nil {
		return nil, err
	}
	items := make([]BatchResponse, 0, len(batches))
	for i := range batches {
		items = append(items, ToBatchResponse(&batches[i]))
	}
	return items, nil
}
