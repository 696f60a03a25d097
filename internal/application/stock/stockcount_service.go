package stock

import (
	"context"

	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/bloodbank/backend/internal/domain/stock"
	"go.uber.org/zap"
)

// StockCountService reconciles recorded batch quantities against
// physical counts. Every correction leaves a signed count_update entry
// in the ledger, so counted drift is as auditable as any other movement.
type StockCountService struct {
	batchRepo stock.ReagentBatchRepository
	txScope   TransactionScope
	logger    *zap.Logger
}

// NewStockCountService creates a new StockCountService
func NewStockCountService(
	batchRepo stock.ReagentBatchRepository,
	txScope TransactionScope,
	logger *zap.Logger,
) *StockCountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StockCountService{
		batchRepo: batchRepo,
		txScope:   txScope,
		logger:    logger,
	}
}

// ReconcileBatch adjusts one batch to its counted quantity. A count
// matching the recorded quantity is a no-op and writes nothing.
func (s *StockCountService) ReconcileBatch(ctx context.Context, req ReconcileBatchRequest, actor stock.Actor) (*ReconcileResponse, error) {
	if !actor.IsPresent() {
		return nil, shared.NewValidationError(shared.ReasonMissingUser, "An authenticated user is required")
	}

	batch, err := s.batchRepo.FindByID(ctx, req.BatchID)
	if err != nil {
		return nil, err
	}

	if req.CountedQuantity.Equal(batch.CurrentQuantity) {
		return &ReconcileResponse{
			BatchID:     batch.ID,
			Delta:       req.CountedQuantity.Sub(batch.CurrentQuantity),
			NewQuantity: batch.CurrentQuantity,
			NewStatus:   batch.Status.String(),
		}, nil
	}

	var resp *ReconcileResponse
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		delta, err := batch.Reconcile(req.CountedQuantity)
		if err != nil {
			return err
		}
		if err := repos.BatchRepo().SaveWithLock(ctx, batch); err != nil {
			return err
		}

		ledgerEntry, err := stock.NewStockTransaction(batch.ReagentID, stock.TransactionTypeCountUpdate, delta, req.Notes)
		if err != nil {
			return err
		}
		ledgerEntry.WithBatch(batch.ID, batch.BatchNumber, batch.ExpiryDate).
			WithRecordedBy(actor.ID)
		if err := repos.TransactionRepo().Create(ctx, ledgerEntry); err != nil {
			return err
		}

		resp = &ReconcileResponse{
			BatchID:     batch.ID,
			Delta:       delta,
			NewQuantity: batch.CurrentQuantity,
			NewStatus:   batch.Status.String(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("batch reconciled",
		zap.String("batch_id", batch.ID.String()),
		zap.String("delta", resp.Delta.String()))
	return resp, nil
}
