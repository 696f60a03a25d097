package stock

import (
	"context"
	"errors"

	"github.com/bloodbank/backend/internal/domain/catalog"
	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/bloodbank/backend/internal/domain/stock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Step names reported in partial-failure errors
const (
	StepValidate           = "validate"
	StepRecordAudit        = "record_audit"
	StepApplyToBatch       = "apply_to_batch"
	StepRecordTransaction  = "record_transaction"
	StepRecomputeAggregate = "recompute_aggregate"
)

// DispositionService documents disposition actions on expiring batches.
//
// The write sequence is: validate, append the audit record, then apply
// the batch decrement and the ledger entry in one transaction, then
// recompute the reagent projection. The audit record is written before
// the transactional part and is never rolled back: a record of the
// laboratory's intent must survive even when the stock update fails.
// Failures after the audit step surface as *shared.OperationError so
// callers can see exactly how far the operation got.
type DispositionService struct {
	batchRepo        stock.ReagentBatchRepository
	dispositionRepo  stock.DispositionRecordRepository
	reagentRepo      catalog.ReagentRepository
	txScope          TransactionScope
	validator        *stock.ActionValidator
	idempotencyStore shared.IdempotencyStore
	idempotencyCfg   shared.IdempotencyConfig
	eventPublisher   shared.EventPublisher
	logger           *zap.Logger
}

// NewDispositionService creates a new DispositionService
func NewDispositionService(
	batchRepo stock.ReagentBatchRepository,
	dispositionRepo stock.DispositionRecordRepository,
	reagentRepo catalog.ReagentRepository,
	txScope TransactionScope,
	validator *stock.ActionValidator,
	logger *zap.Logger,
) *DispositionService {
	if validator == nil {
		validator = stock.NewActionValidator(nil)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DispositionService{
		batchRepo:       batchRepo,
		dispositionRepo: dispositionRepo,
		reagentRepo:     reagentRepo,
		txScope:         txScope,
		validator:       validator,
		idempotencyCfg:  shared.IdempotencyConfig{},
		logger:          logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *DispositionService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SetIdempotencyStore enables fast duplicate detection via the given store
func (s *DispositionService) SetIdempotencyStore(store shared.IdempotencyStore, cfg shared.IdempotencyConfig) {
	s.idempotencyStore = store
	s.idempotencyCfg = cfg
}

// RecordDisposition validates and applies a disposition action.
//
// On retry with the same idempotency key the previously written record
// is returned with Duplicate set; nothing is written twice.
func (s *DispositionService) RecordDisposition(ctx context.Context, req RecordDispositionRequest, actor stock.Actor) (*DispositionResponse, error) {
	action := stock.DispositionAction(req.Action)

	// Duplicate retry short-circuits before any write.
	if req.IdempotencyKey != "" {
		if resp, ok := s.findDuplicate(ctx, req.IdempotencyKey); ok {
			return resp, nil
		}
	}

	batch, err := s.batchRepo.FindByID(ctx, req.BatchID)
	if err != nil && !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	if err := s.validator.Validate(batch, action, req.Quantity, actor); err != nil {
		return nil, err
	}

	reagent, err := s.reagentRepo.FindByID(ctx, batch.ReagentID)
	if err != nil {
		return nil, shared.NewOperationError(StepValidate, nil, err)
	}

	record, err := stock.NewDispositionRecord(
		batch, reagent.Name, action, req.Quantity, req.Notes,
		actor.ID, actor.DisplayName, req.IdempotencyKey,
	)
	if err != nil {
		return nil, err
	}

	// Audit record first. From here on there is no rollback of it.
	completed := []string{StepValidate}
	if err := s.dispositionRepo.Create(ctx, record); err != nil {
		return nil, shared.NewOperationError(StepRecordAudit, completed, err)
	}
	completed = append(completed, StepRecordAudit)

	if s.idempotencyStore != nil && s.idempotencyCfg.Enabled && req.IdempotencyKey != "" {
		if _, err := s.idempotencyStore.MarkProcessed(ctx, req.IdempotencyKey, s.idempotencyCfg.TTL); err != nil {
			s.logger.Warn("idempotency mark failed",
				zap.String("key", req.IdempotencyKey),
				zap.Error(err))
		}
	}

	// Batch decrement and ledger entry commit or roll back together.
	var txType stock.TransactionType
	err = s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		if err := batch.ApplyDisposition(action, req.Quantity); err != nil {
			return shared.NewOperationError(StepApplyToBatch, completed, err)
		}
		if err := repos.BatchRepo().SaveWithLock(ctx, batch); err != nil {
			return shared.NewOperationError(StepApplyToBatch, completed, err)
		}
		stepsSoFar := append(append([]string{}, completed...), StepApplyToBatch)

		txType = action.TransactionType()
		ledgerEntry, err := stock.NewStockTransaction(batch.ReagentID, txType, req.Quantity.Neg(), req.Notes)
		if err != nil {
			return shared.NewOperationError(StepRecordTransaction, stepsSoFar, err)
		}
		ledgerEntry.WithBatch(batch.ID, batch.BatchNumber, record.OriginalExpiryDate).
			WithRecordedBy(actor.ID)
		if err := repos.TransactionRepo().Create(ctx, ledgerEntry); err != nil {
			return shared.NewOperationError(StepRecordTransaction, stepsSoFar, err)
		}
		return nil
	})
	if err != nil {
		var opErr *shared.OperationError
		if errors.As(err, &opErr) {
			return nil, opErr
		}
		return nil, shared.NewOperationError(StepApplyToBatch, completed, err)
	}
	completed = append(completed, StepApplyToBatch, StepRecordTransaction)

	s.publishEvents(ctx, batch)

	resp := &DispositionResponse{
		RecordID:         record.ID,
		BatchID:          batch.ID,
		ReagentID:        batch.ReagentID,
		ActionTaken:      action.String(),
		QuantityAffected: req.Quantity,
		NewQuantity:      batch.CurrentQuantity,
		NewStatus:        batch.Status.String(),
		TransactionType:  txType.String(),
	}

	// The projection refresh is best-effort; a failure leaves the reagent
	// summary stale, not the ledger wrong.
	if err := s.recomputeAggregate(ctx, reagent); err != nil {
		warning := shared.NewAggregationWarning(reagent.ID.String(), err)
		s.logger.Warn("aggregate recompute failed",
			zap.String("reagent_id", reagent.ID.String()),
			zap.Error(err))
		resp.Warnings = append(resp.Warnings, warning.Error())
	}

	return resp, nil
}

// GetRecord returns one audit record by ID
func (s *DispositionService) GetRecord(ctx context.Context, id uuid.UUID) (*DispositionRecordResponse, error) {
	record, err := s.dispositionRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToDispositionRecordResponse(record)
	return &resp, nil
}

// ListRecords returns audit records matching the filter
func (s *DispositionService) ListRecords(ctx context.Context, filter shared.Filter) (*shared.Paginated[DispositionRecordResponse], error) {
	records, err := s.dispositionRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.dispositionRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]DispositionRecordResponse, 0, len(records))
	for i := range records {
		items = append(items, ToDispositionRecordResponse(&records[i]))
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.Limit())
	return &result, nil
}

func (s *DispositionService) findDuplicate(ctx context.Context, key string) (*DispositionResponse, bool) {
	if s.idempotencyStore != nil && s.idempotencyCfg.Enabled {
		processed, err := s.idempotencyStore.IsProcessed(ctx, key)
		if err != nil {
			s.logger.Warn("idempotency lookup failed", zap.String("key", key), zap.Error(err))
		} else if !processed {
			return nil, false
		}
	}

	record, err := s.dispositionRepo.FindByIdempotencyKey(ctx, key)
	if err != nil || record == nil {
		return nil, false
	}

	s.logger.Info("duplicate disposition request",
		zap.String("key", key),
		zap.String("record_id", record.ID.String()))
	return &DispositionResponse{
		RecordID:         record.ID,
		BatchID:          record.BatchID,
		ReagentID:        record.ReagentID,
		ActionTaken:      record.ActionTaken.String(),
		QuantityAffected: record.QuantityAffected,
		TransactionType:  record.ActionTaken.TransactionType().String(),
		Duplicate:        true,
	}, true
}

func (s *DispositionService) recomputeAggregate(ctx context.Context, reagent *catalog.Reagent) error {
	total, err := s.batchRepo.SumQuantityByReagent(ctx, reagent.ID)
	if err != nil {
		return err
	}
	active, err := s.batchRepo.CountActiveByReagent(ctx, reagent.ID)
	if err != nil {
		return err
	}
	reagent.ApplyAggregate(total, int(active))
	if err := s.reagentRepo.SaveWithLock(ctx, reagent); err != nil {
		return err
	}
	s.publishReagentEvents(ctx, reagent)
	return nil
}

func (s *DispositionService) publishEvents(ctx context.Context, batch *stock.ReagentBatch) {
	if s.eventPublisher == nil {
		return
	}
	events := batch.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("event publish failed", zap.Error(err))
	}
	batch.ClearDomainEvents()
}

func (s *DispositionService) publishReagentEvents(ctx context.Context, reagent *catalog.Reagent) {
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
