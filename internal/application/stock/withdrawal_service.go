package stock

import (
	"context"
	"time"

	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/bloodbank/backend/internal/domain/stock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Clock supplies the reference date for expiry-sensitive decisions.
// Injected so tests and replays control what "today" means.
type Clock func() time.Time

// WithdrawalService withdraws stock for routine use or shipment using
// first-expiry-first-out batch picking.
type WithdrawalService struct {
	batchRepo      stock.ReagentBatchRepository
	txScope        TransactionScope
	clock          Clock
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
}

// NewWithdrawalService creates a new WithdrawalService
func NewWithdrawalService(
	batchRepo stock.ReagentBatchRepository,
	txScope TransactionScope,
	clock Clock,
	logger *zap.Logger,
) *WithdrawalService {
	if clock == nil {
		clock = time.Now
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WithdrawalService{
		batchRepo: batchRepo,
		txScope:   txScope,
		clock:     clock,
		logger:    logger,
	}
}

// SetEventPublisher sets the event publisher for publishing domain events
func (s *WithdrawalService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Withdraw plans a FEFO withdrawal across the reagent's usable batches
// and applies it. All batch decrements and ledger entries commit
// atomically; a conflict on any batch rolls the whole withdrawal back.
func (s *WithdrawalService) Withdraw(ctx context.Context, req WithdrawStockRequest, actor stock.Actor) (*WithdrawalResponse, error) {
	if !actor.IsPresent() {
		return nil, shared.NewValidationError(shared.ReasonMissingUser, "An authenticated user is required")
	}

	today := s.clock()
	txType := stock.TransactionTypeWithdrawal
	if req.Shipment {
		txType = stock.TransactionTypeShipmentOut
	}

	var picks []stock.BatchPick
	err := s.txScope.Execute(ctx, func(repos TransactionalRepositories) error {
		batches, err := repos.BatchRepo().FindUsableByReagent(ctx, req.ReagentID)
		if err != nil {
			return err
		}

		picks, err = stock.PickBatchesFEFO(batches, req.Quantity, today)
		if err != nil {
			return err
		}

		byID := make(map[uuid.UUID]*stock.ReagentBatch, len(batches))
		for i := range batches {
			byID[batches[i].ID] = &batches[i]
		}

		for _, pick := range picks {
			batch := byID[pick.BatchID]
			if err := batch.Withdraw(pick.Quantity); err != nil {
				return err
			}
			if err := repos.BatchRepo().SaveWithLock(ctx, batch); err != nil {
				return err
			}

			ledgerEntry, err := stock.NewStockTransaction(req.ReagentID, txType, pick.Quantity.Neg(), req.Notes)
			if err != nil {
				return err
			}
			ledgerEntry.WithBatch(batch.ID, batch.BatchNumber, batch.ExpiryDate).
				WithRecordedBy(actor.ID)
			if err := repos.TransactionRepo().Create(ctx, ledgerEntry); err != nil {
				return err
			}

			if s.eventPublisher != nil {
				if err := s.eventPublisher.Publish(ctx, batch.GetDomainEvents()...); err != nil {
					s.logger.Warn("event publish failed", zap.Error(err))
				}
				batch.ClearDomainEvents()
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("stock withdrawn",
		zap.String("reagent_id", req.ReagentID.String()),
		zap.String("quantity", req.Quantity.String()),
		zap.Int("batches", len(picks)))

	resp := &WithdrawalResponse{
		ReagentID: req.ReagentID,
		Quantity:  req.Quantity,
		Picks:     make([]BatchPickResponse, 0, len(picks)),
	}
	for _, pick := range picks {
		resp.Picks = append(resp.Picks, BatchPickResponse{
			BatchID:     pick.BatchID,
			BatchNumber: pick.BatchNumber,
			ExpiryDate:  pick.ExpiryDate,
			Quantity:    pick.Quantity,
		})
	}
	return resp, nil
}
