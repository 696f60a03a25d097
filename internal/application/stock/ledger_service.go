package stock

import (
	"context"
	"time"

	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/bloodbank/backend/internal/domain/stock"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// LedgerService answers read queries over the append-only stock
// transaction ledger. Writes happen inside the services that mutate
// stock; this service never creates entries.
type LedgerService struct {
	transactionRepo stock.StockTransactionRepository
	logger          *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(transactionRepo stock.StockTransactionRepository, logger *zap.Logger) *LedgerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerService{
		transactionRepo: transactionRepo,
		logger:          logger,
	}
}

// ListByBatch returns the ledger entries recorded against one batch
func (s *LedgerService) ListByBatch(ctx context.Context, batchID uuid.UUID, filter shared.Filter) ([]TransactionResponse, error) {
	entries, err := s.transactionRepo.FindByBatch(ctx, batchID, filter)
	if err != nil {
		return nil, err
	}
	return toTransactionResponses(entries), nil
}

// ListByReagent returns the ledger entries recorded against one reagent
func (s *LedgerService) ListByReagent(ctx context.Context, reagentID uuid.UUID, filter shared.Filter) ([]TransactionResponse, error) {
	entries, err := s.transactionRepo.FindByReagent(ctx, reagentID, filter)
	if err != nil {
		return nil, err
	}
	return toTransactionResponses(entries), nil
}

// ListByDateRange returns the ledger entries recorded within [start, end)
func (s *LedgerService) ListByDateRange(ctx context.Context, start, end time.Time, filter shared.Filter) ([]TransactionResponse, error) {
	if !end.After(start) {
		return nil, shared.NewDomainError("INVALID_DATE_RANGE", "End must be after start")
	}
	entries, err := s.transactionRepo.FindByDateRange(ctx, start, end, filter)
	if err != nil {
		return nil, err
	}
	return toTransactionResponses(entries), nil
}

func toTransactionResponses(entries []stock.StockTransaction) []TransactionResponse {
	responses := make([]TransactionResponse, 0, len(entries))
	for i := range entries {
		responses = append(responses, ToTransactionResponse(&entries[i]))
	}
	return responses
}
