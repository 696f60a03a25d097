package stock

import (
	"context"

	"github.com/bloodbank/backend/internal/domain/catalog"
	"github.com/bloodbank/backend/internal/domain/stock"
)

// TransactionScope provides transactional access to stock repositories.
// When a function is executed within a transaction scope, all repository
// operations are part of the same database transaction and commit or
// roll back atomically.
//
// The disposition audit record is deliberately written OUTSIDE this
// scope so that it survives a later step failure; see DispositionService.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to the repositories touched
// by a stock write sequence. All repositories returned share the same
// underlying database transaction.
type TransactionalRepositories interface {
	// BatchRepo returns the batch repository scoped to the current transaction
	BatchRepo() stock.ReagentBatchRepository
	// TransactionRepo returns the ledger repository scoped to the current transaction
	TransactionRepo() stock.StockTransactionRepository
	// ReagentRepo returns the reagent repository scoped to the current transaction
	ReagentRepo() catalog.ReagentRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use
// transactions. Useful for testing or when transaction support is not
// required.
type NoOpTransactionScope struct {
	batchRepo       stock.ReagentBatchRepository
	transactionRepo stock.StockTransactionRepository
	reagentRepo     catalog.ReagentRepository
}

// NewNoOpTransactionScope creates a NoOpTransactionScope with the given repositories.
func NewNoOpTransactionScope(
	batchRepo stock.ReagentBatchRepository,
	transactionRepo stock.StockTransactionRepository,
	reagentRepo catalog.ReagentRepository,
) *NoOpTransactionScope {
	return &NoOpTransactionScope{
		batchRepo:       batchRepo,
		transactionRepo: transactionRepo,
		reagentRepo:     reagentRepo,
	}
}

// Execute runs the function without a real transaction.
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

// BatchRepo returns the batch repository.
func (s *NoOpTransactionScope) BatchRepo() stock.ReagentBatchRepository {
	return s.batchRepo
}

// TransactionRepo returns the ledger repository.
func (s *NoOpTransactionScope) TransactionRepo() stock.StockTransactionRepository {
	return s.transactionRepo
}

// ReagentRepo returns the reagent repository.
func (s *NoOpTransactionScope) ReagentRepo() catalog.ReagentRepository {
	return s.reagentRepo
}

// Ensure NoOpTransactionScope implements both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
