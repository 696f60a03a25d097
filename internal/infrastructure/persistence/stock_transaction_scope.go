package persistence

import (
	"context"

	appstock "github.com/bloodbank/backend/internal/application/stock"
	"github.com/bloodbank/backend/internal/domain/catalog"
	"github.com/bloodbank/backend/internal/domain/stock"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM
// transactions. The batch decrement and its ledger entry commit or roll
// back together.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos appstock.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides repositories scoped to one transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// BatchRepo returns the batch repository scoped to the current transaction
func (r *gormTransactionalRepositories) BatchRepo() stock.ReagentBatchRepository {
	return NewGormReagentBatchRepository(r.tx)
}

// TransactionRepo returns the ledger repository scoped to the current transaction
func (r *gormTransactionalRepositories) TransactionRepo() stock.StockTransactionRepository {
	return NewGormStockTransactionRepository(r.tx)
}

// ReagentRepo returns the reagent repository scoped to the current transaction
func (r *gormTransactionalRepositories) ReagentRepo() catalog.ReagentRepository {
	return NewGormReagentRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ appstock.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ appstock.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
