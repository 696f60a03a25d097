package persistence

import (
	"context"
	"strings"
	"time"

	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/bloodbank/backend/internal/domain/stock"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockTransactionRepository implements StockTransactionRepository
// using GORM. The ledger is append-only: only Create writes.
type GormStockTransactionRepository struct {
	db *gorm.DB
}

// NewGormStockTransactionRepository creates a new GormStockTransactionRepository
func NewGormStockTransactionRepository(db *gorm.DB) *GormStockTransactionRepository {
	return &GormStockTransactionRepository{db: db}
}

// Create appends a ledger entry
func (r *GormStockTransactionRepository) Create(ctx context.Context, tx *stock.StockTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

// FindByReagent finds ledger entries for a reagent
func (r *GormStockTransactionRepository) FindByReagent(ctx context.Context, reagentID uuid.UUID, filter shared.Filter) ([]stock.StockTransaction, error) {
	var txs []stock.StockTransaction
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&stock.StockTransaction{}).
			Where("reagent_id = ?", reagentID),
		filter,
	)

	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// FindByBatch finds ledger entries for a batch
func (r *GormStockTransactionRepository) FindByBatch(ctx context.Context, batchID uuid.UUID, filter shared.Filter) ([]stock.StockTransaction, error) {
	var txs []stock.StockTransaction
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&stock.StockTransaction{}).
			Where("batch_id = ?", batchID),
		filter,
	)

	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// FindByDateRange finds ledger entries within a date range
func (r *GormStockTransactionRepository) FindByDateRange(ctx context.Context, start, end time.Time, filter shared.Filter) ([]stock.StockTransaction, error) {
	var txs []stock.StockTransaction
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&stock.StockTransaction{}).
			Where("transaction_date >= ? AND transaction_date <= ?", start, end),
		filter,
	)

	if err := query.Find(&txs).Error; err != nil {
		return nil, err
	}
	return txs, nil
}

// Count counts entries matching the filter
func (r *GormStockTransactionRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&stock.StockTransaction{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormStockTransactionRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		query = query.Offset(filter.Offset()).Limit(filter.Limit())
	}

	if filter.OrderBy != "" {
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	} else {
		query = query.Order("transaction_date DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormStockTransactionRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "reagent_id":
			query = query.Where("reagent_id = ?", value)
		case "batch_id":
			query = query.Where("batch_id = ?", value)
		case "transaction_type":
			query = query.Where("transaction_type = ?", value)
		case "recorded_by":
			query = query.Where("recorded_by = ?", value)
		case "removals_only":
			if value == true {
				query = query.Where("quantity < 0")
			}
		}
	}

	return query
}

// Ensure GormStockTransactionRepository implements StockTransactionRepository
var _ stock.StockTransactionRepository = (*GormStockTransactionRepository)(nil)
