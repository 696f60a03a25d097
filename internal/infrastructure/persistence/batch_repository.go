package persistence

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/bloodbank/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// terminalBatchStatuses are excluded from stock-level queries. Terminal
// batches are retained for audit only.
var terminalBatchStatuses = []stock.BatchStatus{
	stock.BatchStatusConsumed,
	stock.BatchStatusDisposed,
	stock.BatchStatusReturned,
	stock.BatchStatusRecalled,
}

// GormReagentBatchRepository implements ReagentBatchRepository using GORM
type GormReagentBatchRepository struct {
	db *gorm.DB
}

// NewGormReagentBatchRepository creates a new GormReagentBatchRepository
func NewGormReagentBatchRepository(db *gorm.DB) *GormReagentBatchRepository {
	return &GormReagentBatchRepository{db: db}
}

// FindByID finds a batch by its ID
func (r *GormReagentBatchRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.ReagentBatch, error) {
	var batch stock.ReagentBatch
	if err := r.db.WithContext(ctx).First(&batch, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindByReagent finds all batches for a reagent
func (r *GormReagentBatchRepository) FindByReagent(ctx context.Context, reagentID uuid.UUID, filter shared.Filter) ([]stock.ReagentBatch, error) {
	var batches []stock.ReagentBatch
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&stock.ReagentBatch{}).
			Where("reagent_id = ?", reagentID),
		filter,
	)

	if err := query.Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindUsableByReagent finds active batches with stock in FEFO order
func (r *GormReagentBatchRepository) FindUsableByReagent(ctx context.Context, reagentID uuid.UUID) ([]stock.ReagentBatch, error) {
	var batches []stock.ReagentBatch
	if err := r.db.WithContext(ctx).
		Where("reagent_id = ? AND status = ? AND current_quantity > 0", reagentID, stock.BatchStatusActive).
		Order("expiry_date ASC NULLS LAST, created_at ASC").
		Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindByBatchNumber finds a batch by reagent and batch number
func (r *GormReagentBatchRepository) FindByBatchNumber(ctx context.Context, reagentID uuid.UUID, batchNumber string) (*stock.ReagentBatch, error) {
	var batch stock.ReagentBatch
	if err := r.db.WithContext(ctx).
		Where("reagent_id = ? AND batch_number = ?", reagentID, batchNumber).
		First(&batch).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &batch, nil
}

// FindExpiringWithin finds non-terminal batches with stock whose expiry
// date falls on or before reference + days. Already-expired batches are
// included so the dashboard never loses sight of them.
func (r *GormReagentBatchRepository) FindExpiringWithin(ctx context.Context, reference time.Time, days int, filter shared.Filter) ([]stock.ReagentBatch, error) {
	cutoff := dateOnly(reference).AddDate(0, 0, days)

	var batches []stock.ReagentBatch
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&stock.ReagentBatch{}).
			Where("expiry_date IS NOT NULL AND expiry_date <= ?", cutoff).
			Where("status NOT IN ? AND current_quantity > 0", terminalBatchStatuses),
		filter,
	)

	if err := query.Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// FindExpired finds non-terminal batches with stock past their expiry date
func (r *GormReagentBatchRepository) FindExpired(ctx context.Context, reference time.Time, filter shared.Filter) ([]stock.ReagentBatch, error) {
	var batches []stock.ReagentBatch
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&stock.ReagentBatch{}).
			Where("expiry_date IS NOT NULL AND expiry_date < ?", dateOnly(reference)).
			Where("status NOT IN ? AND current_quantity > 0", terminalBatchStatuses),
		filter,
	)

	if err := query.Find(&batches).Error; err != nil {
		return nil, err
	}
	return batches, nil
}

// Save creates or updates a batch
func (r *GormReagentBatchRepository) Save(ctx context.Context, batch *stock.ReagentBatch) error {
	return r.db.WithContext(ctx).Save(batch).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormReagentBatchRepository) SaveWithLock(ctx context.Context, batch *stock.ReagentBatch) error {
	result := r.db.WithContext(ctx).
		Model(batch).
		Where("id = ? AND version = ?", batch.ID, batch.Version-1).
		Updates(map[string]interface{}{
			"current_quantity":   batch.CurrentQuantity,
			"status":             batch.Status,
			"storage_location":   batch.StorageLocation,
			"storage_conditions": batch.StorageConditions,
			"qc_status":          batch.QCStatus,
			"version":            batch.Version,
			"updated_at":         batch.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// SumQuantityByReagent sums current quantity over non-terminal batches
func (r *GormReagentBatchRepository) SumQuantityByReagent(ctx context.Context, reagentID uuid.UUID) (decimal.Decimal, error) {
	var result struct {
		Total decimal.Decimal
	}
	if err := r.db.WithContext(ctx).
		Model(&stock.ReagentBatch{}).
		Select("COALESCE(SUM(current_quantity), 0) as total").
		Where("reagent_id = ? AND status NOT IN ?", reagentID, terminalBatchStatuses).
		Scan(&result).Error; err != nil {
		return decimal.Zero, err
	}
	return result.Total, nil
}

// CountActiveByReagent counts active batches with stock
func (r *GormReagentBatchRepository) CountActiveByReagent(ctx context.Context, reagentID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&stock.ReagentBatch{}).
		Where("reagent_id = ? AND status = ? AND current_quantity > 0", reagentID, stock.BatchStatusActive).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Count counts batches matching the filter
func (r *GormReagentBatchRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&stock.ReagentBatch{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormReagentBatchRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		query = query.Order("expiry_date ASC NULLS LAST, created_at ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormReagentBatchRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "reagent_id":
			query = query.Where("reagent_id = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		case "storage_location":
			query = query.Where("storage_location = ?", value)
		case "has_stock":
			if value == true {
				query = query.Where("current_quantity > 0")
			}
		case "non_terminal":
			if value == true {
				query = query.Where("status NOT IN ?", terminalBatchStatuses)
			}
		}
	}

	if filter.Search != "" {
		query = query.Where("batch_number ILIKE ?", "%"+filter.Search+"%")
	}

	return query
}

// dateOnly truncates a timestamp to its calendar day
func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// Ensure GormReagentBatchRepository implements ReagentBatchRepository
var _ stock.ReagentBatchRepository = (*GormReagentBatchRepository)(nil)
