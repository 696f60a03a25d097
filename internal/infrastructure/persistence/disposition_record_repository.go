package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/bloodbank/backend/internal/domain/stock"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormDispositionRecordRepository implements DispositionRecordRepository
// using GORM. Records are append-only: created once, never updated.
type GormDispositionRecordRepository struct {
	db *gorm.DB
}

// NewGormDispositionRecordRepository creates a new GormDispositionRecordRepository
func NewGormDispositionRecordRepository(db *gorm.DB) *GormDispositionRecordRepository {
	return &GormDispositionRecordRepository{db: db}
}

// Create appends a disposition record. A duplicate idempotency key maps
// to ErrAlreadyExists so callers can fall back to the stored record.
func (r *GormDispositionRecordRepository) Create(ctx context.Context, record *stock.DispositionRecord) error {
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// FindByID finds a record by its ID
func (r *GormDispositionRecordRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.DispositionRecord, error) {
	var record stock.DispositionRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByReagent finds records for a reagent
func (r *GormDispositionRecordRepository) FindByReagent(ctx context.Context, reagentID uuid.UUID, filter shared.Filter) ([]stock.DispositionRecord, error) {
	var records []stock.DispositionRecord
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&stock.DispositionRecord{}).
			Where("reagent_id = ?", reagentID),
		filter,
	)

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByBatch finds records for a batch
func (r *GormDispositionRecordRepository) FindByBatch(ctx context.Context, batchID uuid.UUID, filter shared.Filter) ([]stock.DispositionRecord, error) {
	var records []stock.DispositionRecord
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&stock.DispositionRecord{}).
			Where("batch_id = ?", batchID),
		filter,
	)

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// FindByIdempotencyKey finds the record created under a key, if any
func (r *GormDispositionRecordRepository) FindByIdempotencyKey(ctx context.Context, key string) (*stock.DispositionRecord, error) {
	var record stock.DispositionRecord
	if err := r.db.WithContext(ctx).
		Where("idempotency_key = ?", key).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindAll finds records matching the filter
func (r *GormDispositionRecordRepository) FindAll(ctx context.Context, filter shared.Filter) ([]stock.DispositionRecord, error) {
	var records []stock.DispositionRecord
	query := r.applyFilter(r.db.WithContext(ctx).Model(&stock.DispositionRecord{}), filter)

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Count counts records matching the filter
func (r *GormDispositionRecordRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&stock.DispositionRecord{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormDispositionRecordRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		query = query.Order("documented_at DESC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormDispositionRecordRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "reagent_id":
			query = query.Where("reagent_id = ?", value)
		case "batch_id":
			query = query.Where("batch_id = ?", value)
		case "action_taken":
			query = query.Where("action_taken = ?", value)
		case "documented_by":
			query = query.Where("documented_by = ?", value)
		}
	}

	if filter.Search != "" {
		query = query.Where("reagent_name ILIKE ? OR batch_number ILIKE ?",
			"%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	return query
}

// Ensure GormDispositionRecordRepository implements DispositionRecordRepository
var _ stock.DispositionRecordRepository = (*GormDispositionRecordRepository)(nil)
