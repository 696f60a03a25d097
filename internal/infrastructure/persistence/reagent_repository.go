package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/bloodbank/backend/internal/domain/catalog"
	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormReagentRepository implements ReagentRepository using GORM
type GormReagentRepository struct {
	db *gorm.DB
}

// NewGormReagentRepository creates a new GormReagentRepository
func NewGormReagentRepository(db *gorm.DB) *GormReagentRepository {
	return &GormReagentRepository{db: db}
}

// FindByID finds a reagent by its ID
func (r *GormReagentRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Reagent, error) {
	var reagent catalog.Reagent
	if err := r.db.WithContext(ctx).First(&reagent, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &reagent, nil
}

// FindByCatalogNumber finds a reagent by its catalog number
func (r *GormReagentRepository) FindByCatalogNumber(ctx context.Context, catalogNumber string) (*catalog.Reagent, error) {
	var reagent catalog.Reagent
	if err := r.db.WithContext(ctx).
		Where("catalog_number = ?", catalogNumber).
		First(&reagent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &reagent, nil
}

// FindAll finds reagents matching the filter
func (r *GormReagentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Reagent, error) {
	var reagents []catalog.Reagent
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Reagent{}), filter)

	if err := query.Find(&reagents).Error; err != nil {
		return nil, err
	}
	return reagents, nil
}

// FindByCategory finds reagents in a category
func (r *GormReagentRepository) FindByCategory(ctx context.Context, category string, filter shared.Filter) ([]catalog.Reagent, error) {
	var reagents []catalog.Reagent
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&catalog.Reagent{}).
			Where("category = ?", category),
		filter,
	)

	if err := query.Find(&reagents).Error; err != nil {
		return nil, err
	}
	return reagents, nil
}

// FindLowStock finds reagents whose cached projection is low or out of stock
func (r *GormReagentRepository) FindLowStock(ctx context.Context, filter shared.Filter) ([]catalog.Reagent, error) {
	var reagents []catalog.Reagent
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&catalog.Reagent{}).
			Where("current_stock_status IN ?", []catalog.StockStatus{
				catalog.StockStatusLow,
				catalog.StockStatusOutOfStock,
			}),
		filter,
	)

	if err := query.Find(&reagents).Error; err != nil {
		return nil, err
	}
	return reagents, nil
}

// Save creates or updates a reagent
func (r *GormReagentRepository) Save(ctx context.Context, reagent *catalog.Reagent) error {
	return r.db.WithContext(ctx).Save(reagent).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormReagentRepository) SaveWithLock(ctx context.Context, reagent *catalog.Reagent) error {
	result := r.db.WithContext(ctx).
		Model(reagent).
		Where("id = ? AND version = ?", reagent.ID, reagent.Version-1).
		Updates(map[string]interface{}{
			"name":                       reagent.Name,
			"category":                   reagent.Category,
			"unit":                       reagent.Unit,
			"supplier_id":                reagent.SupplierID,
			"min_quantity":               reagent.MinQuantity,
			"total_quantity_all_batches": reagent.TotalQuantityAllBatches,
			"active_batches_count":       reagent.ActiveBatchesCount,
			"current_stock_status":       reagent.CurrentStockStatus,
			"version":                    reagent.Version,
			"updated_at":                 reagent.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Count counts reagents matching the filter
func (r *GormReagentRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&catalog.Reagent{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormReagentRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
		query = query.Order("name ASC")
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormReagentRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "category":
			query = query.Where("category = ?", value)
		case "supplier_id":
			query = query.Where("supplier_id = ?", value)
		case "stock_status":
			query = query.Where("current_stock_status = ?", value)
		}
	}

	if filter.Search != "" {
		query = query.Where("name ILIKE ? OR catalog_number ILIKE ?",
			"%"+filter.Search+"%", "%"+filter.Search+"%")
	}

	return query
}

// Ensure GormReagentRepository implements ReagentRepository
var _ catalog.ReagentRepository = (*GormReagentRepository)(nil)
