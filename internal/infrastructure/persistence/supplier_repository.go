package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/bloodbank/backend/internal/domain/catalog"
	"github.com/bloodbank/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormSupplierRepository implements SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

// FindByID finds a supplier with its contacts
func (r *GormSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Supplier, error) {
	var supplier catalog.Supplier
	if err := r.db.WithContext(ctx).
		Preload("Contacts").
		First(&supplier, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &supplier, nil
}

// FindAll finds suppliers matching the filter
func (r *GormSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Supplier, error) {
	var suppliers []catalog.Supplier
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&catalog.Supplier{}).Preload("Contacts"),
		filter,
	)

	if err := query.Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

// FindActive finds active suppliers
func (r *GormSupplierRepository) FindActive(ctx context.Context, filter shared.Filter) ([]catalog.Supplier, error) {
	var suppliers []catalog.Supplier
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&catalog.Supplier{}).
			Preload("Contacts").
			Where("active = ?", true),
		filter,
	)

	if err := query.Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

// Save creates or updates a supplier together with its contacts
func (r *GormSupplierRepository) Save(ctx context.Context, supplier *catalog.Supplier) error {
	return r.db.WithContext(ctx).
		Session(&gorm.Session{FullSaveAssociations: true}).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Save(supplier).Error
}

// Count counts suppliers matching the filter
func (r *GormSupplierRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&catalog.Supplier{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// applyFilter applies filter options to the query
func (r *GormSupplierRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
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
func (r *GormSupplierRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	for key, value := range filter.Filters {
		switch key {
		case "active":
			query = query.Where("active = ?", value)
		}
	}

	if filter.Search != "" {
		query = query.Where("name ILIKE ?", "%"+filter.Search+"%")
	}

	return query
}

// Ensure GormSupplierRepository implements SupplierRepository
var _ catalog.SupplierRepository = (*GormSupplierRepository)(nil)
