package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/hrpay/backend/internal/domain/payroll"
	"github.com/hrpay/backend/internal/domain/shared"
	"github.com/hrpay/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormComponentRepository implements ComponentRepository using GORM
type GormComponentRepository struct {
	db *gorm.DB
}

// NewGormComponentRepository creates a new GormComponentRepository
func NewGormComponentRepository(db *gorm.DB) *GormComponentRepository {
	return &GormComponentRepository{db: db}
}

// FindByID finds a component by its ID
func (r *GormComponentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payroll.SalaryComponent, error) {
	var model models.SalaryComponentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindActive returns the active components in deterministic calculation
// order, ties broken by ID
func (r *GormComponentRepository) FindActive(ctx context.Context) ([]payroll.SalaryComponent, error) {
	var componentModels []models.SalaryComponentModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("calculation_order ASC, id ASC").
		Find(&componentModels).Error; err != nil {
		return nil, err
	}
	components := make([]payroll.SalaryComponent, len(componentModels))
	for i, model := range componentModels {
		components[i] = *model.ToDomain()
	}
	return components, nil
}

// FindAll finds all components, active and inactive, with pagination
func (r *GormComponentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]payroll.SalaryComponent, error) {
	var componentModels []models.SalaryComponentModel
	query := r.db.WithContext(ctx).Model(&models.SalaryComponentModel{})

	orderBy := ValidateSortField(filter.OrderBy, SalaryComponentSortFields, "calculation_order")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		if offset < 0 {
			offset = 0
		}
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Find(&componentModels).Error; err != nil {
		return nil, err
	}
	components := make([]payroll.SalaryComponent, len(componentModels))
	for i, model := range componentModels {
		components[i] = *model.ToDomain()
	}
	return components, nil
}

// Count counts all components
func (r *GormComponentRepository) Count(ctx context.Context, _ shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SalaryComponentModel{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a component
func (r *GormComponentRepository) Save(ctx context.Context, component *payroll.SalaryComponent) error {
	model := models.SalaryComponentModelFromDomain(component)
	return r.db.WithContext(ctx).Save(model).Error
}

// Ensure GormComponentRepository implements ComponentRepository
var _ payroll.ComponentRepository = (*GormComponentRepository)(nil)
