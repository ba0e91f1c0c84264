package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hrpay/backend/internal/domain/payroll"
	"github.com/hrpay/backend/internal/domain/shared"
	"github.com/hrpay/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormPeriodRepository implements PeriodRepository using GORM
type GormPeriodRepository struct {
	db *gorm.DB
}

// NewGormPeriodRepository creates a new GormPeriodRepository
func NewGormPeriodRepository(db *gorm.DB) *GormPeriodRepository {
	return &GormPeriodRepository{db: db}
}

// FindByID finds a period by its ID
func (r *GormPeriodRepository) FindByID(ctx context.Context, id uuid.UUID) (*payroll.PayrollPeriod, error) {
	var model models.PayrollPeriodModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindCovering finds the period of the given type whose window covers the date
func (r *GormPeriodRepository) FindCovering(ctx context.Context, date time.Time, periodType payroll.PeriodType) (*payroll.PayrollPeriod, error) {
	var model models.PayrollPeriodModel
	if err := r.db.WithContext(ctx).
		Where("type = ? AND start_date <= ? AND end_date >= ?", periodType, date, date).
		Order("start_date DESC").
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindOpenOverlapping finds OPEN or PROCESSING periods of the given type
// whose window overlaps [startDate, endDate]
func (r *GormPeriodRepository) FindOpenOverlapping(ctx context.Context, periodType payroll.PeriodType, startDate, endDate time.Time) ([]payroll.PayrollPeriod, error) {
	var periodModels []models.PayrollPeriodModel
	if err := r.db.WithContext(ctx).
		Where("type = ? AND status IN ? AND start_date <= ? AND end_date >= ?",
			periodType,
			[]payroll.PeriodStatus{payroll.PeriodStatusOpen, payroll.PeriodStatusProcessing},
			endDate, startDate).
		Order("start_date ASC").
		Find(&periodModels).Error; err != nil {
		return nil, err
	}
	periods := make([]payroll.PayrollPeriod, len(periodModels))
	for i, model := range periodModels {
		periods[i] = *model.ToDomain()
	}
	return periods, nil
}

// FindAll finds periods with pagination
func (r *GormPeriodRepository) FindAll(ctx context.Context, filter shared.Filter) ([]payroll.PayrollPeriod, error) {
	var periodModels []models.PayrollPeriodModel
	query := r.db.WithContext(ctx).Model(&models.PayrollPeriodModel{})

	orderBy := ValidateSortField(filter.OrderBy, PayrollPeriodSortFields, "start_date")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		if offset < 0 {
			offset = 0
		}
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Find(&periodModels).Error; err != nil {
		return nil, err
	}
	periods := make([]payroll.PayrollPeriod, len(periodModels))
	for i, model := range periodModels {
		periods[i] = *model.ToDomain()
	}
	return periods, nil
}

// Count counts all periods
func (r *GormPeriodRepository) Count(ctx context.Context, _ shared.Filter) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PayrollPeriodModel{}).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a period. The unique index on
// (type, start_date, end_date) rejects exact duplicate windows.
func (r *GormPeriodRepository) Save(ctx context.Context, period *payroll.PayrollPeriod) error {
	model := models.PayrollPeriodModelFromDomain(period)
	if err := r.db.WithContext(ctx).Save(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return shared.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// Ensure GormPeriodRepository implements PeriodRepository
var _ payroll.PeriodRepository = (*GormPeriodRepository)(nil)
