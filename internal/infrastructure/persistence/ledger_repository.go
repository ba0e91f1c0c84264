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
	"gorm.io/gorm/clause"
)

// GormLedgerRepository implements LedgerRepository using GORM
type GormLedgerRepository struct {
	db *gorm.DB
}

// NewGormLedgerRepository creates a new GormLedgerRepository
func NewGormLedgerRepository(db *gorm.DB) *GormLedgerRepository {
	return &GormLedgerRepository{db: db}
}

// FindByID finds a ledger with its line items by ID
func (r *GormLedgerRepository) FindByID(ctx context.Context, id uuid.UUID) (*payroll.PayrollLedger, error) {
	var model models.PayrollLedgerModel
	if err := r.db.WithContext(ctx).
		Preload("Components").
		First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate finds a ledger by ID holding its row lock for the rest
// of the transaction. The context deadline bounds the lock wait; expiry
// surfaces as LOCK_TIMEOUT.
func (r *GormLedgerRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*payroll.PayrollLedger, error) {
	query := r.db.WithContext(ctx)
	// sqlite has no row locks; its single-writer model covers the same case.
	if r.db.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var model models.PayrollLedgerModel
	if err := query.First(&model, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, shared.ErrLockTimeout
		}
		return nil, err
	}
	// Components load after the lock is held so the snapshot is consistent.
	if err := r.db.WithContext(ctx).
		Where("ledger_id = ?", id).
		Order("calculation_order ASC, id ASC").
		Find(&model.Components).Error; err != nil {
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindByEmployeeAndPeriod finds the single ledger for an employee in a period
func (r *GormLedgerRepository) FindByEmployeeAndPeriod(ctx context.Context, employeeID, periodID uuid.UUID) (*payroll.PayrollLedger, error) {
	var model models.PayrollLedgerModel
	if err := r.db.WithContext(ctx).
		Preload("Components").
		Where("employee_id = ? AND period_id = ?", employeeID, periodID).
		First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return model.ToDomain(), nil
}

// FindAll finds ledgers matching the filter
func (r *GormLedgerRepository) FindAll(ctx context.Context, filter payroll.LedgerFilter) ([]payroll.PayrollLedger, error) {
	var ledgerModels []models.PayrollLedgerModel
	query := r.db.WithContext(ctx).Model(&models.PayrollLedgerModel{}).
		Preload("Components")
	query = r.applyFilter(query, filter)
	query = r.applyPagination(query, filter)

	if err := query.Find(&ledgerModels).Error; err != nil {
		return nil, err
	}
	ledgers := make([]payroll.PayrollLedger, len(ledgerModels))
	for i, model := range ledgerModels {
		ledgers[i] = *model.ToDomain()
	}
	return ledgers, nil
}

// Count counts ledgers matching the filter
func (r *GormLedgerRepository) Count(ctx context.Context, filter payroll.LedgerFilter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&models.PayrollLedgerModel{})
	query = r.applyFilter(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Create inserts a new ledger. The unique index on (employee_id, period_id)
// rejects a second ledger for the same pair even under concurrent creation.
func (r *GormLedgerRepository) Create(ctx context.Context, ledger *payroll.PayrollLedger) error {
	model := models.PayrollLedgerModelFromDomain(ledger)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return payroll.ErrDuplicateLedger
		}
		return err
	}
	return nil
}

// Save updates a ledger with optimistic locking against the version the
// aggregate was loaded at. Line items are replaced wholesale.
func (r *GormLedgerRepository) Save(ctx context.Context, ledger *payroll.PayrollLedger) error {
	model := models.PayrollLedgerModelFromDomain(ledger)

	result := r.db.WithContext(ctx).
		Model(&models.PayrollLedgerModel{}).
		Where("id = ? AND version = ?", ledger.ID, ledger.Version-1).
		Select("*").
		Omit("Components", "id", "created_at").
		Updates(model)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}

	if err := r.db.WithContext(ctx).
		Where("ledger_id = ?", ledger.ID).
		Delete(&models.LedgerComponentModel{}).Error; err != nil {
		return fmt.Errorf("failed to clear ledger line items: %w", err)
	}
	if len(model.Components) > 0 {
		if err := r.db.WithContext(ctx).Create(&model.Components).Error; err != nil {
			return fmt.Errorf("failed to write ledger line items: %w", err)
		}
	}
	return nil
}

func (r *GormLedgerRepository) applyFilter(query *gorm.DB, filter payroll.LedgerFilter) *gorm.DB {
	if filter.EmployeeID != nil {
		query = query.Where("employee_id = ?", *filter.EmployeeID)
	}
	if filter.PeriodID != nil {
		query = query.Where("period_id = ?", *filter.PeriodID)
	}
	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	return query
}

func (r *GormLedgerRepository) applyPagination(query *gorm.DB, filter payroll.LedgerFilter) *gorm.DB {
	orderBy := ValidateSortField(filter.OrderBy, PayrollLedgerSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		if offset < 0 {
			offset = 0
		}
		query = query.Offset(offset).Limit(filter.PageSize)
	}
	return query
}

// Ensure GormLedgerRepository implements LedgerRepository
var _ payroll.LedgerRepository = (*GormLedgerRepository)(nil)
