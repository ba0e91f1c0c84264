package persistence

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hrpay/backend/internal/domain/payroll"
	"github.com/hrpay/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormAuditRepository implements AuditRepository using GORM.
// The store is append-only; no update or delete statement exists here.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Append writes one audit entry
func (r *GormAuditRepository) Append(ctx context.Context, entry *payroll.AuditEntry) error {
	model := models.PayrollAuditModelFromDomain(entry)
	return r.db.WithContext(ctx).Create(model).Error
}

// FindByLedger returns the full trail for a ledger in chronological order
func (r *GormAuditRepository) FindByLedger(ctx context.Context, ledgerID uuid.UUID) ([]payroll.AuditEntry, error) {
	var auditModels []models.PayrollAuditModel
	if err := r.db.WithContext(ctx).
		Where("ledger_id = ?", ledgerID).
		Order("created_at ASC, id ASC").
		Find(&auditModels).Error; err != nil {
		return nil, err
	}
	entries := make([]payroll.AuditEntry, len(auditModels))
	for i, model := range auditModels {
		entries[i] = *model.ToDomain()
	}
	return entries, nil
}

// FindAll returns audit entries matching the filter across all ledgers
func (r *GormAuditRepository) FindAll(ctx context.Context, filter payroll.AuditFilter) ([]payroll.AuditEntry, error) {
	var auditModels []models.PayrollAuditModel
	query := r.db.WithContext(ctx).Model(&models.PayrollAuditModel{})
	query = r.applyFilter(query, filter)

	orderBy := ValidateSortField(filter.OrderBy, PayrollAuditSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(fmt.Sprintf("%s %s", orderBy, orderDir))

	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		if offset < 0 {
			offset = 0
		}
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Find(&auditModels).Error; err != nil {
		return nil, err
	}
	entries := make([]payroll.AuditEntry, len(auditModels))
	for i, model := range auditModels {
		entries[i] = *model.ToDomain()
	}
	return entries, nil
}

// CountByLedger counts the audit entries for a ledger
func (r *GormAuditRepository) CountByLedger(ctx context.Context, ledgerID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.PayrollAuditModel{}).
		Where("ledger_id = ?", ledgerID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *GormAuditRepository) applyFilter(query *gorm.DB, filter payroll.AuditFilter) *gorm.DB {
	if filter.ActorID != nil {
		query = query.Where("actor_id = ?", *filter.ActorID)
	}
	if filter.Action != nil {
		query = query.Where("action = ?", *filter.Action)
	}
	if filter.FromTime != nil {
		query = query.Where("created_at >= ?", *filter.FromTime)
	}
	if filter.ToTime != nil {
		query = query.Where("created_at < ?", *filter.ToTime)
	}
	return query
}

// Ensure GormAuditRepository implements AuditRepository
var _ payroll.AuditRepository = (*GormAuditRepository)(nil)
