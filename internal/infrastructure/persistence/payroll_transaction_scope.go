package persistence

import (
	"context"

	apppayroll "github.com/hrpay/backend/internal/application/payroll"
	"github.com/hrpay/backend/internal/domain/payroll"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It binds a ledger mutation and its audit entry into one atomic commit.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos apppayroll.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Ledgers returns the ledger repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Ledgers() payroll.LedgerRepository {
	return NewGormLedgerRepository(r.tx)
}

// Audits returns the audit repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Audits() payroll.AuditRepository {
	return NewGormAuditRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ apppayroll.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ apppayroll.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
