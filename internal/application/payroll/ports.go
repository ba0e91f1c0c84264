package payroll

import (
	"context"

	"github.com/google/uuid"
	"github.com/hrpay/backend/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// EmployeeDirectory supplies employee facts from the employee bounded
// context. Payroll never owns employee data.
type EmployeeDirectory interface {
	// Exists reports whether the employee is known to the directory
	Exists(ctx context.Context, employeeID uuid.UUID) (bool, error)
	// BaseSalary returns the employee's current base salary
	BaseSalary(ctx context.Context, employeeID uuid.UUID) (decimal.Decimal, error)
}

// Authorizer answers role questions for acting users. Authentication
// itself happens at the transport layer.
type Authorizer interface {
	// HasApprovalAuthority reports whether the actor may approve ledgers
	HasApprovalAuthority(ctx context.Context, actorID uuid.UUID) (bool, error)
}

// Notifier dispatches post-transition notifications. Fire-and-forget: a
// notification failure never affects the committed transition.
type Notifier interface {
	NotifyLedgerStatus(ctx context.Context, ledgerID uuid.UUID, status payroll.LedgerStatus) error
}

// TransactionalRepositories exposes the repositories participating in a
// ledger transition transaction. The ledger mutation and its audit entry
// commit or roll back together.
type TransactionalRepositories interface {
	Ledgers() payroll.LedgerRepository
	Audits() payroll.AuditRepository
}

// TransactionScope runs a function within a single database transaction
type TransactionScope interface {
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}
