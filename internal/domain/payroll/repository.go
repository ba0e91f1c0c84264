package payroll

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/hrpay/backend/internal/domain/shared"
)

// LedgerFilter defines filtering options for ledger queries
type LedgerFilter struct {
	shared.Filter
	EmployeeID *uuid.UUID
	PeriodID   *uuid.UUID
	Status     *LedgerStatus
}

// LedgerRepository defines the persistence interface for payroll ledgers.
// FindByIDForUpdate takes a row-level lock and must be called inside a
// transaction; it is how transitions on the same ledger are serialized.
type LedgerRepository interface {
	// FindByID finds a ledger by ID with its component snapshots
	FindByID(ctx context.Context, id uuid.UUID) (*PayrollLedger, error)

	// FindByIDForUpdate finds a ledger by ID holding a row lock for the
	// duration of the surrounding transaction. Lock wait is bounded by the
	// context deadline; expiry maps to shared.ErrLockTimeout.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*PayrollLedger, error)

	// FindByEmployeeAndPeriod finds the unique ledger for the pair
	FindByEmployeeAndPeriod(ctx context.Context, employeeID, periodID uuid.UUID) (*PayrollLedger, error)

	// FindAll finds ledgers matching the filter
	FindAll(ctx context.Context, filter LedgerFilter) ([]PayrollLedger, error)

	// Count counts ledgers matching the filter
	Count(ctx context.Context, filter LedgerFilter) (int64, error)

	// Create inserts a new ledger. A second create for the same
	// (employee, period) fails with ErrDuplicateLedger.
	Create(ctx context.Context, ledger *PayrollLedger) error

	// Save persists ledger mutations with optimistic locking; a stale
	// version fails with shared.ErrConcurrencyConflict. Line items are
	// replaced wholesale.
	Save(ctx context.Context, ledger *PayrollLedger) error
}

// AuditFilter defines filtering options for audit queries
type AuditFilter struct {
	shared.Filter
	ActorID  *uuid.UUID
	Action   *LedgerAction
	FromTime *time.Time
	ToTime   *time.Time
}

// AuditRepository is the append-only store for ledger audit entries.
// No update or delete is exposed.
type AuditRepository interface {
	// Append writes one audit entry. Must run in the same transaction as
	// the ledger mutation it describes.
	Append(ctx context.Context, entry *AuditEntry) error

	// FindByLedger returns the full trail for a ledger in chronological order
	FindByLedger(ctx context.Context, ledgerID uuid.UUID) ([]AuditEntry, error)

	// FindAll returns audit entries matching the filter, chronological
	FindAll(ctx context.Context, filter AuditFilter) ([]AuditEntry, error)

	// CountByLedger counts entries for a ledger
	CountByLedger(ctx context.Context, ledgerID uuid.UUID) (int64, error)
}

// PeriodRepository defines the persistence interface for payroll periods
type PeriodRepository interface {
	// FindByID finds a period by ID
	FindByID(ctx context.Context, id uuid.UUID) (*PayrollPeriod, error)

	// FindCovering finds the period of the given type whose window covers
	// the date, preferring OPEN/PROCESSING periods
	FindCovering(ctx context.Context, date time.Time, periodType PeriodType) (*PayrollPeriod, error)

	// FindOpenOverlapping finds OPEN or PROCESSING periods of the same type
	// whose windows intersect [startDate, endDate]
	FindOpenOverlapping(ctx context.Context, periodType PeriodType, startDate, endDate time.Time) ([]PayrollPeriod, error)

	// FindAll lists periods with pagination
	FindAll(ctx context.Context, filter shared.Filter) ([]PayrollPeriod, error)

	// Count counts all periods
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates a period
	Save(ctx context.Context, period *PayrollPeriod) error
}

// ComponentRepository defines the persistence interface for the salary
// component catalog. Components are deactivated, never deleted.
type ComponentRepository interface {
	// FindByID finds a component by ID
	FindByID(ctx context.Context, id uuid.UUID) (*SalaryComponent, error)

	// FindActive returns active components ordered by
	// (calculation_order, id) ascending - the engine's ordering contract
	FindActive(ctx context.Context) ([]SalaryComponent, error)

	// FindAll lists all components including inactive ones
	FindAll(ctx context.Context, filter shared.Filter) ([]SalaryComponent, error)

	// Count counts all components
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Save creates or updates a component
	Save(ctx context.Context, component *SalaryComponent) error
}
