package payroll

import "github.com/hrpay/backend/internal/domain/shared"

// Payroll domain errors. Business-rule violations carry stable codes so
// callers can decide between retry and abandonment.
var (
	// ErrDuplicateLedger is returned when a ledger already exists for the
	// (employee, period) pair. Callers must fetch-or-create explicitly.
	ErrDuplicateLedger = shared.NewDomainError("DUPLICATE_LEDGER", "A payroll ledger already exists for this employee and period")

	// ErrLedgerLocked is returned when attempting to recalculate a ledger
	// that has been approved or paid.
	ErrLedgerLocked = shared.NewDomainError("LEDGER_LOCKED", "Ledger is approved or paid and can no longer be recalculated")

	// ErrInvalidTransition is returned when a state-machine guard rejects
	// the requested action for the ledger's current status.
	ErrInvalidTransition = shared.NewDomainError("INVALID_TRANSITION", "Requested action is not allowed in the ledger's current status")

	// ErrNegativeNetPay is returned when a calculation would produce a
	// negative net pay. Never clamped: payroll errors need human correction.
	ErrNegativeNetPay = shared.NewDomainError("NEGATIVE_NET_PAY", "Calculation would produce a negative net pay")

	// ErrInvalidComponentConfig is returned when two active mandatory
	// components share the same calculation order.
	ErrInvalidComponentConfig = shared.NewDomainError("INVALID_COMPONENT_CONFIG", "Conflicting mandatory components share a calculation order")

	// ErrPeriodNotOpen is returned when calculating against a period that
	// is neither OPEN nor PROCESSING.
	ErrPeriodNotOpen = shared.NewDomainError("PERIOD_NOT_OPEN", "Payroll period is not open for calculation")

	// ErrPeriodOverlap is returned when creating an OPEN period whose date
	// range overlaps an existing OPEN period of the same type.
	ErrPeriodOverlap = shared.NewDomainError("PERIOD_OVERLAP", "An open period of the same type already covers this date range")

	// ErrNetPayMismatch is returned during approval when the stored totals
	// no longer satisfy net = gross - deductions - taxes.
	ErrNetPayMismatch = shared.NewDomainError("NET_PAY_MISMATCH", "Ledger totals violate the net pay invariant")
)
