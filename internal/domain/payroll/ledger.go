package payroll

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hrpay/backend/internal/domain/shared"
	"github.com/hrpay/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// LedgerStatus is the lifecycle status of a payroll ledger
type LedgerStatus string

const (
	LedgerStatusPending    LedgerStatus = "PENDING"    // Created, not yet calculated
	LedgerStatusCalculated LedgerStatus = "CALCULATED" // Totals computed, awaiting approval
	LedgerStatusApproved   LedgerStatus = "APPROVED"   // Approved, awaiting payment
	LedgerStatusPaid       LedgerStatus = "PAID"       // Paid out (terminal)
	LedgerStatusRejected   LedgerStatus = "REJECTED"   // Rejected before payment (terminal)
	LedgerStatusCancelled  LedgerStatus = "CANCELLED"  // Cancelled before payment (terminal)
)

// IsValid checks if the status is a valid LedgerStatus
func (s LedgerStatus) IsValid() bool {
	switch s {
	case LedgerStatusPending, LedgerStatusCalculated, LedgerStatusApproved,
		LedgerStatusPaid, LedgerStatusRejected, LedgerStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of LedgerStatus
func (s LedgerStatus) String() string {
	return string(s)
}

// IsTerminal returns true if no further transitions are possible
func (s LedgerStatus) IsTerminal() bool {
	return s == LedgerStatusPaid || s == LedgerStatusRejected || s == LedgerStatusCancelled
}

// IsLocked returns true once the ledger's line items are frozen
func (s LedgerStatus) IsLocked() bool {
	return s == LedgerStatusApproved || s.IsTerminal()
}

// LedgerAction is an operation attempted against a ledger
type LedgerAction string

const (
	LedgerActionCreate    LedgerAction = "CREATED"
	LedgerActionCalculate LedgerAction = "CALCULATED"
	LedgerActionApprove   LedgerAction = "APPROVED"
	LedgerActionPay       LedgerAction = "PAID"
	LedgerActionReject    LedgerAction = "REJECTED"
	LedgerActionCancel    LedgerAction = "CANCELLED"
)

// String returns the string representation of LedgerAction
func (a LedgerAction) String() string {
	return string(a)
}

// Transition validates action against the current status and returns the
// resulting status. It is the single authority on the ledger state machine;
// call sites never test statuses directly.
func Transition(from LedgerStatus, action LedgerAction) (LedgerStatus, error) {
	switch action {
	case LedgerActionCalculate:
		// A CALCULATED ledger may be recalculated until it is approved.
		if from == LedgerStatusPending || from == LedgerStatusCalculated {
			return LedgerStatusCalculated, nil
		}
		if from == LedgerStatusApproved || from == LedgerStatusPaid {
			return "", ErrLedgerLocked
		}
		return "", ErrInvalidTransition
	case LedgerActionApprove:
		if from == LedgerStatusCalculated {
			return LedgerStatusApproved, nil
		}
		return "", ErrInvalidTransition
	case LedgerActionPay:
		if from == LedgerStatusApproved {
			return LedgerStatusPaid, nil
		}
		return "", ErrInvalidTransition
	case LedgerActionReject:
		if from == LedgerStatusPending || from == LedgerStatusCalculated {
			return LedgerStatusRejected, nil
		}
		return "", ErrInvalidTransition
	case LedgerActionCancel:
		if !from.IsTerminal() {
			return LedgerStatusCancelled, nil
		}
		return "", ErrInvalidTransition
	}
	return "", ErrInvalidTransition
}

// PaymentMethod is the channel a ledger is paid through
type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodCheck        PaymentMethod = "CHECK"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodBankTransfer, PaymentMethodCash, PaymentMethodCheck:
		return true
	}
	return false
}

// LedgerComponent is a point-in-time snapshot of one applied salary
// component. Immutable once the parent ledger leaves PENDING; later edits
// to the catalog component never alter it.
type LedgerComponent struct {
	ID               uuid.UUID       `json:"id"`
	LedgerID         uuid.UUID       `json:"ledger_id"`
	ComponentID      uuid.UUID       `json:"component_id"`
	Name             string          `json:"name"`
	Type             ComponentType   `json:"type"`
	AppliedAmount    decimal.Decimal `json:"applied_amount"`
	CalculationOrder int             `json:"calculation_order"`
	Overridden       bool            `json:"overridden"`
	OverrideReason   string          `json:"override_reason,omitempty"`
}

// PayrollLedger is one pay record for a single employee in a single
// period. Exactly one ledger exists per (employee, period); it is mutated
// only through state-machine transitions, each of which is audited.
type PayrollLedger struct {
	shared.BaseAggregateRoot
	EmployeeID       uuid.UUID         `json:"employee_id"`
	PeriodID         uuid.UUID         `json:"period_id"`
	BaseSalary       decimal.Decimal   `json:"base_salary"`
	GrossPay         decimal.Decimal   `json:"gross_pay"`
	TotalDeductions  decimal.Decimal   `json:"total_deductions"`
	TotalTaxes       decimal.Decimal   `json:"total_taxes"`
	NetPay           decimal.Decimal   `json:"net_pay"`
	OvertimeHours    decimal.Decimal   `json:"overtime_hours"`
	OvertimeRate     decimal.Decimal   `json:"overtime_rate"`
	OvertimePay      decimal.Decimal   `json:"overtime_pay"`
	BonusAmount      decimal.Decimal   `json:"bonus_amount"`
	Status           LedgerStatus      `json:"status"`
	PaymentMethod    PaymentMethod     `json:"payment_method,omitempty"`
	PaymentReference string            `json:"payment_reference,omitempty"`
	PayDate          *time.Time        `json:"pay_date,omitempty"`
	ApprovedBy       *uuid.UUID        `json:"approved_by,omitempty"`
	ApprovedAt       *time.Time        `json:"approved_at,omitempty"`
	PaidBy           *uuid.UUID        `json:"paid_by,omitempty"`
	PaidAt           *time.Time        `json:"paid_at,omitempty"`
	RejectedBy       *uuid.UUID        `json:"rejected_by,omitempty"`
	RejectedAt       *time.Time        `json:"rejected_at,omitempty"`
	RejectReason     string            `json:"reject_reason,omitempty"`
	CancelledBy      *uuid.UUID        `json:"cancelled_by,omitempty"`
	CancelledAt      *time.Time        `json:"cancelled_at,omitempty"`
	CancelReason     string            `json:"cancel_reason,omitempty"`
	Components       []LedgerComponent `json:"components"`
}

// NewPayrollLedger creates a new ledger in PENDING for the employee and
// period. Uniqueness of the pair is enforced by the store at creation.
func NewPayrollLedger(employeeID, periodID uuid.UUID, baseSalary decimal.Decimal) (*PayrollLedger, error) {
	if employeeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EMPLOYEE_ID", "Employee ID is required")
	}
	if periodID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PERIOD_ID", "Period ID is required")
	}
	if baseSalary.IsNegative() {
		return nil, shared.NewDomainError("INVALID_BASE_SALARY", "Base salary cannot be negative")
	}

	l := &PayrollLedger{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		EmployeeID:        employeeID,
		PeriodID:          periodID,
		BaseSalary:        baseSalary,
		GrossPay:          decimal.Zero,
		TotalDeductions:   decimal.Zero,
		TotalTaxes:        decimal.Zero,
		NetPay:            decimal.Zero,
		OvertimeHours:     decimal.Zero,
		OvertimeRate:      decimal.Zero,
		OvertimePay:       decimal.Zero,
		BonusAmount:       decimal.Zero,
		Status:            LedgerStatusPending,
		Components:        make([]LedgerComponent, 0),
	}
	l.AddDomainEvent(NewLedgerCreatedEvent(l))
	return l, nil
}

// ValidateTotals checks the net pay invariant at money precision. Holds
// for every ledger that has left PENDING. Net pay is banker's-rounded once
// at calculation time, so the comparison rounds the recomputed value the
// same way.
func (l *PayrollLedger) ValidateTotals() error {
	expected := l.GrossPay.Sub(l.TotalDeductions).Sub(l.TotalTaxes).RoundBank(valueobject.MoneyPrecision)
	if !l.NetPay.Equal(expected) {
		return ErrNetPayMismatch
	}
	return nil
}

// ApplyCalculation moves the ledger to CALCULATED, replacing any previous
// line items entirely. Recalculation is permitted until approval.
func (l *PayrollLedger) ApplyCalculation(result *CalculationResult) (AuditDiff, error) {
	next, err := Transition(l.Status, LedgerActionCalculate)
	if err != nil {
		return nil, err
	}

	diff := NewAuditDiff()
	diff.Record("status", l.Status.String(), next.String())
	diff.Record("gross_pay", l.GrossPay.String(), result.GrossPay.String())
	diff.Record("total_deductions", l.TotalDeductions.String(), result.TotalDeductions.String())
	diff.Record("total_taxes", l.TotalTaxes.String(), result.TotalTaxes.String())
	diff.Record("net_pay", l.NetPay.String(), result.NetPay.String())
	for _, item := range result.LineItems {
		if item.Overridden {
			diff.Record("component:"+item.Name, item.ComputedAmount.String(), item.AppliedAmount.String())
		}
	}

	l.GrossPay = result.GrossPay
	l.TotalDeductions = result.TotalDeductions
	l.TotalTaxes = result.TotalTaxes
	l.NetPay = result.NetPay
	l.OvertimeHours = result.OvertimeHours
	l.OvertimeRate = result.OvertimeRate
	l.OvertimePay = result.OvertimePay
	l.BonusAmount = result.BonusAmount

	l.Components = make([]LedgerComponent, 0, len(result.LineItems))
	for _, item := range result.LineItems {
		l.Components = append(l.Components, LedgerComponent{
			ID:               uuid.New(),
			LedgerID:         l.ID,
			ComponentID:      item.ComponentID,
			Name:             item.Name,
			Type:             item.Type,
			AppliedAmount:    item.AppliedAmount,
			CalculationOrder: item.CalculationOrder,
			Overridden:       item.Overridden,
			OverrideReason:   item.OverrideReason,
		})
	}

	l.Status = next
	l.IncrementVersion()
	l.AddDomainEvent(NewLedgerCalculatedEvent(l))
	return diff, nil
}

// Approve moves the ledger to APPROVED. Totals are re-validated against
// the net pay invariant before the transition is applied.
func (l *PayrollLedger) Approve(actorID uuid.UUID) (AuditDiff, error) {
	next, err := Transition(l.Status, LedgerActionApprove)
	if err != nil {
		return nil, err
	}
	if err := l.ValidateTotals(); err != nil {
		return nil, err
	}

	diff := NewAuditDiff()
	diff.Record("status", l.Status.String(), next.String())

	now := time.Now()
	l.Status = next
	l.ApprovedBy = &actorID
	l.ApprovedAt = &now
	l.IncrementVersion()
	l.AddDomainEvent(NewLedgerApprovedEvent(l, actorID))
	return diff, nil
}

// Pay moves the ledger to PAID. A payment method and reference are
// required; the pay date defaults to now when unset.
func (l *PayrollLedger) Pay(actorID uuid.UUID, method PaymentMethod, reference string) (AuditDiff, error) {
	next, err := Transition(l.Status, LedgerActionPay)
	if err != nil {
		return nil, err
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("INVALID_PAYMENT_METHOD", "Payment method must be BANK_TRANSFER, CASH or CHECK")
	}
	if strings.TrimSpace(reference) == "" {
		return nil, shared.NewDomainError("INVALID_PAYMENT_REFERENCE", "Payment reference is required")
	}

	diff := NewAuditDiff()
	diff.Record("status", l.Status.String(), next.String())
	diff.Record("payment_method", string(l.PaymentMethod), string(method))
	diff.Record("payment_reference", l.PaymentReference, reference)

	now := time.Now()
	l.Status = next
	l.PaymentMethod = method
	l.PaymentReference = strings.TrimSpace(reference)
	l.PaidBy = &actorID
	l.PaidAt = &now
	if l.PayDate == nil {
		l.PayDate = &now
	}
	l.IncrementVersion()
	l.AddDomainEvent(NewLedgerPaidEvent(l, actorID))
	return diff, nil
}

// Reject moves the ledger to REJECTED. A reason is required.
func (l *PayrollLedger) Reject(actorID uuid.UUID, reason string) (AuditDiff, error) {
	next, err := Transition(l.Status, LedgerActionReject)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(reason) == "" {
		return nil, shared.NewDomainError("REASON_REQUIRED", "A reason is required to reject a ledger")
	}

	diff := NewAuditDiff()
	diff.Record("status", l.Status.String(), next.String())

	now := time.Now()
	l.Status = next
	l.RejectedBy = &actorID
	l.RejectedAt = &now
	l.RejectReason = strings.TrimSpace(reason)
	l.IncrementVersion()
	l.AddDomainEvent(NewLedgerRejectedEvent(l, actorID, l.RejectReason))
	return diff, nil
}

// Cancel moves the ledger to CANCELLED from any non-terminal status.
// A reason is required.
func (l *PayrollLedger) Cancel(actorID uuid.UUID, reason string) (AuditDiff, error) {
	next, err := Transition(l.Status, LedgerActionCancel)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(reason) == "" {
		return nil, shared.NewDomainError("REASON_REQUIRED", "A reason is required to cancel a ledger")
	}

	diff := NewAuditDiff()
	diff.Record("status", l.Status.String(), next.String())

	now := time.Now()
	l.Status = next
	l.CancelledBy = &actorID
	l.CancelledAt = &now
	l.CancelReason = strings.TrimSpace(reason)
	l.IncrementVersion()
	l.AddDomainEvent(NewLedgerCancelledEvent(l, actorID, l.CancelReason))
	return diff, nil
}
