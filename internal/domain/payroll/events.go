package payroll

import (
	"github.com/google/uuid"
	"github.com/hrpay/backend/internal/domain/shared"
)

// Event types for the payroll domain
const (
	EventTypeLedgerCreated        = "payroll.ledger.created"
	EventTypeLedgerCalculated     = "payroll.ledger.calculated"
	EventTypeLedgerApproved       = "payroll.ledger.approved"
	EventTypeLedgerPaid           = "payroll.ledger.paid"
	EventTypeLedgerRejected       = "payroll.ledger.rejected"
	EventTypeLedgerCancelled      = "payroll.ledger.cancelled"
	EventTypePeriodCreated        = "payroll.period.created"
	EventTypePeriodStatusChanged  = "payroll.period.status_changed"
	EventTypeComponentCreated     = "payroll.component.created"
	EventTypeComponentDeactivated = "payroll.component.deactivated"
)

const (
	aggregateTypeLedger    = "PayrollLedger"
	aggregateTypePeriod    = "PayrollPeriod"
	aggregateTypeComponent = "SalaryComponent"
)

// LedgerCreatedEvent is raised when a ledger is created in PENDING
type LedgerCreatedEvent struct {
	shared.BaseDomainEvent
	EmployeeID uuid.UUID `json:"employee_id"`
	PeriodID   uuid.UUID `json:"period_id"`
}

// NewLedgerCreatedEvent creates a LedgerCreatedEvent
func NewLedgerCreatedEvent(l *PayrollLedger) *LedgerCreatedEvent {
	return &LedgerCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLedgerCreated, aggregateTypeLedger, l.ID),
		EmployeeID:      l.EmployeeID,
		PeriodID:        l.PeriodID,
	}
}

// LedgerCalculatedEvent is raised when a ledger's totals are computed
type LedgerCalculatedEvent struct {
	shared.BaseDomainEvent
	EmployeeID uuid.UUID `json:"employee_id"`
	PeriodID   uuid.UUID `json:"period_id"`
	NetPay     string    `json:"net_pay"`
}

// NewLedgerCalculatedEvent creates a LedgerCalculatedEvent
func NewLedgerCalculatedEvent(l *PayrollLedger) *LedgerCalculatedEvent {
	return &LedgerCalculatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLedgerCalculated, aggregateTypeLedger, l.ID),
		EmployeeID:      l.EmployeeID,
		PeriodID:        l.PeriodID,
		NetPay:          l.NetPay.String(),
	}
}

// LedgerApprovedEvent is raised when a ledger is approved
type LedgerApprovedEvent struct {
	shared.BaseDomainEvent
	EmployeeID uuid.UUID `json:"employee_id"`
	ApprovedBy uuid.UUID `json:"approved_by"`
}

// NewLedgerApprovedEvent creates a LedgerApprovedEvent
func NewLedgerApprovedEvent(l *PayrollLedger, actorID uuid.UUID) *LedgerApprovedEvent {
	return &LedgerApprovedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLedgerApproved, aggregateTypeLedger, l.ID),
		EmployeeID:      l.EmployeeID,
		ApprovedBy:      actorID,
	}
}

// LedgerPaidEvent is raised when a ledger is paid out
type LedgerPaidEvent struct {
	shared.BaseDomainEvent
	EmployeeID       uuid.UUID    `json:"employee_id"`
	PaidBy           uuid.UUID    `json:"paid_by"`
	NewStatus        LedgerStatus `json:"new_status"`
	PaymentReference string       `json:"payment_reference"`
}

// NewLedgerPaidEvent creates a LedgerPaidEvent
func NewLedgerPaidEvent(l *PayrollLedger, actorID uuid.UUID) *LedgerPaidEvent {
	return &LedgerPaidEvent{
		BaseDomainEvent:  shared.NewBaseDomainEvent(EventTypeLedgerPaid, aggregateTypeLedger, l.ID),
		EmployeeID:       l.EmployeeID,
		PaidBy:           actorID,
		NewStatus:        l.Status,
		PaymentReference: l.PaymentReference,
	}
}

// LedgerRejectedEvent is raised when a ledger is rejected
type LedgerRejectedEvent struct {
	shared.BaseDomainEvent
	EmployeeID uuid.UUID    `json:"employee_id"`
	RejectedBy uuid.UUID    `json:"rejected_by"`
	NewStatus  LedgerStatus `json:"new_status"`
	Reason     string       `json:"reason"`
}

// NewLedgerRejectedEvent creates a LedgerRejectedEvent
func NewLedgerRejectedEvent(l *PayrollLedger, actorID uuid.UUID, reason string) *LedgerRejectedEvent {
	return &LedgerRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLedgerRejected, aggregateTypeLedger, l.ID),
		EmployeeID:      l.EmployeeID,
		RejectedBy:      actorID,
		NewStatus:       l.Status,
		Reason:          reason,
	}
}

// LedgerCancelledEvent is raised when a ledger is cancelled
type LedgerCancelledEvent struct {
	shared.BaseDomainEvent
	EmployeeID  uuid.UUID `json:"employee_id"`
	CancelledBy uuid.UUID `json:"cancelled_by"`
	Reason      string    `json:"reason"`
}

// NewLedgerCancelledEvent creates a LedgerCancelledEvent
func NewLedgerCancelledEvent(l *PayrollLedger, actorID uuid.UUID, reason string) *LedgerCancelledEvent {
	return &LedgerCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeLedgerCancelled, aggregateTypeLedger, l.ID),
		EmployeeID:      l.EmployeeID,
		CancelledBy:     actorID,
		Reason:          reason,
	}
}

// PeriodCreatedEvent is raised when a payroll period is created
type PeriodCreatedEvent struct {
	shared.BaseDomainEvent
	PeriodType PeriodType `json:"period_type"`
}

// NewPeriodCreatedEvent creates a PeriodCreatedEvent
func NewPeriodCreatedEvent(p *PayrollPeriod) *PeriodCreatedEvent {
	return &PeriodCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePeriodCreated, aggregateTypePeriod, p.ID),
		PeriodType:      p.Type,
	}
}

// PeriodStatusChangedEvent is raised on every period lifecycle transition
type PeriodStatusChangedEvent struct {
	shared.BaseDomainEvent
	NewStatus PeriodStatus `json:"new_status"`
}

// NewPeriodStatusChangedEvent creates a PeriodStatusChangedEvent
func NewPeriodStatusChangedEvent(p *PayrollPeriod) *PeriodStatusChangedEvent {
	return &PeriodStatusChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypePeriodStatusChanged, aggregateTypePeriod, p.ID),
		NewStatus:       p.Status,
	}
}

// ComponentCreatedEvent is raised when a salary component is created
type ComponentCreatedEvent struct {
	shared.BaseDomainEvent
	ComponentType ComponentType `json:"component_type"`
}

// NewComponentCreatedEvent creates a ComponentCreatedEvent
func NewComponentCreatedEvent(c *SalaryComponent) *ComponentCreatedEvent {
	return &ComponentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeComponentCreated, aggregateTypeComponent, c.ID),
		ComponentType:   c.Type,
	}
}

// ComponentDeactivatedEvent is raised when a salary component is deactivated
type ComponentDeactivatedEvent struct {
	shared.BaseDomainEvent
}

// NewComponentDeactivatedEvent creates a ComponentDeactivatedEvent
func NewComponentDeactivatedEvent(c *SalaryComponent) *ComponentDeactivatedEvent {
	return &ComponentDeactivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeComponentDeactivated, aggregateTypeComponent, c.ID),
	}
}
