package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/hrpay/backend/internal/domain/payroll"
	"github.com/shopspring/decimal"
)

// PayrollLedgerModel is the persistence model for the PayrollLedger aggregate root.
// The unique index on (employee_id, period_id) is the authoritative guard
// against duplicate ledgers under concurrent creation.
type PayrollLedgerModel struct {
	AggregateModel
	EmployeeID       uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex:idx_ledger_employee_period,priority:1;index"`
	PeriodID         uuid.UUID             `gorm:"type:uuid;not null;uniqueIndex:idx_ledger_employee_period,priority:2;index"`
	BaseSalary       decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	GrossPay         decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	TotalDeductions  decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	TotalTaxes       decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	NetPay           decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	OvertimeHours    decimal.Decimal       `gorm:"type:decimal(10,2);not null"`
	OvertimeRate     decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	OvertimePay      decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	BonusAmount      decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Status           payroll.LedgerStatus  `gorm:"type:varchar(20);not null;default:'PENDING';index"`
	PaymentMethod    payroll.PaymentMethod `gorm:"type:varchar(20)"`
	PaymentReference string                `gorm:"type:varchar(100)"`
	PayDate          *time.Time
	ApprovedBy       *uuid.UUID `gorm:"type:uuid"`
	ApprovedAt       *time.Time
	PaidBy           *uuid.UUID `gorm:"type:uuid"`
	PaidAt           *time.Time
	RejectedBy       *uuid.UUID `gorm:"type:uuid"`
	RejectedAt       *time.Time
	RejectReason     string     `gorm:"type:varchar(500)"`
	CancelledBy      *uuid.UUID `gorm:"type:uuid"`
	CancelledAt      *time.Time
	CancelReason     string                 `gorm:"type:varchar(500)"`
	Components       []LedgerComponentModel `gorm:"foreignKey:LedgerID;references:ID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GORM
func (PayrollLedgerModel) TableName() string {
	return "payroll_ledgers"
}

// ToDomain converts the persistence model to a domain PayrollLedger entity.
func (m *PayrollLedgerModel) ToDomain() *payroll.PayrollLedger {
	components := make([]payroll.LedgerComponent, len(m.Components))
	for i, c := range m.Components {
		components[i] = *c.ToDomain()
	}
	return &payroll.PayrollLedger{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		EmployeeID:        m.EmployeeID,
		PeriodID:          m.PeriodID,
		BaseSalary:        m.BaseSalary,
		GrossPay:          m.GrossPay,
		TotalDeductions:   m.TotalDeductions,
		TotalTaxes:        m.TotalTaxes,
		NetPay:            m.NetPay,
		OvertimeHours:     m.OvertimeHours,
		OvertimeRate:      m.OvertimeRate,
		OvertimePay:       m.OvertimePay,
		BonusAmount:       m.BonusAmount,
		Status:            m.Status,
		PaymentMethod:     m.PaymentMethod,
		PaymentReference:  m.PaymentReference,
		PayDate:           m.PayDate,
		ApprovedBy:        m.ApprovedBy,
		ApprovedAt:        m.ApprovedAt,
		PaidBy:            m.PaidBy,
		PaidAt:            m.PaidAt,
		RejectedBy:        m.RejectedBy,
		RejectedAt:        m.RejectedAt,
		RejectReason:      m.RejectReason,
		CancelledBy:       m.CancelledBy,
		CancelledAt:       m.CancelledAt,
		CancelReason:      m.CancelReason,
		Components:        components,
	}
}

// FromDomain populates the persistence model from a domain PayrollLedger entity.
func (m *PayrollLedgerModel) FromDomain(l *payroll.PayrollLedger) {
	m.FromDomainAggregateRoot(l.BaseAggregateRoot)
	m.EmployeeID = l.EmployeeID
	m.PeriodID = l.PeriodID
	m.BaseSalary = l.BaseSalary
	m.GrossPay = l.GrossPay
	m.TotalDeductions = l.TotalDeductions
	m.TotalTaxes = l.TotalTaxes
	m.NetPay = l.NetPay
	m.OvertimeHours = l.OvertimeHours
	m.OvertimeRate = l.OvertimeRate
	m.OvertimePay = l.OvertimePay
	m.BonusAmount = l.BonusAmount
	m.Status = l.Status
	m.PaymentMethod = l.PaymentMethod
	m.PaymentReference = l.PaymentReference
	m.PayDate = l.PayDate
	m.ApprovedBy = l.ApprovedBy
	m.ApprovedAt = l.ApprovedAt
	m.PaidBy = l.PaidBy
	m.PaidAt = l.PaidAt
	m.RejectedBy = l.RejectedBy
	m.RejectedAt = l.RejectedAt
	m.RejectReason = l.RejectReason
	m.CancelledBy = l.CancelledBy
	m.CancelledAt = l.CancelledAt
	m.CancelReason = l.CancelReason
	m.Components = make([]LedgerComponentModel, len(l.Components))
	for i := range l.Components {
		m.Components[i].FromDomain(l.ID, &l.Components[i])
	}
}

// PayrollLedgerModelFromDomain creates a new persistence model from a domain PayrollLedger.
func PayrollLedgerModelFromDomain(l *payroll.PayrollLedger) *PayrollLedgerModel {
	m := &PayrollLedgerModel{}
	m.FromDomain(l)
	return m
}

// LedgerComponentModel is the persistence model for a ledger line item.
// Line items are immutable snapshots; recalculation replaces them wholesale.
type LedgerComponentModel struct {
	ID               uuid.UUID             `gorm:"type:uuid;primary_key"`
	LedgerID         uuid.UUID             `gorm:"type:uuid;not null;index"`
	ComponentID      uuid.UUID             `gorm:"type:uuid;not null;index"`
	Name             string                `gorm:"type:varchar(100);not null"`
	Type             payroll.ComponentType `gorm:"type:varchar(20);not null"`
	AppliedAmount    decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	CalculationOrder int                   `gorm:"not null"`
	Overridden       bool                  `gorm:"not null;default:false"`
	OverrideReason   string                `gorm:"type:varchar(500)"`
	CreatedAt        time.Time             `gorm:"not null"`
}

// TableName returns the table name for GORM
func (LedgerComponentModel) TableName() string {
	return "payroll_ledger_components"
}

// ToDomain converts the persistence model to a domain LedgerComponent.
func (m *LedgerComponentModel) ToDomain() *payroll.LedgerComponent {
	return &payroll.LedgerComponent{
		ID:               m.ID,
		LedgerID:         m.LedgerID,
		ComponentID:      m.ComponentID,
		Name:             m.Name,
		Type:             m.Type,
		AppliedAmount:    m.AppliedAmount,
		CalculationOrder: m.CalculationOrder,
		Overridden:       m.Overridden,
		OverrideReason:   m.OverrideReason,
	}
}

// FromDomain populates the persistence model from a domain LedgerComponent.
func (m *LedgerComponentModel) FromDomain(ledgerID uuid.UUID, c *payroll.LedgerComponent) {
	m.ID = c.ID
	m.LedgerID = ledgerID
	m.ComponentID = c.ComponentID
	m.Name = c.Name
	m.Type = c.Type
	m.AppliedAmount = c.AppliedAmount
	m.CalculationOrder = c.CalculationOrder
	m.Overridden = c.Overridden
	m.OverrideReason = c.OverrideReason
}

// PayrollPeriodModel is the persistence model for the PayrollPeriod aggregate root.
// The unique index on (type, start_date, end_date) backstops the overlap
// validation against exact-duplicate races.
type PayrollPeriodModel struct {
	AggregateModel
	Name      string               `gorm:"type:varchar(100);not null"`
	Type      payroll.PeriodType   `gorm:"type:varchar(20);not null;uniqueIndex:idx_period_type_window,priority:1"`
	StartDate time.Time            `gorm:"not null;uniqueIndex:idx_period_type_window,priority:2;index"`
	EndDate   time.Time            `gorm:"not null;uniqueIndex:idx_period_type_window,priority:3;index"`
	PayDate   time.Time            `gorm:"not null"`
	Status    payroll.PeriodStatus `gorm:"type:varchar(20);not null;default:'OPEN';index"`
	IsActive  bool                 `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (PayrollPeriodModel) TableName() string {
	return "payroll_periods"
}

// ToDomain converts the persistence model to a domain PayrollPeriod entity.
func (m *PayrollPeriodModel) ToDomain() *payroll.PayrollPeriod {
	return &payroll.PayrollPeriod{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Type:              m.Type,
		StartDate:         m.StartDate,
		EndDate:           m.EndDate,
		PayDate:           m.PayDate,
		Status:            m.Status,
		IsActive:          m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain PayrollPeriod entity.
func (m *PayrollPeriodModel) FromDomain(p *payroll.PayrollPeriod) {
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	m.Name = p.Name
	m.Type = p.Type
	m.StartDate = p.StartDate
	m.EndDate = p.EndDate
	m.PayDate = p.PayDate
	m.Status = p.Status
	m.IsActive = p.IsActive
}

// PayrollPeriodModelFromDomain creates a new persistence model from a domain PayrollPeriod.
func PayrollPeriodModelFromDomain(p *payroll.PayrollPeriod) *PayrollPeriodModel {
	m := &PayrollPeriodModel{}
	m.FromDomain(p)
	return m
}

// SalaryComponentModel is the persistence model for the SalaryComponent aggregate root.
type SalaryComponentModel struct {
	AggregateModel
	Name             string                `gorm:"type:varchar(100);not null"`
	Type             payroll.ComponentType `gorm:"type:varchar(20);not null;index"`
	Amount           decimal.Decimal       `gorm:"type:decimal(18,4);not null"`
	Percentage       decimal.Decimal       `gorm:"type:decimal(8,4);not null"`
	IsTaxable        bool                  `gorm:"not null;default:false"`
	IsMandatory      bool                  `gorm:"not null;default:false"`
	CalculationOrder int                   `gorm:"not null;index"`
	IsActive         bool                  `gorm:"not null;default:true;index"`
}

// TableName returns the table name for GORM
func (SalaryComponentModel) TableName() string {
	return "salary_components"
}

// ToDomain converts the persistence model to a domain SalaryComponent entity.
func (m *SalaryComponentModel) ToDomain() *payroll.SalaryComponent {
	return &payroll.SalaryComponent{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Type:              m.Type,
		Amount:            m.Amount,
		Percentage:        m.Percentage,
		IsTaxable:         m.IsTaxable,
		IsMandatory:       m.IsMandatory,
		CalculationOrder:  m.CalculationOrder,
		IsActive:          m.IsActive,
	}
}

// FromDomain populates the persistence model from a domain SalaryComponent entity.
func (m *SalaryComponentModel) FromDomain(c *payroll.SalaryComponent) {
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	m.Name = c.Name
	m.Type = c.Type
	m.Amount = c.Amount
	m.Percentage = c.Percentage
	m.IsTaxable = c.IsTaxable
	m.IsMandatory = c.IsMandatory
	m.CalculationOrder = c.CalculationOrder
	m.IsActive = c.IsActive
}

// SalaryComponentModelFromDomain creates a new persistence model from a domain SalaryComponent.
func SalaryComponentModelFromDomain(c *payroll.SalaryComponent) *SalaryComponentModel {
	m := &SalaryComponentModel{}
	m.FromDomain(c)
	return m
}

// PayrollAuditModel is the persistence model for audit log entries.
// Rows are append-only; there is no update or delete path.
type PayrollAuditModel struct {
	ID        uuid.UUID            `gorm:"type:uuid;primary_key"`
	LedgerID  uuid.UUID            `gorm:"type:uuid;not null;index:idx_audit_ledger_time,priority:1"`
	Action    payroll.LedgerAction `gorm:"type:varchar(20);not null"`
	OldStatus payroll.LedgerStatus `gorm:"type:varchar(20)"`
	NewStatus payroll.LedgerStatus `gorm:"type:varchar(20);not null"`
	Diff      string               `gorm:"type:text;not null"`
	Reason    string               `gorm:"type:varchar(500)"`
	ActorID   uuid.UUID            `gorm:"type:uuid;not null;index"`
	CreatedAt time.Time            `gorm:"not null;index:idx_audit_ledger_time,priority:2"`
}

// TableName returns the table name for GORM
func (PayrollAuditModel) TableName() string {
	return "payroll_audit_entries"
}

// ToDomain converts the persistence model to a domain AuditEntry.
func (m *PayrollAuditModel) ToDomain() *payroll.AuditEntry {
	return &payroll.AuditEntry{
		ID:        m.ID,
		LedgerID:  m.LedgerID,
		Action:    m.Action,
		OldStatus: m.OldStatus,
		NewStatus: m.NewStatus,
		Diff:      m.Diff,
		Reason:    m.Reason,
		ActorID:   m.ActorID,
		CreatedAt: m.CreatedAt,
	}
}

// PayrollAuditModelFromDomain creates a new persistence model from a domain AuditEntry.
func PayrollAuditModelFromDomain(e *payroll.AuditEntry) *PayrollAuditModel {
	return &PayrollAuditModel{
		ID:        e.ID,
		LedgerID:  e.LedgerID,
		Action:    e.Action,
		OldStatus: e.OldStatus,
		NewStatus: e.NewStatus,
		Diff:      e.Diff,
		Reason:    e.Reason,
		ActorID:   e.ActorID,
		CreatedAt: e.CreatedAt,
	}
}
