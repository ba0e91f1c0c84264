package payroll

import (
	"strings"
	"time"

	"github.com/hrpay/backend/internal/domain/shared"
)

// PeriodType is the cadence of a payroll period
type PeriodType string

const (
	PeriodTypeWeekly   PeriodType = "WEEKLY"
	PeriodTypeBiweekly PeriodType = "BIWEEKLY"
	PeriodTypeMonthly  PeriodType = "MONTHLY"
	PeriodTypeCustom   PeriodType = "CUSTOM"
)

// IsValid checks if the period type is valid
func (t PeriodType) IsValid() bool {
	switch t {
	case PeriodTypeWeekly, PeriodTypeBiweekly, PeriodTypeMonthly, PeriodTypeCustom:
		return true
	}
	return false
}

// String returns the string representation of PeriodType
func (t PeriodType) String() string {
	return string(t)
}

// PeriodStatus is the lifecycle status of a payroll period
type PeriodStatus string

const (
	PeriodStatusOpen       PeriodStatus = "OPEN"       // Accepting calculations
	PeriodStatusProcessing PeriodStatus = "PROCESSING" // Calculations in flight, still accepted
	PeriodStatusClosed     PeriodStatus = "CLOSED"     // No new calculations
	PeriodStatusCompleted  PeriodStatus = "COMPLETED"  // Fully paid out and archived
)

// IsValid checks if the status is a valid PeriodStatus
func (s PeriodStatus) IsValid() bool {
	switch s {
	case PeriodStatusOpen, PeriodStatusProcessing, PeriodStatusClosed, PeriodStatusCompleted:
		return true
	}
	return false
}

// String returns the string representation of PeriodStatus
func (s PeriodStatus) String() string {
	return string(s)
}

// AllowsCalculation returns true if ledgers may be calculated against a
// period in this status
func (s PeriodStatus) AllowsCalculation() bool {
	return s == PeriodStatusOpen || s == PeriodStatusProcessing
}

// next returns the only status reachable from s. Period transitions are
// strictly forward with no skipping.
func (s PeriodStatus) next() (PeriodStatus, bool) {
	switch s {
	case PeriodStatusOpen:
		return PeriodStatusProcessing, true
	case PeriodStatusProcessing:
		return PeriodStatusClosed, true
	case PeriodStatusClosed:
		return PeriodStatusCompleted, true
	}
	return "", false
}

// PayrollPeriod is a pay window with a strictly forward lifecycle:
// OPEN -> PROCESSING -> CLOSED -> COMPLETED.
type PayrollPeriod struct {
	shared.BaseAggregateRoot
	Name      string       `json:"name"`
	Type      PeriodType   `json:"type"`
	StartDate time.Time    `json:"start_date"`
	EndDate   time.Time    `json:"end_date"`
	PayDate   time.Time    `json:"pay_date"`
	Status    PeriodStatus `json:"status"`
	IsActive  bool         `json:"is_active"`
}

// NewPayrollPeriod creates a new OPEN payroll period
func NewPayrollPeriod(name string, periodType PeriodType, startDate, endDate, payDate time.Time) (*PayrollPeriod, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_PERIOD_NAME", "Period name cannot be empty")
	}
	if !periodType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PERIOD_TYPE", "Period type must be WEEKLY, BIWEEKLY, MONTHLY or CUSTOM")
	}
	if endDate.Before(startDate) {
		return nil, shared.NewDomainError("INVALID_PERIOD_RANGE", "Period end date must not be before start date")
	}

	p := &PayrollPeriod{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Type:              periodType,
		StartDate:         startDate,
		EndDate:           endDate,
		PayDate:           payDate,
		Status:            PeriodStatusOpen,
		IsActive:          true,
	}
	p.AddDomainEvent(NewPeriodCreatedEvent(p))
	return p, nil
}

// Covers returns true if the given date falls within the period window
// (inclusive on both ends)
func (p *PayrollPeriod) Covers(date time.Time) bool {
	return !date.Before(p.StartDate) && !date.After(p.EndDate)
}

// Overlaps returns true if the other period's window intersects this one
func (p *PayrollPeriod) Overlaps(other *PayrollPeriod) bool {
	return !p.EndDate.Before(other.StartDate) && !other.EndDate.Before(p.StartDate)
}

// StartProcessing moves the period from OPEN to PROCESSING
func (p *PayrollPeriod) StartProcessing() error {
	return p.advance(PeriodStatusProcessing)
}

// Close moves the period from PROCESSING to CLOSED
func (p *PayrollPeriod) Close() error {
	return p.advance(PeriodStatusClosed)
}

// Complete moves the period from CLOSED to COMPLETED
func (p *PayrollPeriod) Complete() error {
	return p.advance(PeriodStatusCompleted)
}

func (p *PayrollPeriod) advance(target PeriodStatus) error {
	next, ok := p.Status.next()
	if !ok || next != target {
		return shared.ErrInvalidState
	}
	p.Status = target
	p.IncrementVersion()
	p.AddDomainEvent(NewPeriodStatusChangedEvent(p))
	return nil
}
