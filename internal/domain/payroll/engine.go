package payroll

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/hrpay/backend/internal/domain/shared"
	"github.com/hrpay/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Override replaces one component's computed amount for a single
// calculation. The reason is recorded on the resulting line item.
type Override struct {
	Amount decimal.Decimal `json:"amount"`
	Reason string          `json:"reason"`
}

// CalculationInput carries everything a calculation needs. The component
// snapshot is passed in alongside it so runs are reproducible; the engine
// never reads ambient state.
type CalculationInput struct {
	EmployeeID    uuid.UUID
	PeriodID      uuid.UUID
	BaseSalary    decimal.Decimal
	OvertimeHours decimal.Decimal
	OvertimeRate  decimal.Decimal
	BonusAmount   decimal.Decimal
	Overrides     map[uuid.UUID]Override
}

// LineItem is one component's contribution within a calculation
type LineItem struct {
	ComponentID      uuid.UUID       `json:"component_id"`
	Name             string          `json:"name"`
	Type             ComponentType   `json:"type"`
	ComputedAmount   decimal.Decimal `json:"computed_amount"` // Pre-override value
	AppliedAmount    decimal.Decimal `json:"applied_amount"`  // Value that entered the totals
	CalculationOrder int             `json:"calculation_order"`
	Overridden       bool            `json:"overridden"`
	OverrideReason   string          `json:"override_reason,omitempty"`
}

// CalculationResult holds the totals and line-item breakdown of one run
type CalculationResult struct {
	GrossPay        decimal.Decimal `json:"gross_pay"`
	TotalDeductions decimal.Decimal `json:"total_deductions"`
	TotalTaxes      decimal.Decimal `json:"total_taxes"`
	NetPay          decimal.Decimal `json:"net_pay"`
	OvertimeHours   decimal.Decimal `json:"overtime_hours"`
	OvertimeRate    decimal.Decimal `json:"overtime_rate"`
	OvertimePay     decimal.Decimal `json:"overtime_pay"`
	BonusAmount     decimal.Decimal `json:"bonus_amount"`
	LineItems       []LineItem      `json:"line_items"`
}

// CalculationEngine turns an ordered component snapshot into gross/net
// totals. Pure: no side effects, no persistence, deterministic for
// identical inputs.
type CalculationEngine struct{}

// NewCalculationEngine creates a new calculation engine
func NewCalculationEngine() *CalculationEngine {
	return &CalculationEngine{}
}

// Calculate applies the active components to the input in
// (calculationOrder, id) order and produces the pay breakdown.
//
// The gross base (base salary + overtime pay + bonus) is computed once
// before the loop; percentage components all apply to that same base and
// never compound on each other's output. Rounding happens exactly once,
// at the final net pay, using banker's rounding.
func (e *CalculationEngine) Calculate(input CalculationInput, components []SalaryComponent) (*CalculationResult, error) {
	if err := validateInput(input); err != nil {
		return nil, err
	}

	active := activeOrdered(components)
	if err := checkOrderConflicts(active); err != nil {
		return nil, err
	}

	overtimePay := valueobject.NewMoney(input.OvertimeHours.Mul(input.OvertimeRate))
	grossBase := valueobject.NewMoney(input.BaseSalary).Add(overtimePay).Add(valueobject.NewMoney(input.BonusAmount))

	gross := grossBase
	deductions := valueobject.ZeroMoney()
	taxes := valueobject.ZeroMoney()
	lineItems := make([]LineItem, 0, len(active))

	for _, comp := range active {
		computed := valueobject.NewMoney(comp.Amount)
		if !comp.Percentage.IsZero() {
			computed = computed.Add(grossBase.Percent(comp.Percentage))
		}

		applied := computed
		overridden := false
		overrideReason := ""
		if ov, ok := input.Overrides[comp.ID]; ok {
			if ov.Amount.IsNegative() {
				return nil, shared.NewDomainError("INVALID_OVERRIDE", fmt.Sprintf("Override for component %q cannot be negative", comp.Name))
			}
			applied = valueobject.NewMoney(ov.Amount)
			overridden = true
			overrideReason = ov.Reason
		}

		switch comp.Type {
		case ComponentTypeEarning:
			gross = gross.Add(applied)
		case ComponentTypeDeduction:
			deductions = deductions.Add(applied)
		case ComponentTypeTax:
			taxes = taxes.Add(applied)
		}

		lineItems = append(lineItems, LineItem{
			ComponentID:      comp.ID,
			Name:             comp.Name,
			Type:             comp.Type,
			ComputedAmount:   computed.Amount(),
			AppliedAmount:    applied.Amount(),
			CalculationOrder: comp.CalculationOrder,
			Overridden:       overridden,
			OverrideReason:   overrideReason,
		})
	}

	net := gross.Sub(deductions).Sub(taxes).RoundBank()
	if net.IsNegative() {
		return nil, ErrNegativeNetPay
	}

	return &CalculationResult{
		GrossPay:        gross.Amount(),
		TotalDeductions: deductions.Amount(),
		TotalTaxes:      taxes.Amount(),
		NetPay:          net.Amount(),
		OvertimeHours:   input.OvertimeHours,
		OvertimeRate:    input.OvertimeRate,
		OvertimePay:     overtimePay.Amount(),
		BonusAmount:     input.BonusAmount,
		LineItems:       lineItems,
	}, nil
}

func validateInput(input CalculationInput) error {
	if input.EmployeeID == uuid.Nil {
		return shared.NewDomainError("INVALID_EMPLOYEE_ID", "Employee ID is required")
	}
	if input.PeriodID == uuid.Nil {
		return shared.NewDomainError("INVALID_PERIOD_ID", "Period ID is required")
	}
	if input.BaseSalary.IsNegative() {
		return shared.NewDomainError("INVALID_BASE_SALARY", "Base salary cannot be negative")
	}
	if input.OvertimeHours.IsNegative() {
		return shared.NewDomainError("INVALID_OVERTIME_HOURS", "Overtime hours cannot be negative")
	}
	if input.OvertimeRate.IsNegative() {
		return shared.NewDomainError("INVALID_OVERTIME_RATE", "Overtime rate cannot be negative")
	}
	if input.BonusAmount.IsNegative() {
		return shared.NewDomainError("INVALID_BONUS_AMOUNT", "Bonus amount cannot be negative")
	}
	return nil
}

// activeOrdered filters inactive components and sorts the remainder by
// (calculationOrder, id). The ID tiebreak keeps the sequence fully
// deterministic.
func activeOrdered(components []SalaryComponent) []SalaryComponent {
	active := make([]SalaryComponent, 0, len(components))
	for _, c := range components {
		if c.IsActive {
			active = append(active, c)
		}
	}
	sort.SliceStable(active, func(i, j int) bool {
		if active[i].CalculationOrder != active[j].CalculationOrder {
			return active[i].CalculationOrder < active[j].CalculationOrder
		}
		return active[i].ID.String() < active[j].ID.String()
	})
	return active
}

// checkOrderConflicts rejects snapshots where two active mandatory
// components share a calculation order: the application sequence would be
// ambiguous to a payroll administrator even though the ID tiebreak keeps
// it deterministic.
func checkOrderConflicts(active []SalaryComponent) error {
	seen := make(map[int]string, len(active))
	for _, c := range active {
		if !c.IsMandatory {
			continue
		}
		if other, ok := seen[c.CalculationOrder]; ok {
			return shared.NewDomainError(
				ErrInvalidComponentConfig.Code,
				fmt.Sprintf("Mandatory components %q and %q share calculation order %d", other, c.Name, c.CalculationOrder),
			)
		}
		seen[c.CalculationOrder] = c.Name
	}
	return nil
}
