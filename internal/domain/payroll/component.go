package payroll

import (
	"strings"

	"github.com/hrpay/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ComponentType classifies how a salary component affects pay
type ComponentType string

const (
	ComponentTypeEarning   ComponentType = "EARNING"   // Increases gross pay
	ComponentTypeDeduction ComponentType = "DEDUCTION" // Subtracted from gross
	ComponentTypeTax       ComponentType = "TAX"       // Subtracted from gross, tracked separately
)

// IsValid checks if the component type is valid
func (t ComponentType) IsValid() bool {
	switch t {
	case ComponentTypeEarning, ComponentTypeDeduction, ComponentTypeTax:
		return true
	}
	return false
}

// String returns the string representation of ComponentType
func (t ComponentType) String() string {
	return string(t)
}

// SalaryComponent is a catalog entry describing one contributor to pay.
// A component carries either a fixed amount, a percentage of the gross
// base, or both (the fixed part is applied first, then the percentage).
// Components referenced by finalized ledgers are never edited in place:
// the ledger keeps its own snapshot, so catalog edits only affect future
// calculations.
type SalaryComponent struct {
	shared.BaseAggregateRoot
	Name             string          `json:"name"`
	Type             ComponentType   `json:"type"`
	Amount           decimal.Decimal `json:"amount"`     // Fixed contribution, zero when purely percentage-based
	Percentage       decimal.Decimal `json:"percentage"` // Percent of gross base, e.g. 10 for 10%
	IsTaxable        bool            `json:"is_taxable"`
	IsMandatory      bool            `json:"is_mandatory"`
	CalculationOrder int             `json:"calculation_order"`
	IsActive         bool            `json:"is_active"`
}

// NewSalaryComponent creates a new active salary component
func NewSalaryComponent(name string, componentType ComponentType, amount, percentage decimal.Decimal, taxable, mandatory bool, calculationOrder int) (*SalaryComponent, error) {
	if strings.TrimSpace(name) == "" {
		return nil, shared.NewDomainError("INVALID_COMPONENT_NAME", "Component name cannot be empty")
	}
	if !componentType.IsValid() {
		return nil, shared.NewDomainError("INVALID_COMPONENT_TYPE", "Component type must be EARNING, DEDUCTION or TAX")
	}
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COMPONENT_AMOUNT", "Component amount cannot be negative")
	}
	if percentage.IsNegative() || percentage.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_COMPONENT_PERCENTAGE", "Component percentage must be between 0 and 100")
	}
	if calculationOrder < 0 {
		return nil, shared.NewDomainError("INVALID_CALCULATION_ORDER", "Calculation order cannot be negative")
	}

	c := &SalaryComponent{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Type:              componentType,
		Amount:            amount,
		Percentage:        percentage,
		IsTaxable:         taxable,
		IsMandatory:       mandatory,
		CalculationOrder:  calculationOrder,
		IsActive:          true,
	}
	c.AddDomainEvent(NewComponentCreatedEvent(c))
	return c, nil
}

// Update replaces the mutable attributes of the component.
// Existing ledger component snapshots are unaffected.
func (c *SalaryComponent) Update(name string, amount, percentage decimal.Decimal, taxable, mandatory bool, calculationOrder int) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewDomainError("INVALID_COMPONENT_NAME", "Component name cannot be empty")
	}
	if amount.IsNegative() {
		return shared.NewDomainError("INVALID_COMPONENT_AMOUNT", "Component amount cannot be negative")
	}
	if percentage.IsNegative() || percentage.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("INVALID_COMPONENT_PERCENTAGE", "Component percentage must be between 0 and 100")
	}
	if calculationOrder < 0 {
		return shared.NewDomainError("INVALID_CALCULATION_ORDER", "Calculation order cannot be negative")
	}

	c.Name = strings.TrimSpace(name)
	c.Amount = amount
	c.Percentage = percentage
	c.IsTaxable = taxable
	c.IsMandatory = mandatory
	c.CalculationOrder = calculationOrder
	c.IncrementVersion()
	return nil
}

// Deactivate marks the component inactive. Components are never deleted;
// deactivation removes them from future calculations only.
func (c *SalaryComponent) Deactivate() error {
	if !c.IsActive {
		return shared.ErrInvalidState
	}
	c.IsActive = false
	c.IncrementVersion()
	c.AddDomainEvent(NewComponentDeactivatedEvent(c))
	return nil
}
