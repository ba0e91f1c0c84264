package payroll

import (
	"context"

	"github.com/google/uuid"
	"github.com/hrpay/backend/internal/domain/payroll"
	"github.com/hrpay/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ComponentRequest carries the attributes of a salary component
type ComponentRequest struct {
	Name             string
	Type             payroll.ComponentType
	Amount           decimal.Decimal
	Percentage       decimal.Decimal
	IsTaxable        bool
	IsMandatory      bool
	CalculationOrder int
}

// ComponentService manages the salary component catalog. Components are
// versioned and deactivated, never deleted; catalog edits only affect
// future calculations.
type ComponentService struct {
	componentRepo payroll.ComponentRepository
	logger        *zap.Logger
}

// NewComponentService creates a new ComponentService
func NewComponentService(componentRepo payroll.ComponentRepository, logger *zap.Logger) *ComponentService {
	return &ComponentService{
		componentRepo: componentRepo,
		logger:        logger,
	}
}

// CreateComponent adds a new active component to the catalog
func (s *ComponentService) CreateComponent(ctx context.Context, req ComponentRequest) (*payroll.SalaryComponent, error) {
	component, err := payroll.NewSalaryComponent(req.Name, req.Type, req.Amount, req.Percentage,
		req.IsTaxable, req.IsMandatory, req.CalculationOrder)
	if err != nil {
		return nil, err
	}
	if err := s.componentRepo.Save(ctx, component); err != nil {
		return nil, err
	}

	s.logger.Info("salary component created",
		zap.String("component_id", component.ID.String()),
		zap.String("name", component.Name),
		zap.String("type", component.Type.String()),
	)
	component.ClearDomainEvents()
	return component, nil
}

// UpdateComponent replaces the mutable attributes of a component
func (s *ComponentService) UpdateComponent(ctx context.Context, componentID uuid.UUID, req ComponentRequest) (*payroll.SalaryComponent, error) {
	component, err := s.componentRepo.FindByID(ctx, componentID)
	if err != nil {
		return nil, err
	}
	if err := component.Update(req.Name, req.Amount, req.Percentage,
		req.IsTaxable, req.IsMandatory, req.CalculationOrder); err != nil {
		return nil, err
	}
	if err := s.componentRepo.Save(ctx, component); err != nil {
		return nil, err
	}
	return component, nil
}

// DeactivateComponent removes a component from future calculations
func (s *ComponentService) DeactivateComponent(ctx context.Context, componentID uuid.UUID) (*payroll.SalaryComponent, error) {
	component, err := s.componentRepo.FindByID(ctx, componentID)
	if err != nil {
		return nil, err
	}
	if err := component.Deactivate(); err != nil {
		return nil, err
	}
	if err := s.componentRepo.Save(ctx, component); err != nil {
		return nil, err
	}

	s.logger.Info("salary component deactivated",
		zap.String("component_id", component.ID.String()),
		zap.String("name", component.Name),
	)
	component.ClearDomainEvents()
	return component, nil
}

// GetComponent returns a component by ID
func (s *ComponentService) GetComponent(ctx context.Context, componentID uuid.UUID) (*payroll.SalaryComponent, error) {
	return s.componentRepo.FindByID(ctx, componentID)
}

// ListActiveComponents returns active components in calculation order
func (s *ComponentService) ListActiveComponents(ctx context.Context) ([]payroll.SalaryComponent, error) {
	return s.componentRepo.FindActive(ctx)
}

// ListComponents returns all components, active and inactive, paginated
func (s *ComponentService) ListComponents(ctx context.Context, filter shared.Filter) (*shared.Paginated[payroll.SalaryComponent], error) {
	components, err := s.componentRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.componentRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(components, total, filter.Page, filter.PageSize)
	return &result, nil
}
