package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hrpay/backend/internal/domain/payroll"
	"github.com/hrpay/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// CreatePeriodRequest carries the inputs for creating a payroll period
type CreatePeriodRequest struct {
	Name      string
	Type      payroll.PeriodType
	StartDate time.Time
	EndDate   time.Time
	PayDate   time.Time
}

// PeriodService manages payroll period windows and their strictly
// forward lifecycle.
type PeriodService struct {
	periodRepo payroll.PeriodRepository
	logger     *zap.Logger
}

// NewPeriodService creates a new PeriodService
func NewPeriodService(periodRepo payroll.PeriodRepository, logger *zap.Logger) *PeriodService {
	return &PeriodService{
		periodRepo: periodRepo,
		logger:     logger,
	}
}

// CreatePeriod creates a new OPEN period after checking that no OPEN or
// PROCESSING period of the same type overlaps the window. The check runs
// before the insert; the storage-level unique index on
// (type, start_date, end_date) backstops exact-duplicate races.
func (s *PeriodService) CreatePeriod(ctx context.Context, req CreatePeriodRequest) (*payroll.PayrollPeriod, error) {
	period, err := payroll.NewPayrollPeriod(req.Name, req.Type, req.StartDate, req.EndDate, req.PayDate)
	if err != nil {
		return nil, err
	}

	overlapping, err := s.periodRepo.FindOpenOverlapping(ctx, req.Type, req.StartDate, req.EndDate)
	if err != nil {
		return nil, fmt.Errorf("failed to check for overlapping periods: %w", err)
	}
	if len(overlapping) > 0 {
		return nil, payroll.ErrPeriodOverlap
	}

	if err := s.periodRepo.Save(ctx, period); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, payroll.ErrPeriodOverlap
		}
		return nil, err
	}

	s.logger.Info("payroll period created",
		zap.String("period_id", period.ID.String()),
		zap.String("type", period.Type.String()),
		zap.Time("start_date", period.StartDate),
		zap.Time("end_date", period.EndDate),
	)
	period.ClearDomainEvents()
	return period, nil
}

// StartProcessing moves a period from OPEN to PROCESSING
func (s *PeriodService) StartProcessing(ctx context.Context, periodID uuid.UUID) (*payroll.PayrollPeriod, error) {
	return s.advance(ctx, periodID, (*payroll.PayrollPeriod).StartProcessing)
}

// Close moves a period from PROCESSING to CLOSED
func (s *PeriodService) Close(ctx context.Context, periodID uuid.UUID) (*payroll.PayrollPeriod, error) {
	return s.advance(ctx, periodID, (*payroll.PayrollPeriod).Close)
}

// Complete moves a period from CLOSED to COMPLETED
func (s *PeriodService) Complete(ctx context.Context, periodID uuid.UUID) (*payroll.PayrollPeriod, error) {
	return s.advance(ctx, periodID, (*payroll.PayrollPeriod).Complete)
}

// GetPeriod returns a period by ID
func (s *PeriodService) GetPeriod(ctx context.Context, periodID uuid.UUID) (*payroll.PayrollPeriod, error) {
	return s.periodRepo.FindByID(ctx, periodID)
}

// FindCovering returns the period of the given type covering the date
func (s *PeriodService) FindCovering(ctx context.Context, date time.Time, periodType payroll.PeriodType) (*payroll.PayrollPeriod, error) {
	if !periodType.IsValid() {
		return nil, shared.NewDomainError("INVALID_PERIOD_TYPE", "Period type must be WEEKLY, BIWEEKLY, MONTHLY or CUSTOM")
	}
	return s.periodRepo.FindCovering(ctx, date, periodType)
}

// ListPeriods returns periods with pagination
func (s *PeriodService) ListPeriods(ctx context.Context, filter shared.Filter) (*shared.Paginated[payroll.PayrollPeriod], error) {
	periods, err := s.periodRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.periodRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(periods, total, filter.Page, filter.PageSize)
	return &result, nil
}

func (s *PeriodService) advance(ctx context.Context, periodID uuid.UUID, move func(*payroll.PayrollPeriod) error) (*payroll.PayrollPeriod, error) {
	period, err := s.periodRepo.FindByID(ctx, periodID)
	if err != nil {
		return nil, err
	}
	if err := move(period); err != nil {
		return nil, err
	}
	if err := s.periodRepo.Save(ctx, period); err != nil {
		return nil, err
	}

	s.logger.Info("payroll period transitioned",
		zap.String("period_id", period.ID.String()),
		zap.String("status", period.Status.String()),
	)
	period.ClearDomainEvents()
	return period, nil
}
