package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hrpay/backend/internal/domain/payroll"
	"github.com/hrpay/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultLockTimeout bounds how long a transition waits for a ledger row
// lock before failing with the retryable LOCK_TIMEOUT error.
const DefaultLockTimeout = 5 * time.Second

// CreateAndCalculateRequest carries the inputs for creating and
// calculating a ledger in one operation. BaseSalary is optional; when nil
// the employee directory supplies it.
type CreateAndCalculateRequest struct {
	EmployeeID    uuid.UUID
	PeriodID      uuid.UUID
	BaseSalary    *decimal.Decimal
	OvertimeHours decimal.Decimal
	OvertimeRate  decimal.Decimal
	BonusAmount   decimal.Decimal
	Overrides     map[uuid.UUID]payroll.Override
	ActorID       uuid.UUID
}

// RecalculateRequest carries replacement inputs for recalculating a
// not-yet-approved ledger. Line items are replaced wholesale.
type RecalculateRequest struct {
	OvertimeHours decimal.Decimal
	OvertimeRate  decimal.Decimal
	BonusAmount   decimal.Decimal
	Overrides     map[uuid.UUID]payroll.Override
	ActorID       uuid.UUID
}

// PayrollService drives ledgers through calculation and the
// approval/payment state machine. Every transition is atomic with its
// audit entry; domain events are published only after commit.
type PayrollService struct {
	engine        *payroll.CalculationEngine
	ledgerRepo    payroll.LedgerRepository
	auditRepo     payroll.AuditRepository
	periodRepo    payroll.PeriodRepository
	componentRepo payroll.ComponentRepository
	scope         TransactionScope
	directory     EmployeeDirectory
	authorizer    Authorizer
	publisher     shared.EventPublisher
	logger        *zap.Logger
	lockTimeout   time.Duration
}

// NewPayrollService creates a new PayrollService
func NewPayrollService(
	engine *payroll.CalculationEngine,
	ledgerRepo payroll.LedgerRepository,
	auditRepo payroll.AuditRepository,
	periodRepo payroll.PeriodRepository,
	componentRepo payroll.ComponentRepository,
	scope TransactionScope,
	directory EmployeeDirectory,
	authorizer Authorizer,
	publisher shared.EventPublisher,
	logger *zap.Logger,
	lockTimeout time.Duration,
) *PayrollService {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}
	return &PayrollService{
		engine:        engine,
		ledgerRepo:    ledgerRepo,
		auditRepo:     auditRepo,
		periodRepo:    periodRepo,
		componentRepo: componentRepo,
		scope:         scope,
		directory:     directory,
		authorizer:    authorizer,
		publisher:     publisher,
		logger:        logger,
		lockTimeout:   lockTimeout,
	}
}

// CreateAndCalculate creates the ledger for (employee, period) and runs
// the calculation, all in one transaction with both audit entries.
// A second call for the same pair fails with DUPLICATE_LEDGER.
func (s *PayrollService) CreateAndCalculate(ctx context.Context, req CreateAndCalculateRequest) (*payroll.PayrollLedger, error) {
	exists, err := s.directory.Exists(ctx, req.EmployeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up employee: %w", err)
	}
	if !exists {
		return nil, shared.NewDomainError("EMPLOYEE_NOT_FOUND", "Employee not found")
	}

	baseSalary, err := s.resolveBaseSalary(ctx, req)
	if err != nil {
		return nil, err
	}

	period, err := s.periodRepo.FindByID(ctx, req.PeriodID)
	if err != nil {
		return nil, fmt.Errorf("failed to load period: %w", err)
	}
	if !period.Status.AllowsCalculation() {
		return nil, payroll.ErrPeriodNotOpen
	}

	components, err := s.componentRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load component snapshot: %w", err)
	}

	// Pure calculation against the snapshot; nothing persisted yet.
	result, err := s.engine.Calculate(payroll.CalculationInput{
		EmployeeID:    req.EmployeeID,
		PeriodID:      req.PeriodID,
		BaseSalary:    baseSalary,
		OvertimeHours: req.OvertimeHours,
		OvertimeRate:  req.OvertimeRate,
		BonusAmount:   req.BonusAmount,
		Overrides:     req.Overrides,
	}, components)
	if err != nil {
		return nil, err
	}

	ledger, err := payroll.NewPayrollLedger(req.EmployeeID, req.PeriodID, baseSalary)
	if err != nil {
		return nil, err
	}

	err = s.withLockTimeout(ctx, func(txCtx context.Context) error {
		return s.scope.Execute(txCtx, func(repos TransactionalRepositories) error {
			if err := repos.Ledgers().Create(txCtx, ledger); err != nil {
				return err
			}
			createdEntry, err := payroll.NewAuditEntry(ledger.ID, payroll.LedgerActionCreate,
				"", payroll.LedgerStatusPending, payroll.NewAuditDiff(), "", req.ActorID)
			if err != nil {
				return err
			}
			if err := repos.Audits().Append(txCtx, createdEntry); err != nil {
				return err
			}

			diff, err := ledger.ApplyCalculation(result)
			if err != nil {
				return err
			}
			if err := repos.Ledgers().Save(txCtx, ledger); err != nil {
				return err
			}
			calculatedEntry, err := payroll.NewAuditEntry(ledger.ID, payroll.LedgerActionCalculate,
				payroll.LedgerStatusPending, ledger.Status, diff, "", req.ActorID)
			if err != nil {
				return err
			}
			return repos.Audits().Append(txCtx, calculatedEntry)
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, ledger)
	s.logger.Info("payroll ledger created and calculated",
		zap.String("ledger_id", ledger.ID.String()),
		zap.String("employee_id", req.EmployeeID.String()),
		zap.String("period_id", req.PeriodID.String()),
		zap.String("net_pay", ledger.NetPay.StringFixed(2)),
	)
	return ledger, nil
}

// Recalculate replaces the line items of a PENDING or CALCULATED ledger.
// An APPROVED or PAID ledger fails with LEDGER_LOCKED; old audit entries
// are retained.
func (s *PayrollService) Recalculate(ctx context.Context, ledgerID uuid.UUID, req RecalculateRequest) (*payroll.PayrollLedger, error) {
	current, err := s.ledgerRepo.FindByID(ctx, ledgerID)
	if err != nil {
		return nil, err
	}

	period, err := s.periodRepo.FindByID(ctx, current.PeriodID)
	if err != nil {
		return nil, fmt.Errorf("failed to load period: %w", err)
	}
	if !period.Status.AllowsCalculation() {
		return nil, payroll.ErrPeriodNotOpen
	}

	components, err := s.componentRepo.FindActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load component snapshot: %w", err)
	}

	result, err := s.engine.Calculate(payroll.CalculationInput{
		EmployeeID:    current.EmployeeID,
		PeriodID:      current.PeriodID,
		BaseSalary:    current.BaseSalary,
		OvertimeHours: req.OvertimeHours,
		OvertimeRate:  req.OvertimeRate,
		BonusAmount:   req.BonusAmount,
		Overrides:     req.Overrides,
	}, components)
	if err != nil {
		return nil, err
	}

	return s.transition(ctx, ledgerID, req.ActorID, func(l *payroll.PayrollLedger) (payroll.AuditDiff, payroll.LedgerAction, string, error) {
		diff, err := l.ApplyCalculation(result)
		return diff, payroll.LedgerActionCalculate, "", err
	})
}

// Approve moves a CALCULATED ledger to APPROVED. The actor must hold
// approval authority and the totals are re-validated first.
func (s *PayrollService) Approve(ctx context.Context, ledgerID, actorID uuid.UUID) (*payroll.PayrollLedger, error) {
	allowed, err := s.authorizer.HasApprovalAuthority(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("failed to check approval authority: %w", err)
	}
	if !allowed {
		return nil, shared.ErrForbidden
	}

	return s.transition(ctx, ledgerID, actorID, func(l *payroll.PayrollLedger) (payroll.AuditDiff, payroll.LedgerAction, string, error) {
		diff, err := l.Approve(actorID)
		return diff, payroll.LedgerActionApprove, "", err
	})
}

// Pay moves an APPROVED ledger to PAID with the given payment method and
// reference.
func (s *PayrollService) Pay(ctx context.Context, ledgerID, actorID uuid.UUID, method payroll.PaymentMethod, reference string) (*payroll.PayrollLedger, error) {
	return s.transition(ctx, ledgerID, actorID, func(l *payroll.PayrollLedger) (payroll.AuditDiff, payroll.LedgerAction, string, error) {
		diff, err := l.Pay(actorID, method, reference)
		return diff, payroll.LedgerActionPay, "", err
	})
}

// Reject moves a PENDING or CALCULATED ledger to REJECTED
func (s *PayrollService) Reject(ctx context.Context, ledgerID, actorID uuid.UUID, reason string) (*payroll.PayrollLedger, error) {
	return s.transition(ctx, ledgerID, actorID, func(l *payroll.PayrollLedger) (payroll.AuditDiff, payroll.LedgerAction, string, error) {
		diff, err := l.Reject(actorID, reason)
		return diff, payroll.LedgerActionReject, reason, err
	})
}

// Cancel moves any non-terminal ledger to CANCELLED
func (s *PayrollService) Cancel(ctx context.Context, ledgerID, actorID uuid.UUID, reason string) (*payroll.PayrollLedger, error) {
	return s.transition(ctx, ledgerID, actorID, func(l *payroll.PayrollLedger) (payroll.AuditDiff, payroll.LedgerAction, string, error) {
		diff, err := l.Cancel(actorID, reason)
		return diff, payroll.LedgerActionCancel, reason, err
	})
}

// GetLedger returns a ledger with its line items
func (s *PayrollService) GetLedger(ctx context.Context, ledgerID uuid.UUID) (*payroll.PayrollLedger, error) {
	return s.ledgerRepo.FindByID(ctx, ledgerID)
}

// ListLedgers returns ledgers matching the filter with pagination
func (s *PayrollService) ListLedgers(ctx context.Context, filter payroll.LedgerFilter) (*shared.Paginated[payroll.PayrollLedger], error) {
	ledgers, err := s.ledgerRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.ledgerRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(ledgers, total, filter.Page, filter.PageSize)
	return &result, nil
}

// GetAuditTrail returns the full audit trail for a ledger in
// chronological order
func (s *PayrollService) GetAuditTrail(ctx context.Context, ledgerID uuid.UUID) ([]payroll.AuditEntry, error) {
	if _, err := s.ledgerRepo.FindByID(ctx, ledgerID); err != nil {
		return nil, err
	}
	return s.auditRepo.FindByLedger(ctx, ledgerID)
}

// transition runs one state-machine transition under the per-ledger row
// lock, writing the audit entry in the same transaction. The guard
// function must not mutate the ledger when it returns an error.
func (s *PayrollService) transition(ctx context.Context, ledgerID, actorID uuid.UUID, fn func(*payroll.PayrollLedger) (payroll.AuditDiff, payroll.LedgerAction, string, error)) (*payroll.PayrollLedger, error) {
	var ledger *payroll.PayrollLedger

	err := s.withLockTimeout(ctx, func(txCtx context.Context) error {
		return s.scope.Execute(txCtx, func(repos TransactionalRepositories) error {
			l, err := repos.Ledgers().FindByIDForUpdate(txCtx, ledgerID)
			if err != nil {
				return err
			}
			oldStatus := l.Status

			diff, action, reason, err := fn(l)
			if err != nil {
				return err
			}
			if err := repos.Ledgers().Save(txCtx, l); err != nil {
				return err
			}
			entry, err := payroll.NewAuditEntry(l.ID, action, oldStatus, l.Status, diff, reason, actorID)
			if err != nil {
				return err
			}
			if err := repos.Audits().Append(txCtx, entry); err != nil {
				return err
			}
			ledger = l
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	s.publishEvents(ctx, ledger)
	s.logger.Info("payroll ledger transitioned",
		zap.String("ledger_id", ledger.ID.String()),
		zap.String("status", ledger.Status.String()),
		zap.String("actor_id", actorID.String()),
	)
	return ledger, nil
}

func (s *PayrollService) resolveBaseSalary(ctx context.Context, req CreateAndCalculateRequest) (decimal.Decimal, error) {
	if req.BaseSalary != nil {
		if req.BaseSalary.IsNegative() {
			return decimal.Zero, shared.NewDomainError("INVALID_BASE_SALARY", "Base salary cannot be negative")
		}
		return *req.BaseSalary, nil
	}
	salary, err := s.directory.BaseSalary(ctx, req.EmployeeID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to fetch base salary: %w", err)
	}
	return salary, nil
}

// withLockTimeout bounds lock wait with a deadline and maps expiry to the
// retryable LOCK_TIMEOUT error.
func (s *PayrollService) withLockTimeout(ctx context.Context, fn func(context.Context) error) error {
	txCtx, cancel := context.WithTimeout(ctx, s.lockTimeout)
	defer cancel()

	err := fn(txCtx)
	if err != nil && errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
		return shared.ErrLockTimeout
	}
	return err
}

// publishEvents publishes the aggregate's pending events after the
// transaction has committed. Handler failures are logged by the bus and
// never affect the transition.
func (s *PayrollService) publishEvents(ctx context.Context, ledger *payroll.PayrollLedger) {
	events := ledger.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	if err := s.publisher.Publish(ctx, events...); err != nil {
		s.logger.Warn("failed to publish ledger events",
			zap.String("ledger_id", ledger.ID.String()),
			zap.Error(err),
		)
	}
	ledger.ClearDomainEvents()
}
