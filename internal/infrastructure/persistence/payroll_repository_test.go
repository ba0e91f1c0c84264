package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	apppayroll "github.com/hrpay/backend/internal/application/payroll"
	"github.com/hrpay/backend/internal/domain/payroll"
	"github.com/hrpay/backend/internal/domain/shared"
	"github.com/hrpay/backend/internal/infrastructure/persistence/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupPayrollTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
	})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&models.PayrollLedgerModel{},
		&models.LedgerComponentModel{},
		&models.PayrollPeriodModel{},
		&models.SalaryComponentModel{},
		&models.PayrollAuditModel{},
	)
	require.NoError(t, err)

	return db
}

func newTestLedger(t *testing.T) *payroll.PayrollLedger {
	t.Helper()
	ledger, err := payroll.NewPayrollLedger(uuid.New(), uuid.New(), decimal.RequireFromString("5000.00"))
	require.NoError(t, err)
	return ledger
}

func calculateTestLedger(t *testing.T, ledger *payroll.PayrollLedger) {
	t.Helper()

	tax, err := payroll.NewSalaryComponent("Income Tax", payroll.ComponentTypeTax,
		decimal.Zero, decimal.NewFromInt(10), true, true, 1)
	require.NoError(t, err)

	engine := payroll.NewCalculationEngine()
	result, err := engine.Calculate(payroll.CalculationInput{
		EmployeeID: ledger.EmployeeID,
		PeriodID:   ledger.PeriodID,
		BaseSalary: ledger.BaseSalary,
	}, []payroll.SalaryComponent{*tax})
	require.NoError(t, err)

	_, err = ledger.ApplyCalculation(result)
	require.NoError(t, err)
}

func TestGormLedgerRepository_CreateAndFindByID(t *testing.T) {
	db := setupPayrollTestDB(t)
	repo := NewGormLedgerRepository(db)
	ctx := context.Background()

	ledger := newTestLedger(t)
	calculateTestLedger(t, ledger)
	// Persist the post-calculation state in one insert for the roundtrip check.
	ledger.Version = 1

	require.NoError(t, repo.Create(ctx, ledger))

	found, err := repo.FindByID(ctx, ledger.ID)
	require.NoError(t, err)
	assert.Equal(t, ledger.EmployeeID, found.EmployeeID)
	assert.Equal(t, payroll.LedgerStatusCalculated, found.Status)
	assert.True(t, found.NetPay.Equal(ledger.NetPay))
	require.Len(t, found.Components, 1)
	assert.Equal(t, "Income Tax", found.Components[0].Name)
}

func TestGormLedgerRepository_FindByID_NotFound(t *testing.T) {
	db := setupPayrollTestDB(t)
	repo := NewGormLedgerRepository(db)

	_, err := repo.FindByID(context.Background(), uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormLedgerRepository_Create_DuplicatePair(t *testing.T) {
	db := setupPayrollTestDB(t)
	repo := NewGormLedgerRepository(db)
	ctx := context.Background()

	first := newTestLedger(t)
	require.NoError(t, repo.Create(ctx, first))

	second, err := payroll.NewPayrollLedger(first.EmployeeID, first.PeriodID, decimal.RequireFromString("5000.00"))
	require.NoError(t, err)

	err = repo.Create(ctx, second)
	assert.ErrorIs(t, err, payroll.ErrDuplicateLedger)

	// Same employee in a different period is fine.
	third, err := payroll.NewPayrollLedger(first.EmployeeID, uuid.New(), decimal.RequireFromString("5000.00"))
	require.NoError(t, err)
	assert.NoError(t, repo.Create(ctx, third))
}

func TestGormLedgerRepository_FindByEmployeeAndPeriod(t *testing.T) {
	db := setupPayrollTestDB(t)
	repo := NewGormLedgerRepository(db)
	ctx := context.Background()

	ledger := newTestLedger(t)
	require.NoError(t, repo.Create(ctx, ledger))

	found, err := repo.FindByEmployeeAndPeriod(ctx, ledger.EmployeeID, ledger.PeriodID)
	require.NoError(t, err)
	assert.Equal(t, ledger.ID, found.ID)

	_, err = repo.FindByEmployeeAndPeriod(ctx, ledger.EmployeeID, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormLedgerRepository_Save_OptimisticLock(t *testing.T) {
	db := setupPayrollTestDB(t)
	repo := NewGormLedgerRepository(db)
	ctx := context.Background()

	ledger := newTestLedger(t)
	require.NoError(t, repo.Create(ctx, ledger))

	// Two actors load the same version.
	first, err := repo.FindByID(ctx, ledger.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, ledger.ID)
	require.NoError(t, err)

	_, err = first.Reject(uuid.New(), "wrong base salary")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	_, err = second.Cancel(uuid.New(), "entered in error")
	require.NoError(t, err)
	err = repo.Save(ctx, second)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)

	// The first write won.
	stored, err := repo.FindByID(ctx, ledger.ID)
	require.NoError(t, err)
	assert.Equal(t, payroll.LedgerStatusRejected, stored.Status)
}

func TestGormLedgerRepository_Save_ReplacesLineItems(t *testing.T) {
	db := setupPayrollTestDB(t)
	repo := NewGormLedgerRepository(db)
	ctx := context.Background()

	ledger := newTestLedger(t)
	require.NoError(t, repo.Create(ctx, ledger))

	loaded, err := repo.FindByID(ctx, ledger.ID)
	require.NoError(t, err)
	calculateTestLedger(t, loaded)
	require.NoError(t, repo.Save(ctx, loaded))

	found, err := repo.FindByID(ctx, ledger.ID)
	require.NoError(t, err)
	require.Len(t, found.Components, 1)
	firstItemID := found.Components[0].ID

	// Recalculation replaces the snapshot; no stale line items survive.
	calculateTestLedger(t, found)
	require.NoError(t, repo.Save(ctx, found))

	after, err := repo.FindByID(ctx, ledger.ID)
	require.NoError(t, err)
	require.Len(t, after.Components, 1)
	assert.NotEqual(t, firstItemID, after.Components[0].ID)

	var orphans int64
	require.NoError(t, db.Model(&models.LedgerComponentModel{}).Count(&orphans).Error)
	assert.EqualValues(t, 1, orphans)
}

func TestGormLedgerRepository_FindAllAndCount(t *testing.T) {
	db := setupPayrollTestDB(t)
	repo := NewGormLedgerRepository(db)
	ctx := context.Background()

	employeeID := uuid.New()
	for i := 0; i < 3; i++ {
		ledger, err := payroll.NewPayrollLedger(employeeID, uuid.New(), decimal.RequireFromString("5000.00"))
		require.NoError(t, err)
		require.NoError(t, repo.Create(ctx, ledger))
	}
	other := newTestLedger(t)
	require.NoError(t, repo.Create(ctx, other))

	filter := payroll.LedgerFilter{Filter: shared.DefaultFilter(), EmployeeID: &employeeID}
	ledgers, err := repo.FindAll(ctx, filter)
	require.NoError(t, err)
	assert.Len(t, ledgers, 3)

	count, err := repo.Count(ctx, filter)
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)

	status := payroll.LedgerStatusPending
	count, err = repo.Count(ctx, payroll.LedgerFilter{Status: &status})
	require.NoError(t, err)
	assert.EqualValues(t, 4, count)
}

func TestGormAuditRepository_AppendAndFindByLedger(t *testing.T) {
	db := setupPayrollTestDB(t)
	repo := NewGormAuditRepository(db)
	ctx := context.Background()

	ledgerID := uuid.New()
	actorID := uuid.New()

	created, err := payroll.NewAuditEntry(ledgerID, payroll.LedgerActionCreate,
		"", payroll.LedgerStatusPending, payroll.NewAuditDiff(), "", actorID)
	require.NoError(t, err)
	created.CreatedAt = time.Now().Add(-time.Minute)
	require.NoError(t, repo.Append(ctx, created))

	diff := payroll.NewAuditDiff()
	diff.Record("status", "PENDING", "CALCULATED")
	calculated, err := payroll.NewAuditEntry(ledgerID, payroll.LedgerActionCalculate,
		payroll.LedgerStatusPending, payroll.LedgerStatusCalculated, diff, "", actorID)
	require.NoError(t, err)
	require.NoError(t, repo.Append(ctx, calculated))

	trail, err := repo.FindByLedger(ctx, ledgerID)
	require.NoError(t, err)
	require.Len(t, trail, 2)
	assert.Equal(t, payroll.LedgerActionCreate, trail[0].Action)
	assert.Equal(t, payroll.LedgerActionCalculate, trail[1].Action)

	parsed, err := payroll.ParseAuditDiff(trail[1].Diff)
	require.NoError(t, err)
	assert.Equal(t, "CALCULATED", parsed["status"].New)

	count, err := repo.CountByLedger(ctx, ledgerID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestGormAuditRepository_FindAll_FilterByActor(t *testing.T) {
	db := setupPayrollTestDB(t)
	repo := NewGormAuditRepository(db)
	ctx := context.Background()

	actorID := uuid.New()
	entry, err := payroll.NewAuditEntry(uuid.New(), payroll.LedgerActionApprove,
		payroll.LedgerStatusCalculated, payroll.LedgerStatusApproved, payroll.NewAuditDiff(), "", actorID)
	require.NoError(t, err)
	require.NoError(t, repo.Append(ctx, entry))

	otherEntry, err := payroll.NewAuditEntry(uuid.New(), payroll.LedgerActionApprove,
		payroll.LedgerStatusCalculated, payroll.LedgerStatusApproved, payroll.NewAuditDiff(), "", uuid.New())
	require.NoError(t, err)
	require.NoError(t, repo.Append(ctx, otherEntry))

	entries, err := repo.FindAll(ctx, payroll.AuditFilter{Filter: shared.DefaultFilter(), ActorID: &actorID})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, actorID, entries[0].ActorID)
}

func TestGormPeriodRepository_SaveAndFindCovering(t *testing.T) {
	db := setupPayrollTestDB(t)
	repo := NewGormPeriodRepository(db)
	ctx := context.Background()

	period, err := payroll.NewPayrollPeriod("2026-08", payroll.PeriodTypeMonthly,
		time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, period))

	found, err := repo.FindCovering(ctx, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), payroll.PeriodTypeMonthly)
	require.NoError(t, err)
	assert.Equal(t, period.ID, found.ID)

	// Different type does not match.
	_, err = repo.FindCovering(ctx, time.Date(2026, 8, 15, 0, 0, 0, 0, time.UTC), payroll.PeriodTypeWeekly)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormPeriodRepository_DuplicateWindow(t *testing.T) {
	db := setupPayrollTestDB(t)
	repo := NewGormPeriodRepository(db)
	ctx := context.Background()

	start := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
	pay := time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC)

	first, err := payroll.NewPayrollPeriod("2026-08", payroll.PeriodTypeMonthly, start, end, pay)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	duplicate, err := payroll.NewPayrollPeriod("2026-08-dup", payroll.PeriodTypeMonthly, start, end, pay)
	require.NoError(t, err)
	assert.ErrorIs(t, repo.Save(ctx, duplicate), shared.ErrAlreadyExists)
}

func TestGormPeriodRepository_FindOpenOverlapping(t *testing.T) {
	db := setupPayrollTestDB(t)
	repo := NewGormPeriodRepository(db)
	ctx := context.Background()

	open, err := payroll.NewPayrollPeriod("2026-08", payroll.PeriodTypeMonthly,
		time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, open))

	closed, err := payroll.NewPayrollPeriod("2026-07", payroll.PeriodTypeMonthly,
		time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 7, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 5, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.NoError(t, closed.StartProcessing())
	require.NoError(t, closed.Close())
	require.NoError(t, repo.Save(ctx, closed))

	// Overlaps the open August window.
	overlapping, err := repo.FindOpenOverlapping(ctx, payroll.PeriodTypeMonthly,
		time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, overlapping, 1)
	assert.Equal(t, open.ID, overlapping[0].ID)

	// Overlaps only the closed July window.
	overlapping, err = repo.FindOpenOverlapping(ctx, payroll.PeriodTypeMonthly,
		time.Date(2026, 7, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2026, 7, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, overlapping)
}

func TestGormComponentRepository_FindActiveOrdering(t *testing.T) {
	db := setupPayrollTestDB(t)
	repo := NewGormComponentRepository(db)
	ctx := context.Background()

	late, err := payroll.NewSalaryComponent("Pension", payroll.ComponentTypeDeduction,
		decimal.RequireFromString("100.00"), decimal.Zero, false, false, 5)
	require.NoError(t, err)
	early, err := payroll.NewSalaryComponent("Income Tax", payroll.ComponentTypeTax,
		decimal.Zero, decimal.NewFromInt(10), true, true, 1)
	require.NoError(t, err)
	inactive, err := payroll.NewSalaryComponent("Old Levy", payroll.ComponentTypeTax,
		decimal.Zero, decimal.NewFromInt(2), true, false, 2)
	require.NoError(t, err)
	require.NoError(t, inactive.Deactivate())

	require.NoError(t, repo.Save(ctx, late))
	require.NoError(t, repo.Save(ctx, early))
	require.NoError(t, repo.Save(ctx, inactive))

	active, err := repo.FindActive(ctx)
	require.NoError(t, err)
	require.Len(t, active, 2)
	assert.Equal(t, "Income Tax", active[0].Name)
	assert.Equal(t, "Pension", active[1].Name)

	all, err := repo.FindAll(ctx, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestGormTransactionScope_RollbackLeavesNoPartialState(t *testing.T) {
	db := setupPayrollTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()

	ledger := newTestLedger(t)
	err := scope.Execute(ctx, func(repos apppayroll.TransactionalRepositories) error {
		if err := repos.Ledgers().Create(ctx, ledger); err != nil {
			return err
		}
		entry, err := payroll.NewAuditEntry(ledger.ID, payroll.LedgerActionCreate,
			"", payroll.LedgerStatusPending, payroll.NewAuditDiff(), "", uuid.New())
		if err != nil {
			return err
		}
		if err := repos.Audits().Append(ctx, entry); err != nil {
			return err
		}
		return assert.AnError
	})
	require.Error(t, err)

	_, err = NewGormLedgerRepository(db).FindByID(ctx, ledger.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	count, err := NewGormAuditRepository(db).CountByLedger(ctx, ledger.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestGormTransactionScope_CommitPersistsBoth(t *testing.T) {
	db := setupPayrollTestDB(t)
	scope := NewGormTransactionScope(db)
	ctx := context.Background()

	ledger := newTestLedger(t)
	err := scope.Execute(ctx, func(repos apppayroll.TransactionalRepositories) error {
		if err := repos.Ledgers().Create(ctx, ledger); err != nil {
			return err
		}
		entry, err := payroll.NewAuditEntry(ledger.ID, payroll.LedgerActionCreate,
			"", payroll.LedgerStatusPending, payroll.NewAuditDiff(), "", uuid.New())
		if err != nil {
			return err
		}
		return repos.Audits().Append(ctx, entry)
	})
	require.NoError(t, err)

	found, err := NewGormLedgerRepository(db).FindByID(ctx, ledger.ID)
	require.NoError(t, err)
	assert.Equal(t, payroll.LedgerStatusPending, found.Status)
	count, err := NewGormAuditRepository(db).CountByLedger(ctx, ledger.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}
