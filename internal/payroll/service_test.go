package payroll

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docudeskhq/docudesk-backend/pkg/config"
	dbtypes "github.com/docudeskhq/docudesk-backend/pkg/db/types"
	"github.com/docudeskhq/docudesk-backend/pkg/enums"
	pkgerrors "github.com/docudeskhq/docudesk-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupPayrollTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS staff_salary_configs (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  base_salary NUMERIC NOT NULL,
  allowances TEXT NOT NULL DEFAULT '[]',
  deductions TEXT NOT NULL DEFAULT '[]',
  overtime_rate NUMERIC NOT NULL,
  effective_from TEXT NOT NULL,
  is_active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);`,
		`CREATE TABLE IF NOT EXISTS salary_records (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  config_id TEXT NOT NULL,
  pay_month INTEGER NOT NULL,
  pay_year INTEGER NOT NULL,
  base_salary NUMERIC NOT NULL,
  allowance_total NUMERIC NOT NULL,
  overtime_hours NUMERIC NOT NULL,
  overtime_amount NUMERIC NOT NULL,
  bonus NUMERIC NOT NULL,
  gross_salary NUMERIC NOT NULL,
  deduction_total NUMERIC NOT NULL,
  net_salary NUMERIC NOT NULL,
  currency TEXT NOT NULL,
  status TEXT NOT NULL,
  generated_by TEXT,
  approved_by TEXT,
  paid_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (user_id, pay_month, pay_year)
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

type stubOvertimeSource struct {
	hours map[uuid.UUID]float64
}

func (s *stubOvertimeSource) MonthlyOvertime(_ context.Context, userID uuid.UUID, _ int, _ time.Month) (float64, error) {
	return s.hours[userID], nil
}

func newPayrollService(t *testing.T, overtime overtimeSource) Service {
	t.Helper()
	svc, err := NewService(NewRepository(setupPayrollTestDB(t)), overtime, nil, config.PayrollConfig{Currency: "INR"})
	require.NoError(t, err)
	return svc
}

func money(t *testing.T, raw string) decimal.Decimal {
	t.Helper()
	value, err := decimal.NewFromString(raw)
	require.NoError(t, err)
	return value
}

func TestUpsertConfigReplacesActive(t *testing.T) {
	svc := newPayrollService(t, nil)
	ctx := context.Background()
	userID := uuid.New()

	first, err := svc.UpsertConfig(ctx, UpsertConfigInput{
		UserID:       userID,
		BaseSalary:   money(t, "30000"),
		OvertimeRate: money(t, "150"),
	})
	require.NoError(t, err)
	assert.True(t, first.IsActive)

	second, err := svc.UpsertConfig(ctx, UpsertConfigInput{
		UserID:       userID,
		BaseSalary:   money(t, "35000"),
		OvertimeRate: money(t, "175"),
	})
	require.NoError(t, err)

	active, err := svc.GetActiveConfig(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, active.ID)
	assert.Equal(t, "35000", active.BaseSalary.String())
}

func TestUpsertConfigValidation(t *testing.T) {
	svc := newPayrollService(t, nil)
	ctx := context.Background()

	_, err := svc.UpsertConfig(ctx, UpsertConfigInput{
		UserID:     uuid.New(),
		BaseSalary: decimal.Zero,
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	_, err = svc.UpsertConfig(ctx, UpsertConfigInput{
		UserID:     uuid.New(),
		BaseSalary: money(t, "20000"),
		Deductions: dbtypes.PayComponentList{{Name: "pf", Amount: money(t, "-1")}},
	})
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestGenerateComputesExactDecimals(t *testing.T) {
	userID := uuid.New()
	overtime := &stubOvertimeSource{hours: map[uuid.UUID]float64{userID: 10.5}}
	svc := newPayrollService(t, overtime)
	ctx := context.Background()

	_, err := svc.UpsertConfig(ctx, UpsertConfigInput{
		UserID:     userID,
		BaseSalary: money(t, "30000.00"),
		Allowances: dbtypes.PayComponentList{
			{Name: "hra", Amount: money(t, "5000.00")},
			{Name: "travel", Amount: money(t, "1200.50")},
		},
		Deductions: dbtypes.PayComponentList{
			{Name: "pf", Amount: money(t, "1800.00")},
			{Name: "professional tax", Amount: money(t, "200.00")},
		},
		OvertimeRate: money(t, "150.25"),
	})
	require.NoError(t, err)

	result, err := svc.Generate(ctx, GenerateInput{
		Month:   3,
		Year:    2026,
		Bonuses: map[uuid.UUID]decimal.Decimal{userID: money(t, "1000.00")},
	})
	require.NoError(t, err)
	require.Len(t, result.Records, 1)

	record := result.Records[0]
	// overtime: 10.5 * 150.25 = 1577.625
	assert.Equal(t, "1577.625", record.OvertimeAmount.String())
	// gross: 30000 + 6200.50 + 1577.625 + 1000 = 38778.125
	assert.Equal(t, "38778.125", record.GrossSalary.String())
	// net: gross - 2000 = 36778.125
	assert.Equal(t, "36778.125", record.NetSalary.String())
	assert.Equal(t, "2000.00", record.DeductionTotal.StringFixed(2))
	assert.Equal(t, "INR", record.Currency)
	assert.Equal(t, enums.SalaryStatusDraft, record.Status)
}

func TestGenerateSkipsExistingPeriods(t *testing.T) {
	svc := newPayrollService(t, nil)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.UpsertConfig(ctx, UpsertConfigInput{
			UserID:       uuid.New(),
			BaseSalary:   money(t, "25000"),
			OvertimeRate: money(t, "100"),
		})
		require.NoError(t, err)
	}

	first, err := svc.Generate(ctx, GenerateInput{Month: 4, Year: 2026})
	require.NoError(t, err)
	assert.Len(t, first.Records, 2)
	assert.Zero(t, first.Skipped)

	// Re-running the same period produces nothing new.
	second, err := svc.Generate(ctx, GenerateInput{Month: 4, Year: 2026})
	require.NoError(t, err)
	assert.Empty(t, second.Records)
	assert.Equal(t, 2, second.Skipped)
}

func TestGenerateRejectsBadPeriod(t *testing.T) {
	svc := newPayrollService(t, nil)

	_, err := svc.Generate(context.Background(), GenerateInput{Month: 13, Year: 2026})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}

func TestSalaryRecordStatusTransitions(t *testing.T) {
	svc := newPayrollService(t, nil)
	ctx := context.Background()
	admin := uuid.New()

	_, err := svc.UpsertConfig(ctx, UpsertConfigInput{
		UserID:       uuid.New(),
		BaseSalary:   money(t, "25000"),
		OvertimeRate: money(t, "100"),
	})
	require.NoError(t, err)
	result, err := svc.Generate(ctx, GenerateInput{Month: 5, Year: 2026})
	require.NoError(t, err)
	require.Len(t, result.Records, 1)
	recordID := result.Records[0].ID

	// Draft cannot jump straight to paid.
	_, err = svc.UpdateRecordStatus(ctx, recordID, enums.SalaryStatusPaid, &admin)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	approved, err := svc.UpdateRecordStatus(ctx, recordID, enums.SalaryStatusApproved, &admin)
	require.NoError(t, err)
	require.NotNil(t, approved.ApprovedBy)
	assert.Equal(t, admin, *approved.ApprovedBy)

	paid, err := svc.UpdateRecordStatus(ctx, recordID, enums.SalaryStatusPaid, &admin)
	require.NoError(t, err)
	require.NotNil(t, paid.PaidAt)
}
