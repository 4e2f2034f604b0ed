package payroll

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/docudeskhq/docudesk-backend/pkg/config"
	"github.com/docudeskhq/docudesk-backend/pkg/db/models"
	dbtypes "github.com/docudeskhq/docudesk-backend/pkg/db/types"
	"github.com/docudeskhq/docudesk-backend/pkg/enums"
	pkgerrors "github.com/docudeskhq/docudesk-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"
)

type payrollRepository interface {
	UpsertConfig(ctx context.Context, config *models.StaffSalaryConfig) error
	FindActiveConfig(ctx context.Context, userID uuid.UUID) (*models.StaffSalaryConfig, error)
	ListActiveConfigs(ctx context.Context) ([]models.StaffSalaryConfig, error)
	CreateRecord(ctx context.Context, record *models.SalaryRecord) error
	FindRecordByID(ctx context.Context, id uuid.UUID) (*models.SalaryRecord, error)
	RecordExists(ctx context.Context, userID uuid.UUID, month, year int) (bool, error)
	ListRecords(ctx context.Context, filter RecordFilter) ([]models.SalaryRecord, error)
	UpdateRecord(ctx context.Context, record *models.SalaryRecord) error
}

// overtimeSource reports the overtime hours a user accrued in one period.
// The attendance service satisfies this.
type overtimeSource interface {
	MonthlyOvertime(ctx context.Context, userID uuid.UUID, year int, month time.Month) (float64, error)
}

type activityRecorder interface {
	Record(ctx context.Context, actorID *uuid.UUID, entityType, entityID string, action enums.ActivityAction, detail string)
}

// Service exposes salary configuration and payroll generation.
type Service interface {
	UpsertConfig(ctx context.Context, input UpsertConfigInput) (*ConfigDTO, error)
	GetActiveConfig(ctx context.Context, userID uuid.UUID) (*ConfigDTO, error)
	Generate(ctx context.Context, input GenerateInput) (*GenerateResult, error)
	GetRecord(ctx context.Context, id uuid.UUID) (*RecordDTO, error)
	ListRecords(ctx context.Context, filter RecordFilter) ([]RecordDTO, error)
	UpdateRecordStatus(ctx context.Context, id uuid.UUID, next enums.SalaryStatus, actorID *uuid.UUID) (*RecordDTO, error)
}

type service struct {
	repo     payrollRepository
	overtime overtimeSource
	activity activityRecorder
	cfg      config.PayrollConfig
	now      func() time.Time
}

// NewService constructs the payroll service. The overtime source is optional;
// without one, generated records carry zero overtime. The activity recorder
// is optional too.
func NewService(repo payrollRepository, overtime overtimeSource, activity activityRecorder, cfg config.PayrollConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payroll repository required")
	}
	if cfg.Currency == "" {
		return nil, fmt.Errorf("payroll currency required")
	}
	return &service{
		repo:     repo,
		overtime: overtime,
		activity: activity,
		cfg:      cfg,
		now:      time.Now,
	}, nil
}

func (s *service) UpsertConfig(ctx context.Context, input UpsertConfigInput) (*ConfigDTO, error) {
	if input.UserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if !input.BaseSalary.IsPositive() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "base salary must be positive")
	}
	if input.OvertimeRate.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "overtime rate cannot be negative")
	}
	for _, list := range []dbtypes.PayComponentList{input.Allowances, input.Deductions} {
		for _, component := range list {
			if component.Amount.IsNegative() {
				return nil, pkgerrors.New(pkgerrors.CodeValidation,
					fmt.Sprintf("component %q has a negative amount", component.Name))
			}
		}
	}
	effectiveFrom := input.EffectiveFrom
	if effectiveFrom == "" {
		effectiveFrom = s.now().Format("2006-01-02")
	} else if _, err := time.Parse("2006-01-02", effectiveFrom); err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation,
			fmt.Sprintf("invalid effective date %q, want YYYY-MM-DD", effectiveFrom))
	}

	config := &models.StaffSalaryConfig{
		ID:            uuid.New(),
		UserID:        input.UserID,
		BaseSalary:    input.BaseSalary,
		Allowances:    input.Allowances,
		Deductions:    input.Deductions,
		OvertimeRate:  input.OvertimeRate,
		EffectiveFrom: effectiveFrom,
	}
	if err := s.repo.UpsertConfig(ctx, config); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save salary config")
	}
	return ConfigFromModel(config), nil
}

func (s *service) GetActiveConfig(ctx context.Context, userID uuid.UUID) (*ConfigDTO, error) {
	config, err := s.repo.FindActiveConfig(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load salary config")
	}
	if config == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active salary config for user")
	}
	return ConfigFromModel(config), nil
}

// Generate produces one salary record per active config for the period.
// Users already covered for the period are skipped; per-user failures are
// collected so one bad row does not abort the whole run.
func (s *service) Generate(ctx context.Context, input GenerateInput) (*GenerateResult, error) {
	if input.Month < 1 || input.Month > 12 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid month %d", input.Month))
	}
	if input.Year < 2000 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid year %d", input.Year))
	}

	configs, err := s.repo.ListActiveConfigs(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list salary configs")
	}

	result := &GenerateResult{}
	var failures error
	for i := range configs {
		cfg := &configs[i]
		exists, err := s.repo.RecordExists(ctx, cfg.UserID, input.Month, input.Year)
		if err != nil {
			failures = multierr.Append(failures, fmt.Errorf("user %s: %w", cfg.UserID, err))
			continue
		}
		if exists {
			result.Skipped++
			continue
		}

		record, err := s.buildRecord(ctx, cfg, input)
		if err != nil {
			failures = multierr.Append(failures, fmt.Errorf("user %s: %w", cfg.UserID, err))
			continue
		}
		if err := s.repo.CreateRecord(ctx, record); err != nil {
			failures = multierr.Append(failures, fmt.Errorf("user %s: %w", cfg.UserID, err))
			continue
		}
		result.Records = append(result.Records, *RecordFromModel(record))
	}

	if failures != nil {
		if len(result.Records) == 0 && result.Skipped == 0 {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, failures, "generate payroll")
		}
		// Partial run: hand back what was produced along with the errors.
		return result, pkgerrors.Wrap(pkgerrors.CodeDependency, failures, "generate payroll partially failed")
	}

	s.record(ctx, input.GeneratedBy, uuid.Nil, enums.ActivityActionGenerated,
		fmt.Sprintf("payroll generated for %d/%d: %d records, %d skipped",
			input.Month, input.Year, len(result.Records), result.Skipped))
	return result, nil
}

// buildRecord freezes one user's pay for the period. All arithmetic stays in
// decimals; overtime hours are rounded to two places before pricing.
func (s *service) buildRecord(ctx context.Context, cfg *models.StaffSalaryConfig, input GenerateInput) (*models.SalaryRecord, error) {
	var overtimeHours decimal.Decimal
	if s.overtime != nil {
		hours, err := s.overtime.MonthlyOvertime(ctx, cfg.UserID, input.Year, time.Month(input.Month))
		if err != nil {
			return nil, fmt.Errorf("overtime lookup: %w", err)
		}
		overtimeHours = decimal.NewFromFloat(hours).Round(2)
	}
	overtimeAmount := overtimeHours.Mul(cfg.OvertimeRate)

	bonus := decimal.Zero
	if input.Bonuses != nil {
		if b, ok := input.Bonuses[cfg.UserID]; ok {
			if b.IsNegative() {
				return nil, fmt.Errorf("negative bonus")
			}
			bonus = b
		}
	}

	allowanceTotal := cfg.Allowances.Total()
	deductionTotal := cfg.Deductions.Total()
	gross := cfg.BaseSalary.Add(allowanceTotal).Add(overtimeAmount).Add(bonus)
	net := gross.Sub(deductionTotal)

	return &models.SalaryRecord{
		ID:             uuid.New(),
		UserID:         cfg.UserID,
		ConfigID:       cfg.ID,
		Month:          input.Month,
		Year:           input.Year,
		BaseSalary:     cfg.BaseSalary,
		AllowanceTotal: allowanceTotal,
		OvertimeHours:  overtimeHours,
		OvertimeAmount: overtimeAmount,
		Bonus:          bonus,
		GrossSalary:    gross,
		DeductionTotal: deductionTotal,
		NetSalary:      net,
		Currency:       s.cfg.Currency,
		Status:         enums.SalaryStatusDraft,
		GeneratedBy:    input.GeneratedBy,
	}, nil
}

func (s *service) GetRecord(ctx context.Context, id uuid.UUID) (*RecordDTO, error) {
	record, err := s.loadRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	return RecordFromModel(record), nil
}

func (s *service) ListRecords(ctx context.Context, filter RecordFilter) ([]RecordDTO, error) {
	rows, err := s.repo.ListRecords(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list salary records")
	}
	out := make([]RecordDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *RecordFromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) UpdateRecordStatus(ctx context.Context, id uuid.UUID, next enums.SalaryStatus, actorID *uuid.UUID) (*RecordDTO, error) {
	if !next.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown salary status %q", next))
	}

	record, err := s.loadRecord(ctx, id)
	if err != nil {
		return nil, err
	}
	if record.Status == next {
		return RecordFromModel(record), nil
	}
	if !record.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("cannot move salary record from %s to %s", record.Status, next))
	}

	previous := record.Status
	record.Status = next
	switch next {
	case enums.SalaryStatusApproved:
		record.ApprovedBy = actorID
	case enums.SalaryStatusPaid:
		if record.PaidAt == nil {
			now := s.now()
			record.PaidAt = &now
		}
	}
	if err := s.repo.UpdateRecord(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update salary record")
	}

	s.record(ctx, actorID, record.ID, enums.ActivityActionStatusChanged,
		fmt.Sprintf("salary record moved from %s to %s", previous, next))
	return RecordFromModel(record), nil
}

func (s *service) loadRecord(ctx context.Context, id uuid.UUID) (*models.SalaryRecord, error) {
	record, err := s.repo.FindRecordByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "salary record not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load salary record")
	}
	return record, nil
}

func (s *service) record(ctx context.Context, actorID *uuid.UUID, entityID uuid.UUID, action enums.ActivityAction, detail string) {
	if s.activity == nil {
		return
	}
	id := ""
	if entityID != uuid.Nil {
		id = entityID.String()
	}
	s.activity.Record(ctx, actorID, "payroll", id, action, detail)
}
