package payroll

import (
	"time"

	"github.com/docudeskhq/docudesk-backend/pkg/db/models"
	dbtypes "github.com/docudeskhq/docudesk-backend/pkg/db/types"
	"github.com/docudeskhq/docudesk-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConfigDTO is the transport shape for a staff salary configuration.
type ConfigDTO struct {
	ID            uuid.UUID                `json:"id"`
	UserID        uuid.UUID                `json:"user_id"`
	BaseSalary    decimal.Decimal          `json:"base_salary"`
	Allowances    dbtypes.PayComponentList `json:"allowances"`
	Deductions    dbtypes.PayComponentList `json:"deductions"`
	OvertimeRate  decimal.Decimal          `json:"overtime_rate"`
	EffectiveFrom string                   `json:"effective_from"`
	IsActive      bool                     `json:"is_active"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
}

// RecordDTO is the transport shape for one generated salary record.
type RecordDTO struct {
	ID       uuid.UUID `json:"id"`
	UserID   uuid.UUID `json:"user_id"`
	ConfigID uuid.UUID `json:"config_id"`
	Month    int       `json:"month"`
	Year     int       `json:"year"`

	BaseSalary     decimal.Decimal `json:"base_salary"`
	AllowanceTotal decimal.Decimal `json:"allowance_total"`
	OvertimeHours  decimal.Decimal `json:"overtime_hours"`
	OvertimeAmount decimal.Decimal `json:"overtime_amount"`
	Bonus          decimal.Decimal `json:"bonus"`
	GrossSalary    decimal.Decimal `json:"gross_salary"`
	DeductionTotal decimal.Decimal `json:"deduction_total"`
	NetSalary      decimal.Decimal `json:"net_salary"`
	Currency       string          `json:"currency"`

	Status      enums.SalaryStatus `json:"status"`
	GeneratedBy *uuid.UUID         `json:"generated_by,omitempty"`
	ApprovedBy  *uuid.UUID         `json:"approved_by,omitempty"`
	PaidAt      *time.Time         `json:"paid_at,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// UpsertConfigInput carries a salary configuration for one staff member.
type UpsertConfigInput struct {
	UserID        uuid.UUID
	BaseSalary    decimal.Decimal
	Allowances    dbtypes.PayComponentList
	Deductions    dbtypes.PayComponentList
	OvertimeRate  decimal.Decimal
	EffectiveFrom string
}

// GenerateInput triggers payroll generation for one period.
type GenerateInput struct {
	Month       int
	Year        int
	Bonuses     map[uuid.UUID]decimal.Decimal
	GeneratedBy *uuid.UUID
}

// GenerateResult reports what one payroll run produced.
type GenerateResult struct {
	Records []RecordDTO `json:"records"`
	Skipped int         `json:"skipped"`
}

// RecordFilter narrows salary record listings.
type RecordFilter struct {
	UserID *uuid.UUID
	Month  *int
	Year   *int
	Status *enums.SalaryStatus
}

func ConfigFromModel(c *models.StaffSalaryConfig) *ConfigDTO {
	if c == nil {
		return nil
	}
	return &ConfigDTO{
		ID:            c.ID,
		UserID:        c.UserID,
		BaseSalary:    c.BaseSalary,
		Allowances:    c.Allowances,
		Deductions:    c.Deductions,
		OvertimeRate:  c.OvertimeRate,
		EffectiveFrom: c.EffectiveFrom,
		IsActive:      c.IsActive,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

func RecordFromModel(r *models.SalaryRecord) *RecordDTO {
	if r == nil {
		return nil
	}
	return &RecordDTO{
		ID:             r.ID,
		UserID:         r.UserID,
		ConfigID:       r.ConfigID,
		Month:          r.Month,
		Year:           r.Year,
		BaseSalary:     r.BaseSalary,
		AllowanceTotal: r.AllowanceTotal,
		OvertimeHours:  r.OvertimeHours,
		OvertimeAmount: r.OvertimeAmount,
		Bonus:          r.Bonus,
		GrossSalary:    r.GrossSalary,
		DeductionTotal: r.DeductionTotal,
		NetSalary:      r.NetSalary,
		Currency:       r.Currency,
		Status:         r.Status,
		GeneratedBy:    r.GeneratedBy,
		ApprovedBy:     r.ApprovedBy,
		PaidAt:         r.PaidAt,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}
