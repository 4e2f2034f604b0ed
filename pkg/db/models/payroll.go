package models

import (
	"time"

	dbtypes "github.com/docudeskhq/docudesk-backend/pkg/db/types"
	"github.com/docudeskhq/docudesk-backend/pkg/enums"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StaffSalaryConfig holds the pay structure for one staff member. At most one
// config per user is active at a time.
type StaffSalaryConfig struct {
	ID            uuid.UUID                `gorm:"type:uuid;primaryKey"`
	UserID        uuid.UUID                `gorm:"column:user_id;type:uuid;not null;index"`
	BaseSalary    decimal.Decimal          `gorm:"column:base_salary;type:numeric(12,2);not null"`
	Allowances    dbtypes.PayComponentList `gorm:"column:allowances;type:text"`
	Deductions    dbtypes.PayComponentList `gorm:"column:deductions;type:text"`
	OvertimeRate  decimal.Decimal          `gorm:"column:overtime_rate;type:numeric(12,2);not null"`
	EffectiveFrom string                   `gorm:"column:effective_from;not null"`
	IsActive      bool                     `gorm:"column:is_active;not null;default:true"`
	CreatedAt     time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

// SalaryRecord is one staff member's payroll for a (month, year) period.
// The monetary breakdown is frozen at generation time.
type SalaryRecord struct {
	ID       uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserID   uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_salary_user_period"`
	ConfigID uuid.UUID `gorm:"column:config_id;type:uuid;not null"`
	Month    int       `gorm:"column:pay_month;not null;uniqueIndex:idx_salary_user_period"`
	Year     int       `gorm:"column:pay_year;not null;uniqueIndex:idx_salary_user_period"`

	BaseSalary     decimal.Decimal `gorm:"column:base_salary;type:numeric(12,2);not null"`
	AllowanceTotal decimal.Decimal `gorm:"column:allowance_total;type:numeric(12,2);not null"`
	OvertimeHours  decimal.Decimal `gorm:"column:overtime_hours;type:numeric(8,2);not null"`
	OvertimeAmount decimal.Decimal `gorm:"column:overtime_amount;type:numeric(12,2);not null"`
	Bonus          decimal.Decimal `gorm:"column:bonus;type:numeric(12,2);not null"`
	GrossSalary    decimal.Decimal `gorm:"column:gross_salary;type:numeric(12,2);not null"`
	DeductionTotal decimal.Decimal `gorm:"column:deduction_total;type:numeric(12,2);not null"`
	NetSalary      decimal.Decimal `gorm:"column:net_salary;type:numeric(12,2);not null"`
	Currency       string          `gorm:"column:currency;not null"`

	Status      enums.SalaryStatus `gorm:"column:status;not null;index"`
	GeneratedBy *uuid.UUID         `gorm:"column:generated_by;type:uuid"`
	ApprovedBy  *uuid.UUID         `gorm:"column:approved_by;type:uuid"`
	PaidAt      *time.Time         `gorm:"column:paid_at"`
	CreatedAt   time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
