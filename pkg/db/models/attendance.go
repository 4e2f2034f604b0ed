package models

import (
	"time"

	"github.com/docudeskhq/docudesk-backend/pkg/enums"
	"github.com/google/uuid"
)

// AttendanceRecord is one row per (user, calendar day). Day is stored as the
// date string YYYY-MM-DD in office-local time so the unique index holds
// regardless of timezone math.
type AttendanceRecord struct {
	ID           uuid.UUID              `gorm:"type:uuid;primaryKey"`
	UserID       uuid.UUID              `gorm:"column:user_id;type:uuid;not null;uniqueIndex:idx_attendance_user_day"`
	Day          string                 `gorm:"column:attendance_day;not null;uniqueIndex:idx_attendance_user_day"`
	ClockInAt    time.Time              `gorm:"column:clock_in_at;not null"`
	ClockOutAt   *time.Time             `gorm:"column:clock_out_at"`
	BreakMinutes int                    `gorm:"column:break_minutes;not null;default:0"`
	TotalHours   float64                `gorm:"column:total_hours;not null;default:0"`
	Overtime     float64                `gorm:"column:overtime_hours;not null;default:0"`
	Status       enums.AttendanceStatus `gorm:"column:status;not null"`
	Notes        string                 `gorm:"column:notes"`
	CreatedAt    time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}

// LeaveRequest is a staff absence request pending an admin decision.
type LeaveRequest struct {
	ID        uuid.UUID         `gorm:"type:uuid;primaryKey"`
	UserID    uuid.UUID         `gorm:"column:user_id;type:uuid;not null;index"`
	Type      enums.LeaveType   `gorm:"column:leave_type;not null"`
	Status    enums.LeaveStatus `gorm:"column:status;not null;index"`
	FromDate  string            `gorm:"column:from_date;not null"`
	ToDate    string            `gorm:"column:to_date;not null"`
	Reason    string            `gorm:"column:reason"`
	DecidedBy *uuid.UUID        `gorm:"column:decided_by;type:uuid"`
	DecidedAt *time.Time        `gorm:"column:decided_at"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}
