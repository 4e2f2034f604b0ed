package attendance

import (
	"time"

	"github.com/docudeskhq/docudesk-backend/pkg/db/models"
	"github.com/docudeskhq/docudesk-backend/pkg/enums"
	"github.com/google/uuid"
)

// RecordDTO is the transport shape for one day's attendance.
type RecordDTO struct {
	ID           uuid.UUID              `json:"id"`
	UserID       uuid.UUID              `json:"user_id"`
	Day          string                 `json:"day"`
	ClockInAt    time.Time              `json:"clock_in_at"`
	ClockOutAt   *time.Time             `json:"clock_out_at,omitempty"`
	BreakMinutes int                    `json:"break_minutes"`
	TotalHours   float64                `json:"total_hours"`
	Overtime     float64                `json:"overtime_hours"`
	Status       enums.AttendanceStatus `json:"status"`
	Notes        string                 `json:"notes,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// LeaveDTO is the transport shape for a leave request.
type LeaveDTO struct {
	ID        uuid.UUID         `json:"id"`
	UserID    uuid.UUID         `json:"user_id"`
	Type      enums.LeaveType   `json:"type"`
	Status    enums.LeaveStatus `json:"status"`
	FromDate  string            `json:"from_date"`
	ToDate    string            `json:"to_date"`
	Reason    string            `json:"reason,omitempty"`
	DecidedBy *uuid.UUID        `json:"decided_by,omitempty"`
	DecidedAt *time.Time        `json:"decided_at,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// ClockOutInput carries the end-of-day entry.
type ClockOutInput struct {
	BreakMinutes int
	Notes        string
}

// RequestLeaveInput carries a new leave request. Dates are YYYY-MM-DD.
type RequestLeaveInput struct {
	Type     enums.LeaveType
	FromDate string
	ToDate   string
	Reason   string
}

// RecordFilter narrows attendance listings. Days are YYYY-MM-DD, inclusive.
type RecordFilter struct {
	UserID  *uuid.UUID
	FromDay string
	ToDay   string
}

// LeaveFilter narrows leave listings.
type LeaveFilter struct {
	UserID *uuid.UUID
	Status *enums.LeaveStatus
}

func RecordFromModel(r *models.AttendanceRecord) *RecordDTO {
	if r == nil {
		return nil
	}
	return &RecordDTO{
		ID:           r.ID,
		UserID:       r.UserID,
		Day:          r.Day,
		ClockInAt:    r.ClockInAt,
		ClockOutAt:   r.ClockOutAt,
		BreakMinutes: r.BreakMinutes,
		TotalHours:   r.TotalHours,
		Overtime:     r.Overtime,
		Status:       r.Status,
		Notes:        r.Notes,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func LeaveFromModel(l *models.LeaveRequest) *LeaveDTO {
	if l == nil {
		return nil
	}
	return &LeaveDTO{
		ID:        l.ID,
		UserID:    l.UserID,
		Type:      l.Type,
		Status:    l.Status,
		FromDate:  l.FromDate,
		ToDate:    l.ToDate,
		Reason:    l.Reason,
		DecidedBy: l.DecidedBy,
		DecidedAt: l.DecidedAt,
		CreatedAt: l.CreatedAt,
		UpdatedAt: l.UpdatedAt,
	}
}
