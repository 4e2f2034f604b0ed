package attendance

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/docudeskhq/docudesk-backend/pkg/config"
	"github.com/docudeskhq/docudesk-backend/pkg/db/models"
	"github.com/docudeskhq/docudesk-backend/pkg/enums"
	pkgerrors "github.com/docudeskhq/docudesk-backend/pkg/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const dayFormat = "2006-01-02"

type attendanceRepository interface {
	CreateRecord(ctx context.Context, record *models.AttendanceRecord) error
	FindRecord(ctx context.Context, userID uuid.UUID, day string) (*models.AttendanceRecord, error)
	ListRecords(ctx context.Context, filter RecordFilter) ([]models.AttendanceRecord, error)
	UpdateRecord(ctx context.Context, record *models.AttendanceRecord) error
	SumOvertime(ctx context.Context, userID uuid.UUID, fromDay, toDay string) (float64, error)
	CreateLeave(ctx context.Context, leave *models.LeaveRequest) error
	FindLeaveByID(ctx context.Context, id uuid.UUID) (*models.LeaveRequest, error)
	ListLeaves(ctx context.Context, filter LeaveFilter) ([]models.LeaveRequest, error)
	UpdateLeave(ctx context.Context, leave *models.LeaveRequest) error
}

type activityRecorder interface {
	Record(ctx context.Context, actorID *uuid.UUID, entityType, entityID string, action enums.ActivityAction, detail string)
}

// Service exposes attendance and leave operations.
type Service interface {
	ClockIn(ctx context.Context, userID uuid.UUID) (*RecordDTO, error)
	ClockOut(ctx context.Context, userID uuid.UUID, input ClockOutInput) (*RecordDTO, error)
	Today(ctx context.Context, userID uuid.UUID) (*RecordDTO, error)
	ListRecords(ctx context.Context, filter RecordFilter) ([]RecordDTO, error)
	MonthlyOvertime(ctx context.Context, userID uuid.UUID, year int, month time.Month) (float64, error)

	RequestLeave(ctx context.Context, userID uuid.UUID, input RequestLeaveInput) (*LeaveDTO, error)
	DecideLeave(ctx context.Context, id uuid.UUID, approve bool, decidedBy uuid.UUID) (*LeaveDTO, error)
	ListLeaves(ctx context.Context, filter LeaveFilter) ([]LeaveDTO, error)
}

type service struct {
	repo     attendanceRepository
	activity activityRecorder
	cfg      config.AttendanceConfig
	location *time.Location
	now      func() time.Time
}

// NewService constructs the attendance service. The office timezone in cfg
// must resolve; the clock-in deadline must parse as HH:MM.
func NewService(repo attendanceRepository, activity activityRecorder, cfg config.AttendanceConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("attendance repository required")
	}
	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load office timezone %q: %w", cfg.Timezone, err)
	}
	if _, _, err := parseDeadline(cfg.ClockInDeadline); err != nil {
		return nil, err
	}
	if cfg.WorkingHoursPerDay <= 0 {
		return nil, fmt.Errorf("working hours per day must be positive")
	}
	return &service{
		repo:     repo,
		activity: activity,
		cfg:      cfg,
		location: location,
		now:      time.Now,
	}, nil
}

func (s *service) ClockIn(ctx context.Context, userID uuid.UUID) (*RecordDTO, error) {
	now := s.now().In(s.location)
	day := now.Format(dayFormat)

	existing, err := s.repo.FindRecord(ctx, userID, day)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load attendance record")
	}
	if existing != nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("already clocked in on %s", day))
	}

	status := enums.AttendanceStatusPresent
	if s.isLate(now) {
		status = enums.AttendanceStatusLate
	}
	record := &models.AttendanceRecord{
		ID:        uuid.New(),
		UserID:    userID,
		Day:       day,
		ClockInAt: now,
		Status:    status,
	}
	if err := s.repo.CreateRecord(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create attendance record")
	}

	s.record(ctx, userID, record.ID, enums.ActivityActionClockIn,
		fmt.Sprintf("clocked in at %s (%s)", now.Format("15:04"), status))
	return RecordFromModel(record), nil
}

func (s *service) ClockOut(ctx context.Context, userID uuid.UUID, input ClockOutInput) (*RecordDTO, error) {
	if input.BreakMinutes < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "break minutes cannot be negative")
	}

	now := s.now().In(s.location)
	day := now.Format(dayFormat)

	record, err := s.repo.FindRecord(ctx, userID, day)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load attendance record")
	}
	if record == nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("no clock-in found for %s", day))
	}
	if record.ClockOutAt != nil {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("already clocked out on %s", day))
	}

	elapsed := now.Sub(record.ClockInAt) - time.Duration(input.BreakMinutes)*time.Minute
	if elapsed < 0 {
		elapsed = 0
	}
	total := elapsed.Hours()

	record.ClockOutAt = &now
	record.BreakMinutes = input.BreakMinutes
	record.TotalHours = total
	record.Overtime = overtimeHours(total, s.cfg.WorkingHoursPerDay)
	if input.Notes != "" {
		record.Notes = strings.TrimSpace(input.Notes)
	}
	if record.Status == enums.AttendanceStatusPresent && total < s.cfg.WorkingHoursPerDay/2 {
		record.Status = enums.AttendanceStatusHalfDay
	}
	if err := s.repo.UpdateRecord(ctx, record); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update attendance record")
	}

	s.record(ctx, userID, record.ID, enums.ActivityActionClockOut,
		fmt.Sprintf("clocked out after %.2f hours", total))
	return RecordFromModel(record), nil
}

func (s *service) Today(ctx context.Context, userID uuid.UUID) (*RecordDTO, error) {
	day := s.now().In(s.location).Format(dayFormat)
	record, err := s.repo.FindRecord(ctx, userID, day)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load attendance record")
	}
	if record == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no attendance record for today")
	}
	return RecordFromModel(record), nil
}

func (s *service) ListRecords(ctx context.Context, filter RecordFilter) ([]RecordDTO, error) {
	for _, day := range []string{filter.FromDay, filter.ToDay} {
		if day == "" {
			continue
		}
		if _, err := time.Parse(dayFormat, day); err != nil {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid day %q, want YYYY-MM-DD", day))
		}
	}
	rows, err := s.repo.ListRecords(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list attendance records")
	}
	out := make([]RecordDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *RecordFromModel(&rows[i]))
	}
	return out, nil
}

func (s *service) MonthlyOvertime(ctx context.Context, userID uuid.UUID, year int, month time.Month) (float64, error) {
	first := time.Date(year, month, 1, 0, 0, 0, 0, s.location)
	last := first.AddDate(0, 1, -1)
	total, err := s.repo.SumOvertime(ctx, userID, first.Format(dayFormat), last.Format(dayFormat))
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum overtime")
	}
	return total, nil
}

func (s *service) RequestLeave(ctx context.Context, userID uuid.UUID, input RequestLeaveInput) (*LeaveDTO, error) {
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("unknown leave type %q", input.Type))
	}
	from, err := time.Parse(dayFormat, input.FromDate)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid from date %q, want YYYY-MM-DD", input.FromDate))
	}
	to, err := time.Parse(dayFormat, input.ToDate)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid to date %q, want YYYY-MM-DD", input.ToDate))
	}
	if to.Before(from) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "leave cannot end before it starts")
	}

	leave := &models.LeaveRequest{
		ID:       uuid.New(),
		UserID:   userID,
		Type:     input.Type,
		Status:   enums.LeaveStatusPending,
		FromDate: input.FromDate,
		ToDate:   input.ToDate,
		Reason:   strings.TrimSpace(input.Reason),
	}
	if err := s.repo.CreateLeave(ctx, leave); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create leave request")
	}
	return LeaveFromModel(leave), nil
}

func (s *service) DecideLeave(ctx context.Context, id uuid.UUID, approve bool, decidedBy uuid.UUID) (*LeaveDTO, error) {
	leave, err := s.repo.FindLeaveByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "leave request not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load leave request")
	}

	next := enums.LeaveStatusApproved
	action := enums.ActivityActionApproved
	if !approve {
		next = enums.LeaveStatusRejected
		action = enums.ActivityActionRejected
	}
	if !leave.Status.CanTransitionTo(next) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict,
			fmt.Sprintf("leave request already %s", leave.Status))
	}

	now := s.now()
	leave.Status = next
	leave.DecidedBy = &decidedBy
	leave.DecidedAt = &now
	if err := s.repo.UpdateLeave(ctx, leave); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update leave request")
	}

	s.record(ctx, decidedBy, leave.ID, action,
		fmt.Sprintf("leave %s to %s %s", leave.FromDate, leave.ToDate, next))
	return LeaveFromModel(leave), nil
}

func (s *service) ListLeaves(ctx context.Context, filter LeaveFilter) ([]LeaveDTO, error) {
	rows, err := s.repo.ListLeaves(ctx, filter)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list leave requests")
	}
	out := make([]LeaveDTO, 0, len(rows))
	for i := range rows {
		out = append(out, *LeaveFromModel(&rows[i]))
	}
	return out, nil
}

// isLate reports whether local is past the configured clock-in deadline on
// its own day.
func (s *service) isLate(local time.Time) bool {
	hour, minute, _ := parseDeadline(s.cfg.ClockInDeadline)
	deadline := time.Date(local.Year(), local.Month(), local.Day(), hour, minute, 0, 0, local.Location())
	return local.After(deadline)
}

// overtimeHours returns the hours worked beyond the daily quota, never
// negative.
func overtimeHours(totalHours, workingHoursPerDay float64) float64 {
	if overtime := totalHours - workingHoursPerDay; overtime > 0 {
		return overtime
	}
	return 0
}

func parseDeadline(raw string) (hour, minute int, err error) {
	parsed, err := time.Parse("15:04", raw)
	if err != nil {
		return 0, 0, fmt.Errorf("parse clock-in deadline %q: %w", raw, err)
	}
	return parsed.Hour(), parsed.Minute(), nil
}

func (s *service) record(ctx context.Context, actorID uuid.UUID, entityID uuid.UUID, action enums.ActivityAction, detail string) {
	if s.activity == nil {
		return
	}
	s.activity.Record(ctx, &actorID, "attendance", entityID.String(), action, detail)
}
