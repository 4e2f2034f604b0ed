package attendance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/docudeskhq/docudesk-backend/pkg/config"
	"github.com/docudeskhq/docudesk-backend/pkg/enums"
	pkgerrors "github.com/docudeskhq/docudesk-backend/pkg/errors"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAttendanceTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	statements := []string{
		`CREATE TABLE IF NOT EXISTS attendance_records (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  attendance_day TEXT NOT NULL,
  clock_in_at DATETIME NOT NULL,
  clock_out_at DATETIME,
  break_minutes INTEGER NOT NULL DEFAULT 0,
  total_hours REAL NOT NULL DEFAULT 0,
  overtime_hours REAL NOT NULL DEFAULT 0,
  status TEXT NOT NULL,
  notes TEXT NOT NULL DEFAULT '',
  created_at DATETIME,
  updated_at DATETIME,
  UNIQUE (user_id, attendance_day)
);`,
		`CREATE TABLE IF NOT EXISTS leave_requests (
  id TEXT PRIMARY KEY,
  user_id TEXT NOT NULL,
  leave_type TEXT NOT NULL,
  status TEXT NOT NULL,
  from_date TEXT NOT NULL,
  to_date TEXT NOT NULL,
  reason TEXT NOT NULL DEFAULT '',
  decided_by TEXT,
  decided_at DATETIME,
  created_at DATETIME,
  updated_at DATETIME
);`,
	}
	for _, stmt := range statements {
		require.NoError(t, db.Exec(stmt).Error)
	}
	return db
}

func testAttendanceConfig() config.AttendanceConfig {
	return config.AttendanceConfig{
		WorkingHoursPerDay: 8,
		ClockInDeadline:    "10:15",
		Timezone:           "Asia/Kolkata",
	}
}

// newAttendanceService returns the service with its clock pinned to the
// given instant; advance the clock through the returned pointer.
func newAttendanceService(t *testing.T, start time.Time) (Service, *time.Time) {
	t.Helper()
	svc, err := NewService(NewRepository(setupAttendanceTestDB(t)), nil, testAttendanceConfig())
	require.NoError(t, err)

	current := start
	svc.(*service).now = func() time.Time { return current }
	return svc, &current
}

func officeTime(t *testing.T, value string) time.Time {
	t.Helper()
	location, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	parsed, err := time.ParseInLocation("2006-01-02 15:04", value, location)
	require.NoError(t, err)
	return parsed
}

func TestClockInMarksLateAfterDeadline(t *testing.T) {
	svc, clock := newAttendanceService(t, officeTime(t, "2026-03-02 09:55"))
	ctx := context.Background()

	early, err := svc.ClockIn(ctx, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, enums.AttendanceStatusPresent, early.Status)
	assert.Equal(t, "2026-03-02", early.Day)

	*clock = officeTime(t, "2026-03-02 10:16")
	late, err := svc.ClockIn(ctx, uuid.New())
	require.NoError(t, err)
	assert.Equal(t, enums.AttendanceStatusLate, late.Status)
}

func TestClockInTwiceSameDayRejected(t *testing.T) {
	svc, clock := newAttendanceService(t, officeTime(t, "2026-03-02 09:00"))
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.ClockIn(ctx, userID)
	require.NoError(t, err)

	*clock = officeTime(t, "2026-03-02 14:00")
	_, err = svc.ClockIn(ctx, userID)
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())

	// A new day gets a fresh record.
	*clock = officeTime(t, "2026-03-03 09:00")
	next, err := svc.ClockIn(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, "2026-03-03", next.Day)
}

func TestClockOutComputesHoursAndOvertime(t *testing.T) {
	svc, clock := newAttendanceService(t, officeTime(t, "2026-03-02 09:00"))
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.ClockIn(ctx, userID)
	require.NoError(t, err)

	// 9:00 to 19:00 minus a 60 minute break is 9 worked hours, one of
	// them beyond the 8 hour day.
	*clock = officeTime(t, "2026-03-02 19:00")
	record, err := svc.ClockOut(ctx, userID, ClockOutInput{BreakMinutes: 60})
	require.NoError(t, err)
	assert.InDelta(t, 9.0, record.TotalHours, 0.001)
	assert.InDelta(t, 1.0, record.Overtime, 0.001)
	require.NotNil(t, record.ClockOutAt)

	_, err = svc.ClockOut(ctx, userID, ClockOutInput{})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestClockOutShortDayBecomesHalfDay(t *testing.T) {
	svc, clock := newAttendanceService(t, officeTime(t, "2026-03-02 09:00"))
	ctx := context.Background()
	userID := uuid.New()

	_, err := svc.ClockIn(ctx, userID)
	require.NoError(t, err)

	*clock = officeTime(t, "2026-03-02 12:00")
	record, err := svc.ClockOut(ctx, userID, ClockOutInput{})
	require.NoError(t, err)
	assert.Equal(t, enums.AttendanceStatusHalfDay, record.Status)
	assert.InDelta(t, 3.0, record.TotalHours, 0.001)
	assert.Zero(t, record.Overtime)
}

func TestClockOutWithoutClockInRejected(t *testing.T) {
	svc, _ := newAttendanceService(t, officeTime(t, "2026-03-02 18:00"))

	_, err := svc.ClockOut(context.Background(), uuid.New(), ClockOutInput{})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestMonthlyOvertimeSumsWithinMonth(t *testing.T) {
	svc, clock := newAttendanceService(t, officeTime(t, "2026-03-02 09:00"))
	ctx := context.Background()
	userID := uuid.New()

	// Two days with 1.5h overtime each, then one day in April that must
	// not count.
	for _, day := range []string{"2026-03-02", "2026-03-03", "2026-04-01"} {
		*clock = officeTime(t, day+" 09:00")
		_, err := svc.ClockIn(ctx, userID)
		require.NoError(t, err)
		*clock = officeTime(t, day+" 18:30")
		_, err = svc.ClockOut(ctx, userID, ClockOutInput{})
		require.NoError(t, err)
	}

	total, err := svc.MonthlyOvertime(ctx, userID, 2026, time.March)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, total, 0.001)
}

func TestLeaveRequestLifecycle(t *testing.T) {
	svc, _ := newAttendanceService(t, officeTime(t, "2026-03-02 09:00"))
	ctx := context.Background()
	userID := uuid.New()
	admin := uuid.New()

	_, err := svc.RequestLeave(ctx, userID, RequestLeaveInput{
		Type:     enums.LeaveTypeCasual,
		FromDate: "2026-03-12",
		ToDate:   "2026-03-10",
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())

	leave, err := svc.RequestLeave(ctx, userID, RequestLeaveInput{
		Type:     enums.LeaveTypeSick,
		FromDate: "2026-03-10",
		ToDate:   "2026-03-12",
		Reason:   "fever",
	})
	require.NoError(t, err)
	assert.Equal(t, enums.LeaveStatusPending, leave.Status)

	approved, err := svc.DecideLeave(ctx, leave.ID, true, admin)
	require.NoError(t, err)
	assert.Equal(t, enums.LeaveStatusApproved, approved.Status)
	require.NotNil(t, approved.DecidedBy)
	assert.Equal(t, admin, *approved.DecidedBy)
	require.NotNil(t, approved.DecidedAt)

	// Decisions are final.
	_, err = svc.DecideLeave(ctx, leave.ID, false, admin)
	typed = pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeStateConflict, typed.Code())
}

func TestListLeavesFiltersByStatus(t *testing.T) {
	svc, _ := newAttendanceService(t, officeTime(t, "2026-03-02 09:00"))
	ctx := context.Background()
	admin := uuid.New()

	first, err := svc.RequestLeave(ctx, uuid.New(), RequestLeaveInput{
		Type: enums.LeaveTypeCasual, FromDate: "2026-03-05", ToDate: "2026-03-05",
	})
	require.NoError(t, err)
	_, err = svc.RequestLeave(ctx, uuid.New(), RequestLeaveInput{
		Type: enums.LeaveTypeEarned, FromDate: "2026-03-09", ToDate: "2026-03-13",
	})
	require.NoError(t, err)

	_, err = svc.DecideLeave(ctx, first.ID, false, admin)
	require.NoError(t, err)

	pending := enums.LeaveStatusPending
	waiting, err := svc.ListLeaves(ctx, LeaveFilter{Status: &pending})
	require.NoError(t, err)
	assert.Len(t, waiting, 1)
}
