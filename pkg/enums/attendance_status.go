package enums

import "fmt"

// AttendanceStatus describes a single day's attendance outcome.
type AttendanceStatus string

const (
	AttendanceStatusPresent AttendanceStatus = "present"
	AttendanceStatusLate    AttendanceStatus = "late"
	AttendanceStatusHalfDay AttendanceStatus = "half_day"
	AttendanceStatusAbsent  AttendanceStatus = "absent"
	AttendanceStatusOnLeave AttendanceStatus = "on_leave"
)

var validAttendanceStatuses = []AttendanceStatus{
	AttendanceStatusPresent,
	AttendanceStatusLate,
	AttendanceStatusHalfDay,
	AttendanceStatusAbsent,
	AttendanceStatusOnLeave,
}

// String implements fmt.Stringer.
func (a AttendanceStatus) String() string {
	return string(a)
}

// IsValid reports whether the value is a known AttendanceStatus.
func (a AttendanceStatus) IsValid() bool {
	for _, candidate := range validAttendanceStatuses {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseAttendanceStatus converts raw input into an AttendanceStatus.
func ParseAttendanceStatus(value string) (AttendanceStatus, error) {
	for _, candidate := range validAttendanceStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid attendance status %q", value)
}
