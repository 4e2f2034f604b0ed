package enums

import "fmt"

// LeaveType classifies a leave request.
type LeaveType string

const (
	LeaveTypeCasual LeaveType = "casual"
	LeaveTypeSick   LeaveType = "sick"
	LeaveTypeEarned LeaveType = "earned"
	LeaveTypeUnpaid LeaveType = "unpaid"
)

var validLeaveTypes = []LeaveType{
	LeaveTypeCasual,
	LeaveTypeSick,
	LeaveTypeEarned,
	LeaveTypeUnpaid,
}

// String implements fmt.Stringer.
func (l LeaveType) String() string {
	return string(l)
}

// IsValid reports whether the value is a known LeaveType.
func (l LeaveType) IsValid() bool {
	for _, candidate := range validLeaveTypes {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLeaveType converts raw input into a LeaveType.
func ParseLeaveType(value string) (LeaveType, error) {
	for _, candidate := range validLeaveTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid leave type %q", value)
}

// LeaveStatus tracks the approval state of a leave request.
type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "pending"
	LeaveStatusApproved LeaveStatus = "approved"
	LeaveStatusRejected LeaveStatus = "rejected"
)

var validLeaveStatuses = []LeaveStatus{
	LeaveStatusPending,
	LeaveStatusApproved,
	LeaveStatusRejected,
}

// String implements fmt.Stringer.
func (l LeaveStatus) String() string {
	return string(l)
}

// IsValid reports whether the value is a known LeaveStatus.
func (l LeaveStatus) IsValid() bool {
	for _, candidate := range validLeaveStatuses {
		if candidate == l {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether a decision is still allowed. Only pending
// requests may be approved or rejected.
func (l LeaveStatus) CanTransitionTo(next LeaveStatus) bool {
	if l != LeaveStatusPending {
		return false
	}
	return next == LeaveStatusApproved || next == LeaveStatusRejected
}

// ParseLeaveStatus converts raw input into a LeaveStatus.
func ParseLeaveStatus(value string) (LeaveStatus, error) {
	for _, candidate := range validLeaveStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid leave status %q", value)
}
