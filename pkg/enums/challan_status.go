package enums

import "fmt"

// ChallanStatus tracks a government challan from issue to verification.
type ChallanStatus string

const (
	ChallanStatusIssued    ChallanStatus = "issued"
	ChallanStatusDeposited ChallanStatus = "deposited"
	ChallanStatusVerified  ChallanStatus = "verified"
	ChallanStatusCancelled ChallanStatus = "cancelled"
)

var validChallanStatuses = []ChallanStatus{
	ChallanStatusIssued,
	ChallanStatusDeposited,
	ChallanStatusVerified,
	ChallanStatusCancelled,
}

// String implements fmt.Stringer.
func (c ChallanStatus) String() string {
	return string(c)
}

// IsValid reports whether the value is a known ChallanStatus.
func (c ChallanStatus) IsValid() bool {
	for _, candidate := range validChallanStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the transition is allowed. A challan may
// only be cancelled while still issued; verified and cancelled are terminal.
func (c ChallanStatus) CanTransitionTo(next ChallanStatus) bool {
	if c == next {
		return c.IsValid()
	}
	switch c {
	case ChallanStatusIssued:
		return next == ChallanStatusDeposited || next == ChallanStatusCancelled
	case ChallanStatusDeposited:
		return next == ChallanStatusVerified
	default:
		return false
	}
}

// ParseChallanStatus converts raw input into a ChallanStatus.
func ParseChallanStatus(value string) (ChallanStatus, error) {
	for _, candidate := range validChallanStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid challan status %q", value)
}
