package enums

import "fmt"

// SalaryStatus tracks a payroll record from draft to payout.
type SalaryStatus string

const (
	SalaryStatusDraft    SalaryStatus = "draft"
	SalaryStatusApproved SalaryStatus = "approved"
	SalaryStatusPaid     SalaryStatus = "paid"
)

var validSalaryStatuses = []SalaryStatus{
	SalaryStatusDraft,
	SalaryStatusApproved,
	SalaryStatusPaid,
}

// String implements fmt.Stringer.
func (s SalaryStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SalaryStatus.
func (s SalaryStatus) IsValid() bool {
	for _, candidate := range validSalaryStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether the record may advance to next.
func (s SalaryStatus) CanTransitionTo(next SalaryStatus) bool {
	if s == next {
		return s.IsValid()
	}
	switch s {
	case SalaryStatusDraft:
		return next == SalaryStatusApproved
	case SalaryStatusApproved:
		return next == SalaryStatusPaid
	default:
		return false
	}
}

// ParseSalaryStatus converts raw input into a SalaryStatus.
func ParseSalaryStatus(value string) (SalaryStatus, error) {
	for _, candidate := range validSalaryStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid salary status %q", value)
}
