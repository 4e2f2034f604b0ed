package enums

import "fmt"

// TaskType classifies the kind of work a task represents.
type TaskType string

const (
	TaskTypeDocumentation TaskType = "documentation"
	TaskTypeVerification  TaskType = "verification"
	TaskTypeFollowUp      TaskType = "follow_up"
	TaskTypeDelivery      TaskType = "delivery"
	TaskTypeGeneral       TaskType = "general"
)

var validTaskTypes = []TaskType{
	TaskTypeDocumentation,
	TaskTypeVerification,
	TaskTypeFollowUp,
	TaskTypeDelivery,
	TaskTypeGeneral,
}

// String implements fmt.Stringer.
func (t TaskType) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TaskType.
func (t TaskType) IsValid() bool {
	for _, candidate := range validTaskTypes {
		if candidate == t {
			return true
		}
	}
	return false
}

// ParseTaskType converts raw input into a TaskType.
func ParseTaskType(value string) (TaskType, error) {
	for _, candidate := range validTaskTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid task type %q", value)
}
