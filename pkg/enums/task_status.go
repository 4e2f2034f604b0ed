package enums

import "fmt"

// TaskStatus tracks the lifecycle of an office task.
type TaskStatus string

const (
	TaskStatusPending    TaskStatus = "pending"
	TaskStatusInProgress TaskStatus = "in_progress"
	TaskStatusOnHold     TaskStatus = "on_hold"
	TaskStatusCompleted  TaskStatus = "completed"
	TaskStatusCancelled  TaskStatus = "cancelled"
)

var validTaskStatuses = []TaskStatus{
	TaskStatusPending,
	TaskStatusInProgress,
	TaskStatusOnHold,
	TaskStatusCompleted,
	TaskStatusCancelled,
}

// taskTransitions lists the permitted next statuses. Completed and cancelled
// are terminal; on_hold is only reachable from in_progress.
var taskTransitions = map[TaskStatus][]TaskStatus{
	TaskStatusPending:    {TaskStatusInProgress, TaskStatusCancelled},
	TaskStatusInProgress: {TaskStatusOnHold, TaskStatusCompleted, TaskStatusCancelled},
	TaskStatusOnHold:     {TaskStatusInProgress, TaskStatusCancelled},
	TaskStatusCompleted:  {},
	TaskStatusCancelled:  {},
}

// String implements fmt.Stringer.
func (t TaskStatus) String() string {
	return string(t)
}

// IsValid reports whether the value is a known TaskStatus.
func (t TaskStatus) IsValid() bool {
	for _, candidate := range validTaskStatuses {
		if candidate == t {
			return true
		}
	}
	return false
}

// IsTerminal reports whether no further transitions are allowed.
func (t TaskStatus) IsTerminal() bool {
	return t == TaskStatusCompleted || t == TaskStatusCancelled
}

// CanTransitionTo reports whether the transition table permits moving to next.
// Setting the same status again is treated as a no-op and allowed.
func (t TaskStatus) CanTransitionTo(next TaskStatus) bool {
	if t == next {
		return t.IsValid()
	}
	for _, candidate := range taskTransitions[t] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ParseTaskStatus converts raw input into a TaskStatus.
func ParseTaskStatus(value string) (TaskStatus, error) {
	for _, candidate := range validTaskStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid task status %q", value)
}
