package enums

import "fmt"

// DocumentStatus tracks a document through the registration pipeline.
type DocumentStatus string

const (
	DocumentStatusPendingCollection   DocumentStatus = "pending_collection"
	DocumentStatusCollected           DocumentStatus = "collected"
	DocumentStatusDataEntryPending    DocumentStatus = "data_entry_pending"
	DocumentStatusDataEntryCompleted  DocumentStatus = "data_entry_completed"
	DocumentStatusRegistrationPending DocumentStatus = "registration_pending"
	DocumentStatusRegistered          DocumentStatus = "registered"
	DocumentStatusReadyForDelivery    DocumentStatus = "ready_for_delivery"
	DocumentStatusDelivered           DocumentStatus = "delivered"
)

// documentPipeline is ordered; a document only ever advances one step at a time.
var documentPipeline = []DocumentStatus{
	DocumentStatusPendingCollection,
	DocumentStatusCollected,
	DocumentStatusDataEntryPending,
	DocumentStatusDataEntryCompleted,
	DocumentStatusRegistrationPending,
	DocumentStatusRegistered,
	DocumentStatusReadyForDelivery,
	DocumentStatusDelivered,
}

// String implements fmt.Stringer.
func (d DocumentStatus) String() string {
	return string(d)
}

// IsValid reports whether the value is a known DocumentStatus.
func (d DocumentStatus) IsValid() bool {
	return d.pipelineIndex() >= 0
}

// IsTerminal reports whether no further transitions are allowed.
func (d DocumentStatus) IsTerminal() bool {
	return d == DocumentStatusDelivered
}

// CanTransitionTo reports whether the pipeline permits moving to next.
// Setting the same status again is treated as a no-op and allowed.
func (d DocumentStatus) CanTransitionTo(next DocumentStatus) bool {
	from := d.pipelineIndex()
	to := next.pipelineIndex()
	if from < 0 || to < 0 {
		return false
	}
	return to == from || to == from+1
}

func (d DocumentStatus) pipelineIndex() int {
	for i, candidate := range documentPipeline {
		if candidate == d {
			return i
		}
	}
	return -1
}

// ParseDocumentStatus converts raw input into a DocumentStatus.
func ParseDocumentStatus(value string) (DocumentStatus, error) {
	for _, candidate := range documentPipeline {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid document status %q", value)
}
