package domain

import "time"

// DispatchStatus is the state of a bulk notification dispatch job.
type DispatchStatus string

const (
	DispatchPending    DispatchStatus = "PENDING"
	DispatchProcessing DispatchStatus = "PROCESSING"
	DispatchCompleted  DispatchStatus = "COMPLETED"
	DispatchFailed     DispatchStatus = "FAILED"
	DispatchCancelled  DispatchStatus = "CANCELLED"
)

// Terminal reports whether the status is final. A poller keeps polling until
// it observes a terminal status, including after requesting cancellation.
func (s DispatchStatus) Terminal() bool {
	switch s {
	case DispatchCompleted, DispatchFailed, DispatchCancelled:
		return true
	}
	return false
}

// DispatchJob is a long-running bulk notification delivery job. Cancellation is
// cooperative: Cancel only sets CancelRequested, and the processor moves the
// job to CANCELLED when it next observes the flag between batches.
type DispatchJob struct {
	JobID           string         `json:"jobID"` // Primary Key (e.g., UUID)
	Kind            string         `json:"kind"`  // e.g. QR_NOTIFICATION
	Status          DispatchStatus `json:"status"`
	TotalCount      int            `json:"totalCount"`
	ProcessedCount  int            `json:"processedCount"`
	CancelRequested bool           `json:"cancelRequested"`
	FailureReason   string         `json:"failureReason,omitempty"`
	StartedAt       *time.Time     `json:"startedAt"`
	FinishedAt      *time.Time     `json:"finishedAt"`
	AuditFields
}
