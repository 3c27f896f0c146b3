package dto

import (
	"time"

	"github.com/gatecrew/site_custody_app/internal/core/domain"
)

// CreateDispatchRequest enqueues a bulk notification job for a set of workers.
type CreateDispatchRequest struct {
	Kind      string   `json:"kind" binding:"required,oneof=QR_NOTIFICATION"`
	WorkerIDs []string `json:"workerIDs" binding:"required,min=1"`
}

// DispatchJobResponse is the poller's view of a job. Callers poll until
// Status is terminal, including after requesting cancellation.
type DispatchJobResponse struct {
	JobID           string     `json:"jobID"`
	Kind            string     `json:"kind"`
	Status          string     `json:"status"`
	TotalCount      int        `json:"totalCount"`
	ProcessedCount  int        `json:"processedCount"`
	CancelRequested bool       `json:"cancelRequested"`
	FailureReason   string     `json:"failureReason,omitempty"`
	StartedAt       *time.Time `json:"startedAt,omitempty"`
	FinishedAt      *time.Time `json:"finishedAt,omitempty"`
}

// ToDispatchJobResponse converts domain.DispatchJob to DTO.
func ToDispatchJobResponse(j *domain.DispatchJob) DispatchJobResponse {
	return DispatchJobResponse{
		JobID:           j.JobID,
		Kind:            j.Kind,
		Status:          string(j.Status),
		TotalCount:      j.TotalCount,
		ProcessedCount:  j.ProcessedCount,
		CancelRequested: j.CancelRequested,
		FailureReason:   j.FailureReason,
		StartedAt:       j.StartedAt,
		FinishedAt:      j.FinishedAt,
	}
}
