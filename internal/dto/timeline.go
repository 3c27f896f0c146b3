package dto

import (
	"time"

	"github.com/gatecrew/site_custody_app/internal/core/domain"
)

// TimelineEntryResponse is one row in a worker's daily activity timeline.
type TimelineEntryResponse struct {
	Kind       string    `json:"kind"`
	OccurredAt time.Time `json:"occurredAt"`
	VisitID    string    `json:"visitID,omitempty"`
	RecordID   string    `json:"recordID,omitempty"`
	ItemCode   string    `json:"itemCode,omitempty"`
	Detail     string    `json:"detail,omitempty"`
}

// TimelineResponse wraps a worker's timeline for one day. Entries always has
// at least one element; a NO_ACTIVITY placeholder stands in for an empty day.
type TimelineResponse struct {
	WorkerID string                  `json:"workerID"`
	Day      string                  `json:"day"` // YYYY-MM-DD, site-local
	Entries  []TimelineEntryResponse `json:"entries"`
}

// ToTimelineResponse converts domain activity entries to the response DTO.
func ToTimelineResponse(workerID string, day time.Time, entries []domain.ActivityEntry) TimelineResponse {
	responses := make([]TimelineEntryResponse, len(entries))
	for i, e := range entries {
		responses[i] = TimelineEntryResponse{
			Kind:       string(e.Kind),
			OccurredAt: e.OccurredAt,
			VisitID:    e.VisitID,
			RecordID:   e.RecordID,
			ItemCode:   e.ItemCode,
			Detail:     e.Detail,
		}
	}
	return TimelineResponse{
		WorkerID: workerID,
		Day:      day.Format("2006-01-02"),
		Entries:  responses,
	}
}
