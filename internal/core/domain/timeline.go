package domain

import "time"

// ActivityKind classifies a single entry in a worker's daily activity timeline.
type ActivityKind string

const (
	ActivityCheckIn   ActivityKind = "CHECK_IN"
	ActivityCheckOut  ActivityKind = "CHECK_OUT"
	ActivityBorrow    ActivityKind = "BORROW"
	ActivityReturn    ActivityKind = "RETURN"
	ActivityNone      ActivityKind = "NO_ACTIVITY"
)

// ActivityEntry is one row in the reconciliation timeline: a visit or custody
// event for a worker on a given day. The timeline contract guarantees at least
// one entry; when nothing happened that day a single NO_ACTIVITY placeholder is
// produced instead of an empty list.
type ActivityEntry struct {
	Kind       ActivityKind `json:"kind"`
	OccurredAt time.Time    `json:"occurredAt"`
	VisitID    string       `json:"visitID,omitempty"`
	RecordID   string       `json:"recordID,omitempty"` // Set for BORROW/RETURN entries
	ItemCode   string       `json:"itemCode,omitempty"`
	Detail     string       `json:"detail,omitempty"`
}

// VisitSummary is the reconciled per-visit view joining the two ledgers by
// VisitID. Counts are computed from the custody ledger at read time, never
// stored redundantly.
type VisitSummary struct {
	Visit         Visit          `json:"visit"`
	BorrowedCount int            `json:"borrowedCount"`
	ReturnedCount int            `json:"returnedCount"`
	OpenRecords   []BorrowRecord `json:"openRecords"`
}
