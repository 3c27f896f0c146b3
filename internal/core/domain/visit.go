package domain

import "time"

// VisitStatus indicates the state of a visit record.
type VisitStatus string

const (
	VisitOnSite VisitStatus = "ON_SITE"
	VisitLeft   VisitStatus = "LEFT"
	// VisitPending is reserved for visits awaiting confirmation.
	// No flow in this codebase produces it; it exists so that rows written by
	// older tooling still scan into a known constant.
	VisitPending VisitStatus = "PENDING"
)

// Visit represents one on-site presence episode of a worker, bounded by
// check-in and check-out. At most one ON_SITE visit may exist per
// (WorkerID, SiteID) at any time; the database enforces this with a partial
// unique index and the service layer surfaces the violation as ErrAlreadyOnSite.
type Visit struct {
	VisitID      string      `json:"visitID"`      // Primary Key (e.g., UUID)
	WorkerID     string      `json:"workerID"`     // FK -> Worker.workerID (Not Null)
	SiteID       string      `json:"siteID"`       // Site the worker entered (Not Null)
	CheckInTime  time.Time   `json:"checkInTime"`  // Set at creation
	CheckOutTime *time.Time  `json:"checkOutTime"` // Null until the visit is closed
	Status       VisitStatus `json:"status"`       // ON_SITE until checked out
	CardID       string      `json:"cardID"`       // Gate card issued at entry (Not Null)
	RegistrarID  string      `json:"registrarID"`  // Guard who performed the check-in
	ContactPhone string      `json:"contactPhone"` // Phone recorded at entry; may override the worker profile
	IDDocType    IDDocType   `json:"idDocType"`    // Snapshot of the worker's document type at entry
	IDDocNumber  string      `json:"idDocNumber"`  // Snapshot of the worker's document number at entry
	AuditFields
}

// Open reports whether the visit is still in progress.
func (v Visit) Open() bool {
	return v.Status == VisitOnSite
}
