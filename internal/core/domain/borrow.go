package domain

import "time"

// BorrowStatus is derived from ReturnedAt: BORROWED while null, RETURNED otherwise.
type BorrowStatus string

const (
	Borrowed BorrowStatus = "BORROWED"
	Returned BorrowStatus = "RETURNED"
)

// BorrowRecord represents one physical item lent to a worker during exactly one
// visit. The VisitID binding is fixed at creation time and never reassigned,
// even after the visit closes.
type BorrowRecord struct {
	RecordID   string     `json:"recordID"`   // Primary Key (e.g., UUID)
	VisitID    string     `json:"visitID"`    // FK -> Visit.visitID (Not Null, immutable)
	WorkerID   string     `json:"workerID"`   // FK -> Worker.workerID (Not Null)
	CategoryID string     `json:"categoryID"` // FK -> ItemCategory.categoryID (Not Null)
	ItemCode   string     `json:"itemCode"`   // Item identifier; not an exclusively-held resource
	BorrowedAt time.Time  `json:"borrowedAt"` // Set at creation
	ReturnedAt *time.Time `json:"returnedAt"` // Null while the item is outstanding
	Notes      string     `json:"notes"`      // Free text; exit-gate remarks are appended here
	AuditFields
}

// Status derives the record's state from ReturnedAt.
func (b BorrowRecord) Status() BorrowStatus {
	if b.ReturnedAt == nil {
		return Borrowed
	}
	return Returned
}

// ItemCategory is static reference data used to classify borrowed items.
type ItemCategory struct {
	CategoryID string `json:"categoryID"` // Primary Key (e.g., UUID)
	Code       string `json:"code"`       // Short unique code, e.g. HELMET
	Name       string `json:"name"`
	AuditFields
}
