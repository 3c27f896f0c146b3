package domain

// IDDocType identifies the kind of identity document presented by a worker.
type IDDocType string

const (
	IDDocNationalID      IDDocType = "NATIONAL_ID"
	IDDocPassport        IDDocType = "PASSPORT"
	IDDocDriverLicense   IDDocType = "DRIVER_LICENSE"
	IDDocResidencePermit IDDocType = "RESIDENCE_PERMIT"
)

// Worker represents a registered site worker in the core domain.
// This is the primary representation used by services.
type Worker struct {
	WorkerID    string    `json:"workerID"`         // Primary Key (e.g., UUID)
	WorkerCode  string    `json:"workerCode"`       // Human-facing code, unique
	Name        string    `json:"name"`             // Full name
	Phone       string    `json:"phone"`            // Contact phone
	IDDocType   IDDocType `json:"idDocType"`        // Identity document type
	IDDocNumber string    `json:"idDocNumber"`      // Identity document number
	CardID      string    `json:"cardID,omitempty"` // Physical card identifier; empty when no card is assigned
	AuditFields
}
