package dto

import (
	"time"

	"github.com/gatecrew/site_custody_app/internal/core/domain"
)

// --- Visit DTOs ---

// CheckInRequest defines data for opening a new visit.
// Identifier accepts either a worker code or a physical-card code.
type CheckInRequest struct {
	Identifier   string  `json:"identifier" binding:"required"`
	SiteID       string  `json:"siteID" binding:"required"`
	CardID       string  `json:"cardID" binding:"required"`
	ContactPhone *string `json:"contactPhone"` // Operator-entered override; does not mutate the worker profile
}

// CheckOutRequest carries the exit-gate inputs. ItemRemarks is keyed by item
// code; every open borrow record on the visit must have a non-empty entry.
type CheckOutRequest struct {
	CardReturned bool              `json:"cardReturned"`
	ItemRemarks  map[string]string `json:"itemRemarks"`
	CheckOutTime *time.Time        `json:"checkOutTime"` // Defaults to now when omitted
}

// VisitResponse defines data returned for a visit.
type VisitResponse struct {
	VisitID      string     `json:"visitID"`
	WorkerID     string     `json:"workerID"`
	SiteID       string     `json:"siteID"`
	CheckInTime  time.Time  `json:"checkInTime"`
	CheckOutTime *time.Time `json:"checkOutTime,omitempty"`
	Status       string     `json:"status"`
	CardID       string     `json:"cardID"`
	RegistrarID  string     `json:"registrarID"`
	ContactPhone string     `json:"contactPhone"`
	IDDocType    string     `json:"idDocType"`
	IDDocNumber  string     `json:"idDocNumber"`
}

// ToVisitResponse converts domain.Visit to DTO.
func ToVisitResponse(v *domain.Visit) VisitResponse {
	return VisitResponse{
		VisitID:      v.VisitID,
		WorkerID:     v.WorkerID,
		SiteID:       v.SiteID,
		CheckInTime:  v.CheckInTime,
		CheckOutTime: v.CheckOutTime,
		Status:       string(v.Status),
		CardID:       v.CardID,
		RegistrarID:  v.RegistrarID,
		ContactPhone: v.ContactPhone,
		IDDocType:    string(v.IDDocType),
		IDDocNumber:  v.IDDocNumber,
	}
}

// ListVisitsParams defines query parameters for listing visits.
type ListVisitsParams struct {
	WorkerID  *string `form:"workerID"`
	SiteID    *string `form:"siteID"`
	Status    *string `form:"status" binding:"omitempty,oneof=ON_SITE LEFT PENDING"`
	From      *string `form:"from" binding:"omitempty,dateparam"` // RFC3339 or YYYY-MM-DD
	To        *string `form:"to" binding:"omitempty,dateparam"`
	Today     bool    `form:"today"` // Shortcut: visits relevant to the current site-local day
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListVisitsResponse wraps the paginated list of visits.
type ListVisitsResponse struct {
	Visits    []VisitResponse `json:"visits"`
	NextToken *string         `json:"nextToken,omitempty"`
}

// ToListVisitsResponse converts a slice of domain.Visit to DTO.
func ToListVisitsResponse(visits []domain.Visit, nextToken *string) ListVisitsResponse {
	responses := make([]VisitResponse, len(visits))
	for i, v := range visits {
		responses[i] = ToVisitResponse(&v)
	}
	return ListVisitsResponse{Visits: responses, NextToken: nextToken}
}

// VisitSummaryResponse is the reconciled per-visit view.
type VisitSummaryResponse struct {
	Visit         VisitResponse          `json:"visit"`
	BorrowedCount int                    `json:"borrowedCount"`
	ReturnedCount int                    `json:"returnedCount"`
	OpenRecords   []BorrowRecordResponse `json:"openRecords"`
}

// ToVisitSummaryResponse converts domain.VisitSummary to DTO.
func ToVisitSummaryResponse(s *domain.VisitSummary) VisitSummaryResponse {
	openRecords := make([]BorrowRecordResponse, len(s.OpenRecords))
	for i, rec := range s.OpenRecords {
		openRecords[i] = ToBorrowRecordResponse(&rec)
	}
	return VisitSummaryResponse{
		Visit:         ToVisitResponse(&s.Visit),
		BorrowedCount: s.BorrowedCount,
		ReturnedCount: s.ReturnedCount,
		OpenRecords:   openRecords,
	}
}
