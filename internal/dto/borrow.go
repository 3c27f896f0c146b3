package dto

import (
	"time"

	"github.com/gatecrew/site_custody_app/internal/core/domain"
)

// --- Custody ledger DTOs ---

// BorrowRequest defines data for lending one item. The visit binding is
// explicit; callers resolve the open visit first via the directory lookup.
type BorrowRequest struct {
	VisitID    string `json:"visitID" binding:"required"`
	CategoryID string `json:"categoryID" binding:"required"`
	ItemCode   string `json:"itemCode" binding:"required"`
	Notes      string `json:"notes"`
}

// BorrowBatchItem is one staged entry in a batch submission.
type BorrowBatchItem struct {
	CategoryID string `json:"categoryID" binding:"required"`
	ItemCode   string `json:"itemCode" binding:"required"`
	Notes      string `json:"notes"`
}

// BorrowBatchRequest commits N staged entries against one visit.
type BorrowBatchRequest struct {
	VisitID string            `json:"visitID" binding:"required"`
	Items   []BorrowBatchItem `json:"items" binding:"required,min=1,dive"`
}

// BorrowBatchItemResult reports the outcome for one entry of a batch.
// Partial failure never drops the remaining valid entries.
type BorrowBatchItemResult struct {
	ItemCode string                `json:"itemCode"`
	Record   *BorrowRecordResponse `json:"record,omitempty"`
	Error    string                `json:"error,omitempty"`
}

// BorrowBatchResponse reports per-item outcomes for a batch submission.
type BorrowBatchResponse struct {
	Results      []BorrowBatchItemResult `json:"results"`
	SuccessCount int                     `json:"successCount"`
	FailureCount int                     `json:"failureCount"`
}

// ReturnManyRequest marks multiple records returned.
type ReturnManyRequest struct {
	RecordIDs []string `json:"recordIDs" binding:"required,min=1"`
}

// ReturnManyItemResult reports the outcome for one record of a bulk return.
type ReturnManyItemResult struct {
	RecordID string                `json:"recordID"`
	Record   *BorrowRecordResponse `json:"record,omitempty"`
	Error    string                `json:"error,omitempty"`
}

// ReturnManyResponse reports per-record outcomes for a bulk return.
type ReturnManyResponse struct {
	Results []ReturnManyItemResult `json:"results"`
}

// BorrowRecordResponse defines data returned for a borrow record.
type BorrowRecordResponse struct {
	RecordID   string     `json:"recordID"`
	VisitID    string     `json:"visitID"`
	WorkerID   string     `json:"workerID"`
	CategoryID string     `json:"categoryID"`
	ItemCode   string     `json:"itemCode"`
	BorrowedAt time.Time  `json:"borrowedAt"`
	ReturnedAt *time.Time `json:"returnedAt,omitempty"`
	Status     string     `json:"status"` // BORROWED or RETURNED, derived
	Notes      string     `json:"notes,omitempty"`
}

// ToBorrowRecordResponse converts domain.BorrowRecord to DTO.
func ToBorrowRecordResponse(b *domain.BorrowRecord) BorrowRecordResponse {
	return BorrowRecordResponse{
		RecordID:   b.RecordID,
		VisitID:    b.VisitID,
		WorkerID:   b.WorkerID,
		CategoryID: b.CategoryID,
		ItemCode:   b.ItemCode,
		BorrowedAt: b.BorrowedAt,
		ReturnedAt: b.ReturnedAt,
		Status:     string(b.Status()),
		Notes:      b.Notes,
	}
}

// ToBorrowRecordResponses converts a slice of domain.BorrowRecord to DTOs.
func ToBorrowRecordResponses(records []domain.BorrowRecord) []BorrowRecordResponse {
	responses := make([]BorrowRecordResponse, len(records))
	for i, rec := range records {
		responses[i] = ToBorrowRecordResponse(&rec)
	}
	return responses
}

// ListBorrowRecordsParams defines query parameters for listing borrow records.
// Exactly one of VisitID or WorkerID must be supplied.
type ListBorrowRecordsParams struct {
	VisitID   *string `form:"visitID"`
	WorkerID  *string `form:"workerID"`
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListBorrowRecordsResponse wraps the list of borrow records.
type ListBorrowRecordsResponse struct {
	Records   []BorrowRecordResponse `json:"records"`
	NextToken *string                `json:"nextToken,omitempty"`
}

// CategoryResponse defines data returned for an item category.
type CategoryResponse struct {
	CategoryID string `json:"categoryID"`
	Code       string `json:"code"`
	Name       string `json:"name"`
}

// ToCategoryResponses converts a slice of domain.ItemCategory to DTOs.
func ToCategoryResponses(categories []domain.ItemCategory) []CategoryResponse {
	responses := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		responses[i] = CategoryResponse{CategoryID: c.CategoryID, Code: c.Code, Name: c.Name}
	}
	return responses
}
