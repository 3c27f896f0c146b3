package dto

import (
	"time"

	"github.com/gatecrew/site_custody_app/internal/core/domain"
)

// --- Worker DTOs ---

// CreateWorkerRequest defines data for registering a new worker.
type CreateWorkerRequest struct {
	WorkerCode  string `json:"workerCode" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Phone       string `json:"phone"`
	IDDocType   string `json:"idDocType" binding:"required,oneof=NATIONAL_ID PASSPORT DRIVER_LICENSE RESIDENCE_PERMIT"`
	IDDocNumber string `json:"idDocNumber" binding:"required"`
	CardID      string `json:"cardID"`
}

// UpdateWorkerRequest defines the data allowed for updating a worker.
// Using pointers to differentiate between omitted fields and zero-value fields.
type UpdateWorkerRequest struct {
	Name        *string `json:"name"`
	Phone       *string `json:"phone"`
	IDDocType   *string `json:"idDocType" binding:"omitempty,oneof=NATIONAL_ID PASSPORT DRIVER_LICENSE RESIDENCE_PERMIT"`
	IDDocNumber *string `json:"idDocNumber"`
	CardID      *string `json:"cardID"`
}

// WorkerResponse defines data returned for a worker.
type WorkerResponse struct {
	WorkerID    string    `json:"workerID"`
	WorkerCode  string    `json:"workerCode"`
	Name        string    `json:"name"`
	Phone       string    `json:"phone"`
	IDDocType   string    `json:"idDocType"`
	IDDocNumber string    `json:"idDocNumber"`
	CardID      string    `json:"cardID,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	CreatedBy   string    `json:"createdBy"` // UserID
}

// ToWorkerResponse converts domain.Worker to DTO.
func ToWorkerResponse(w *domain.Worker) WorkerResponse {
	return WorkerResponse{
		WorkerID:    w.WorkerID,
		WorkerCode:  w.WorkerCode,
		Name:        w.Name,
		Phone:       w.Phone,
		IDDocType:   string(w.IDDocType),
		IDDocNumber: w.IDDocNumber,
		CardID:      w.CardID,
		CreatedAt:   w.CreatedAt,
		CreatedBy:   w.CreatedBy,
	}
}

// ListWorkersParams defines query parameters for listing workers.
type ListWorkersParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListWorkersResponse wraps the paginated list of workers.
type ListWorkersResponse struct {
	Workers   []WorkerResponse `json:"workers"`
	NextToken *string          `json:"nextToken,omitempty"`
}

// ToListWorkersResponse converts a slice of domain.Worker to DTO.
func ToListWorkersResponse(workers []domain.Worker, nextToken *string) ListWorkersResponse {
	responses := make([]WorkerResponse, len(workers))
	for i, w := range workers {
		responses[i] = ToWorkerResponse(&w)
	}
	return ListWorkersResponse{Workers: responses, NextToken: nextToken}
}

// ResolveWorkerResponse pairs a resolved worker with their open visit, when
// the lookup asked for one.
type ResolveWorkerResponse struct {
	Worker    WorkerResponse `json:"worker"`
	OpenVisit *VisitResponse `json:"openVisit,omitempty"`
}
