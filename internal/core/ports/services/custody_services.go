package services

import (
	"context"

	"github.com/gatecrew/site_custody_app/internal/core/domain"
	"github.com/gatecrew/site_custody_app/internal/dto"
)

// CustodyReaderSvc defines read operations for the custody ledger
type CustodyReaderSvc interface {
	// GetBorrowRecord retrieves a borrow record by ID.
	GetBorrowRecord(ctx context.Context, recordID string) (*domain.BorrowRecord, error)

	// OpenItemsForVisit retrieves the visit's unreturned borrow records.
	OpenItemsForVisit(ctx context.Context, visitID string) ([]domain.BorrowRecord, error)

	// ListBorrowRecords retrieves records filtered by visit or worker.
	ListBorrowRecords(ctx context.Context, params dto.ListBorrowRecordsParams) (*dto.ListBorrowRecordsResponse, error)
}

// CustodyWriterSvc defines write operations for the custody ledger
type CustodyWriterSvc interface {
	// Borrow creates a borrow record bound to the given open visit. Fails with
	// ErrNotOnSite when the visit is not ON_SITE and ErrUnknownCategory when
	// the category does not resolve.
	Borrow(ctx context.Context, req dto.BorrowRequest, registrarID string) (*domain.BorrowRecord, error)

	// BorrowBatch commits a staged batch of borrow entries, reporting each
	// item's outcome individually. Valid items succeed even when siblings fail.
	BorrowBatch(ctx context.Context, req dto.BorrowBatchRequest, registrarID string) (*dto.BorrowBatchResponse, error)

	// Return marks a record returned. Returning an already-returned record is
	// a no-op success.
	Return(ctx context.Context, recordID string, registrarID string) (*domain.BorrowRecord, error)

	// ReturnMany marks multiple records returned, reporting per-record outcomes.
	ReturnMany(ctx context.Context, recordIDs []string, registrarID string) (*dto.ReturnManyResponse, error)
}

// CustodySvcFacade combines all custody ledger service interfaces
type CustodySvcFacade interface {
	CustodyReaderSvc
	CustodyWriterSvc
}
