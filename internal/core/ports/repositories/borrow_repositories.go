package repositories

import (
	"context"
	"time"

	"github.com/gatecrew/site_custody_app/internal/core/domain"
)

// BorrowReader defines read operations for custody ledger data
type BorrowReader interface {
	// FindBorrowRecordByID retrieves a specific borrow record.
	FindBorrowRecordByID(ctx context.Context, recordID string) (*domain.BorrowRecord, error)

	// FindBorrowRecordsByVisitID retrieves all borrow records bound to a visit.
	FindBorrowRecordsByVisitID(ctx context.Context, visitID string) ([]domain.BorrowRecord, error)

	// FindOpenBorrowRecordsByVisitID retrieves the visit's records with no return date.
	FindOpenBorrowRecordsByVisitID(ctx context.Context, visitID string) ([]domain.BorrowRecord, error)

	// ListBorrowRecordsByWorker retrieves a paginated list of a worker's borrow
	// records across all visits, newest first.
	ListBorrowRecordsByWorker(ctx context.Context, workerID string, limit int, nextToken *string) ([]domain.BorrowRecord, *string, error)

	// FindBorrowRecordsByWorkerBetween retrieves a worker's records whose borrow
	// or return time falls inside [from, to). Used by the reconciliation timeline.
	FindBorrowRecordsByWorkerBetween(ctx context.Context, workerID string, from, to time.Time) ([]domain.BorrowRecord, error)
}

// BorrowWriter defines write operations for custody ledger data
type BorrowWriter interface {
	// SaveBorrowRecord persists a new borrow record bound to a visit. The
	// write is rejected with apperrors.ErrConflict when the visit is no
	// longer ON_SITE at insert time, so a record can never attach to a
	// closed visit even when a check-out races the borrow.
	SaveBorrowRecord(ctx context.Context, record domain.BorrowRecord) error

	// SaveBorrowRecords persists multiple records in one round trip, with
	// the same open-visit guarantee as SaveBorrowRecord.
	SaveBorrowRecords(ctx context.Context, records []domain.BorrowRecord) error

	// MarkReturned sets the return time on a record if it is still open and
	// returns the record's post-update state. A record that was already
	// returned is reported back unchanged, not treated as an error.
	MarkReturned(ctx context.Context, recordID string, returnedAt time.Time, userID string) (*domain.BorrowRecord, error)
}

// BorrowRepositoryFacade combines all custody-related repository interfaces
type BorrowRepositoryFacade interface {
	BorrowReader
	BorrowWriter
}
