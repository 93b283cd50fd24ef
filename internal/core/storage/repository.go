package storage

import (
	"context"
	"errors"
	"time"

	v1 "github.com/meridian-lab/project-meridian/internal/api/v1"
)

// ErrDuplicateReference is returned when a batch insert collides with an
// existing reference, either inside the batch or against stored data.
// The offending batch is rejected as a whole.
var ErrDuplicateReference = errors.New("record reference already exists")

// RecordStore defines the capability interface over the call-record store.
// The ingestion pipeline writes through SaveRecords; the analytics engine
// composes the read methods and reduces in memory.
//
// All read methods return records in insertion order. Date parameters are
// compared by calendar date, bounds inclusive.
type RecordStore interface {
	// SaveRecords persists one batch atomically: the whole batch commits or
	// none of it does. Returns ErrDuplicateReference on a reference collision.
	SaveRecords(ctx context.Context, records []*v1.CallDetailRecord) error

	GetByCaller(ctx context.Context, callerID string) ([]*v1.CallDetailRecord, error)
	GetByRecipient(ctx context.Context, recipient string) ([]*v1.CallDetailRecord, error)
	GetByDate(ctx context.Context, date time.Time) ([]*v1.CallDetailRecord, error)
	GetByDateRange(ctx context.Context, start, end time.Time) ([]*v1.CallDetailRecord, error)
	GetAll(ctx context.Context) ([]*v1.CallDetailRecord, error)
}
