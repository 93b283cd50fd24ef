package postgres

import (
	"fmt"

	v1 "github.com/meridian-lab/project-meridian/internal/api/v1"
)

type scanner interface {
	Scan(dest ...interface{}) error
}

// scanRecordRow scans a database row into a CallDetailRecord.
// Compatible with both sql.Row (single) and sql.Rows (multiple).
// CallDate is re-normalized to midnight UTC: the driver may materialize DATE
// columns in a different location.
func scanRecordRow(row scanner) (*v1.CallDetailRecord, error) {
	var rec v1.CallDetailRecord

	err := row.Scan(
		&rec.Reference,
		&rec.CallerID,
		&rec.Recipient,
		&rec.CallDate,
		&rec.EndTime,
		&rec.Duration,
		&rec.Cost,
		&rec.Currency,
		&rec.IngestSeq,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan record row: %w", err)
	}

	rec.CallDate = v1.Date(rec.CallDate)

	return &rec, nil
}
