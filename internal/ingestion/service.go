package ingestion

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"

	v1 "github.com/meridian-lab/project-meridian/internal/api/v1"
	"github.com/meridian-lab/project-meridian/internal/core/storage"
)

// DefaultBatchSize is the number of data rows processed per store flush.
const DefaultBatchSize = 1000

// maxLineBytes bounds a single CSV line; anything longer is a broken file.
const maxLineBytes = 1024 * 1024

type Service struct {
	store          storage.RecordStore
	batchSize      int
	maxUploadBytes int64
}

func NewService(store storage.RecordStore, batchSize, maxUploadSizeMB int) *Service {
	if store == nil {
		panic("ingestion: store must not be nil")
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if maxUploadSizeMB <= 0 {
		maxUploadSizeMB = 1
	}
	return &Service{
		store:          store,
		batchSize:      batchSize,
		maxUploadBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// ProcessCSV streams a CDR file into the record store.
//
// The first line is discarded unconditionally (header). Each data row is
// parsed into a CallDetailRecord; malformed rows are skipped silently.
// Parsed records accumulate in a batch buffer that is flushed every
// batchSize data rows (rejected rows count toward the boundary) and once
// more at end of stream for the remainder.
//
// A batch write failure aborts the job immediately. Batches flushed before
// the failure stay committed; there is no cross-batch rollback.
func (s *Service) ProcessCSV(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)

	// Header row is required and always skipped regardless of its content.
	if !scanner.Scan() {
		if err := scanner.Err(); err != nil {
			return fmt.Errorf("failed to read csv header: %w", err)
		}
		return nil
	}

	batch := make([]*v1.CallDetailRecord, 0, s.batchSize)
	var rowCount, persisted, rejected int
	lineNo := 1

	for scanner.Scan() {
		lineNo++

		rec, err := parseLine(scanner.Text())
		if err != nil {
			return fmt.Errorf("line %d: %w", lineNo, err)
		}

		if rec == nil {
			rejected++
			slog.Debug("Rejected malformed row", "line", lineNo)
		} else {
			batch = append(batch, rec)
		}

		rowCount++
		if rowCount%s.batchSize == 0 {
			if err := s.flush(ctx, batch); err != nil {
				return err
			}
			persisted += len(batch)
			batch = batch[:0]
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read csv stream: %w", err)
	}

	// Partial final batch.
	if len(batch) > 0 {
		if err := s.flush(ctx, batch); err != nil {
			return err
		}
		persisted += len(batch)
	}

	slog.Info("CSV ingestion complete",
		"rows", rowCount,
		"persisted", persisted,
		"rejected", rejected,
	)
	return nil
}

func (s *Service) flush(ctx context.Context, batch []*v1.CallDetailRecord) error {
	if len(batch) == 0 {
		return nil
	}
	if err := s.store.SaveRecords(ctx, batch); err != nil {
		return fmt.Errorf("failed to flush batch of %d records: %w", len(batch), err)
	}
	return nil
}
