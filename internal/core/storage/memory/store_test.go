package memory

import (
	"context"
	"fmt"
	"testing"
	"time"

	v1 "github.com/meridian-lab/project-meridian/internal/api/v1"
	"github.com/meridian-lab/project-meridian/internal/core/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func record(ref, caller, recipient string, date time.Time) *v1.CallDetailRecord {
	return &v1.CallDetailRecord{
		Reference: ref,
		CallerID:  caller,
		Recipient: recipient,
		CallDate:  date,
		EndTime:   time.Date(0, 1, 1, 12, 0, 0, 0, time.UTC),
		Duration:  30,
		Cost:      decimal.RequireFromString("0.1"),
		Currency:  "GBP",
	}
}

func day(d int) time.Time {
	return time.Date(2016, 8, d, 0, 0, 0, 0, time.UTC)
}

func TestStore_SaveAndGetAll(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	batch := []*v1.CallDetailRecord{
		record("ref-1", "caller-a", "rec-1", day(1)),
		record("ref-2", "caller-b", "rec-2", day(2)),
	}
	require.NoError(t, s.SaveRecords(ctx, batch))

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	// Insertion order and ingest sequence are preserved.
	require.Equal(t, "ref-1", all[0].Reference)
	require.Equal(t, "ref-2", all[1].Reference)
	require.Less(t, all[0].IngestSeq, all[1].IngestSeq)
}

func TestStore_DuplicateAgainstStoredData(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.SaveRecords(ctx, []*v1.CallDetailRecord{
		record("ref-1", "caller-a", "rec-1", day(1)),
	}))

	err := s.SaveRecords(ctx, []*v1.CallDetailRecord{
		record("ref-2", "caller-a", "rec-1", day(1)),
		record("ref-1", "caller-a", "rec-1", day(1)),
	})
	require.ErrorIs(t, err, storage.ErrDuplicateReference)

	// The whole batch is rejected, including ref-2.
	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestStore_DuplicateWithinBatch(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	err := s.SaveRecords(ctx, []*v1.CallDetailRecord{
		record("ref-1", "caller-a", "rec-1", day(1)),
		record("ref-1", "caller-b", "rec-2", day(2)),
	})
	require.ErrorIs(t, err, storage.ErrDuplicateReference)

	all, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Empty(t, all)
}

func TestStore_GetByCallerAndRecipient(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.SaveRecords(ctx, []*v1.CallDetailRecord{
		record("ref-1", "caller-a", "rec-1", day(1)),
		record("ref-2", "caller-b", "rec-1", day(2)),
		record("ref-3", "caller-a", "rec-2", day(3)),
	}))

	byCaller, err := s.GetByCaller(ctx, "caller-a")
	require.NoError(t, err)
	require.Len(t, byCaller, 2)
	require.Equal(t, "ref-1", byCaller[0].Reference)
	require.Equal(t, "ref-3", byCaller[1].Reference)

	byRecipient, err := s.GetByRecipient(ctx, "rec-1")
	require.NoError(t, err)
	require.Len(t, byRecipient, 2)

	none, err := s.GetByCaller(ctx, "caller-z")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestStore_GetByDateRangeInclusiveBounds(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	var batch []*v1.CallDetailRecord
	for d := 1; d <= 5; d++ {
		batch = append(batch, record(fmt.Sprintf("ref-%d", d), "caller-a", "rec-1", day(d)))
	}
	require.NoError(t, s.SaveRecords(ctx, batch))

	got, err := s.GetByDateRange(ctx, day(2), day(4))
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, "ref-2", got[0].Reference)
	require.Equal(t, "ref-4", got[2].Reference)
}

func TestStore_GetByDate(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.SaveRecords(ctx, []*v1.CallDetailRecord{
		record("ref-1", "caller-a", "rec-1", day(1)),
		record("ref-2", "caller-a", "rec-1", day(2)),
	}))

	got, err := s.GetByDate(ctx, day(2))
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, "ref-2", got[0].Reference)
}

func TestStore_ReturnsCopies(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	require.NoError(t, s.SaveRecords(ctx, []*v1.CallDetailRecord{
		record("ref-1", "caller-a", "rec-1", day(1)),
	}))

	first, err := s.GetAll(ctx)
	require.NoError(t, err)
	first[0].CallerID = "mutated"

	second, err := s.GetAll(ctx)
	require.NoError(t, err)
	require.Equal(t, "caller-a", second[0].CallerID)
}
