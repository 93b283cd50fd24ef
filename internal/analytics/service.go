package analytics

import (
	"context"
	"fmt"
	"time"

	v1 "github.com/meridian-lab/project-meridian/internal/api/v1"
	"github.com/meridian-lab/project-meridian/internal/core/storage"
	"github.com/shopspring/decimal"
)

// Service implements the analytics aggregation engine. It composes record
// store queries and reduces the fetched sets in memory; it owns no storage
// logic and keeps no state between calls.
type Service struct {
	store storage.RecordStore
}

// NewService creates a new analytics service backed by the given store.
func NewService(store storage.RecordStore) *Service {
	if store == nil {
		panic("analytics: store must not be nil")
	}
	return &Service{store: store}
}

// AverageCallDuration returns the arithmetic mean of call durations over the
// scoped record set, truncated (round-toward-zero) to 3 decimal places.
// An unbounded scope or an empty selection yields 0.
func (s *Service) AverageCallDuration(ctx context.Context, scope Scope) (float64, error) {
	var (
		records []*v1.CallDetailRecord
		err     error
	)

	switch scope.kind {
	case scopeCaller:
		records, err = s.store.GetByCaller(ctx, scope.callerID)
	case scopeDateRange:
		records, err = s.store.GetByDateRange(ctx, scope.start, scope.end)
	default:
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("fetch records: %w", err)
	}

	if len(records) == 0 {
		return 0, nil
	}
	return truncatedMeanDuration(records), nil
}

// CallVolume counts records with call_date in [start, end], bounds inclusive.
func (s *Service) CallVolume(ctx context.Context, start, end time.Time) (int, error) {
	records, err := s.store.GetByDateRange(ctx, start, end)
	if err != nil {
		return 0, fmt.Errorf("fetch records: %w", err)
	}
	return len(records), nil
}

// CostCalls scans the entire record set and returns the records with
// cost >= threshold when higher is true, cost <= threshold otherwise.
// Both comparisons are inclusive.
func (s *Service) CostCalls(ctx context.Context, threshold decimal.Decimal, higher bool) ([]*v1.CallDetailRecord, error) {
	records, err := s.store.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}

	matched := make([]*v1.CallDetailRecord, 0, len(records))
	for _, r := range records {
		if higher && r.Cost.GreaterThanOrEqual(threshold) {
			matched = append(matched, r)
		}
		if !higher && r.Cost.LessThanOrEqual(threshold) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// TotalCallCost sums the cost of every record placed by one caller.
// Returns zero when the caller has no records.
func (s *Service) TotalCallCost(ctx context.Context, callerID string) (decimal.Decimal, error) {
	records, err := s.store.GetByCaller(ctx, callerID)
	if err != nil {
		return decimal.Zero, fmt.Errorf("fetch records: %w", err)
	}

	total := decimal.Zero
	for _, r := range records {
		total = total.Add(r.Cost)
	}
	return total, nil
}

// TotalCalls counts one caller's records, filtered to the inclusive date
// window when one is supplied.
func (s *Service) TotalCalls(ctx context.Context, callerID string, window *DateWindow) (int, error) {
	records, err := s.store.GetByCaller(ctx, callerID)
	if err != nil {
		return 0, fmt.Errorf("fetch records: %w", err)
	}

	if window == nil {
		return len(records), nil
	}

	count := 0
	for _, r := range records {
		if window.Contains(r.CallDate) {
			count++
		}
	}
	return count, nil
}

// SummaryByDateRange aggregates all records with call_date in [start, end],
// bounds inclusive. Returns nil when no records fall in the range: an empty
// window has no summary, not a zeroed one.
func (s *Service) SummaryByDateRange(ctx context.Context, start, end time.Time) (*v1.Summary, error) {
	records, err := s.store.GetByDateRange(ctx, start, end)
	if err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}

	if len(records) == 0 {
		return nil, nil
	}

	totalCost := decimal.Zero
	for _, r := range records {
		totalCost = totalCost.Add(r.Cost)
	}

	return &v1.Summary{
		TotalCalls:      len(records),
		TotalCost:       totalCost,
		AverageDuration: truncatedMeanDuration(records),
		MostFrequentCaller: mostFrequent(records, func(r *v1.CallDetailRecord) string {
			return r.CallerID
		}),
		MostFrequentRecipient: mostFrequent(records, func(r *v1.CallDetailRecord) string {
			return r.Recipient
		}),
	}, nil
}

// truncatedMeanDuration computes the mean duration truncated to 3 decimal
// places. Decimal division keeps the truncation exact; a float mean of
// [49 23 95] must come out as 55.666, not 55.667.
func truncatedMeanDuration(records []*v1.CallDetailRecord) float64 {
	var sum int64
	for _, r := range records {
		sum += int64(r.Duration)
	}

	mean := decimal.NewFromInt(sum).Div(decimal.NewFromInt(int64(len(records))))
	return mean.Truncate(3).InexactFloat64()
}

// mostFrequent returns the key occurring most often across the set. Ties
// break toward the key whose group was encountered first, which keeps the
// result deterministic under equal counts.
func mostFrequent(records []*v1.CallDetailRecord, key func(*v1.CallDetailRecord) string) string {
	counts := make(map[string]int, len(records))
	order := make([]string, 0, len(records))

	for _, r := range records {
		k := key(r)
		if _, seen := counts[k]; !seen {
			order = append(order, k)
		}
		counts[k]++
	}

	best := ""
	bestCount := 0
	for _, k := range order {
		if counts[k] > bestCount {
			best = k
			bestCount = counts[k]
		}
	}
	return best
}
