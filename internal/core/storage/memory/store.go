package memory

import (
	"context"
	"sync"
	"time"

	v1 "github.com/meridian-lab/project-meridian/internal/api/v1"
	"github.com/meridian-lab/project-meridian/internal/core/storage"
)

// Store is an in-memory implementation of storage.RecordStore.
// Useful for testing and development.
type Store struct {
	mu      sync.RWMutex
	byRef   map[string]*v1.CallDetailRecord
	ordered []*v1.CallDetailRecord // insertion order
	nextSeq int64
}

// NewStore creates a new in-memory record store.
func NewStore() *Store {
	return &Store{
		byRef: make(map[string]*v1.CallDetailRecord),
	}
}

// SaveRecords persists a batch atomically. If any record's reference collides
// with stored data or with another record in the batch, nothing is stored and
// storage.ErrDuplicateReference is returned.
func (s *Store) SaveRecords(ctx context.Context, records []*v1.CallDetailRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if _, exists := s.byRef[r.Reference]; exists {
			return storage.ErrDuplicateReference
		}
		if _, dup := seen[r.Reference]; dup {
			return storage.ErrDuplicateReference
		}
		seen[r.Reference] = struct{}{}
	}

	for _, r := range records {
		s.nextSeq++
		// Store a copy to prevent external modification.
		cp := *r
		cp.IngestSeq = s.nextSeq
		s.byRef[cp.Reference] = &cp
		s.ordered = append(s.ordered, &cp)
	}
	return nil
}

func (s *Store) GetByCaller(ctx context.Context, callerID string) ([]*v1.CallDetailRecord, error) {
	return s.filter(func(r *v1.CallDetailRecord) bool {
		return r.CallerID == callerID
	}), nil
}

func (s *Store) GetByRecipient(ctx context.Context, recipient string) ([]*v1.CallDetailRecord, error) {
	return s.filter(func(r *v1.CallDetailRecord) bool {
		return r.Recipient == recipient
	}), nil
}

func (s *Store) GetByDate(ctx context.Context, date time.Time) ([]*v1.CallDetailRecord, error) {
	day := v1.Date(date)
	return s.filter(func(r *v1.CallDetailRecord) bool {
		return v1.Date(r.CallDate).Equal(day)
	}), nil
}

func (s *Store) GetByDateRange(ctx context.Context, start, end time.Time) ([]*v1.CallDetailRecord, error) {
	lo, hi := v1.Date(start), v1.Date(end)
	return s.filter(func(r *v1.CallDetailRecord) bool {
		d := v1.Date(r.CallDate)
		return !d.Before(lo) && !d.After(hi)
	}), nil
}

func (s *Store) GetAll(ctx context.Context) ([]*v1.CallDetailRecord, error) {
	return s.filter(func(r *v1.CallDetailRecord) bool {
		return true
	}), nil
}

// filter returns copies of matching records in insertion order.
func (s *Store) filter(match func(*v1.CallDetailRecord) bool) []*v1.CallDetailRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*v1.CallDetailRecord
	for _, r := range s.ordered {
		if match(r) {
			cp := *r
			result = append(result, &cp)
		}
	}
	return result
}
