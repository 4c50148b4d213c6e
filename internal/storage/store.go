package storage

import (
	"context"
	"sync"

	"github.com/igorfd2009/cookitie-pix/internal/model"
)

// Store persists the payment registry as a whole: one serialized collection
// of transaction-id → record pairs, rewritten in full on every mutation.
type Store interface {
	Load(ctx context.Context) (map[string]model.PaymentRecord, error)
	Save(ctx context.Context, records map[string]model.PaymentRecord) error
}

// MemoryStore keeps the snapshot in process memory. It backs tests and the
// database-less mode of the server.
type MemoryStore struct {
	mu      sync.Mutex
	records map[string]model.PaymentRecord
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]model.PaymentRecord{}}
}

func (s *MemoryStore) Load(_ context.Context) (map[string]model.PaymentRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]model.PaymentRecord, len(s.records))
	for id, rec := range s.records {
		out[id] = rec
	}
	return out, nil
}

func (s *MemoryStore) Save(_ context.Context, records map[string]model.PaymentRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make(map[string]model.PaymentRecord, len(records))
	for id, rec := range records {
		s.records[id] = rec
	}
	return nil
}
