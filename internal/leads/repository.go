package leads

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Store appends leads to durable storage. Insert assigns ID and CreatedAt
// on success. There is no idempotency key: inserting the same lead twice
// yields two rows.
type Store interface {
	Insert(ctx context.Context, lead *Lead) error
}

// InMemoryStore keeps leads in process memory. Used by tests and demos.
type InMemoryStore struct {
	mu    sync.RWMutex
	leads []Lead
}

// NewInMemoryStore creates a new in-memory store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{}
}

// Insert appends a copy of lead.
func (s *InMemoryStore) Insert(ctx context.Context, lead *Lead) error {
	lead.ID = uuid.New().String()
	lead.CreatedAt = time.Now().UTC()

	s.mu.Lock()
	s.leads = append(s.leads, *lead)
	s.mu.Unlock()
	return nil
}

// List returns the stored leads in insertion order.
func (s *InMemoryStore) List() []Lead {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Lead, len(s.leads))
	copy(out, s.leads)
	return out
}

// Count returns the number of stored leads.
func (s *InMemoryStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.leads)
}
