package storage

import (
	"context"
	"fmt"
	"sync"

	"github.com/edcsys/edc-gateway/internal/domain"
)

// MemoryStore keeps every transaction for the process lifetime in
// insertion order. The mutex only guards the map and order slice; record
// mutation is serialized per id by the registry, not here.
type MemoryStore struct {
	transactions map[string]*domain.Transaction
	order        []string
	mu           sync.RWMutex
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		transactions: make(map[string]*domain.Transaction),
	}
}

func (s *MemoryStore) Create(ctx context.Context, tx *domain.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.transactions[tx.ID()]; exists {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateID, tx.ID())
	}

	s.transactions[tx.ID()] = tx
	s.order = append(s.order, tx.ID())

	return nil
}

func (s *MemoryStore) Get(ctx context.Context, id string) (*domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tx, exists := s.transactions[id]
	if !exists {
		return nil, fmt.Errorf("%w: %s", domain.ErrTransactionNotFound, id)
	}

	return tx, nil
}

func (s *MemoryStore) List(ctx context.Context) []*domain.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*domain.Transaction, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.transactions[id])
	}

	return out
}

func (s *MemoryStore) Count(ctx context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.order)
}
