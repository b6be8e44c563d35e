package store

import (
	"context"
	"sort"
	"sync"

	"eaglebank/internal/transaction/models"
	"eaglebank/pkg/domain"
	"eaglebank/pkg/platform/sentinel"
)

// InMemory is a map-backed ledger store for tests and local development.
// Entries are immutable so copies are shallow.
type InMemory struct {
	mu      sync.RWMutex
	entries map[domain.TransactionID]*models.Transaction
}

func NewInMemory() *InMemory {
	return &InMemory{entries: make(map[domain.TransactionID]*models.Transaction)}
}

// Save appends a ledger entry. The ledger is append-only: saving an ID that
// already exists is a conflict, never an update.
func (s *InMemory) Save(_ context.Context, transaction *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.entries[transaction.ID]; ok {
		return sentinel.ErrConflict
	}
	cp := *transaction
	s.entries[transaction.ID] = &cp
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id domain.TransactionID) (*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *entry
	return &cp, nil
}

// FindByAccountNumber returns the account's entries ordered oldest first.
func (s *InMemory) FindByAccountNumber(_ context.Context, number domain.AccountNumber) ([]*models.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Transaction
	for _, entry := range s.entries {
		if entry.AccountNumber == number {
			cp := *entry
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
