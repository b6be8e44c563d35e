package store

import (
	"context"
	"sync"

	"eaglebank/internal/account/models"
	"eaglebank/pkg/domain"
	"eaglebank/pkg/platform/sentinel"
)

// InMemory is a process-local account store. Individually atomic operations,
// no cross-operation transactionality; suitable for tests and development.
type InMemory struct {
	mu       sync.RWMutex
	accounts map[domain.AccountNumber]*models.Account
}

func NewInMemory() *InMemory {
	return &InMemory{accounts: make(map[domain.AccountNumber]*models.Account)}
}

// Save upserts the account. The version on the incoming aggregate must match
// the stored version; a mismatch means another writer got there first and
// fails with sentinel.ErrConflict. The version increments on success, on the
// caller's copy too so follow-up saves in the same unit of work line up.
func (s *InMemory) Save(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.accounts[account.AccountNumber]; ok {
		if existing.Version != account.Version {
			return sentinel.ErrConflict
		}
	} else if account.Version != 0 {
		return sentinel.ErrConflict
	}

	account.Version++
	saved := *account
	s.accounts[account.AccountNumber] = &saved
	return nil
}

func (s *InMemory) FindByAccountNumber(_ context.Context, number domain.AccountNumber) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, ok := s.accounts[number]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	copied := *account
	return &copied, nil
}

func (s *InMemory) FindByOwnerID(_ context.Context, ownerID domain.UserID) ([]*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*models.Account
	for _, account := range s.accounts {
		if account.OwnerID == ownerID {
			copied := *account
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *InMemory) ExistsByAccountNumber(_ context.Context, number domain.AccountNumber) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.accounts[number]
	return ok, nil
}

func (s *InMemory) CountByOwnerID(_ context.Context, ownerID domain.UserID) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, account := range s.accounts {
		if account.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (s *InMemory) DeleteByAccountNumber(_ context.Context, number domain.AccountNumber) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[number]; !ok {
		return sentinel.ErrNotFound
	}
	delete(s.accounts, number)
	return nil
}
