package store

import (
	"context"
	"sync"

	"eaglebank/internal/user/models"
	"eaglebank/pkg/domain"
	"eaglebank/pkg/platform/sentinel"
)

// InMemory is a map-backed user store for tests and local development.
type InMemory struct {
	mu      sync.RWMutex
	users   map[domain.UserID]*models.User
	byEmail map[models.Email]domain.UserID
}

func NewInMemory() *InMemory {
	return &InMemory{
		users:   make(map[domain.UserID]*models.User),
		byEmail: make(map[models.Email]domain.UserID),
	}
}

// Save inserts or updates the user. The email unique index mirrors the
// postgres constraint: a different user already holding the email is
// ErrAlreadyUsed.
func (s *InMemory) Save(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if holder, ok := s.byEmail[user.Email]; ok && holder != user.ID {
		return sentinel.ErrAlreadyUsed
	}
	if existing, ok := s.users[user.ID]; ok && existing.Email != user.Email {
		delete(s.byEmail, existing.Email)
	}
	cp := *user
	s.users[user.ID] = &cp
	s.byEmail[user.Email] = user.ID
	return nil
}

func (s *InMemory) FindByID(_ context.Context, id domain.UserID) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *user
	return &cp, nil
}

func (s *InMemory) FindByEmail(_ context.Context, email models.Email) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[email]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	cp := *s.users[id]
	return &cp, nil
}

func (s *InMemory) ExistsByID(_ context.Context, id domain.UserID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.users[id]
	return ok, nil
}

func (s *InMemory) ExistsByEmail(_ context.Context, email models.Email) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, ok := s.byEmail[email]
	return ok, nil
}

func (s *InMemory) DeleteByID(_ context.Context, id domain.UserID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return sentinel.ErrNotFound
	}
	delete(s.byEmail, user.Email)
	delete(s.users, id)
	return nil
}
