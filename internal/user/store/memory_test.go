package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"eaglebank/internal/user/models"
	"eaglebank/pkg/domain"
	"eaglebank/pkg/platform/sentinel"
)

type UserStoreSuite struct {
	suite.Suite
	store *InMemory
	ctx   context.Context
}

func (s *UserStoreSuite) SetupTest() {
	s.store = NewInMemory()
	s.ctx = context.Background()
}

func TestUserStoreSuite(t *testing.T) {
	suite.Run(t, new(UserStoreSuite))
}

func (s *UserStoreSuite) newUser(id, email string) *models.User {
	parsedEmail, err := models.ParseEmail(email)
	s.Require().NoError(err)
	phone, err := models.ParsePhoneNumber("+442079460958")
	s.Require().NoError(err)
	address, err := models.NewAddress("1 High St", "", "", "London", "Greater London", "E1 6AN")
	s.Require().NoError(err)

	user, err := models.NewUser(
		domain.UserID(id),
		"Jane Doe",
		parsedEmail,
		phone,
		address,
		"$2a$10$hash",
		time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	)
	s.Require().NoError(err)
	return user
}

func (s *UserStoreSuite) TestSaveAndFind() {
	s.Run("saves and finds by id and email", func() {
		user := s.newUser("usr-1", "jane@example.com")
		s.Require().NoError(s.store.Save(s.ctx, user))

		byID, err := s.store.FindByID(s.ctx, user.ID)
		s.Require().NoError(err)
		s.Equal(user.Email, byID.Email)

		byEmail, err := s.store.FindByEmail(s.ctx, user.Email)
		s.Require().NoError(err)
		s.Equal(user.ID, byEmail.ID)
	})

	s.Run("returns ErrNotFound for unknown user", func() {
		_, err := s.store.FindByID(s.ctx, domain.UserID("usr-missing"))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("returned user is a copy", func() {
		user := s.newUser("usr-2", "copy@example.com")
		s.Require().NoError(s.store.Save(s.ctx, user))

		found, err := s.store.FindByID(s.ctx, user.ID)
		s.Require().NoError(err)
		found.Name = "mutated"

		again, err := s.store.FindByID(s.ctx, user.ID)
		s.Require().NoError(err)
		s.Equal("Jane Doe", again.Name)
	})
}

func (s *UserStoreSuite) TestEmailUniqueness() {
	s.Run("another user cannot take a held email", func() {
		s.Require().NoError(s.store.Save(s.ctx, s.newUser("usr-1", "taken@example.com")))

		err := s.store.Save(s.ctx, s.newUser("usr-2", "taken@example.com"))
		s.Require().ErrorIs(err, sentinel.ErrAlreadyUsed)
	})

	s.Run("a user can change their own email", func() {
		user := s.newUser("usr-3", "old@example.com")
		s.Require().NoError(s.store.Save(s.ctx, user))

		updated := s.newUser("usr-3", "new@example.com")
		s.Require().NoError(s.store.Save(s.ctx, updated))

		_, err := s.store.FindByEmail(s.ctx, models.Email("old@example.com"))
		s.Require().ErrorIs(err, sentinel.ErrNotFound)

		found, err := s.store.FindByEmail(s.ctx, models.Email("new@example.com"))
		s.Require().NoError(err)
		s.Equal(domain.UserID("usr-3"), found.ID)
	})
}

func (s *UserStoreSuite) TestExistsAndDelete() {
	user := s.newUser("usr-1", "jane@example.com")
	s.Require().NoError(s.store.Save(s.ctx, user))

	exists, err := s.store.ExistsByID(s.ctx, user.ID)
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.store.ExistsByEmail(s.ctx, user.Email)
	s.Require().NoError(err)
	s.True(exists)

	s.Require().NoError(s.store.DeleteByID(s.ctx, user.ID))

	exists, err = s.store.ExistsByEmail(s.ctx, user.Email)
	s.Require().NoError(err)
	s.False(exists)

	err = s.store.DeleteByID(s.ctx, user.ID)
	s.Require().ErrorIs(err, sentinel.ErrNotFound)
}
