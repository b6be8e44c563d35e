//go:build integration

package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"eaglebank/internal/user/models"
	"eaglebank/internal/user/store"
	"eaglebank/pkg/domain"
	"eaglebank/pkg/platform/sentinel"
	"eaglebank/pkg/testutil/containers"
)

type PostgresUserSuite struct {
	suite.Suite
	postgres *containers.PostgresContainer
	store    *store.Postgres
}

func TestPostgresUserSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(PostgresUserSuite))
}

func (s *PostgresUserSuite) SetupSuite() {
	s.postgres = containers.NewPostgresContainer(s.T())
	s.store = store.NewPostgres(s.postgres.DB)
}

func (s *PostgresUserSuite) SetupTest() {
	s.Require().NoError(s.postgres.TruncateTables(context.Background(), "users"))
}

func (s *PostgresUserSuite) newUser(email models.Email) *models.User {
	address, err := models.NewAddress("1 High Street", "", "", "London", "Greater London", "E1 6AN")
	s.Require().NoError(err)
	user, err := models.NewUser(
		domain.GenerateUserID(),
		"Jane Smith",
		email,
		"+447912345678",
		address,
		"bcrypt-hash",
		time.Now().UTC().Truncate(time.Millisecond),
	)
	s.Require().NoError(err)
	return user
}

func (s *PostgresUserSuite) TestSaveAndFind() {
	ctx := context.Background()
	user := s.newUser("jane@example.com")

	s.Require().NoError(s.store.Save(ctx, user))

	byID, err := s.store.FindByID(ctx, user.ID)
	s.Require().NoError(err)
	s.Equal(user.Email, byID.Email)
	s.Equal(user.Address, byID.Address)
	s.Equal("bcrypt-hash", byID.PasswordHash)

	byEmail, err := s.store.FindByEmail(ctx, "jane@example.com")
	s.Require().NoError(err)
	s.Equal(user.ID, byEmail.ID)
}

func (s *PostgresUserSuite) TestSaveIsUpsert() {
	ctx := context.Background()
	user := s.newUser("jane@example.com")
	s.Require().NoError(s.store.Save(ctx, user))

	user.Name = "Jane Jones"
	s.Require().NoError(s.store.Save(ctx, user))

	found, err := s.store.FindByID(ctx, user.ID)
	s.Require().NoError(err)
	s.Equal("Jane Jones", found.Name)
}

func (s *PostgresUserSuite) TestEmailUniqueness() {
	ctx := context.Background()
	s.Require().NoError(s.store.Save(ctx, s.newUser("jane@example.com")))

	s.ErrorIs(s.store.Save(ctx, s.newUser("jane@example.com")), sentinel.ErrAlreadyUsed)
}

func (s *PostgresUserSuite) TestExistsAndDelete() {
	ctx := context.Background()
	user := s.newUser("jane@example.com")
	s.Require().NoError(s.store.Save(ctx, user))

	exists, err := s.store.ExistsByID(ctx, user.ID)
	s.Require().NoError(err)
	s.True(exists)

	exists, err = s.store.ExistsByEmail(ctx, "jane@example.com")
	s.Require().NoError(err)
	s.True(exists)

	s.Require().NoError(s.store.DeleteByID(ctx, user.ID))
	s.ErrorIs(s.store.DeleteByID(ctx, user.ID), sentinel.ErrNotFound)

	_, err = s.store.FindByID(ctx, user.ID)
	s.ErrorIs(err, sentinel.ErrNotFound)
}
