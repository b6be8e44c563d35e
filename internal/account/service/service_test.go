package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"eaglebank/internal/account/models"
	"eaglebank/internal/account/store"
	"eaglebank/pkg/domain"
	dErrors "eaglebank/pkg/domain-errors"
	"eaglebank/pkg/requestcontext"
)

type userDirStub struct {
	known map[domain.UserID]bool
}

func (d *userDirStub) ExistsByID(_ context.Context, id domain.UserID) (bool, error) {
	return d.known[id], nil
}

type AccountServiceSuite struct {
	suite.Suite
	accounts *store.InMemory
	users    *userDirStub
	svc      *Service
	ctx      context.Context

	owner domain.UserID
}

func (s *AccountServiceSuite) SetupTest() {
	s.owner = domain.UserID("usr-owner")
	s.accounts = store.NewInMemory()
	s.users = &userDirStub{known: map[domain.UserID]bool{s.owner: true}}
	s.svc = New(s.accounts, s.users)
	s.ctx = requestcontext.WithTime(context.Background(), time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC))
}

func TestAccountServiceSuite(t *testing.T) {
	suite.Run(t, new(AccountServiceSuite))
}

func (s *AccountServiceSuite) create(name string) *models.Account {
	account, err := s.svc.Create(s.ctx, s.owner, name, models.AccountTypePersonal)
	s.Require().NoError(err)
	return account
}

func (s *AccountServiceSuite) deposit(number domain.AccountNumber, amount string) {
	account, err := s.accounts.FindByAccountNumber(s.ctx, number)
	s.Require().NoError(err)
	m, err := domain.MoneyFromString(amount, domain.DefaultCurrency)
	s.Require().NoError(err)
	s.Require().NoError(account.Deposit(m, requestcontext.Now(s.ctx)))
	s.Require().NoError(s.accounts.Save(s.ctx, account))
}

func (s *AccountServiceSuite) TestCreate() {
	s.Run("opens an account with a generated number", func() {
		account := s.create("Savings")

		s.Regexp(`^01\d{6}$`, account.AccountNumber.String())
		s.Equal(domain.DefaultSortCode, account.SortCode)
		s.Equal(models.AccountStatusActive, account.Status)
		s.True(account.Balance.IsZero())
		s.Equal(int64(1), account.Version)
	})

	s.Run("rejects an unknown owner", func() {
		_, err := s.svc.Create(s.ctx, domain.UserID("usr-ghost"), "Savings", models.AccountTypePersonal)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("trims the display name", func() {
		account := s.create("  Padded  ")
		s.Equal("Padded", account.Name)
	})
}

type collidingStore struct {
	*store.InMemory
	collisions int
}

func (c *collidingStore) ExistsByAccountNumber(ctx context.Context, number domain.AccountNumber) (bool, error) {
	if c.collisions > 0 {
		c.collisions--
		return true, nil
	}
	return c.InMemory.ExistsByAccountNumber(ctx, number)
}

func (s *AccountServiceSuite) TestCreateRetriesNumberCollisions() {
	colliding := &collidingStore{InMemory: s.accounts, collisions: 3}
	svc := New(colliding, s.users)

	account, err := svc.Create(s.ctx, s.owner, "Retry", models.AccountTypePersonal)
	s.Require().NoError(err)
	s.Zero(colliding.collisions)
	s.Regexp(`^01\d{6}$`, account.AccountNumber.String())
}

func (s *AccountServiceSuite) TestGetAndList() {
	first := s.create("First")
	s.create("Second")

	s.Run("owner reads their account", func() {
		found, err := s.svc.Get(s.ctx, s.owner, first.AccountNumber)
		s.Require().NoError(err)
		s.Equal(first.AccountNumber, found.AccountNumber)
	})

	s.Run("non-owner is forbidden", func() {
		s.users.known[domain.UserID("usr-other")] = true
		_, err := s.svc.Get(s.ctx, domain.UserID("usr-other"), first.AccountNumber)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})

	s.Run("unknown number is not found", func() {
		_, err := s.svc.Get(s.ctx, s.owner, domain.AccountNumber("01999999"))
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("lists only the caller's accounts", func() {
		accounts, err := s.svc.List(s.ctx, s.owner)
		s.Require().NoError(err)
		s.Len(accounts, 2)

		accounts, err = s.svc.List(s.ctx, domain.UserID("usr-other"))
		s.Require().NoError(err)
		s.Empty(accounts)
	})

	s.Run("listing for an unknown user is not found", func() {
		_, err := s.svc.List(s.ctx, domain.UserID("usr-ghost"))
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})
}

func (s *AccountServiceSuite) TestUpdateName() {
	account := s.create("Old Name")

	updated, err := s.svc.UpdateName(s.ctx, s.owner, account.AccountNumber, "New Name")
	s.Require().NoError(err)
	s.Equal("New Name", updated.Name)

	stored, err := s.accounts.FindByAccountNumber(s.ctx, account.AccountNumber)
	s.Require().NoError(err)
	s.Equal("New Name", stored.Name)

	_, err = s.svc.UpdateName(s.ctx, s.owner, account.AccountNumber, "   ")
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *AccountServiceSuite) TestSuspendAndActivate() {
	account := s.create("Current")

	suspended, err := s.svc.Suspend(s.ctx, s.owner, account.AccountNumber)
	s.Require().NoError(err)
	s.Equal(models.AccountStatusSuspended, suspended.Status)

	// Transactions are blocked while suspended.
	stored, err := s.accounts.FindByAccountNumber(s.ctx, account.AccountNumber)
	s.Require().NoError(err)
	m, err := domain.MoneyFromString("1.00", domain.DefaultCurrency)
	s.Require().NoError(err)
	err = stored.Deposit(m, requestcontext.Now(s.ctx))
	s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))

	activated, err := s.svc.Activate(s.ctx, s.owner, account.AccountNumber)
	s.Require().NoError(err)
	s.Equal(models.AccountStatusActive, activated.Status)
}

func (s *AccountServiceSuite) TestClose() {
	s.Run("closes and removes an empty active account", func() {
		account := s.create("Closable")

		s.Require().NoError(s.svc.Close(s.ctx, s.owner, account.AccountNumber))

		_, err := s.svc.Get(s.ctx, s.owner, account.AccountNumber)
		s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
	})

	s.Run("refuses while funds remain", func() {
		account := s.create("Funded")
		s.deposit(account.AccountNumber, "0.01")

		err := s.svc.Close(s.ctx, s.owner, account.AccountNumber)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))

		_, err = s.svc.Get(s.ctx, s.owner, account.AccountNumber)
		s.Require().NoError(err)
	})

	s.Run("refuses while suspended", func() {
		account := s.create("Paused")
		_, err := s.svc.Suspend(s.ctx, s.owner, account.AccountNumber)
		s.Require().NoError(err)

		err = s.svc.Close(s.ctx, s.owner, account.AccountNumber)
		s.True(dErrors.HasCode(err, dErrors.CodeInvalidState))
	})

	s.Run("non-owner cannot close", func() {
		account := s.create("Guarded")
		s.users.known[domain.UserID("usr-other")] = true

		err := s.svc.Close(s.ctx, domain.UserID("usr-other"), account.AccountNumber)
		s.True(dErrors.HasCode(err, dErrors.CodeForbidden))
	})
}
