package service

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	accountmodels "eaglebank/internal/account/models"
	"eaglebank/pkg/domain"
	dErrors "eaglebank/pkg/domain-errors"
)

func newTestAccount(t *testing.T, balance string) *accountmodels.Account {
	t.Helper()
	return newTestAccountAt(t, domain.AccountNumber("01234567"), domain.UserID("usr-owner"), balance)
}

func newTestAccountAt(t *testing.T, number domain.AccountNumber, owner domain.UserID, balance string) *accountmodels.Account {
	t.Helper()
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	account, err := accountmodels.NewAccount(
		number,
		domain.DefaultSortCode,
		owner,
		"Current Account",
		accountmodels.AccountTypePersonal,
		now,
	)
	require.NoError(t, err)

	amount, err := domain.MoneyFromString(balance, domain.DefaultCurrency)
	require.NoError(t, err)
	if amount.IsPositive() {
		require.NoError(t, account.Deposit(amount, now))
	}
	return account
}

func gbp(t *testing.T, amount string) domain.Money {
	t.Helper()
	m, err := domain.MoneyFromString(amount, domain.DefaultCurrency)
	require.NoError(t, err)
	return m
}

func TestDomainService_CreateDeposit(t *testing.T) {
	svc := NewDomainService()
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	t.Run("snapshots balance after credit", func(t *testing.T) {
		account := newTestAccount(t, "100.00")

		entry, err := svc.CreateDeposit(account, gbp(t, "50.25"), "salary", now)
		require.NoError(t, err)

		assert.True(t, entry.IsCredit())
		assert.Equal(t, account.AccountNumber, entry.AccountNumber)
		assert.True(t, entry.BalanceAfter.Equal(gbp(t, "150.25")))
		assert.Equal(t, now, entry.CreatedAt)
		// Read-only: the aggregate itself is untouched.
		assert.True(t, account.Balance.Equal(gbp(t, "100.00")))
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		account := newTestAccount(t, "100.00")

		_, err := svc.CreateDeposit(account, domain.GBP(decimal.Zero), "noop", now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}

func TestDomainService_CreateWithdrawal(t *testing.T) {
	svc := NewDomainService()
	now := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)

	t.Run("snapshots balance after debit", func(t *testing.T) {
		account := newTestAccount(t, "100.00")

		entry, err := svc.CreateWithdrawal(account, gbp(t, "40.00"), "rent", now)
		require.NoError(t, err)

		assert.True(t, entry.IsDebit())
		assert.True(t, entry.BalanceAfter.Equal(gbp(t, "60.00")))
	})

	t.Run("allows withdrawing the exact balance", func(t *testing.T) {
		account := newTestAccount(t, "100.00")

		entry, err := svc.CreateWithdrawal(account, gbp(t, "100.00"), "sweep", now)
		require.NoError(t, err)
		assert.True(t, entry.BalanceAfter.IsZero())
	})

	t.Run("rejects shortfall with insufficient funds", func(t *testing.T) {
		account := newTestAccount(t, "100.00")

		_, err := svc.CreateWithdrawal(account, gbp(t, "100.01"), "rent", now)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInsufficientFunds))
		assert.True(t, account.Balance.Equal(gbp(t, "100.00")))
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		account := newTestAccount(t, "100.00")

		_, err := svc.CreateWithdrawal(account, gbp(t, "-5.00"), "bad", now)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}
