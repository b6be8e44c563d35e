package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eaglebank/pkg/domain"
	dErrors "eaglebank/pkg/domain-errors"
)

var testTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestAccount(t *testing.T) *Account {
	t.Helper()
	account, err := NewAccount(
		domain.AccountNumber("01234567"),
		domain.DefaultSortCode,
		domain.UserID("usr-owner"),
		"Main Account",
		AccountTypePersonal,
		testTime,
	)
	require.NoError(t, err)
	return account
}

func gbp(t *testing.T, amount string) domain.Money {
	t.Helper()
	m, err := domain.MoneyFromString(amount, "GBP")
	require.NoError(t, err)
	return m
}

func TestNewAccount(t *testing.T) {
	t.Run("starts active with zero balance", func(t *testing.T) {
		account := newTestAccount(t)
		assert.Equal(t, AccountStatusActive, account.Status)
		assert.True(t, account.Balance.IsZero())
		assert.Equal(t, "GBP", account.Balance.Currency())
		assert.Equal(t, testTime, account.CreatedAt)
		assert.Equal(t, testTime, account.UpdatedAt)
		assert.Zero(t, account.Version)
	})

	t.Run("rejects missing fields", func(t *testing.T) {
		cases := []struct {
			name string
			fn   func() (*Account, error)
		}{
			{"blank name", func() (*Account, error) {
				return NewAccount("01234567", domain.DefaultSortCode, "usr-x", "  ", AccountTypePersonal, testTime)
			}},
			{"missing owner", func() (*Account, error) {
				return NewAccount("01234567", domain.DefaultSortCode, "", "A", AccountTypePersonal, testTime)
			}},
			{"bad type", func() (*Account, error) {
				return NewAccount("01234567", domain.DefaultSortCode, "usr-x", "A", AccountType("joint"), testTime)
			}},
		}
		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				_, err := tc.fn()
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
			})
		}
	})
}

func TestAccount_DepositWithdraw(t *testing.T) {
	t.Run("deposit then withdraw leaves the running balance", func(t *testing.T) {
		account := newTestAccount(t)
		later := testTime.Add(time.Minute)

		require.NoError(t, account.Deposit(gbp(t, "200.00"), later))
		assert.True(t, account.Balance.Equal(gbp(t, "200.00")))
		assert.Equal(t, later, account.UpdatedAt)

		require.NoError(t, account.Withdraw(gbp(t, "50.00"), later.Add(time.Minute)))
		assert.True(t, account.Balance.Equal(gbp(t, "150.00")))
	})

	t.Run("rejects non-positive amounts", func(t *testing.T) {
		account := newTestAccount(t)
		err := account.Deposit(domain.Zero("GBP"), testTime)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

		err = account.Withdraw(gbp(t, "-5.00"), testTime)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("withdrawal never exceeds balance", func(t *testing.T) {
		account := newTestAccount(t)
		require.NoError(t, account.Deposit(gbp(t, "50.00"), testTime))

		before := account.UpdatedAt
		err := account.Withdraw(gbp(t, "100.00"), testTime.Add(time.Hour))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidState))

		// failure leaves the aggregate untouched
		assert.True(t, account.Balance.Equal(gbp(t, "50.00")))
		assert.Equal(t, before, account.UpdatedAt)
	})

	t.Run("suspended account cannot transact", func(t *testing.T) {
		account := newTestAccount(t)
		require.NoError(t, account.Suspend(testTime))

		err := account.Deposit(gbp(t, "10.00"), testTime)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidState))

		require.NoError(t, account.Activate(testTime))
		assert.NoError(t, account.Deposit(gbp(t, "10.00"), testTime))
	})
}

func TestAccount_Close(t *testing.T) {
	t.Run("needs an exactly zero balance", func(t *testing.T) {
		account := newTestAccount(t)
		require.NoError(t, account.Deposit(gbp(t, "0.01"), testTime))

		err := account.Close(testTime)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidState))

		require.NoError(t, account.Withdraw(gbp(t, "0.01"), testTime))
		require.NoError(t, account.Close(testTime))
		assert.Equal(t, AccountStatusClosed, account.Status)
	})

	t.Run("closed is terminal", func(t *testing.T) {
		account := newTestAccount(t)
		require.NoError(t, account.Close(testTime))

		assert.Error(t, account.Close(testTime))
		assert.Error(t, account.Suspend(testTime))
		assert.Error(t, account.Activate(testTime))
		assert.Error(t, account.Deposit(gbp(t, "1.00"), testTime))
	})
}

func TestAccount_UpdateName(t *testing.T) {
	account := newTestAccount(t)
	require.NoError(t, account.UpdateName("Household", testTime.Add(time.Minute)))
	assert.Equal(t, "Household", account.Name)
	assert.Equal(t, testTime.Add(time.Minute), account.UpdatedAt)

	err := account.UpdateName("   ", testTime)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestAccount_IsOwnedBy(t *testing.T) {
	account := newTestAccount(t)
	assert.True(t, account.IsOwnedBy(domain.UserID("usr-owner")))
	assert.False(t, account.IsOwnedBy(domain.UserID("usr-other")))
}

func TestReconstitute_RoundTrip(t *testing.T) {
	account := newTestAccount(t)
	require.NoError(t, account.Deposit(gbp(t, "75.25"), testTime.Add(time.Minute)))
	require.NoError(t, account.Suspend(testTime.Add(2*time.Minute)))
	account.Version = 3

	loaded, err := Reconstitute(
		account.AccountNumber,
		account.SortCode,
		account.OwnerID,
		account.Name,
		account.Type,
		account.Status,
		account.Balance,
		account.CreatedAt,
		account.UpdatedAt,
		account.Version,
	)
	require.NoError(t, err)
	assert.Equal(t, account, loaded)
}

func TestReconstitute_RejectsUnknownStatus(t *testing.T) {
	_, err := Reconstitute(
		"01234567", domain.DefaultSortCode, "usr-x", "A", AccountTypePersonal,
		AccountStatus("frozen"), domain.Zero("GBP"), testTime, testTime, 0,
	)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
}

func TestAccount_BalanceIsSumOfMovements(t *testing.T) {
	account := newTestAccount(t)
	deposits := []string{"10.00", "20.50", "0.01", "100.00"}
	withdrawals := []string{"5.25", "25.00"}

	for _, d := range deposits {
		require.NoError(t, account.Deposit(gbp(t, d), testTime))
	}
	for _, w := range withdrawals {
		require.NoError(t, account.Withdraw(gbp(t, w), testTime))
	}

	want := decimal.RequireFromString("100.26")
	assert.True(t, account.Balance.Amount().Equal(want), "got %s", account.Balance)
	assert.False(t, account.Balance.IsNegative())
}
