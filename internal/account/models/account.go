package models

import (
	"strings"
	"time"

	"eaglebank/pkg/domain"
	dErrors "eaglebank/pkg/domain-errors"
)

// Account is the aggregate root for a bank account.
//
// Invariants:
//   - Balance is never negative
//   - AccountNumber, SortCode, OwnerID and Type are immutable after creation
//   - Closed is terminal: no status transition leaves it
//   - Deposits and withdrawals require Status.CanPerformTransactions()
//   - UpdatedAt advances on every successful mutation; failed mutations leave
//     the aggregate untouched
//
// An Account is not internally synchronized. The intended discipline is
// load-mutate-save inside one unit of work, with the Version field detecting
// concurrent writers at save time (the later writer fails with a conflict).
type Account struct {
	AccountNumber domain.AccountNumber
	SortCode      domain.SortCode
	OwnerID       domain.UserID
	Name          string
	Type          AccountType
	Status        AccountStatus
	Balance       domain.Money
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Version is the optimistic-lock counter. It is owned by the storage
	// layer: stores compare it on save and increment it on success.
	Version int64
}

// NewAccount creates an active account with a zero balance in the default
// currency.
func NewAccount(
	number domain.AccountNumber,
	sortCode domain.SortCode,
	ownerID domain.UserID,
	name string,
	accountType AccountType,
	now time.Time,
) (*Account, error) {
	if number == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "account number is required")
	}
	if sortCode == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "sort code is required")
	}
	if ownerID.IsZero() {
		return nil, dErrors.New(dErrors.CodeValidation, "owner id is required")
	}
	if strings.TrimSpace(name) == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "account name cannot be empty")
	}
	if !accountType.Valid() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "invalid account type: %q", accountType)
	}
	return &Account{
		AccountNumber: number,
		SortCode:      sortCode,
		OwnerID:       ownerID,
		Name:          name,
		Type:          accountType,
		Status:        AccountStatusActive,
		Balance:       domain.Zero(domain.DefaultCurrency),
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Reconstitute rebuilds an account from its persisted state. Unlike
// NewAccount it accepts any stored status and balance, but still rejects
// records that could never have been valid.
func Reconstitute(
	number domain.AccountNumber,
	sortCode domain.SortCode,
	ownerID domain.UserID,
	name string,
	accountType AccountType,
	status AccountStatus,
	balance domain.Money,
	createdAt, updatedAt time.Time,
	version int64,
) (*Account, error) {
	account, err := NewAccount(number, sortCode, ownerID, name, accountType, createdAt)
	if err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "invalid account status: %q", status)
	}
	account.Status = status
	account.Balance = balance
	account.UpdatedAt = updatedAt
	account.Version = version
	return account, nil
}

// IsOwnedBy is the authorization primitive: callers must check it before any
// read or mutation on behalf of a user.
func (a *Account) IsOwnedBy(userID domain.UserID) bool {
	return a.OwnerID == userID
}

// Deposit adds amount to the balance.
func (a *Account) Deposit(amount domain.Money, now time.Time) error {
	if !a.Status.CanPerformTransactions() {
		return dErrors.Newf(dErrors.CodeInvalidState,
			"cannot deposit to account with status %s", a.Status)
	}
	if !amount.IsPositive() {
		return dErrors.New(dErrors.CodeValidation, "deposit amount must be positive")
	}
	balance, err := a.Balance.Add(amount)
	if err != nil {
		return err
	}
	a.Balance = balance
	a.UpdatedAt = now
	return nil
}

// Withdraw removes amount from the balance. The balance can never go
// negative; the shortfall check here is the aggregate's own guard for direct
// mutation paths — the transaction domain service performs the authoritative
// insufficient-funds check before this is reached.
func (a *Account) Withdraw(amount domain.Money, now time.Time) error {
	if !a.Status.CanPerformTransactions() {
		return dErrors.Newf(dErrors.CodeInvalidState,
			"cannot withdraw from account with status %s", a.Status)
	}
	if !amount.IsPositive() {
		return dErrors.New(dErrors.CodeValidation, "withdrawal amount must be positive")
	}
	short, err := a.Balance.LessThan(amount)
	if err != nil {
		return err
	}
	if short {
		return dErrors.New(dErrors.CodeInvalidState, "insufficient funds for withdrawal")
	}
	balance, err := a.Balance.Sub(amount)
	if err != nil {
		return err
	}
	a.Balance = balance
	a.UpdatedAt = now
	return nil
}

// UpdateName replaces the display name.
func (a *Account) UpdateName(name string, now time.Time) error {
	if strings.TrimSpace(name) == "" {
		return dErrors.New(dErrors.CodeValidation, "account name cannot be empty")
	}
	a.Name = name
	a.UpdatedAt = now
	return nil
}

// Close transitions the account to its terminal state. Requires a zero
// balance.
func (a *Account) Close(now time.Time) error {
	if a.Status == AccountStatusClosed {
		return dErrors.New(dErrors.CodeInvalidState, "account is already closed")
	}
	if !a.Balance.IsZero() {
		return dErrors.New(dErrors.CodeInvalidState, "cannot close account with non-zero balance")
	}
	a.Status = AccountStatusClosed
	a.UpdatedAt = now
	return nil
}

// Suspend pauses the account. Closed accounts cannot be suspended.
func (a *Account) Suspend(now time.Time) error {
	if a.Status == AccountStatusClosed {
		return dErrors.New(dErrors.CodeInvalidState, "cannot suspend a closed account")
	}
	a.Status = AccountStatusSuspended
	a.UpdatedAt = now
	return nil
}

// Activate resumes a suspended account. Closed accounts cannot be reopened.
func (a *Account) Activate(now time.Time) error {
	if a.Status == AccountStatusClosed {
		return dErrors.New(dErrors.CodeInvalidState, "cannot activate a closed account")
	}
	a.Status = AccountStatusActive
	a.UpdatedAt = now
	return nil
}
