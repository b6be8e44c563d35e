package models

import (
	"time"

	"eaglebank/pkg/domain"
	dErrors "eaglebank/pkg/domain-errors"
)

// TransactionType is the direction of a money movement.
type TransactionType string

const (
	TransactionTypeDeposit    TransactionType = "deposit"
	TransactionTypeWithdrawal TransactionType = "withdrawal"
)

func (t TransactionType) Valid() bool {
	return t == TransactionTypeDeposit || t == TransactionTypeWithdrawal
}

// IsCredit reports whether the movement increases the account balance.
func (t TransactionType) IsCredit() bool { return t == TransactionTypeDeposit }

// IsDebit reports whether the movement decreases the account balance.
func (t TransactionType) IsDebit() bool { return t == TransactionTypeWithdrawal }

// Transaction is an immutable ledger entry: the record of one completed money
// movement against an account, including the balance it left behind.
//
// Invariants:
//   - Amount is strictly positive
//   - Nothing is mutated after construction; the ledger is append-only
//   - Identity is the ID alone: two entries with the same ID are the same
//     entry regardless of payload
type Transaction struct {
	ID            domain.TransactionID
	AccountNumber domain.AccountNumber
	Type          TransactionType
	Amount        domain.Money
	BalanceAfter  domain.Money
	Reference     domain.TransactionReference
	CreatedAt     time.Time
}

// NewTransaction validates and creates a ledger entry.
func NewTransaction(
	id domain.TransactionID,
	accountNumber domain.AccountNumber,
	txType TransactionType,
	amount domain.Money,
	balanceAfter domain.Money,
	reference domain.TransactionReference,
	now time.Time,
) (*Transaction, error) {
	if id == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "transaction id is required")
	}
	if accountNumber == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "account number is required")
	}
	if !txType.Valid() {
		return nil, dErrors.Newf(dErrors.CodeValidation, "invalid transaction type: %q", txType)
	}
	if !amount.IsPositive() {
		return nil, dErrors.New(dErrors.CodeValidation, "transaction amount must be positive")
	}
	if reference == "" {
		return nil, dErrors.New(dErrors.CodeValidation, "transaction reference is required")
	}
	return &Transaction{
		ID:            id,
		AccountNumber: accountNumber,
		Type:          txType,
		Amount:        amount,
		BalanceAfter:  balanceAfter,
		Reference:     reference,
		CreatedAt:     now,
	}, nil
}

// Reconstitute rebuilds a ledger entry from storage with its original
// creation time.
func Reconstitute(
	id domain.TransactionID,
	accountNumber domain.AccountNumber,
	txType TransactionType,
	amount domain.Money,
	balanceAfter domain.Money,
	reference domain.TransactionReference,
	createdAt time.Time,
) (*Transaction, error) {
	return NewTransaction(id, accountNumber, txType, amount, balanceAfter, reference, createdAt)
}

// Equal compares ledger identity. Entries are keyed by ID; payloads are never
// consulted.
func (t *Transaction) Equal(other *Transaction) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.ID == other.ID
}

func (t *Transaction) IsCredit() bool { return t.Type.IsCredit() }
func (t *Transaction) IsDebit() bool  { return t.Type.IsDebit() }
