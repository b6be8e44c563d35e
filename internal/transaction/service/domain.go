package service

import (
	"time"

	accountmodels "eaglebank/internal/account/models"
	"eaglebank/internal/transaction/models"
	"eaglebank/pkg/domain"
	dErrors "eaglebank/pkg/domain-errors"
)

// DomainService builds ledger entries from an account's current state. It is
// stateless and never mutates the account: the balance snapshot is computed
// read-only, and the orchestrating service applies the matching aggregate
// mutation itself so balance changes stay centralized in Account.
type DomainService struct{}

func NewDomainService() *DomainService {
	return &DomainService{}
}

// CreateDeposit builds a deposit entry with BalanceAfter = balance + amount.
func (s *DomainService) CreateDeposit(
	account *accountmodels.Account,
	amount domain.Money,
	reference domain.TransactionReference,
	now time.Time,
) (*models.Transaction, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	balanceAfter, err := account.Balance.Add(amount)
	if err != nil {
		return nil, err
	}
	return models.NewTransaction(
		domain.GenerateTransactionID(),
		account.AccountNumber,
		models.TransactionTypeDeposit,
		amount,
		balanceAfter,
		reference,
		now,
	)
}

// CreateWithdrawal builds a withdrawal entry with BalanceAfter = balance -
// amount. This is the authoritative insufficient-funds check: it runs before
// the aggregate is touched, so a shortfall rejects the whole operation with
// nothing applied.
func (s *DomainService) CreateWithdrawal(
	account *accountmodels.Account,
	amount domain.Money,
	reference domain.TransactionReference,
	now time.Time,
) (*models.Transaction, error) {
	if err := validateAmount(amount); err != nil {
		return nil, err
	}
	short, err := account.Balance.LessThan(amount)
	if err != nil {
		return nil, err
	}
	if short {
		return nil, dErrors.Newf(dErrors.CodeInsufficientFunds,
			"insufficient funds on account %s: requested %s, available %s",
			account.AccountNumber, amount, account.Balance)
	}
	balanceAfter, err := account.Balance.Sub(amount)
	if err != nil {
		return nil, err
	}
	return models.NewTransaction(
		domain.GenerateTransactionID(),
		account.AccountNumber,
		models.TransactionTypeWithdrawal,
		amount,
		balanceAfter,
		reference,
		now,
	)
}

func validateAmount(amount domain.Money) error {
	if !amount.IsPositive() {
		return dErrors.New(dErrors.CodeValidation, "transaction amount must be positive")
	}
	return nil
}
