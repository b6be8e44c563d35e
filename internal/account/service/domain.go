package service

import (
	"eaglebank/internal/account/models"
)

// DomainService holds account policy that does not belong to a single
// aggregate's identity.
type DomainService struct{}

func NewDomainService() *DomainService {
	return &DomainService{}
}

// CanCloseAccount reports whether closure is permitted: the balance must be
// exactly zero and the account must still be active. Used as a pre-check
// before Account.Close so callers can distinguish "not closable" from
// "close failed".
func (s *DomainService) CanCloseAccount(account *models.Account) bool {
	return account.Balance.IsZero() && account.Status.CanPerformTransactions()
}
