package models

// AccountStatus is the account lifecycle state.
type AccountStatus string

const (
	AccountStatusActive    AccountStatus = "active"
	AccountStatusSuspended AccountStatus = "suspended"
	AccountStatusClosed    AccountStatus = "closed"
)

// CanPerformTransactions reports whether deposits and withdrawals are allowed
// in this state. Only active accounts transact.
func (s AccountStatus) CanPerformTransactions() bool {
	return s == AccountStatusActive
}

// Valid reports whether s is one of the known states. Used when
// reconstituting from storage.
func (s AccountStatus) Valid() bool {
	switch s {
	case AccountStatusActive, AccountStatusSuspended, AccountStatusClosed:
		return true
	}
	return false
}

// AccountType distinguishes personal from business accounts. Immutable once
// the account is created.
type AccountType string

const (
	AccountTypePersonal AccountType = "personal"
	AccountTypeBusiness AccountType = "business"
)

func (t AccountType) Valid() bool {
	return t == AccountTypePersonal || t == AccountTypeBusiness
}
