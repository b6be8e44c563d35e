package service

import (
	"context"
	"errors"

	accountmodels "eaglebank/internal/account/models"
	"eaglebank/internal/audit"
	"eaglebank/internal/platform/metrics"
	"eaglebank/internal/transaction/models"
	"eaglebank/pkg/domain"
	dErrors "eaglebank/pkg/domain-errors"
	"eaglebank/pkg/platform/sentinel"
	"eaglebank/pkg/requestcontext"
)

// Store is the persistence port for the transaction ledger. Append and read
// only; the core never updates or deletes entries.
type Store interface {
	Save(ctx context.Context, transaction *models.Transaction) error
	FindByID(ctx context.Context, id domain.TransactionID) (*models.Transaction, error)
	FindByAccountNumber(ctx context.Context, number domain.AccountNumber) ([]*models.Transaction, error)
}

// AccountStore is the slice of the account area this service needs: loading
// the aggregate and saving it back under its version check.
type AccountStore interface {
	FindByAccountNumber(ctx context.Context, number domain.AccountNumber) (*accountmodels.Account, error)
	Save(ctx context.Context, account *accountmodels.Account) error
}

// StoreTx runs a function inside one atomic unit of work.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Service processes deposits and withdrawals. Each operation is one unit of
// work: load the account, authorize the caller, build the ledger entry, apply
// the matching balance mutation, persist both. Either the new balance and the
// entry land together or neither does.
type Service struct {
	ledger   Store
	accounts AccountStore
	domain   *DomainService
	auditor  *audit.Publisher
	metrics  *metrics.Metrics
	tx       StoreTx
}

// Option configures optional service collaborators.
type Option func(*Service)

func WithTx(tx StoreTx) Option {
	return func(s *Service) { s.tx = tx }
}

func WithAudit(p *audit.Publisher) Option {
	return func(s *Service) { s.auditor = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(ledger Store, accounts AccountStore, opts ...Option) *Service {
	s := &Service{
		ledger:   ledger,
		accounts: accounts,
		domain:   NewDomainService(),
		tx:       passthroughTx{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Deposit credits the account and appends the matching ledger entry.
func (s *Service) Deposit(
	ctx context.Context,
	callerID domain.UserID,
	number domain.AccountNumber,
	amount domain.Money,
	reference domain.TransactionReference,
) (*models.Transaction, error) {
	return s.process(ctx, callerID, number, amount, reference, models.TransactionTypeDeposit)
}

// Withdraw debits the account and appends the matching ledger entry. Fails
// with an insufficient-funds error when the balance does not cover amount,
// leaving the account untouched.
func (s *Service) Withdraw(
	ctx context.Context,
	callerID domain.UserID,
	number domain.AccountNumber,
	amount domain.Money,
	reference domain.TransactionReference,
) (*models.Transaction, error) {
	return s.process(ctx, callerID, number, amount, reference, models.TransactionTypeWithdrawal)
}

func (s *Service) process(
	ctx context.Context,
	callerID domain.UserID,
	number domain.AccountNumber,
	amount domain.Money,
	reference domain.TransactionReference,
	txType models.TransactionType,
) (*models.Transaction, error) {
	var entry *models.Transaction
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		account, err := s.loadOwned(txCtx, callerID, number)
		if err != nil {
			return err
		}

		now := requestcontext.Now(txCtx)

		// The domain service validates and snapshots; the aggregate owns the
		// actual balance mutation. Same amount flows through both so the
		// snapshot and the new balance cannot diverge.
		switch txType {
		case models.TransactionTypeDeposit:
			entry, err = s.domain.CreateDeposit(account, amount, reference, now)
			if err != nil {
				return err
			}
			if err := account.Deposit(amount, now); err != nil {
				return err
			}
		case models.TransactionTypeWithdrawal:
			entry, err = s.domain.CreateWithdrawal(account, amount, reference, now)
			if err != nil {
				return err
			}
			if err := account.Withdraw(amount, now); err != nil {
				return err
			}
		default:
			return dErrors.Newf(dErrors.CodeBadRequest, "unsupported transaction type: %q", txType)
		}

		if err := s.accounts.Save(txCtx, account); err != nil {
			if errors.Is(err, sentinel.ErrConflict) {
				s.metrics.IncSaveConflicts()
				return dErrors.Wrap(err, dErrors.CodeConflict, "account was modified concurrently")
			}
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to save account")
		}
		if err := s.ledger.Save(txCtx, entry); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "failed to append ledger entry")
		}
		return nil
	})
	if err != nil {
		s.countRejection(err)
		return nil, err
	}

	s.metrics.IncTransactionsProcessed(string(txType))
	_ = s.auditor.Emit(ctx, audit.Event{
		Kind:          audit.EventTransactionProcessed,
		ActorID:       callerID,
		AccountNumber: number,
		Detail: map[string]string{
			"transaction_id": entry.ID.String(),
			"type":           string(entry.Type),
			"amount":         entry.Amount.String(),
		},
		Timestamp: entry.CreatedAt,
	})
	return entry, nil
}

// Get returns one ledger entry, enforcing both account ownership and that the
// entry belongs to the named account. An entry under a different account is
// reported as not found rather than forbidden, to avoid leaking its existence.
func (s *Service) Get(
	ctx context.Context,
	callerID domain.UserID,
	number domain.AccountNumber,
	id domain.TransactionID,
) (*models.Transaction, error) {
	if _, err := s.loadOwned(ctx, callerID, number); err != nil {
		return nil, err
	}

	entry, err := s.ledger.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "transaction %s not found", id)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load transaction")
	}
	if entry.AccountNumber != number {
		return nil, dErrors.Newf(dErrors.CodeNotFound,
			"transaction %s does not belong to account %s", id, number)
	}
	return entry, nil
}

// List returns the account's ledger, oldest first.
func (s *Service) List(
	ctx context.Context,
	callerID domain.UserID,
	number domain.AccountNumber,
) ([]*models.Transaction, error) {
	if _, err := s.loadOwned(ctx, callerID, number); err != nil {
		return nil, err
	}
	entries, err := s.ledger.FindByAccountNumber(ctx, number)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to list transactions")
	}
	return entries, nil
}

func (s *Service) loadOwned(ctx context.Context, callerID domain.UserID, number domain.AccountNumber) (*accountmodels.Account, error) {
	account, err := s.accounts.FindByAccountNumber(ctx, number)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "account %s not found", number)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load account")
	}
	if !account.IsOwnedBy(callerID) {
		return nil, dErrors.Newf(dErrors.CodeForbidden, "user %s does not own account %s", callerID, number)
	}
	return account, nil
}

func (s *Service) countRejection(err error) {
	switch {
	case dErrors.HasCode(err, dErrors.CodeInsufficientFunds):
		s.metrics.IncTransactionsRejected("insufficient_funds")
	case dErrors.HasCode(err, dErrors.CodeInvalidState):
		s.metrics.IncTransactionsRejected("invalid_state")
	case dErrors.HasCode(err, dErrors.CodeValidation):
		s.metrics.IncTransactionsRejected("validation")
	case dErrors.HasCode(err, dErrors.CodeConflict):
		s.metrics.IncTransactionsRejected("conflict")
	}
}
