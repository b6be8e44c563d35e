package service

import (
	"context"
	"errors"
	"strings"

	"eaglebank/internal/account/models"
	"eaglebank/internal/audit"
	"eaglebank/internal/platform/metrics"
	"eaglebank/pkg/domain"
	dErrors "eaglebank/pkg/domain-errors"
	"eaglebank/pkg/platform/sentinel"
	"eaglebank/pkg/requestcontext"
)

// maxGenerateAttempts bounds the account-number collision retry loop. The
// suffix space holds a million values; hitting this limit means the space is
// nearly exhausted and callers should treat it as an operational problem,
// not retry harder.
const maxGenerateAttempts = 50

// Store is the persistence port for Account aggregates.
//
// Save uses optimistic concurrency: account.Version carries the version the
// caller loaded, the store rejects the write with sentinel.ErrConflict when
// the stored version differs, and increments it on success.
type Store interface {
	Save(ctx context.Context, account *models.Account) error
	FindByAccountNumber(ctx context.Context, number domain.AccountNumber) (*models.Account, error)
	FindByOwnerID(ctx context.Context, ownerID domain.UserID) ([]*models.Account, error)
	ExistsByAccountNumber(ctx context.Context, number domain.AccountNumber) (bool, error)
	CountByOwnerID(ctx context.Context, ownerID domain.UserID) (int64, error)
	DeleteByAccountNumber(ctx context.Context, number domain.AccountNumber) error
}

// UserDirectory is the slice of the user area this service needs: existence
// checks on account owners.
type UserDirectory interface {
	ExistsByID(ctx context.Context, id domain.UserID) (bool, error)
}

// StoreTx runs a function inside one atomic unit of work. The context passed
// to fn carries the transaction; stores joined through it commit or roll back
// together.
type StoreTx interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// passthroughTx satisfies StoreTx without transactional semantics; the
// default for memory stores, which are individually atomic.
type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// Service orchestrates account lifecycle operations: load the aggregate,
// authorize the caller, apply domain rules, persist.
type Service struct {
	accounts Store
	users    UserDirectory
	policy   *DomainService
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

func New(accounts Store, users UserDirectory, opts ...Option) *Service {
	s := &Service{
		accounts: accounts,
		users:    users,
		policy:   NewDomainService(),
		tx:       passthroughTx{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create opens a new account for ownerID. The account number is drawn at
// random and redrawn on collision against the store.
func (s *Service) Create(ctx context.Context, ownerID domain.UserID, name string, accountType models.AccountType) (*models.Account, error) {
	name = strings.TrimSpace(name)

	exists, err := s.users.ExistsByID(ctx, ownerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify account owner")
	}
	if !exists {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "user %s not found", ownerID)
	}

	number, err := s.uniqueAccountNumber(ctx)
	if err != nil {
		return nil, err
	}

	account, err := models.NewAccount(number, domain.DefaultSortCode, ownerID, name, accountType, requestcontext.Now(ctx))
	if err != nil {
		return nil, err
	}

	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, wrapStoreErr(err, "failed to save account")
	}

	s.metrics.IncAccountsCreated()
	_ = s.auditor.Emit(ctx, audit.Event{
		Kind:          audit.EventAccountOpened,
		ActorID:       ownerID,
		AccountNumber: account.AccountNumber,
		Timestamp:     account.CreatedAt,
	})
	return account, nil
}

func (s *Service) uniqueAccountNumber(ctx context.Context) (domain.AccountNumber, error) {
	for range maxGenerateAttempts {
		candidate := domain.GenerateAccountNumber()
		taken, err := s.accounts.ExistsByAccountNumber(ctx, candidate)
		if err != nil {
			return "", dErrors.Wrap(err, dErrors.CodeInternal, "failed to check account number availability")
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", dErrors.New(dErrors.CodeInternal, "account number space exhausted")
}

// Get returns the account, enforcing that the caller owns it.
func (s *Service) Get(ctx context.Context, callerID domain.UserID, number domain.AccountNumber) (*models.Account, error) {
	return s.loadOwned(ctx, callerID, number)
}

// List returns all accounts owned by the caller.
func (s *Service) List(ctx context.Context, callerID domain.UserID) ([]*models.Account, error) {
	exists, err := s.users.ExistsByID(ctx, callerID)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to verify user")
	}
	if !exists {
		return nil, dErrors.Newf(dErrors.CodeNotFound, "user %s not found", callerID)
	}
	accounts, err := s.accounts.FindByOwnerID(ctx, callerID)
	if err != nil {
		return nil, wrapStoreErr(err, "failed to list accounts")
	}
	return accounts, nil
}

// UpdateName renames the account within one unit of work.
func (s *Service) UpdateName(ctx context.Context, callerID domain.UserID, number domain.AccountNumber, name string) (*models.Account, error) {
	var updated *models.Account
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		account, err := s.loadOwned(txCtx, callerID, number)
		if err != nil {
			return err
		}
		if err := account.UpdateName(name, requestcontext.Now(txCtx)); err != nil {
			return err
		}
		if err := s.accounts.Save(txCtx, account); err != nil {
			return wrapStoreErr(err, "failed to save account")
		}
		updated = account
		return nil
	})
	if err != nil {
		return nil, err
	}
	_ = s.auditor.Emit(ctx, audit.Event{
		Kind:          audit.EventAccountRenamed,
		ActorID:       callerID,
		AccountNumber: number,
		Detail:        map[string]string{"name": updated.Name},
		Timestamp:     updated.UpdatedAt,
	})
	return updated, nil
}

// Suspend pauses the account; deposits and withdrawals fail until Activate.
func (s *Service) Suspend(ctx context.Context, callerID domain.UserID, number domain.AccountNumber) (*models.Account, error) {
	return s.transition(ctx, callerID, number, audit.EventAccountSuspended,
		func(ctx context.Context, a *models.Account) error {
			return a.Suspend(requestcontext.Now(ctx))
		})
}

// Activate resumes a suspended account.
func (s *Service) Activate(ctx context.Context, callerID domain.UserID, number domain.AccountNumber) (*models.Account, error) {
	return s.transition(ctx, callerID, number, audit.EventAccountActivated,
		func(ctx context.Context, a *models.Account) error {
			return a.Activate(requestcontext.Now(ctx))
		})
}

func (s *Service) transition(
	ctx context.Context,
	callerID domain.UserID,
	number domain.AccountNumber,
	kind audit.EventKind,
	apply func(context.Context, *models.Account) error,
) (*models.Account, error) {
	var updated *models.Account
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		account, err := s.loadOwned(txCtx, callerID, number)
		if err != nil {
			return err
		}
		if err := apply(txCtx, account); err != nil {
			return err
		}
		if err := s.accounts.Save(txCtx, account); err != nil {
			return wrapStoreErr(err, "failed to save account")
		}
		updated = account
		return nil
	})
	if err != nil {
		return nil, err
	}
	_ = s.auditor.Emit(ctx, audit.Event{
		Kind:          kind,
		ActorID:       callerID,
		AccountNumber: number,
		Timestamp:     updated.UpdatedAt,
	})
	return updated, nil
}

// Close closes the account and removes it from the store, atomically. The
// closability policy runs first so callers get the precise reason.
func (s *Service) Close(ctx context.Context, callerID domain.UserID, number domain.AccountNumber) error {
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		account, err := s.loadOwned(txCtx, callerID, number)
		if err != nil {
			return err
		}
		if !s.policy.CanCloseAccount(account) {
			return dErrors.New(dErrors.CodeInvalidState,
				"account cannot be closed: balance must be zero and account must be active")
		}
		if err := account.Close(requestcontext.Now(txCtx)); err != nil {
			return err
		}
		if err := s.accounts.DeleteByAccountNumber(txCtx, number); err != nil {
			return wrapStoreErr(err, "failed to delete account")
		}
		return nil
	})
	if err != nil {
		return err
	}
	s.metrics.IncAccountsClosed()
	_ = s.auditor.Emit(ctx, audit.Event{
		Kind:          audit.EventAccountClosed,
		ActorID:       callerID,
		AccountNumber: number,
		Timestamp:     requestcontext.Now(ctx),
	})
	return nil
}

func (s *Service) loadOwned(ctx context.Context, callerID domain.UserID, number domain.AccountNumber) (*models.Account, error) {
	account, err := s.accounts.FindByAccountNumber(ctx, number)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "account %s not found", number)
		}
		return nil, wrapStoreErr(err, "failed to load account")
	}
	if !account.IsOwnedBy(callerID) {
		return nil, dErrors.Newf(dErrors.CodeForbidden, "user %s does not own account %s", callerID, number)
	}
	return account, nil
}

func wrapStoreErr(err error, message string) error {
	switch {
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, message)
	case errors.Is(err, sentinel.ErrConflict), errors.Is(err, sentinel.ErrAlreadyUsed):
		return dErrors.Wrap(err, dErrors.CodeConflict, message)
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, message)
	}
}
