package service

import (
	"context"
	"errors"
	"strings"

	"eaglebank/internal/audit"
	"eaglebank/internal/platform/metrics"
	"eaglebank/internal/user/models"
	"eaglebank/pkg/domain"
	dErrors "eaglebank/pkg/domain-errors"
	"eaglebank/pkg/platform/sentinel"
	"eaglebank/pkg/requestcontext"
)

// Store is the persistence port for User aggregates.
type Store interface {
	Save(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id domain.UserID) (*models.User, error)
	FindByEmail(ctx context.Context, email models.Email) (*models.User, error)
	ExistsByID(ctx context.Context, id domain.UserID) (bool, error)
	ExistsByEmail(ctx context.Context, email models.Email) (bool, error)
	DeleteByID(ctx context.Context, id domain.UserID) error
}

// AccountCounter is the slice of the account area this service needs: a user
// with open accounts cannot be deleted.
type AccountCounter interface {
	CountByOwnerID(ctx context.Context, ownerID domain.UserID) (int64, error)
}

// PasswordHasher hashes raw passwords and verifies them against stored
// hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// CreateUserParams carries the raw input for opening a customer record.
// Value-object parsing happens inside Create so callers pass strings as
// received.
type CreateUserParams struct {
	Name     string
	Email    string
	Phone    string
	Line1    string
	Line2    string
	Line3    string
	Town     string
	County   string
	Postcode string
	Password string
}

// UpdateUserParams is a partial update: empty strings mean "keep". The
// address is replaced only when all its required fields are present.
type UpdateUserParams struct {
	Name     string
	Phone    string
	Line1    string
	Line2    string
	Line3    string
	Town     string
	County   string
	Postcode string
}

// Service manages customer records. Reads and writes are self-only: callers
// may act on their own record and nobody else's.
type Service struct {
	users    Store
	accounts AccountCounter
	hasher   PasswordHasher
	auditor  *audit.Publisher
	metrics  *metrics.Metrics
}

// Option configures optional service collaborators.
type Option func(*Service)

func WithAudit(p *audit.Publisher) Option {
	return func(s *Service) { s.auditor = p }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func New(users Store, accounts AccountCounter, hasher PasswordHasher, opts ...Option) *Service {
	s := &Service{
		users:    users,
		accounts: accounts,
		hasher:   hasher,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

const minPasswordLength = 8

// Create registers a new customer. Email addresses are unique across users.
func (s *Service) Create(ctx context.Context, params CreateUserParams) (*models.User, error) {
	email, err := models.ParseEmail(params.Email)
	if err != nil {
		return nil, err
	}
	phone, err := models.ParsePhoneNumber(params.Phone)
	if err != nil {
		return nil, err
	}
	address, err := models.NewAddress(params.Line1, params.Line2, params.Line3, params.Town, params.County, params.Postcode)
	if err != nil {
		return nil, err
	}
	if len(params.Password) < minPasswordLength {
		return nil, dErrors.Newf(dErrors.CodeValidation, "password must be at least %d characters", minPasswordLength)
	}

	taken, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to check email availability")
	}
	if taken {
		return nil, dErrors.Newf(dErrors.CodeConflict, "user with email %s already exists", email)
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to hash password")
	}

	user, err := models.NewUser(
		domain.GenerateUserID(),
		strings.TrimSpace(params.Name),
		email,
		phone,
		address,
		hash,
		requestcontext.Now(ctx),
	)
	if err != nil {
		return nil, err
	}

	if err := s.users.Save(ctx, user); err != nil {
		if errors.Is(err, sentinel.ErrAlreadyUsed) {
			return nil, dErrors.Newf(dErrors.CodeConflict, "user with email %s already exists", email)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save user")
	}

	s.metrics.IncUsersCreated()
	_ = s.auditor.Emit(ctx, audit.Event{
		Kind:      audit.EventUserCreated,
		ActorID:   user.ID,
		Timestamp: user.CreatedAt,
	})
	return user, nil
}

// Get returns the user's own record.
func (s *Service) Get(ctx context.Context, callerID, id domain.UserID) (*models.User, error) {
	if err := requireSelf(callerID, id); err != nil {
		return nil, err
	}
	return s.load(ctx, id)
}

// Update applies a partial update to the caller's own record.
func (s *Service) Update(ctx context.Context, callerID, id domain.UserID, params UpdateUserParams) (*models.User, error) {
	if err := requireSelf(callerID, id); err != nil {
		return nil, err
	}
	user, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	var phone models.PhoneNumber
	if params.Phone != "" {
		phone, err = models.ParsePhoneNumber(params.Phone)
		if err != nil {
			return nil, err
		}
	}
	var address models.Address
	if params.Line1 != "" || params.Town != "" || params.County != "" || params.Postcode != "" {
		address, err = models.NewAddress(params.Line1, params.Line2, params.Line3, params.Town, params.County, params.Postcode)
		if err != nil {
			return nil, err
		}
	}

	user.UpdatePersonalInfo(strings.TrimSpace(params.Name), phone, address, requestcontext.Now(ctx))

	if err := s.users.Save(ctx, user); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to save user")
	}
	return user, nil
}

// Delete removes the caller's own record. A user who still owns accounts
// cannot be deleted; close the accounts first.
func (s *Service) Delete(ctx context.Context, callerID, id domain.UserID) error {
	if err := requireSelf(callerID, id); err != nil {
		return err
	}
	exists, err := s.users.ExistsByID(ctx, id)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to check user")
	}
	if !exists {
		return dErrors.Newf(dErrors.CodeNotFound, "user %s not found", id)
	}

	count, err := s.accounts.CountByOwnerID(ctx, id)
	if err != nil {
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to count accounts")
	}
	if count > 0 {
		return dErrors.Newf(dErrors.CodeConflict, "user %s has %d open accounts", id, count)
	}

	if err := s.users.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.Newf(dErrors.CodeNotFound, "user %s not found", id)
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to delete user")
	}

	_ = s.auditor.Emit(ctx, audit.Event{
		Kind:      audit.EventUserDeleted,
		ActorID:   callerID,
		Timestamp: requestcontext.Now(ctx),
	})
	return nil
}

// ExistsByID satisfies the account area's owner directory port.
func (s *Service) ExistsByID(ctx context.Context, id domain.UserID) (bool, error) {
	return s.users.ExistsByID(ctx, id)
}

func (s *Service) load(ctx context.Context, id domain.UserID) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, dErrors.Newf(dErrors.CodeNotFound, "user %s not found", id)
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}
	return user, nil
}

func requireSelf(callerID, id domain.UserID) error {
	if callerID != id {
		return dErrors.New(dErrors.CodeForbidden, "users may only act on their own record")
	}
	return nil
}
