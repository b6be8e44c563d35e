package service

import (
	"context"
	"errors"

	"eaglebank/internal/user/models"
	"eaglebank/pkg/domain"
	dErrors "eaglebank/pkg/domain-errors"
	"eaglebank/pkg/platform/sentinel"
)

// TokenIssuer mints signed access tokens for authenticated users.
type TokenIssuer interface {
	GenerateAccessToken(userID domain.UserID, email string) (string, error)
}

// AuthResult is a successful authentication: the user's identity plus a
// signed token for subsequent requests.
type AuthResult struct {
	UserID domain.UserID
	Email  models.Email
	Token  string
}

// AuthService verifies credentials and issues access tokens.
type AuthService struct {
	users  Store
	hasher PasswordHasher
	tokens TokenIssuer
}

func NewAuthService(users Store, hasher PasswordHasher, tokens TokenIssuer) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		tokens: tokens,
	}
}

// Authenticate checks email and password and returns a signed token. An
// unknown email and a wrong password both report invalid credentials; which
// of the two failed is never disclosed.
func (s *AuthService) Authenticate(ctx context.Context, rawEmail, password string) (*AuthResult, error) {
	email, err := models.ParseEmail(rawEmail)
	if err != nil {
		return nil, err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return nil, invalidCredentials()
		}
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load user")
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		return nil, invalidCredentials()
	}

	token, err := s.tokens.GenerateAccessToken(user.ID, user.Email.String())
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to issue token")
	}
	return &AuthResult{
		UserID: user.ID,
		Email:  user.Email,
		Token:  token,
	}, nil
}

func invalidCredentials() error {
	return dErrors.New(dErrors.CodeUnauthorized, "invalid credentials")
}
