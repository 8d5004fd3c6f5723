package auth

import (
	"context"
	"log/slog"

	"github.com/skairipa08/FundEd/internal/modules/users"
	"github.com/skairipa08/FundEd/internal/shared/apperr"
	"github.com/skairipa08/FundEd/internal/shared/ids"
)

var (
	ErrNotConfigured    = apperr.UnavailableErr("OAuth not configured. Set GOOGLE_CLIENT_ID and GOOGLE_CLIENT_SECRET.")
	ErrCodeRequired     = apperr.InvalidErr("Authorization code is required", map[string]string{"code": "This field is required."})
	ErrExchange         = apperr.InvalidErr("Failed to exchange authorization code", nil)
	ErrNoEmail          = apperr.InvalidErr("Email not provided by Google", nil)
	ErrEmailNotVerified = apperr.ForbiddenErr("Google account email is not verified")
)

// Accounts is the slice of users.Service the login flow needs.
type Accounts interface {
	UpsertOAuthUser(ctx context.Context, in users.OAuthProfile) (users.User, error)
	StartSession(ctx context.Context, userID string) (users.Session, error)
}

type Service struct {
	provider IdentityProvider // nil when OAuth is not configured
	accounts Accounts
	logger   *slog.Logger
}

func NewService(p IdentityProvider, accounts Accounts, logger *slog.Logger) *Service {
	return &Service{provider: p, accounts: accounts, logger: logger}
}

type LoginConfig struct {
	AuthURL  string
	State    string
	ClientID string
}

func (s *Service) Config() (LoginConfig, error) {
	if s.provider == nil {
		return LoginConfig{}, ErrNotConfigured
	}
	state := ids.Hex(32)
	return LoginConfig{
		AuthURL:  s.provider.AuthCodeURL(state),
		State:    state,
		ClientID: s.provider.ClientID(),
	}, nil
}

// Login exchanges an authorization code and opens a fresh session for the
// account behind it.
func (s *Service) Login(ctx context.Context, code string) (users.User, users.Session, error) {
	if code == "" {
		return users.User{}, users.Session{}, ErrCodeRequired
	}
	if s.provider == nil {
		return users.User{}, users.Session{}, ErrNotConfigured
	}

	id, err := s.provider.Exchange(ctx, code)
	if err != nil {
		s.logger.WarnContext(ctx, "oauth exchange failed", "err", err)
		return users.User{}, users.Session{}, ErrExchange
	}
	if id.Email == "" {
		return users.User{}, users.Session{}, ErrNoEmail
	}
	if !id.VerifiedEmail {
		return users.User{}, users.Session{}, ErrEmailNotVerified
	}

	u, err := s.accounts.UpsertOAuthUser(ctx, users.OAuthProfile{Email: id.Email, Name: id.Name, Picture: id.Picture})
	if err != nil {
		return users.User{}, users.Session{}, err
	}
	sess, err := s.accounts.StartSession(ctx, u.ID)
	if err != nil {
		return users.User{}, users.Session{}, err
	}
	s.logger.InfoContext(ctx, "user logged in", "user_id", u.ID)
	return u, sess, nil
}
