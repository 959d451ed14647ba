package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog"

	"technotes/api/internal/repository"
	"technotes/api/internal/security"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthenticated    = errors.New("unauthenticated")
)

type AuthService struct {
	users  UserStore
	tokens *security.TokenIssuer
	log    zerolog.Logger
}

func NewAuthService(users UserStore, tokens *security.TokenIssuer, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		log:    log,
	}
}

type LoginResult struct {
	AccessToken  string
	RefreshToken string
}

// Login verifies the credentials and issues an access/refresh token pair.
// Unknown username, inactive user and wrong password are indistinguishable
// to the caller; the dummy comparison keeps them indistinguishable by timing
// as well.
func (s *AuthService) Login(ctx context.Context, username, password string) (LoginResult, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			security.CompareDummy(password)
			return LoginResult{}, ErrInvalidCredentials
		}
		return LoginResult{}, err
	}

	if !security.VerifyPassword(password, user.PasswordHash) {
		return LoginResult{}, ErrInvalidCredentials
	}

	if !user.Active {
		return LoginResult{}, ErrInvalidCredentials
	}

	accessToken, err := s.tokens.IssueAccess(user)
	if err != nil {
		return LoginResult{}, err
	}
	refreshToken, err := s.tokens.IssueRefresh(user)
	if err != nil {
		return LoginResult{}, err
	}

	s.log.Info().Str("username", user.Username).Msg("user logged in")

	return LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh validates a refresh token and mints a new access token that
// reflects the user's current roles and active flag.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		return "", ErrUnauthenticated
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrUnauthenticated
		}
		return "", err
	}

	if !user.Active {
		return "", ErrUnauthenticated
	}

	return s.tokens.IssueAccess(user)
}
