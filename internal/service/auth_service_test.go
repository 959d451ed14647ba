package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"technotes/api/internal/models"
	"technotes/api/internal/security"
)

func testTokenIssuer() *security.TokenIssuer {
	return security.NewTokenIssuer("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour)
}

func addTestUser(t *testing.T, users *fakeUserStore, username, password string, active bool) models.User {
	t.Helper()

	hash, err := security.HashPassword(password, 4) // min cost, fast tests
	require.NoError(t, err)

	user := models.User{
		ID:           "user-" + username,
		Username:     username,
		PasswordHash: hash,
		Roles:        []string{models.RoleEmployee},
		Active:       active,
	}
	users.add(user)
	return user
}

func TestAuthServiceLogin(t *testing.T) {
	users := newFakeUserStore()
	svc := NewAuthService(users, testTokenIssuer(), zerolog.Nop())

	addTestUser(t, users, "hank", "secret1", true)
	addTestUser(t, users, "dormant", "secret2", false)

	t.Run("valid credentials", func(t *testing.T) {
		result, err := svc.Login(context.Background(), "hank", "secret1")
		require.NoError(t, err)
		assert.NotEmpty(t, result.AccessToken)
		assert.NotEmpty(t, result.RefreshToken)
	})

	t.Run("username lookup ignores case", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "HANK", "secret1")
		require.NoError(t, err)
	})

	t.Run("wrong password", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "hank", "nope")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown username", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "ghost", "secret1")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("inactive user", func(t *testing.T) {
		_, err := svc.Login(context.Background(), "dormant", "secret2")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthServiceRefresh(t *testing.T) {
	users := newFakeUserStore()
	tokens := testTokenIssuer()
	svc := NewAuthService(users, tokens, zerolog.Nop())

	user := addTestUser(t, users, "hank", "secret1", true)

	t.Run("valid refresh token", func(t *testing.T) {
		refreshToken, err := tokens.IssueRefresh(user)
		require.NoError(t, err)

		accessToken, err := svc.Refresh(context.Background(), refreshToken)
		require.NoError(t, err)

		claims, err := tokens.ParseAccess(accessToken)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, "hank", claims.Username)
	})

	t.Run("reflects current roles", func(t *testing.T) {
		refreshToken, err := tokens.IssueRefresh(user)
		require.NoError(t, err)

		promoted := user
		promoted.Roles = []string{models.RoleEmployee, models.RoleAdmin}
		users.add(promoted)

		accessToken, err := svc.Refresh(context.Background(), refreshToken)
		require.NoError(t, err)

		claims, err := tokens.ParseAccess(accessToken)
		require.NoError(t, err)
		assert.Contains(t, claims.Roles, models.RoleAdmin)

		users.add(user)
	})

	t.Run("tampered token", func(t *testing.T) {
		refreshToken, err := tokens.IssueRefresh(user)
		require.NoError(t, err)

		_, err = svc.Refresh(context.Background(), refreshToken+"x")
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("expired token", func(t *testing.T) {
		past := time.Now().Add(-30 * 24 * time.Hour)
		expiredIssuer := security.
			NewTokenIssuer("access-secret", "refresh-secret", 15*time.Minute, 7*24*time.Hour).
			WithClock(func() time.Time { return past })
		refreshToken, err := expiredIssuer.IssueRefresh(user)
		require.NoError(t, err)

		_, err = svc.Refresh(context.Background(), refreshToken)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("user deactivated after issue", func(t *testing.T) {
		refreshToken, err := tokens.IssueRefresh(user)
		require.NoError(t, err)

		deactivated := user
		deactivated.Active = false
		users.add(deactivated)

		_, err = svc.Refresh(context.Background(), refreshToken)
		assert.ErrorIs(t, err, ErrUnauthenticated)

		users.add(user)
	})

	t.Run("user deleted after issue", func(t *testing.T) {
		refreshToken, err := tokens.IssueRefresh(user)
		require.NoError(t, err)

		require.NoError(t, users.Delete(context.Background(), user.ID))

		_, err = svc.Refresh(context.Background(), refreshToken)
		assert.ErrorIs(t, err, ErrUnauthenticated)
	})
}
