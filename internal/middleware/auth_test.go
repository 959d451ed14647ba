package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"technotes/api/internal/models"
	"technotes/api/internal/security"
)

func testIssuer() *security.TokenIssuer {
	return security.NewTokenIssuer("access", "refresh", 15*time.Minute, time.Hour)
}

func protectedRouter(tokens *security.TokenIssuer, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()

	chain := append([]gin.HandlerFunc{Auth(tokens)}, extra...)
	chain = append(chain, func(c *gin.Context) {
		identity, _ := CurrentIdentity(c)
		c.JSON(http.StatusOK, gin.H{"username": identity.Username})
	})
	engine.GET("/protected", chain...)
	return engine
}

func TestAuthMiddleware(t *testing.T) {
	tokens := testIssuer()
	engine := protectedRouter(tokens)

	user := models.User{
		ID:       "user-1",
		Username: "hank",
		Roles:    []string{models.RoleEmployee},
		Active:   true,
	}

	t.Run("missing header", func(t *testing.T) {
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/protected", nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("non-bearer header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Basic abc")
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer garbage")
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("expired token", func(t *testing.T) {
		past := time.Now().Add(-time.Hour)
		expired := security.NewTokenIssuer("access", "refresh", time.Minute, time.Hour).
			WithClock(func() time.Time { return past })
		token, err := expired.IssueAccess(user)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("valid token attaches identity", func(t *testing.T) {
		token, err := tokens.IssueAccess(user)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), "hank")
	})
}

func TestRequireRoles(t *testing.T) {
	tokens := testIssuer()
	engine := protectedRouter(tokens, RequireRoles(models.RoleManager, models.RoleAdmin))

	request := func(t *testing.T, roles []string) *httptest.ResponseRecorder {
		t.Helper()
		token, err := tokens.IssueAccess(models.User{
			ID:       "user-1",
			Username: "hank",
			Roles:    roles,
			Active:   true,
		})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		engine.ServeHTTP(rec, req)
		return rec
	}

	t.Run("employee is forbidden", func(t *testing.T) {
		rec := request(t, []string{models.RoleEmployee})
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("manager passes", func(t *testing.T) {
		rec := request(t, []string{models.RoleEmployee, models.RoleManager})
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
