package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func corsRouter(allowedOrigins []string, reflectAny bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(CORS(allowedOrigins, reflectAny))
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return engine
}

func corsRequest(engine *gin.Engine, method, origin string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestCORS(t *testing.T) {
	t.Run("allowlisted origin is reflected with credentials", func(t *testing.T) {
		engine := corsRouter([]string{"https://app.example.com"}, false)
		rec := corsRequest(engine, http.MethodGet, "https://app.example.com")

		assert.Equal(t, "https://app.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("unlisted origin is not reflected", func(t *testing.T) {
		engine := corsRouter([]string{"https://app.example.com"}, false)
		rec := corsRequest(engine, http.MethodGet, "https://evil.example.com")

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("empty allowlist reflects nothing by default", func(t *testing.T) {
		engine := corsRouter(nil, false)
		rec := corsRequest(engine, http.MethodGet, "https://anywhere.example.com")

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("empty allowlist reflects any origin when enabled", func(t *testing.T) {
		engine := corsRouter(nil, true)
		rec := corsRequest(engine, http.MethodGet, "https://dev.example.com")

		assert.Equal(t, "https://dev.example.com", rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("preflight short-circuits", func(t *testing.T) {
		engine := corsRouter([]string{"https://app.example.com"}, false)
		rec := corsRequest(engine, http.MethodOptions, "https://app.example.com")

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "PUT")
	})
}
