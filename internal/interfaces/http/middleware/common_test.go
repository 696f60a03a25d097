package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	t.Run("generates ID when absent", func(t *testing.T) {
		engine := gin.New()
		engine.Use(RequestID())
		engine.GET("/", func(c *gin.Context) {
			assert.NotEmpty(t, c.GetString("request_id"))
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest("GET", "/", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("propagates incoming ID", func(t *testing.T) {
		engine := gin.New()
		engine.Use(RequestID())
		engine.GET("/", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("X-Request-ID", "incoming-id-42")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, "incoming-id-42", w.Header().Get("X-Request-ID"))
	})
}

func TestCORSWithConfig(t *testing.T) {
	newEngine := func(cfg CORSConfig) *gin.Engine {
		engine := gin.New()
		engine.Use(CORSWithConfig(cfg))
		engine.GET("/", func(c *gin.Context) {
			c.Status(http.StatusOK)
		})
		return engine
	}

	t.Run("allowed origin echoed with credentials", func(t *testing.T) {
		cfg := DefaultCORSConfig()
		cfg.AllowOrigins = []string{"https://lab.example.com"}
		engine := newEngine(cfg)

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Origin", "https://lab.example.com")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, "https://lab.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("unknown origin gets no CORS headers", func(t *testing.T) {
		cfg := DefaultCORSConfig()
		cfg.AllowOrigins = []string{"https://lab.example.com"}
		engine := newEngine(cfg)

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard origin without credentials", func(t *testing.T) {
		cfg := DefaultCORSConfig()
		cfg.AllowOrigins = []string{"*"}
		engine := newEngine(cfg)

		req := httptest.NewRequest("GET", "/", nil)
		req.Header.Set("Origin", "https://anywhere.example.com")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("preflight returns 204", func(t *testing.T) {
		cfg := DefaultCORSConfig()
		cfg.AllowOrigins = []string{"https://lab.example.com"}
		engine := newEngine(cfg)

		req := httptest.NewRequest("OPTIONS", "/", nil)
		req.Header.Set("Origin", "https://lab.example.com")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Idempotency-Key")
	})
}
