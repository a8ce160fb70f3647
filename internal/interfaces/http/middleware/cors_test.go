package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/sortwise/sessiond/internal/shared/constants"
)

func newCORSEngine(origins ...string) *gin.Engine {
	engine := gin.New()
	engine.Use(CORS(origins))
	engine.Use(SecurityHeaders())
	engine.GET("/api/v1/auth/me", func(c *gin.Context) {
		c.Header(constants.HeaderRetryAfter, "1")
		c.Status(http.StatusOK)
	})
	return engine
}

func TestCORS_Preflight(t *testing.T) {
	tests := []struct {
		name       string
		origins    []string
		origin     string
		wantStatus int
		wantOrigin string
	}{
		{
			name:       "listed origin",
			origins:    []string{"https://console.example.com"},
			origin:     "https://console.example.com",
			wantStatus: http.StatusNoContent,
			wantOrigin: "https://console.example.com",
		},
		{
			name:       "trailing slash in config",
			origins:    []string{"https://console.example.com/"},
			origin:     "https://console.example.com",
			wantStatus: http.StatusNoContent,
			wantOrigin: "https://console.example.com",
		},
		{
			name:       "wildcard",
			origins:    []string{"*"},
			origin:     "https://anything.example.org",
			wantStatus: http.StatusNoContent,
			wantOrigin: "https://anything.example.org",
		},
		{
			name:       "unlisted origin",
			origins:    []string{"https://console.example.com"},
			origin:     "https://evil.example.net",
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "no origins configured",
			origin:     "https://console.example.com",
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := newCORSEngine(tt.origins...)

			req := httptest.NewRequest(http.MethodOptions, "/api/v1/auth/me", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodGet)
			req.Header.Set("Access-Control-Request-Headers", "authorization")
			w := httptest.NewRecorder()
			engine.ServeHTTP(w, req)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.Equal(t, tt.wantOrigin, w.Header().Get("Access-Control-Allow-Origin"))
			assert.Equal(t, "Origin", w.Header().Get("Vary"))
			if tt.wantOrigin == "" {
				assert.Empty(t, w.Header().Get("Access-Control-Allow-Methods"))
				return
			}
			assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodDelete)
			assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), constants.HeaderAuthorization)
			assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
		})
	}
}

func TestCORS_SimpleRequest(t *testing.T) {
	engine := newCORSEngine("https://console.example.com")

	t.Run("listed origin sees exposed headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.Header.Set("Origin", "https://console.example.com")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://console.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		expose := w.Header().Get("Access-Control-Expose-Headers")
		assert.Contains(t, expose, constants.HeaderRetryAfter)
		assert.Contains(t, expose, constants.HeaderXRequestID)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Methods"))
	})

	t.Run("unlisted origin is served without CORS headers", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		req.Header.Set("Origin", "https://evil.example.net")
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("same origin request is untouched", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/auth/me", nil)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Vary"))
		assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
	})
}
