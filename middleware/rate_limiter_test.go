package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"carelink/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRateLimitMiddleware_UsesConfiguredLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)

	prev := config.AppConfig.MaxRequestsPerMin
	config.AppConfig.MaxRequestsPerMin = 2
	t.Cleanup(func() { config.AppConfig.MaxRequestsPerMin = prev })

	r := gin.New()
	r.Use(RateLimitMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	ping := func() int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Real-IP", "203.0.113.7")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	require.Equal(t, http.StatusOK, ping())
	require.Equal(t, http.StatusOK, ping())
	assert.Equal(t, http.StatusTooManyRequests, ping())
}

func TestRateLimitMiddleware_IsolatesClients(t *testing.T) {
	gin.SetMode(gin.TestMode)

	prev := config.AppConfig.MaxRequestsPerMin
	config.AppConfig.MaxRequestsPerMin = 1
	t.Cleanup(func() { config.AppConfig.MaxRequestsPerMin = prev })

	r := gin.New()
	r.Use(RateLimitMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	ping := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Real-IP", ip)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	require.Equal(t, http.StatusOK, ping("198.51.100.1"))
	require.Equal(t, http.StatusTooManyRequests, ping("198.51.100.1"))
	assert.Equal(t, http.StatusOK, ping("198.51.100.2"))
}
