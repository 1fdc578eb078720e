package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllow(t *testing.T) {
	// 120 requests per minute (2 per second), burst of 1
	rl := NewRateLimiter(120, 1)

	limiter := rl.GetLimiter("192.168.1.1")

	assert.True(t, limiter.Allow(), "First request should be allowed")
	assert.False(t, limiter.Allow(), "Second request should be blocked")

	time.Sleep(600 * time.Millisecond)

	assert.True(t, limiter.Allow(), "Third request should be allowed after refill")
}

func TestRateLimiterDifferentIPs(t *testing.T) {
	rl := NewRateLimiter(2, 1)

	limiter1 := rl.GetLimiter("192.168.1.1")
	limiter2 := rl.GetLimiter("192.168.1.2")

	assert.True(t, limiter1.Allow())
	assert.True(t, limiter2.Allow(), "different IPs have separate buckets")

	assert.False(t, limiter1.Allow())
	assert.False(t, limiter2.Allow())
}

func TestRateLimitMiddleware(t *testing.T) {
	e := echo.New()
	rl := NewRateLimiter(2, 1)

	handler := func(c echo.Context) error {
		return c.String(http.StatusOK, "success")
	}
	wrapped := rl.RateLimitMiddleware()(handler)

	req1 := httptest.NewRequest(http.MethodGet, "/test", nil)
	req1.RemoteAddr = "192.168.1.1:12345"
	rec1 := httptest.NewRecorder()

	err := wrapped(e.NewContext(req1, rec1))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec1.Code)

	req2 := httptest.NewRequest(http.MethodGet, "/test", nil)
	req2.RemoteAddr = "192.168.1.1:12345"
	rec2 := httptest.NewRecorder()

	err = wrapped(e.NewContext(req2, rec2))
	assert.NoError(t, err)
	assert.Equal(t, http.StatusTooManyRequests, rec2.Code)
	assert.Equal(t, "1", rec2.Header().Get("Retry-After"))
}
