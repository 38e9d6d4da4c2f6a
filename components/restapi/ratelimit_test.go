package restapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func TestRateLimitMiddleware(t *testing.T) {
	e := echo.New()
	e.Use(rateLimitMiddleware(newIPRateLimiter(0.001, 2)))
	e.GET("/", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	call := func(ip string) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(echo.HeaderXRealIP, ip)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		return rec.Code
	}

	require.Equal(t, http.StatusOK, call("10.0.0.1"))
	require.Equal(t, http.StatusOK, call("10.0.0.1"))
	require.Equal(t, http.StatusTooManyRequests, call("10.0.0.1"))

	// buckets are per IP
	require.Equal(t, http.StatusOK, call("10.0.0.2"))
}

func TestIPRateLimiter_SharesLimiterPerIP(t *testing.T) {
	rl := newIPRateLimiter(1, 1)

	require.Same(t, rl.getLimiter("a"), rl.getLimiter("a"))
	require.NotSame(t, rl.getLimiter("a"), rl.getLimiter("b"))
}
