package middlewares

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dropDatabas3/socialjohn/internal/rate"
)

type brokenLimiter struct{}

func (brokenLimiter) Allow(context.Context, string) (rate.Result, error) {
	return rate.Result{}, errors.New("redis down")
}

func rateLimited(limiter rate.Limiter, trustProxy bool) http.Handler {
	return WithRateLimit(limiter, trustProxy)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
}

func callFrom(h http.Handler, remote, xff string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
	req.RemoteAddr = remote
	if xff != "" {
		req.Header.Set("X-Forwarded-For", xff)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestWithRateLimit(t *testing.T) {
	h := rateLimited(rate.NewMemoryLimiter(2, time.Hour), false)

	require.Equal(t, http.StatusNoContent, callFrom(h, "10.0.0.1:5555", "").Code)
	require.Equal(t, http.StatusNoContent, callFrom(h, "10.0.0.1:5556", "").Code)
	rr := callFrom(h, "10.0.0.1:5557", "")
	require.Equal(t, http.StatusTooManyRequests, rr.Code)
	require.NotEmpty(t, rr.Header().Get("Retry-After"))
	require.Equal(t, "0", rr.Header().Get("X-RateLimit-Remaining"))

	require.Equal(t, http.StatusNoContent, callFrom(h, "10.0.0.2:5555", "").Code)
}

func TestWithRateLimit_IgnoresForwardedForWithoutTrustedProxy(t *testing.T) {
	h := rateLimited(rate.NewMemoryLimiter(2, time.Hour), false)

	limited := 0
	for i := 0; i < 20; i++ {
		rr := callFrom(h, "10.0.0.1:5555", fmt.Sprintf("1.2.3.%d", i))
		if rr.Code == http.StatusTooManyRequests {
			limited++
		}
	}
	require.Equal(t, 18, limited)
}

func TestWithRateLimit_TrustedProxyUsesForwardedFor(t *testing.T) {
	h := rateLimited(rate.NewMemoryLimiter(1, time.Hour), true)

	require.Equal(t, http.StatusNoContent, callFrom(h, "10.0.0.1:5555", "203.0.113.9, 10.0.0.1").Code)
	require.Equal(t, http.StatusTooManyRequests, callFrom(h, "10.0.0.1:5555", "203.0.113.9").Code)
	require.Equal(t, http.StatusNoContent, callFrom(h, "10.0.0.1:5555", "198.51.100.7").Code)
	// sin header cae al RemoteAddr
	require.Equal(t, http.StatusNoContent, callFrom(h, "10.0.0.1:5555", "").Code)
}

func TestWithRateLimit_FailsOpen(t *testing.T) {
	h := WithRateLimit(brokenLimiter{}, false)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/auth/login", nil))
	require.Equal(t, http.StatusNoContent, rr.Code)
}

func TestWithRateLimit_NilPassesThrough(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {})
	h := WithRateLimit(nil, false)(next)
	require.NotNil(t, h)
}
