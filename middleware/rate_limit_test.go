package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLimiter(t *testing.T, rules []RateLimitRule) (*RateLimiter, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	rl := NewRateLimiterWithClient(client, rules, zerolog.Nop())
	fixed := time.Date(2024, 3, 1, 12, 0, 30, 0, time.UTC)
	rl.now = func() time.Time { return fixed }
	return rl, mr
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(h http.Handler, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit_BlocksOverLimit(t *testing.T) {
	rl, _ := newTestLimiter(t, []RateLimitRule{
		{Prefix: "/api/payments/", Requests: 2, Window: time.Minute, Message: "slow down"},
	})
	h := rl.RateLimitMiddleware()(okHandler())

	rec := doRequest(h, "/api/payments/purchase", "token-a")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2", rec.Header().Get("X-RateLimit-Limit"))
	assert.Equal(t, "1", rec.Header().Get("X-RateLimit-Remaining"))

	rec = doRequest(h, "/api/payments/purchase", "token-a")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

	rec = doRequest(h, "/api/payments/purchase", "token-a")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "30", rec.Header().Get("Retry-After"))
	assert.Contains(t, rec.Body.String(), "slow down")

	// other clients have their own budget
	rec = doRequest(h, "/api/payments/purchase", "token-b")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit_UnmatchedPathPassesThrough(t *testing.T) {
	rl, _ := newTestLimiter(t, []RateLimitRule{
		{Prefix: "/api/payments/", Requests: 1, Window: time.Minute},
	})
	h := rl.RateLimitMiddleware()(okHandler())

	for i := 0; i < 3; i++ {
		rec := doRequest(h, "/health", "")
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Empty(t, rec.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimit_FailsOpen(t *testing.T) {
	rl, mr := newTestLimiter(t, DefaultRules)
	h := rl.RateLimitMiddleware()(okHandler())
	mr.Close()

	rec := doRequest(h, "/api/payments/purchase", "token-a")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRateLimit_RuleOrder(t *testing.T) {
	rl, _ := newTestLimiter(t, DefaultRules)

	rule, ok := rl.ruleFor("/api/payments/payout")
	require.True(t, ok)
	assert.Equal(t, 10, rule.Requests)

	rule, ok = rl.ruleFor("/api/payments/purchase")
	require.True(t, ok)
	assert.Equal(t, 120, rule.Requests)

	rule, ok = rl.ruleFor("/metrics")
	require.True(t, ok)
	assert.Equal(t, 60, rule.Requests)
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:5555"
	assert.Equal(t, "192.0.2.1", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.9, 10.0.0.1")
	assert.Equal(t, "203.0.113.9", getClientIP(req))
}
