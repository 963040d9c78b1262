package middleware

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"mcpe-gateway-api/models"
	"mcpe-gateway-api/utils"
)

type RateLimiter struct {
	client *redis.Client
	rules  []RateLimitRule
	logger zerolog.Logger
	now    func() time.Time
}

// RateLimitRule applies to every path starting with Prefix. The first
// matching rule wins; an empty prefix matches everything.
type RateLimitRule struct {
	Prefix   string
	Requests int
	Window   time.Duration
	Message  string
}

var DefaultRules = []RateLimitRule{
	{
		Prefix:   "/internal/",
		Requests: 100,
		Window:   time.Minute,
		Message:  "Internal API rate limit exceeded.",
	},
	{
		Prefix:   "/api/payments/payout",
		Requests: 10,
		Window:   time.Minute,
		Message:  "Too many payout requests. Please wait a minute.",
	},
	{
		Prefix:   "/api/payments/",
		Requests: 120,
		Window:   time.Minute,
		Message:  "Too many payment requests. Please slow down.",
	},
	{
		Prefix:   "",
		Requests: 60,
		Window:   time.Minute,
		Message:  "Rate limit exceeded. Please slow down your requests.",
	},
}

// Fixed window counter kept in a sorted set so each request is one member.
const rateLimitScript = `
local key = KEYS[1]
local window_start = tonumber(ARGV[1])
local limit = tonumber(ARGV[2])
local now = tonumber(ARGV[3])
local member = ARGV[4]
local ttl = tonumber(ARGV[5])

redis.call('ZREMRANGEBYSCORE', key, 0, window_start - 1)

local current = redis.call('ZCARD', key)
if current < limit then
	redis.call('ZADD', key, now, member)
	redis.call('EXPIRE', key, ttl)
	return {1, limit - current - 1}
end
return {0, 0}
`

// NewRateLimiter connects to redisURL and verifies the connection.
func NewRateLimiter(redisURL string, logger zerolog.Logger) (*RateLimiter, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid Redis URL for rate limiter: %w", err)
	}

	client := redis.NewClient(opt)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis for rate limiting: %w", err)
	}

	return NewRateLimiterWithClient(client, DefaultRules, logger), nil
}

func NewRateLimiterWithClient(client *redis.Client, rules []RateLimitRule, logger zerolog.Logger) *RateLimiter {
	return &RateLimiter{
		client: client,
		rules:  rules,
		logger: logger.With().Str("component", "ratelimit").Logger(),
		now:    time.Now,
	}
}

// RateLimitMiddleware fails open: if Redis is unavailable the request is
// served and the error logged.
func (rl *RateLimiter) RateLimitMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rule, ok := rl.ruleFor(r.URL.Path)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			key := rl.key(r, rule)
			allowed, remaining, resetTime, err := rl.check(r.Context(), key, rule)
			if err != nil {
				rl.logger.Error().Err(err).Str("path", r.URL.Path).Msg("rate limit check failed")
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rule.Requests))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
			w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

			if !allowed {
				rl.logger.Warn().Str("key", key).Str("path", r.URL.Path).Msg("rate limit exceeded")

				retry := int64(resetTime.Sub(rl.now()).Seconds())
				if retry < 1 {
					retry = 1
				}
				w.Header().Set("Retry-After", strconv.FormatInt(retry, 10))
				utils.SendJSON(w, http.StatusTooManyRequests, models.APIResponse{
					Status:  "error",
					Message: rule.Message,
				})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func (rl *RateLimiter) ruleFor(path string) (RateLimitRule, bool) {
	for _, rule := range rl.rules {
		if strings.HasPrefix(path, rule.Prefix) {
			return rule, true
		}
	}
	return RateLimitRule{}, false
}

// key identifies the caller: by bearer token on payment endpoints, by
// internal secret on internal ones, else by client IP.
func (rl *RateLimiter) key(r *http.Request, rule RateLimitRule) string {
	ip := getClientIP(r)

	switch {
	case strings.HasPrefix(r.URL.Path, "/api/"):
		if authHeader := r.Header.Get("Authorization"); authHeader != "" {
			return fmt.Sprintf("rate_limit:%s:token:%s", rule.Prefix, shortHash(authHeader))
		}
	case strings.HasPrefix(r.URL.Path, "/internal/"):
		if secret := r.Header.Get("X-Internal-Secret"); secret != "" {
			return fmt.Sprintf("rate_limit:%s:internal:%s", rule.Prefix, shortHash(secret))
		}
	}

	return fmt.Sprintf("rate_limit:%s:ip:%s", rule.Prefix, ip)
}

func (rl *RateLimiter) check(ctx context.Context, key string, rule RateLimitRule) (allowed bool, remaining int, resetTime time.Time, err error) {
	now := rl.now()
	windowStart := now.Truncate(rule.Window)
	windowEnd := windowStart.Add(rule.Window)
	ttl := int64(rule.Window.Seconds()) + 1

	result, err := rl.client.Eval(ctx, rateLimitScript, []string{key},
		windowStart.Unix(), rule.Requests, now.Unix(), uuid.NewString(), ttl).Result()
	if err != nil {
		return false, 0, time.Time{}, err
	}

	resultSlice, ok := result.([]interface{})
	if !ok || len(resultSlice) != 2 {
		return false, 0, time.Time{}, fmt.Errorf("unexpected redis result format")
	}

	allowedInt, ok1 := resultSlice[0].(int64)
	remainingInt, ok2 := resultSlice[1].(int64)
	if !ok1 || !ok2 {
		return false, 0, time.Time{}, fmt.Errorf("failed to parse redis result")
	}

	return allowedInt == 1, int(remainingInt), windowEnd, nil
}

func (rl *RateLimiter) Ping(ctx context.Context) error {
	return rl.client.Ping(ctx).Err()
}

func (rl *RateLimiter) Close() error {
	return rl.client.Close()
}

func getClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		ips := strings.Split(ip, ",")
		return strings.TrimSpace(ips[0])
	}

	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}

	ip := r.RemoteAddr
	if idx := strings.LastIndex(ip, ":"); idx != -1 {
		ip = ip[:idx]
	}
	return ip
}

func shortHash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:8])
}
