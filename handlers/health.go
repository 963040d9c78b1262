package handlers

import (
	"context"
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/sony/gobreaker/v2"

	"mcpe-gateway-api/utils"
)

// Pinger is satisfied by *middleware.RateLimiter.
type Pinger interface {
	Ping(ctx context.Context) error
}

type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

// BreakerState is satisfied by *mcpe.BreakerPoster.
type BreakerState interface {
	State() gobreaker.State
}

type HealthHandler struct {
	startTime time.Time
	redis     Pinger
	breaker   BreakerState
}

// NewHealthHandler takes optional dependencies; nil ones are reported as
// "disabled".
func NewHealthHandler(redis Pinger, breaker BreakerState) *HealthHandler {
	return &HealthHandler{
		startTime: time.Now(),
		redis:     redis,
		breaker:   breaker,
	}
}

type healthResponse struct {
	Status    string `json:"status"`
	Time      string `json:"time"`
	Gateway   string `json:"gateway"`
	Redis     string `json:"redis"`
	Uptime    string `json:"uptime"`
	GoVersion string `json:"go_version"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	health := healthResponse{
		Status:    "ok",
		Time:      time.Now().Format(time.RFC3339),
		Gateway:   "disabled",
		Redis:     "disabled",
		Uptime:    fmt.Sprintf("%v", time.Since(h.startTime).Round(time.Second)),
		GoVersion: runtime.Version(),
	}

	if h.breaker != nil {
		health.Gateway = h.breaker.State().String()
		if h.breaker.State() == gobreaker.StateOpen {
			health.Status = "degraded"
		}
	}

	if h.redis != nil {
		redisCtx, redisCancel := context.WithTimeout(ctx, 500*time.Millisecond)
		defer redisCancel()

		health.Redis = "connected"
		if err := h.redis.Ping(redisCtx); err != nil {
			health.Status = "degraded"
			health.Redis = "error"
		}
	}

	utils.SendJSON(w, http.StatusOK, health)
}
