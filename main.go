package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"mcpe-gateway-api/config"
	"mcpe-gateway-api/handlers"
	"mcpe-gateway-api/middleware"
	"mcpe-gateway-api/services/auth"
	"mcpe-gateway-api/services/payment"
	"mcpe-gateway-api/services/payment/mcpe"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Content-Length, Authorization, X-Request-ID")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type routerDeps struct {
	logger   zerolog.Logger
	payments *handlers.PaymentHandler
	internal *handlers.InternalHandler
	health   *handlers.HealthHandler
	jwt      *auth.JWTService
	limiter  *middleware.RateLimiter // nil disables rate limiting
	metrics  http.Handler            // nil when metrics are served on their own port
}

func newRouter(d routerDeps) *mux.Router {
	router := mux.NewRouter()
	router.Use(middleware.RequestLogger(d.logger))
	router.Use(middleware.SecurityHeadersMiddleware)
	router.Use(corsMiddleware)
	if d.limiter != nil {
		router.Use(d.limiter.RateLimitMiddleware())
	}

	router.HandleFunc("/health", d.health.Health).Methods("GET")
	if d.metrics != nil {
		router.Handle("/metrics", d.metrics).Methods("GET")
	}

	internal := router.PathPrefix("/internal").Subrouter()
	internal.HandleFunc("/token", d.internal.RequireInternalSecret(d.internal.IssueToken)).Methods("POST", "OPTIONS")
	internal.HandleFunc("/token/validate", d.internal.RequireInternalSecret(d.internal.ValidateToken)).Methods("POST", "OPTIONS")

	payments := router.PathPrefix("/api/payments").Subrouter()
	payments.Use(middleware.AuthMiddleware(d.jwt))
	payments.HandleFunc("/authorize", d.payments.Authorize).Methods("POST", "OPTIONS")
	payments.HandleFunc("/purchase", d.payments.Purchase).Methods("POST", "OPTIONS")
	payments.HandleFunc("/repeat", d.payments.Repeat).Methods("POST", "OPTIONS")
	payments.HandleFunc("/refund", d.payments.Refund).Methods("POST", "OPTIONS")
	payments.HandleFunc("/payout", d.payments.Payout).Methods("POST", "OPTIONS")
	payments.HandleFunc("/capture", d.payments.Capture).Methods("POST", "OPTIONS")

	return router
}

func main() {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	zerolog.SetGlobalLevel(cfg.Log.Level)
	logger.Info().
		Str("environment", cfg.MCPE.Environment).
		Int("test_mode", cfg.MCPE.TestMode).
		Str("gateway_url", cfg.MCPE.URL).
		Msg("configuration loaded")

	var poster mcpe.Poster = mcpe.NewHTTPPoster(cfg.MCPE.Timeout)
	var breaker *mcpe.BreakerPoster
	if cfg.MCPE.BreakerEnabled {
		breaker = mcpe.NewBreakerPoster("mcpe", poster, logger)
		poster = breaker
	}

	client, err := mcpe.NewClient(mcpe.Config{
		InstID:    cfg.MCPE.InstID,
		AccountID: cfg.MCPE.AccountID,
		URL:       cfg.MCPE.URL,
		TestMode:  mcpe.TestMode(cfg.MCPE.TestMode),
	}, poster, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create gateway client")
	}

	paymentService := payment.NewPaymentService(client, payment.Config{
		DefaultCurrency: cfg.Payment.DefaultCurrency,
		PayoutSecret:    cfg.Payment.PayoutSecret,
	}, payment.NewMetrics(prometheus.DefaultRegisterer), logger)

	jwtService := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.JWTIssuer)

	paymentHandler, err := handlers.NewPaymentHandler(paymentService)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize payment handler")
	}
	internalHandler, err := handlers.NewInternalHandler(jwtService, cfg.Auth.InternalSecret)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize internal handler")
	}

	var limiter *middleware.RateLimiter
	var redisPinger handlers.Pinger
	if cfg.Redis.URL != "" {
		limiter, err = middleware.NewRateLimiter(cfg.Redis.URL, logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to connect to Redis")
		}
		defer limiter.Close()
		redisPinger = limiter
		logger.Info().Msg("rate limiting enabled")
	} else {
		logger.Warn().Msg("REDIS_URL not set, rate limiting disabled")
	}

	var breakerState handlers.BreakerState
	if breaker != nil {
		breakerState = breaker
	}

	deps := routerDeps{
		logger:   logger,
		payments: paymentHandler,
		internal: internalHandler,
		health:   handlers.NewHealthHandler(redisPinger, breakerState),
		jwt:      jwtService,
		limiter:  limiter,
	}

	var metricsSrv *http.Server
	if cfg.Server.MetricsPort == "" {
		deps.metrics = promhttp.Handler()
	} else {
		metricsRouter := mux.NewRouter()
		metricsRouter.Handle("/metrics", promhttp.Handler())
		metricsSrv = &http.Server{
			Addr:              fmt.Sprintf(":%s", cfg.Server.MetricsPort),
			Handler:           metricsRouter,
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info().Str("port", cfg.Server.MetricsPort).Msg("metrics server starting")
			if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error().Err(err).Msg("metrics server error")
			}
		}()
	}

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:        newRouter(deps),
		ReadTimeout:    15 * time.Second,
		WriteTimeout:   cfg.MCPE.Timeout + 15*time.Second,
		IdleTimeout:    120 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		logger.Info().Str("port", cfg.Server.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("server error")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	logger.Info().Msg("shutdown signal received, gracefully shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server forced to shutdown")
	}
	if metricsSrv != nil {
		if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("metrics server forced to shutdown")
		}
	}

	logger.Info().Msg("server exited properly")
}
