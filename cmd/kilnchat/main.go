package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/kilnchat/internal/config"
	"github.com/kailas-cloud/kilnchat/internal/db"
	dbRedis "github.com/kailas-cloud/kilnchat/internal/db/redis"
	logpkg "github.com/kailas-cloud/kilnchat/internal/logger"
	"github.com/kailas-cloud/kilnchat/internal/metrics"
	ratelimitrepo "github.com/kailas-cloud/kilnchat/internal/repository/ratelimit"
	chiTransport "github.com/kailas-cloud/kilnchat/internal/transport/chi"
	openaiBackend "github.com/kailas-cloud/kilnchat/internal/transport/openai"
	"github.com/kailas-cloud/kilnchat/internal/transport/qa"
	healthuc "github.com/kailas-cloud/kilnchat/internal/usecase/health"
	replyuc "github.com/kailas-cloud/kilnchat/internal/usecase/reply"
	"github.com/kailas-cloud/kilnchat/internal/version"
)

// backend is what the composition root needs from an answer collaborator.
type backend interface {
	replyuc.Fetcher
	healthuc.UpstreamChecker
}

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting kilnchat API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("backend_driver", cfg.Backend.Driver),
		zap.String("backend_domain", cfg.Backend.Domain),
	)

	// Register upstream and reply metrics explicitly (no init())
	metrics.RegisterReplyMetrics()

	upstream := buildBackend(cfg, logger)

	replySvc := replyuc.New(upstream).
		WithDefaultTopK(cfg.Backend.DefaultTopK).
		WithOutcomeCounter(metrics.RepliesTotal)
	healthSvc := healthuc.New(cfg.Backend.Driver, upstream)

	// Rate limiting: in-process buckets, or fixed-window counters shared through Redis/Valkey.
	var limiter chiTransport.Limiter
	if cfg.RateLimit.Enabled() {
		if cfg.RateLimit.Store.Shared() {
			store := connectStore(cfg.RateLimit.Store, logger)
			defer store.Close()

			limiter = ratelimitrepo.NewFromRate(store, cfg.RateLimit.Store.KeyPrefix, cfg.RateLimit.RPS, cfg.RateLimit.Burst)
			healthSvc.WithDB(store)
		} else {
			limiter = chiTransport.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst)
		}
		logger.Info("Rate limiting enabled",
			zap.String("store", cfg.RateLimit.Store.Driver),
			zap.Float64("rps", cfg.RateLimit.RPS),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
	}

	server := chiTransport.NewServer(replySvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	r.Use(chiTransport.RateLimitMiddleware(limiter))
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadTimeout:       time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildBackend selects the answer collaborator by driver. Config validation already rejected unknown drivers.
func buildBackend(cfg config.Config, logger *zap.Logger) backend {
	switch cfg.Backend.Driver {
	case config.DriverOpenAI:
		logger.Info("Using OpenAI-compatible backend", zap.String("model", cfg.Backend.Model))
		return openaiBackend.NewAnswerer(&openaiBackend.Config{
			APIKey:       cfg.Backend.APIKey,
			BaseURL:      cfg.Backend.BaseURL,
			Model:        cfg.Backend.Model,
			SystemPrompt: cfg.Backend.SystemPrompt,
			Timeout:      cfg.BackendTimeout(),
			Logger:       logger,
		})
	default:
		logger.Info("Using question-answering backend", zap.String("base_url", cfg.Backend.BaseURL))
		return qa.NewClient(&qa.Config{
			BaseURL: cfg.Backend.BaseURL,
			Domain:  cfg.Backend.Domain,
			APIKey:  cfg.Backend.APIKey,
			Timeout: cfg.BackendTimeout(),
			Logger:  logger,
		})
	}
}

// connectStore opens the shared counter store and waits until it answers.
// redis and valkey speak the same protocol and share one client.
func connectStore(cfg config.StoreConfig, logger *zap.Logger) db.Store {
	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Addrs,
		Username: cfg.Username,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create rate limit store", zap.Error(err))
	}

	if err := store.WaitForReady(context.Background(), time.Duration(cfg.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Rate limit store not ready", zap.Error(err))
	}
	logger.Info("Connected to rate limit store", zap.String("driver", cfg.Driver), zap.Strings("addrs", cfg.Addrs))
	return store
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.String("path", r.URL.Path),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{Error: "Internal server error"})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Question text is never logged; only its size.
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
