package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/extra/redisotel/v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/mtzalva/backend-taller/internal/auth"
	"github.com/mtzalva/backend-taller/internal/catalog"
	"github.com/mtzalva/backend-taller/internal/common"
	"github.com/mtzalva/backend-taller/internal/config"
	"github.com/mtzalva/backend-taller/internal/db"
	"github.com/mtzalva/backend-taller/internal/document"
	"github.com/mtzalva/backend-taller/internal/health"
	"github.com/mtzalva/backend-taller/internal/obs"
	"github.com/mtzalva/backend-taller/internal/order"
	"github.com/mtzalva/backend-taller/internal/ratelimit"
	"github.com/mtzalva/backend-taller/internal/resilience"
	"github.com/mtzalva/backend-taller/internal/security"
)

func main() {
	logger := obs.NewLogger(os.Getenv("LOG_FORMAT"), os.Getenv("LOG_LEVEL"))

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("load configuration")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if shutdown, err := obs.InitTracer(ctx, obs.TracingConfig{
		ServiceName: "backend-taller",
		Environment: cfg.AppEnv,
	}); err != nil {
		logger.Warn().Err(err).Msg("tracing disabled")
	} else {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdown(shutdownCtx)
		}()
	}

	if err := db.Migrate(cfg.DatabaseURL); err != nil {
		logger.Fatal().Err(err).Msg("run migrations")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse database url")
	}
	poolCfg.ConnConfig.Tracer = obs.PGXTracer{}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("open database pool")
	}
	defer pool.Close()

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	rdb := redis.NewClient(redisOpts)
	defer func() { _ = rdb.Close() }()
	if err := redisotel.InstrumentTracing(rdb); err != nil {
		logger.Warn().Err(err).Msg("redis tracing instrumentation failed")
	}

	httpMetrics := obs.NewHTTPMetrics("taller", nil, nil)
	docMetrics := obs.NewDocumentMetrics("taller", nil)

	store := &order.PGStore{Pool: pool}
	orderSvc := &order.Service{Store: store, Logger: logger}

	breaker := resilience.NewBreaker(10, 0.5, 30*time.Second, logger)
	catalogClient := catalog.NewClient(cfg.CatalogBaseURL, &http.Client{}, breaker, cfg.CatalogTimeout)
	catalogSvc := &catalog.Service{
		Client: catalogClient,
		Cache:  catalog.NewCache(rdb, cfg.CatalogCacheTTL, cfg.CatalogStaleTTL),
		Logger: logger,
	}

	docHandlers := document.Handlers{
		Orders:   orderSvc,
		Renderer: document.Renderer{ShopName: "Taller Automotriz MT"},
		Warranty: &document.WarrantyLoader{Path: cfg.WarrantyPDFPath},
		Metrics:  docMetrics,
		Logger:   logger,
	}

	verifier := auth.Verifier{Secret: []byte(cfg.JWTSecret), Issuer: cfg.JWTIssuer}
	authMW := auth.Middleware{Verifier: verifier}

	limiter := ratelimit.Handler{
		Limiter: ratelimit.Limiter{Client: rdb, Prefix: "rl:"},
		Config: ratelimit.Config{
			Key:    func(r *http.Request) string { return common.ClientIP(r) },
			Window: cfg.RateLimitWindow,
			Max:    cfg.RateLimitMax,
		},
		OnError: func(err error) {
			logger.Warn().Err(err).Msg("rate limiter unavailable")
		},
	}

	healthHandler := health.Handler{
		Checker:      readiness{store: store, rdb: rdb},
		DBTimeout:    500 * time.Millisecond,
		RedisTimeout: 300 * time.Millisecond,
	}

	orderHandlers := order.Handlers{Service: orderSvc, Document: docHandlers.Generate}
	router := buildRouter(cfg, logger, httpMetrics, authMW, limiter, healthHandler,
		orderHandlers, catalog.Handlers{Service: catalogSvc})

	server := &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func buildRouter(
	cfg *config.Config,
	logger zerolog.Logger,
	metrics *obs.HTTPMetrics,
	authMW auth.Middleware,
	limiter ratelimit.Handler,
	healthHandler health.Handler,
	orderHandlers order.Handlers,
	catalogHandlers catalog.Handlers,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(obs.RoutePatternMiddleware)
	r.Use(obs.TracingMiddleware)
	r.Use(obs.HTTPObs{Metrics: metrics}.Middleware)
	r.Use(obs.RequestLogger{Logger: logger}.Middleware)
	r.Use(security.Headers{Enable: true, EnableHSTS: cfg.AppEnv == "production"}.Middleware)
	r.Use(security.BodyLimit{Max: cfg.MaxBodyBytes}.Middleware)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Total-Count", "Content-Disposition"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health/live", healthHandler.Live)
	r.Get("/health/ready", healthHandler.Ready)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(limiter.Middleware)
		r.Use(authMW.RequireAuth)

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/{kind}", catalogHandlers.List)
			r.Post("/{kind}/refresh", catalogHandlers.Refresh)
		})

		r.Route("/orders", func(r chi.Router) {
			orderHandlers.Register(r)
		})
	})

	return r
}

// readiness bundles the dependency probes for the health endpoint.
type readiness struct {
	store *order.PGStore
	rdb   *redis.Client
}

func (c readiness) PingDB(ctx context.Context, timeout time.Duration) error {
	return c.store.PingDB(ctx, timeout)
}

func (c readiness) PingRedis(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return c.rdb.Ping(ctx).Err()
}
