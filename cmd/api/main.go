// Package main is the entrypoint for the Voyage API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/voyage/voyage/internal/auth"
	"github.com/voyage/voyage/internal/cache"
	"github.com/voyage/voyage/internal/config"
	"github.com/voyage/voyage/internal/handler"
	"github.com/voyage/voyage/internal/metrics"
	"github.com/voyage/voyage/internal/middleware"
	"github.com/voyage/voyage/internal/repository"
	"github.com/voyage/voyage/internal/server"
	"github.com/voyage/voyage/internal/service"
)

func main() {
	// Initialize context
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Apply schema migrations before opening the pool
	if err := repository.Migrate(cfg.DatabaseURL); err != nil {
		logger.Error(
			"failed to run migrations",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	logger.Info("migrations applied")

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	// Initialize services
	tokenManager := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL)
	metricsRecorder := metrics.NewInMemory()
	memoryService := service.NewMemoryService(repo, metricsRecorder)
	userService := service.NewUserService(repo, tokenManager, metricsRecorder)

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	metricsHandler := handler.NewMetricsHandler(metricsRecorder)
	memoryHandler := handler.NewMemoryHandler(memoryService, logger)
	authHandler := handler.NewAuthHandler(userService, logger)

	// Setup router
	r := setupRouter(routerDeps{
		base:    h,
		health:  healthHandler,
		metrics: metricsHandler,
		memory:  memoryHandler,
		auth:    authHandler,
		tokens:  tokenManager,
		repo:    repo,
		cache:   cacheClient,
		rec:     metricsRecorder,
		cfg:     cfg,
		logger:  logger,
	})

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// routerDeps bundles everything the router needs.
type routerDeps struct {
	base    *handler.Handler
	health  *handler.HealthHandler
	metrics *handler.MetricsHandler
	memory  *handler.MemoryHandler
	auth    *handler.AuthHandler
	tokens  *auth.TokenManager
	repo    *repository.Repository
	cache   *cache.Cache
	rec     metrics.Recorder
	cfg     *config.Config
	logger  *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(deps routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(deps.logger))
	r.Use(middleware.Recoverer(deps.logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment: deps.cfg.IsDevelopment(),
	}))
	r.Use(middleware.CORS(corsConfig(deps.cfg)))
	r.Use(middleware.MaxBodySize(deps.cfg.MaxRequestBodySize))

	// Health endpoints (no auth required)
	r.Get("/healthz", deps.health.Healthz)
	r.Get("/readyz", deps.health.Readyz)
	r.Get("/metrics", deps.metrics.Metrics)

	// Root info endpoint
	r.Get("/", deps.base.Hello)

	// Auth middleware configuration
	authCfg := middleware.AuthConfig{
		Logger:     deps.logger,
		Tokens:     deps.tokens,
		Repository: deps.repo,
		Cache:      deps.cache,
		Metrics:    deps.rec,
	}

	// Rate limit middleware configuration
	rateLimitCfg := middleware.RateLimitConfig{
		Logger:                deps.logger,
		Cache:                 deps.cache,
		UserEnabled:           deps.cfg.RateLimitUserEnabled,
		UserRequestsPerMinute: deps.cfg.RateLimitUserRPM,
		UserBurst:             deps.cfg.RateLimitUserBurst,
		IPEnabled:             deps.cfg.RateLimitAuthEnabled,
		IPRPS:                 deps.cfg.RateLimitAuthRPS,
		IPBurst:               deps.cfg.RateLimitAuthBurst,
	}

	// Auth endpoints with IP-based rate limiting (no bearer token yet)
	r.Route("/auth", func(r chi.Router) {
		r.With(middleware.RateLimitIP(rateLimitCfg)).Post("/signup", deps.auth.Signup)
		r.With(middleware.RateLimitIP(rateLimitCfg)).Post("/login", deps.auth.Login)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))
			r.Get("/me", deps.auth.Me)
		})
	})

	// Memory routes (require authentication)
	r.Route("/memories", func(r chi.Router) {
		r.Use(middleware.Auth(authCfg))
		r.Use(middleware.RateLimitUser(rateLimitCfg))

		r.Get("/", deps.memory.List)
		r.Post("/", deps.memory.Create)
		r.Delete("/", deps.memory.DeleteAll)
		r.Get("/{id}", deps.memory.Get)
		r.Put("/{id}", deps.memory.Update)
		r.Delete("/{id}", deps.memory.Delete)
	})

	// 404 and 405 handlers
	r.NotFound(deps.base.NotFound)
	r.MethodNotAllowed(deps.base.MethodNotAllowed)

	return r
}

// corsConfig builds the CORS middleware config from app config.
func corsConfig(cfg *config.Config) middleware.CORSConfig {
	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()
	return corsCfg
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
