package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/qwikplan/backend/config"
	"github.com/qwikplan/backend/pkg/ai/llm"
	"github.com/qwikplan/backend/pkg/api/handlers"
	"github.com/qwikplan/backend/pkg/cache"
	"github.com/qwikplan/backend/pkg/database"
	"github.com/qwikplan/backend/pkg/email"
	"github.com/qwikplan/backend/pkg/feedback"
	"github.com/qwikplan/backend/pkg/history"
	"github.com/qwikplan/backend/pkg/jobs"
	"github.com/qwikplan/backend/pkg/logger"
	"github.com/qwikplan/backend/pkg/metrics"
	custommiddleware "github.com/qwikplan/backend/pkg/middleware"
	"github.com/qwikplan/backend/pkg/planner"
	"github.com/qwikplan/backend/pkg/quota"
	"github.com/qwikplan/backend/pkg/ratelimit"
	"github.com/qwikplan/backend/pkg/store"
)

func main() {
	cfg := config.Load()
	appLog := logger.New(cfg.LogLevel)
	appLog.Info("configuration loaded", "environment", cfg.APIEnvironment)

	// Sentry error tracking
	if cfg.SentryDSN != "" {
		err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.SentryEnvironment,
			TracesSampleRate: 0.1,
			AttachStacktrace: true,
		})
		if err != nil {
			appLog.Warn("failed to initialize sentry", "error", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	ctx := context.Background()

	// Database (applies embedded migrations)
	db, err := database.NewClient(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	appLog.Info("database connected, migrations applied")

	// Redis
	redisClient, err := cache.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()
	appLog.Info("redis connected")

	// Prometheus metrics
	prometheusMetrics := metrics.New()

	// Stores
	profileStore := store.NewProfileStore(db.Pool, cfg.DefaultMonthlyLimit)
	strategyStore := store.NewStrategyStore(db.Pool)
	feedbackStore := store.NewFeedbackStore(db.Pool)

	// Services
	ledger := quota.NewLedger(profileStore, appLog)
	admission := ratelimit.NewWindow(redisClient, cfg.PlanRateLimitPerMinute, time.Minute)
	generator := llm.NewGroqClient(llm.Config{
		APIKey:  cfg.GroqAPIKey,
		BaseURL: cfg.GroqBaseURL,
		Model:   cfg.GroqModel,
		Timeout: time.Duration(cfg.GroqTimeoutSec) * time.Second,
	}, appLog)
	recorder := history.NewRecorder(strategyStore)
	plannerService := planner.NewService(admission, ledger, generator, recorder, appLog)

	emailService := email.NewService(cfg.SendGridAPIKey, cfg.EmailFrom, cfg.EmailFromName, cfg.FeedbackToEmails, appLog)
	feedbackService := feedback.NewService(feedbackStore, emailService, appLog)

	// Handlers
	generateHandler := handlers.NewGenerateHandler(plannerService, prometheusMetrics, appLog)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService, appLog)
	accountHandler := handlers.NewAccountHandler(ledger, recorder, appLog)

	// Usage reset cron
	cronManager := jobs.NewCronManager(ledger, appLog)
	if err := cronManager.SetupJobs(); err != nil {
		log.Fatalf("failed to setup cron jobs: %v", err)
	}
	cronManager.Start()
	defer cronManager.Stop()

	// Echo
	e := echo.New()
	e.HideBanner = true

	globalRateLimiter := custommiddleware.NewRateLimiter(cfg.RateLimitRequestsPerMinute, cfg.RateLimitBurst)

	e.Use(echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			appLog.Info("request", "method", c.Request().Method, "uri", v.URI, "status", v.Status)
			return nil
		},
	}))
	e.Use(echomw.Recover())

	if cfg.SentryDSN != "" {
		e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	}

	e.Use(prometheusMetrics.Middleware())

	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSAllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	}))

	e.Use(echomw.Gzip())
	e.Use(echomw.Secure())

	// Coarse per-IP limit fronting every route, demo included
	e.Use(globalRateLimiter.RateLimitMiddleware())

	// Public endpoints
	e.GET("/", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]any{
			"name":        "QwikPlan API",
			"status":      "running",
			"environment": cfg.APIEnvironment,
			"timestamp":   time.Now().Unix(),
		})
	})

	e.GET("/health", func(c echo.Context) error {
		reqCtx, cancel := context.WithTimeout(c.Request().Context(), 2*time.Second)
		defer cancel()

		dbStatus := "up"
		if err := db.Ping(reqCtx); err != nil {
			dbStatus = "down"
		}

		redisStatus := "up"
		if err := redisClient.Ping(reqCtx); err != nil {
			redisStatus = "down"
		}

		status := http.StatusOK
		if dbStatus == "down" || redisStatus == "down" {
			status = http.StatusServiceUnavailable
		}

		return c.JSON(status, map[string]any{
			"status":   map[bool]string{true: "healthy", false: "unhealthy"}[status == http.StatusOK],
			"database": dbStatus,
			"cache":    redisStatus,
		})
	})

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// API routes
	v1 := e.Group("/api/v1")

	// Demo flow: no authentication, no admission, no quota, no persistence
	v1.POST("/demo-generate", generateHandler.DemoGenerate)

	// Generate accepts isDemo bodies without auth; the handler 401s
	// non-demo requests that carry no resolvable identity
	v1.POST("/generate", generateHandler.Generate, custommiddleware.OptionalJWTMiddleware(cfg.JWTSecret))

	protected := v1.Group("", custommiddleware.JWTMiddleware(cfg.JWTSecret))
	protected.POST("/feedback", feedbackHandler.Submit)
	protected.GET("/usage", accountHandler.GetUsage)
	protected.GET("/strategies", accountHandler.ListStrategies)

	// Serve with graceful shutdown
	go func() {
		addr := cfg.APIHost + ":" + cfg.APIPort
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		appLog.Error("shutdown error", "error", err)
	}
}
