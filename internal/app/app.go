// Package app wires the portfolio backend together and manages its lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/manasranjandas/portfolio-go/internal/archive"
	"github.com/manasranjandas/portfolio-go/internal/buildinfo"
	"github.com/manasranjandas/portfolio-go/internal/chatbot"
	"github.com/manasranjandas/portfolio-go/internal/config"
	"github.com/manasranjandas/portfolio-go/internal/logger"
	"github.com/manasranjandas/portfolio-go/internal/metrics"
	"github.com/manasranjandas/portfolio-go/internal/profile"
	"github.com/manasranjandas/portfolio-go/internal/ratelimit"
	"github.com/manasranjandas/portfolio-go/internal/sentry"
	"github.com/manasranjandas/portfolio-go/internal/storage"
)

// Application owns the HTTP server, the message store and background jobs.
type Application struct {
	cfg            *config.Config
	logger         *logger.Logger
	store          storage.MessageStore
	responder      *chatbot.Responder
	archiver       *archive.Archiver
	metrics        *metrics.Metrics
	registry       *prometheus.Registry
	chatLimiter    *ratelimit.KeyedLimiter
	contactLimiter *ratelimit.KeyedLimiter
	server         *http.Server
	now            func() time.Time
	wg             sync.WaitGroup // background jobs
}

// Initialize creates the application and all of its dependencies.
func Initialize(ctx context.Context, cfg *config.Config) (*Application, error) {
	log := logger.NewWithOptions(logger.Options{
		Level:               cfg.LogLevel,
		Writer:              os.Stdout,
		BetterStackToken:    cfg.BetterStackToken,
		BetterStackEndpoint: cfg.BetterStackEndpoint,
	})
	log = log.WithField("service", "portfolio-go").WithField("instance_id", cfg.ServerName)
	if buildinfo.Version != "" {
		log = log.WithField("version", buildinfo.Version)
	}

	// Package-level slog calls (storage) go through the same handler.
	slog.SetDefault(log.Logger)

	log.Info("Initializing application...")

	if err := sentry.Initialize(sentry.Config{
		DSN:         cfg.SentryDSN,
		Environment: cfg.SentryEnvironment,
		Release:     cfg.SentryRelease,
		ServerName:  cfg.ServerName,
		SampleRate:  cfg.SentrySampleRate,
	}); err != nil {
		log.WithError(err).Warn("Sentry initialization failed")
	} else if sentry.IsEnabled() {
		log.WithField("environment", cfg.SentryEnvironment).Info("Sentry error reporting enabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewBuildInfoCollector(),
	)
	m := metrics.New(registry)

	p, err := profile.Load(ctx, cfg.ProfileDir)
	if err != nil {
		return nil, fmt.Errorf("profile: %w", err)
	}
	stats := p.Stats()
	m.SetProfileSections(len(profile.Sections()) - len(p.MissingSections()))
	entry := log.WithField("dir", cfg.ProfileDir).
		WithField("projects", stats.Projects).
		WithField("experience", stats.Experience)
	if missing := p.MissingSections(); len(missing) > 0 {
		entry.WithField("missing", missing).Warn("Profile loaded with missing sections")
	} else {
		entry.Info("Profile loaded")
	}

	store, err := storage.Open(ctx, cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("storage: %w", err)
	}
	log.WithField("backend", store.Backend()).Info("Message store ready")

	archiver, err := archive.FromConfig(ctx, cfg.R2, store, m, log)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("archive: %w", err)
	}
	if archiver != nil {
		log.WithField("bucket", cfg.R2.BucketName).
			WithField("prefix", archiver.Prefix()).
			Info("Message archiving enabled")
	}

	app := New(cfg, Deps{
		Logger:    log,
		Store:     storage.WithMetrics(store, m),
		Responder: chatbot.New(p, chatbot.WithTopK(cfg.ChatTopK)),
		Archiver:  archiver,
		Metrics:   m,
		Registry:  registry,
	})

	log.Info("Initialization complete")
	return app, nil
}

// Deps are the collaborators New wires into the router.
type Deps struct {
	Logger    *logger.Logger
	Store     storage.MessageStore
	Responder *chatbot.Responder
	Archiver  *archive.Archiver
	Metrics   *metrics.Metrics
	Registry  *prometheus.Registry
}

// New builds the application around ready dependencies.
func New(cfg *config.Config, deps Deps) *Application {
	a := &Application{
		cfg:       cfg,
		logger:    deps.Logger,
		store:     deps.Store,
		responder: deps.Responder,
		archiver:  deps.Archiver,
		metrics:   deps.Metrics,
		registry:  deps.Registry,
		now:       time.Now,
	}
	if !cfg.RateLimit.Disabled {
		a.chatLimiter = ratelimit.NewKeyedLimiter(ratelimit.KeyedConfig{
			Name:          "chat",
			Burst:         cfg.RateLimit.ChatBurst,
			RefillRate:    cfg.RateLimit.ChatRefill,
			CleanupPeriod: config.RateLimiterCleanupInterval,
			Metrics:       deps.Metrics,
		})
		a.contactLimiter = ratelimit.NewKeyedLimiter(ratelimit.KeyedConfig{
			Name:          "contact",
			Burst:         cfg.RateLimit.ContactBurst,
			RefillRate:    cfg.RateLimit.ContactRefill,
			DailyLimit:    cfg.RateLimit.ContactDaily,
			CleanupPeriod: config.RateLimiterCleanupInterval,
			Metrics:       deps.Metrics,
		})
	}

	a.server = &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.newRouter(),
		ReadHeaderTimeout: config.HTTPReadHeader,
		ReadTimeout:       config.HTTPRead,
		WriteTimeout:      config.HTTPWrite,
		IdleTimeout:       config.HTTPIdle,
	}
	return a
}

func (a *Application) newRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	if sentry.IsEnabled() {
		router.Use(sentrygin.New(sentrygin.Options{Repanic: true}))
	}
	router.Use(requestContextMiddleware())
	router.Use(securityHeadersMiddleware())
	router.Use(corsMiddleware(a.cfg.AllowedOrigin))
	router.Use(loggingMiddleware(a.logger, a.metrics))

	router.GET("/", a.rootBanner)
	router.GET("/livez", a.livenessCheck)
	router.HEAD("/livez", a.livenessCheck)
	router.GET("/readyz", a.readinessCheck)
	router.HEAD("/readyz", a.readinessCheck)
	router.GET("/metrics",
		metricsAuthMiddleware(a.cfg.MetricsUsername, a.cfg.MetricsPassword),
		gin.WrapH(promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{})))

	api := router.Group("/api")
	api.POST("/chat", rateLimitMiddleware(a.chatLimiter), a.handleChat)
	api.POST("/contact", rateLimitMiddleware(a.contactLimiter), a.handleContact)

	if a.cfg.AdminEnabled() {
		admin := api.Group("/admin", a.adminAuthMiddleware(a.cfg.AdminPassword))
		admin.GET("/messages", a.handleListMessages)
		admin.POST("/messages/export", a.handleExportMessages)
		admin.DELETE("/messages/:timestamp", a.handleDeleteMessages)
		admin.GET("/archives", a.handleListArchives)
		admin.GET("/archives/*key", a.handleDownloadArchive)
	} else {
		a.logger.Warn("Admin API disabled: no admin password configured")
	}

	return router
}

// Handler exposes the router, mainly for tests.
func (a *Application) Handler() http.Handler {
	return a.server.Handler
}

// Run serves HTTP until SIGINT/SIGTERM, then shuts down in order:
//  1. cancel the background jobs and wait for them
//  2. stop the HTTP server, draining in-flight requests
//  3. close the store and limiters, flush Sentry and the logger
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a.startBackgroundJobs(ctx)
	serverErr := a.startHTTPServer()

	select {
	case sig := <-a.waitForShutdownSignal():
		a.logger.WithField("signal", sig.String()).Info("Received shutdown signal")
	case err := <-serverErr:
		a.logger.WithError(err).Error("HTTP server stopped unexpectedly")
	}

	cancel()

	a.logger.Info("Waiting for background jobs to finish...")
	start := time.Now()
	a.wg.Wait()
	a.logger.WithField("duration_ms", time.Since(start).Milliseconds()).
		Info("All background jobs completed")

	return a.shutdown()
}

func (a *Application) startBackgroundJobs(ctx context.Context) {
	a.wg.Go(func() {
		a.updateMessageCount(ctx)
	})
	if a.archiver != nil && a.cfg.R2.ArchiveInterval > 0 {
		a.wg.Go(func() {
			a.archiver.Run(ctx, a.cfg.R2.ArchiveInterval)
		})
	}
}

func (a *Application) startHTTPServer() <-chan error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.WithField("port", a.cfg.Port).Info("Starting HTTP server")
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	return errCh
}

func (a *Application) waitForShutdownSignal() <-chan os.Signal {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	return quit
}

func (a *Application) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	a.logger.Info("Stopping HTTP server...")
	var errs []error
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.WithError(err).Error("HTTP server shutdown error")
		errs = append(errs, err)
	}

	a.logger.Info("Closing resources...")
	if err := a.store.Close(); err != nil {
		a.logger.WithError(err).WithField("component", "storage").Error("Component close error")
		errs = append(errs, err)
	}
	if a.chatLimiter != nil {
		a.chatLimiter.Stop()
	}
	if a.contactLimiter != nil {
		a.contactLimiter.Stop()
	}

	sentry.Flush(2 * time.Second)

	a.logger.Info("Shutdown complete")
	if err := a.logger.Shutdown(shutdownCtx); err != nil {
		errs = append(errs, fmt.Errorf("logger: %w", err))
	}
	return errors.Join(errs...)
}

// updateMessageCount keeps the stored-message gauge current.
func (a *Application) updateMessageCount(ctx context.Context) {
	a.logger.Debug("Message count job started")
	defer a.logger.Debug("Message count job stopped")

	a.refreshStoredMessages(ctx)

	ticker := time.NewTicker(config.MessageCountInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			a.refreshStoredMessages(ctx)
		}
	}
}

func (a *Application) refreshStoredMessages(ctx context.Context) {
	n, err := a.store.Count(ctx)
	if err != nil {
		a.logger.WithError(err).WarnContext(ctx, "Failed to count stored messages")
		return
	}
	a.metrics.SetStoredMessages(n)
}
