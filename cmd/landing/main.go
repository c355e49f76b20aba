// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/olegiv/landing-cms/internal/cache"
	"github.com/olegiv/landing-cms/internal/config"
	"github.com/olegiv/landing-cms/internal/handler"
	"github.com/olegiv/landing-cms/internal/handler/api"
	"github.com/olegiv/landing-cms/internal/logging"
	"github.com/olegiv/landing-cms/internal/middleware"
	"github.com/olegiv/landing-cms/internal/notify"
	"github.com/olegiv/landing-cms/internal/scheduler"
	"github.com/olegiv/landing-cms/internal/service"
	"github.com/olegiv/landing-cms/internal/store"
	"github.com/olegiv/landing-cms/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "landing - Landing page CMS\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LANDING_DB_PATH              SQLite database path (default: ./data/landing.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LANDING_SERVER_PORT          Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LANDING_ENV                  Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LANDING_REDIS_URL            Redis URL for a shared render cache (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LANDING_TELEGRAM_BOT_TOKEN   Telegram bot token for lead notifications (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LANDING_WEBHOOK_URL          Webhook URL for lead notifications (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LANDING_SEED                 Seed default block templates (default: false)\n")
		_, _ = fmt.Fprintf(os.Stderr, "\nFor more information, see: https://github.com/olegiv/landing-cms\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	info := version.New(appVersion, appGitCommit, appBuildTime)
	if *showVersion {
		_, _ = fmt.Printf("landing %s\n", info)
		os.Exit(0)
	}

	if err := run(info); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run(info version.Info) error {
	// .env is optional
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// WARN and ERROR records are also written to the activity log.
	activitySvc := service.NewActivityService(db, logger)
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewActivityLogHandler(textHandler, activitySvc))
	slog.SetDefault(logger)
	slog.Info("activity log integration enabled", "min_level", "warn")

	ctx := context.Background()
	if cfg.DoSeed {
		if err := store.Seed(ctx, db); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	appCache := cache.New(cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      cfg.RenderTTL(),
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	}, logger)
	defer func() {
		if err := appCache.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	renderCache := cache.NewRenderCache(appCache, cfg.RenderTTL(), logger)

	dispatcher := notify.NewDispatcher(logger, notify.Config{
		Workers:     cfg.NotifyWorkers,
		QueueSize:   cfg.NotifyQueueSize,
		SendTimeout: 10 * time.Second,
	}, notificationSinks(cfg, logger)...)
	dispatcher.Start(ctx)
	defer dispatcher.Stop()

	pageSvc := service.NewPageService(db, renderCache, dispatcher, logger)
	leadSvc := service.NewLeadService(db, dispatcher, logger)
	postSvc := service.NewPostService(db, logger)
	taxonomySvc := service.NewTaxonomyService(db, logger)
	formSvc := service.NewFormService(db, dispatcher, logger)
	menuSvc := service.NewMenuService(db, cache.NewMenuCache(appCache, cache.DefaultMenuTTL, logger), logger)
	templateSvc := service.NewTemplateService(db, logger)
	assets := service.RenderOptions{
		StylesheetURL: cfg.StylesheetURL,
		ScriptURL:     cfg.ScriptURL,
	}
	if assets.StylesheetURL == "" {
		assets.StylesheetURL = service.DefaultStylesheetURL
	}
	if assets.ScriptURL == "" {
		assets.ScriptURL = service.DefaultScriptURL
	}
	renderSvc := service.NewRenderService(service.NewPublishedPages(db), renderCache, assets, logger)

	sched := scheduler.New(activitySvc, renderCache, scheduler.Config{
		Retention:     cfg.ActivityRetention(),
		PruneSchedule: cfg.ActivityPruneSchedule,
	}, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	healthHandler := handler.NewHealthHandler(db, appCache, info.Version)
	frontendHandler := handler.NewFrontendHandler(renderSvc, leadSvc, postSvc, formSvc, menuSvc, logger)
	seoHandler := handler.NewSEOHandler(db, cfg.PublicBaseURL, cfg.IsDevelopment(), logger)
	apiHandler := api.NewHandler(api.Services{
		Pages:     pageSvc,
		Templates: templateSvc,
		Leads:     leadSvc,
		Posts:     postSvc,
		Taxonomy:  taxonomySvc,
		Forms:     formSvc,
		Menus:     menuSvc,
		Activity:  activitySvc,
	}, renderCache, info.Version, logger)

	leadLimiter := middleware.NewIPRateLimiter(cfg.LeadRateLimit, cfg.LeadRateBurst, logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(
		cfg.IsDevelopment(), assets.StylesheetURL, assets.ScriptURL,
	)))
	r.Use(middleware.Identity)

	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	r.Get("/robots.txt", seoHandler.Robots)
	r.Get("/sitemap.xml", seoHandler.Sitemap)

	r.Get("/view/{slug}", frontendHandler.Page)
	r.With(
		leadLimiter.HTMLMiddleware(),
		middleware.Activity(activitySvc, logger),
	).Post("/view/{slug}/leads", frontendHandler.SubmitLead)
	r.With(
		leadLimiter.HTMLMiddleware(),
		middleware.Activity(activitySvc, logger),
	).Post("/forms/{id}/submit", frontendHandler.SubmitForm)
	r.Get("/menus/{location}", frontendHandler.Menu)
	r.Get("/blog", frontendHandler.BlogIndex)
	r.Get("/blog/category/{slug}", frontendHandler.BlogCategory)
	r.Get("/blog/tag/{slug}", frontendHandler.BlogTag)
	r.Get("/blog/{slug}", frontendHandler.BlogPost)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.RequireUser)
		r.Use(middleware.Activity(activitySvc, logger))
		apiHandler.Routes(r)
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env, "version", info.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

// notificationSinks returns the configured lead and publication sinks.
// Events are logged when no external sink is configured.
func notificationSinks(cfg *config.Config, logger *slog.Logger) []notify.Sink {
	var sinks []notify.Sink
	if cfg.TelegramEnabled() {
		sinks = append(sinks, notify.NewTelegramSink(notify.TelegramSinkOptions{
			Token:         cfg.TelegramBotToken,
			ChatID:        cfg.TelegramChatID,
			PublicBaseURL: cfg.PublicBaseURL,
		}))
	}
	if cfg.WebhookEnabled() {
		sinks = append(sinks, notify.NewWebhookSink(notify.WebhookSinkOptions{
			URL:    cfg.WebhookURL,
			Secret: cfg.WebhookSecret,
		}))
	}
	if len(sinks) == 0 {
		sinks = append(sinks, notify.NewLogSink(logger))
	}
	return sinks
}
