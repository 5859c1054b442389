package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/auth"
	authadapter "github.com/BollineniRohith123/GharintoLeap-sub004/internal/auth/adapter"
	authrepo "github.com/BollineniRohith123/GharintoLeap-sub004/internal/auth/repository"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/email"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/events"
	apphttp "github.com/BollineniRohith123/GharintoLeap-sub004/internal/http"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/http/router"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/leads"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/notification"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/projects"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/team"
	"github.com/BollineniRohith123/GharintoLeap-sub004/migrations"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/config"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/db"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/logger"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, cfg, migrations.FS)
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()
	log.Info("database connection established")

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	// Shared validator instance for dependency injection
	val := validator.New()

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	authModule, err := auth.NewModule(pool, cfg, val, log)
	if err != nil {
		log.Error("failed to initialize auth module", "error", err)
		panic("failed to initialize auth module: " + err.Error())
	}

	teamModule := team.NewModule(pool)

	leadsModule, err := leads.NewModule(pool, teamModule.Service(), eventBus, val, cfg, log)
	if err != nil {
		log.Error("failed to initialize leads module", "error", err)
		panic("failed to initialize leads module: " + err.Error())
	}

	projectsModule := projects.NewModule(pool)

	// Notification module reacts to lead events and serves the in-app feed.
	userProvider := authadapter.NewUserProviderAdapter(authrepo.New(pool))
	notificationModule := notification.New(pool, userProvider, sender, cfg, log)
	notificationModule.RegisterHandlers(eventBus)

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config: cfg,
		Logger: log,
		Health: db.NewPoolAdapter(pool),
		Modules: []apphttp.Module{
			authModule,
			teamModule,
			leadsModule,
			projectsModule,
			notificationModule,
		},
	}

	engine := router.New(app)

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- engine.Run(cfg.HTTPAddr)
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = shutdownCtx
	case err := <-srvErr:
		if err != nil {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
