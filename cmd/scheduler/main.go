package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	authadapter "github.com/BollineniRohith123/GharintoLeap-sub004/internal/auth/adapter"
	authrepo "github.com/BollineniRohith123/GharintoLeap-sub004/internal/auth/repository"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/email"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/events"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/leads"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/notification"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/scheduler"
	"github.com/BollineniRohith123/GharintoLeap-sub004/internal/team"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/config"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/db"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/logger"
	"github.com/BollineniRohith123/GharintoLeap-sub004/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	eventBus := events.NewInMemoryBus(log)

	sender, err := email.NewSender(cfg)
	if err != nil {
		log.Error("failed to initialize email sender", "error", err)
		panic("failed to initialize email sender: " + err.Error())
	}

	// Worker-side wiring only; no HTTP handlers are mounted here.
	userProvider := authadapter.NewUserProviderAdapter(authrepo.New(pool))
	notificationModule := notification.New(pool, userProvider, sender, cfg, log)
	notificationModule.RegisterHandlers(eventBus)

	val := validator.New()
	teamModule := team.NewModule(pool)
	leadsModule, err := leads.NewModule(pool, teamModule.Service(), eventBus, val, cfg, log)
	if err != nil {
		log.Error("failed to initialize leads module", "error", err)
		panic("failed to initialize leads module: " + err.Error())
	}

	dispatcher, err := scheduler.NewNotificationOutboxDispatcher(cfg, pool, log)
	if err != nil {
		log.Error("failed to initialize outbox dispatcher", "error", err)
		panic("failed to initialize outbox dispatcher: " + err.Error())
	}
	defer func() { _ = dispatcher.Close() }()

	worker, err := scheduler.NewWorker(cfg, eventBus, leadsModule.Service(), log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	// If either component stops, the shared context cancels the other.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return dispatcher.Run(gctx)
	})
	g.Go(func() error {
		return worker.Run(gctx)
	})

	if err := g.Wait(); err != nil {
		log.Error("scheduler stopped", "error", err)
		return
	}

	log.Info("scheduler exited")
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
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
