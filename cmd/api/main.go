package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/thisisamish/cashcard-api/internal/api"
	"github.com/thisisamish/cashcard-api/internal/auth"
	"github.com/thisisamish/cashcard-api/internal/config"
	"github.com/thisisamish/cashcard-api/internal/db"
	"github.com/thisisamish/cashcard-api/internal/logger"
	"github.com/thisisamish/cashcard-api/internal/metrics"
	"github.com/thisisamish/cashcard-api/internal/repository/postgres"
	"github.com/thisisamish/cashcard-api/internal/services"
	"github.com/thisisamish/cashcard-api/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config", "err", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Env)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := db.NewPool(ctx, cfg.DatabaseURL, cfg.DBMaxConns)
	if err != nil {
		log.Error("db connect", "err", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.Migrate {
		if err := db.RunMigrations(ctx, pool); err != nil {
			log.Error("migrations", "err", err)
			os.Exit(1)
		}
	}

	repos := postgres.NewRepositories(pool)
	wp := worker.NewPool(4)
	defer wp.Stop()

	tm := auth.NewTokenManager(cfg.JWTAccessSecret, cfg.JWTRefreshSecret, cfg.JWTIssuer,
		cfg.AccessTTL, cfg.RefreshTTL)

	cardSvc := services.NewCardService(repos.Cards, repos.AuditLogs, wp)
	userSvc := services.NewUserService(repos.Users, repos.AuditLogs, wp)

	metrics.Init()
	router := api.NewRouter(api.Deps{
		Cfg:     cfg,
		TM:      tm,
		CardSvc: cardSvc,
		UserSvc: userSvc,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.Info("server starting", "port", cfg.HTTPPort, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", "err", err)
	}
}
