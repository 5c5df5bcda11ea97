package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"floatplan/internal/api"
	"floatplan/internal/config"
	"floatplan/internal/database"
)

func main() {
	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("cannot load config: %w", err)
	}

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	repo, err := newRepository(ctx, cfg)
	if err != nil {
		return err
	}
	defer repo.Close()

	if err := repo.Migrate(ctx); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: api.NewServer(repo, cfg, log).Router(),
	}

	go func() {
		<-ctx.Done()
		log.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown", "error", err)
		}
	}()

	log.Info("starting server", "port", cfg.Server.Port, "driver", cfg.Database.Driver)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server listen: %w", err)
	}
	return nil
}

func newRepository(ctx context.Context, cfg config.Config) (database.Repository, error) {
	switch cfg.Database.Driver {
	case "postgres":
		return database.NewPostgres(ctx, cfg.Database.DSN, cfg.Database.MaxConns, cfg.Database.MinConns)
	case "sqlite":
		return database.NewSQLite(ctx, cfg.Database.DSN)
	}
	return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
}
