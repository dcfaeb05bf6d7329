package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/bastaclub/basta/internal/config"
	"github.com/bastaclub/basta/internal/database"
	"github.com/bastaclub/basta/internal/game"
	"github.com/bastaclub/basta/internal/migrations"
	"github.com/bastaclub/basta/internal/oracle"
	"github.com/bastaclub/basta/internal/server"
	"github.com/bastaclub/basta/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	// --- Game engine ---
	validator := oracle.New(oracle.Config{
		APIKey:  cfg.OpenAIKey,
		Model:   cfg.OpenAIModel,
		Timeout: cfg.OracleTimeout,
	}, logger)

	broker := server.NewBroker()
	manager := game.NewManager(logger, store.NewSQLite(db), broker, validator, game.Options{
		MinStopTime:  cfg.MinStopTime(),
		GraceSeconds: cfg.GraceSeconds,
		TickInterval: cfg.TickInterval,
		Letters:      game.NewLetterPool(cfg.ExcludedLetters),
	})
	defer manager.Close()

	if err := manager.LoadFromStore(ctx); err != nil {
		return fmt.Errorf("restoring rooms: %w", err)
	}

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, server.Deps{
		Logger:        logger,
		Manager:       manager,
		Broker:        broker,
		Health:        db,
		BaseURL:       cfg.BaseURL,
		AdminPassword: cfg.AdminPassword,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}
