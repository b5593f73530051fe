package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/stadtaev/escaperoom/internal/config"
	"github.com/stadtaev/escaperoom/internal/database"
	"github.com/stadtaev/escaperoom/internal/game"
	"github.com/stadtaev/escaperoom/internal/migrations"
	"github.com/stadtaev/escaperoom/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	_ = godotenv.Load()

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

	// --- Store, seeding ---
	store := server.NewSQLiteStore(db)

	if err := server.SeedRooms(ctx, logger, store, cfg.RoomsPath); err != nil {
		return fmt.Errorf("seeding rooms: %w", err)
	}
	if err := server.SeedAdmin(ctx, logger, store, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}

	// --- Game sessions ---
	broker := server.NewBroker()
	reg := server.NewRegistry(store, broker, logger, game.Config{
		Total:       cfg.Countdown(),
		HintPenalty: cfg.HintPenalty,
		Tick:        cfg.TickInterval,
	}, cfg.SessionMaxAge, cfg.VerifyURL)
	defer reg.Close()

	// --- HTTP Server ---
	srv := server.New(cfg.HTTPAddr, logger, db, store, reg, broker, cfg.SPADir)

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
