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

	"github.com/trailcase/geohunt/internal/config"
	"github.com/trailcase/geohunt/internal/database"
	"github.com/trailcase/geohunt/internal/hunt"
	"github.com/trailcase/geohunt/internal/migrations"
	"github.com/trailcase/geohunt/internal/server"
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

	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	store := server.NewSQLiteStore(db)

	if err := server.SeedDemo(ctx, logger, store, cfg.OperatorName, cfg.OperatorPassword); err != nil {
		return fmt.Errorf("seeding: %w", err)
	}

	// An explicit catalog file overrides whatever case is stored. Validate
	// before touching the store so a bad file cannot shadow a good case.
	if cfg.CatalogPath != "" {
		doc, err := os.ReadFile(cfg.CatalogPath)
		if err != nil {
			return fmt.Errorf("reading catalog %s: %w", cfg.CatalogPath, err)
		}
		if _, err := hunt.ParseCatalog(doc); err != nil {
			return fmt.Errorf("validating catalog %s: %w", cfg.CatalogPath, err)
		}
		if _, err := store.SaveCase(ctx, cfg.CatalogPath, doc); err != nil {
			return fmt.Errorf("storing catalog: %w", err)
		}
		logger.Info("catalog loaded from file", "path", cfg.CatalogPath)
	}

	// Catalog load failure is fatal: the game cannot run without stages.
	cases, err := server.NewCaseRegistry(ctx, store)
	if err != nil {
		return fmt.Errorf("initializing case registry: %w", err)
	}

	srv := server.New(cfg.HTTPAddr, logger, db, store, cases)

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
