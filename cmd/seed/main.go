// Package main provides a CLI tool that loads a JSON catalog seed file
// into the catalog database.
//
// Usage:
//
//	PROCURA_DATABASE_URL=postgres://... seed -file configs/catalog.seed.json
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"procura/internal/domain/costing"
	"procura/internal/infrastructure/config"
	"procura/internal/infrastructure/storage/postgres"
	"procura/internal/infrastructure/storage/postgres/catalog_repo"
	"procura/internal/infrastructure/storage/seed"
	"procura/pkg/logger"
)

func main() {
	file := flag.String("file", "", "seed file (defaults to catalog.seed_file)")
	notify := flag.Bool("notify", true, "publish a catalog change notification after import")
	flag.Parse()

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalw("failed to load config", "error", err)
	}
	if !cfg.Database.Enabled() {
		log.Fatal("database url is required (PROCURA_DATABASE_URL)")
	}

	path := *file
	if path == "" {
		path = cfg.Catalog.SeedFile
	}
	if path == "" {
		log.Fatal("no seed file given")
	}

	catalog, err := seed.ReadFile(path)
	if err != nil {
		log.Fatalw("failed to read seed file", "path", path, "error", err)
	}

	// Report data problems before writing; they are loaded anyway.
	snap := costing.NewSnapshot(catalog.Units, catalog.Items)
	for _, w := range snap.Diagnostics {
		log.Warnw("catalog data problem", "code", w.Code, "message", w.Message, "details", w.Details)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	pool, err := postgres.NewPool(ctx, postgres.DefaultPoolConfig(cfg.Database.URL))
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()

	log.Info("connected to database")

	txm := postgres.NewTxManager(pool)
	if err := catalog_repo.NewSource(txm).Import(ctx, txm, catalog.Units, catalog.Items); err != nil {
		log.Fatalw("failed to import catalog", "error", err)
	}

	log.Infow("catalog imported",
		"path", path,
		"units", len(catalog.Units),
		"items", len(catalog.Items),
	)

	if *notify {
		if _, err := pool.Exec(ctx, "SELECT pg_notify($1, $2)", cfg.Catalog.NotifyChannel, "seed"); err != nil {
			log.Warnw("failed to notify catalog change", "error", err)
		}
	}

	log.Info("seeding completed successfully")
}
