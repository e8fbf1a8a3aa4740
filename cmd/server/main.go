// Package main is the entry point for the Procura costing API server.
// The catalog comes from PostgreSQL when a database URL is configured,
// otherwise from a JSON seed file.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/klauspost/compress/gzhttp"

	"procura/internal/domain/auth"
	"procura/internal/domain/costing"
	"procura/internal/infrastructure/cache"
	"procura/internal/infrastructure/config"
	v1 "procura/internal/infrastructure/http/v1"
	"procura/internal/infrastructure/http/v1/handlers"
	"procura/internal/infrastructure/storage/postgres"
	"procura/internal/infrastructure/storage/postgres/catalog_repo"
	"procura/internal/infrastructure/storage/seed"
	"procura/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.New(logger.Config{
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
		Development: cfg.App.IsDevelopment(),
		OutputPaths: []string{cfg.Log.Output},
	})
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log.Infow("starting procura server", "env", cfg.App.Env, "version", cfg.App.Version)

	// --- Catalog source ---
	store := costing.NewStore()
	cacheOpts := cache.Options{
		Store:           store,
		Channel:         cfg.Catalog.NotifyChannel,
		RefreshInterval: cfg.Catalog.RefreshInterval,
		Logger:          log,
	}

	var (
		pool    *postgres.Pool
		history handlers.ReloadHistory
	)

	if cfg.Database.Enabled() {
		poolCfg := postgres.DefaultPoolConfig(cfg.Database.URL)
		poolCfg.MaxConns = cfg.Database.MaxConns
		poolCfg.MinConns = cfg.Database.MinConns
		poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime
		poolCfg.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

		pool, err = postgres.NewPool(ctx, poolCfg)
		if err != nil {
			log.Fatalw("failed to connect to database", "error", err)
		}
		defer pool.Close()
		log.Info("database connection established")

		txm := postgres.NewTxManager(pool)
		cacheOpts.Source = catalog_repo.NewSource(txm)
		cacheOpts.TxManager = txm
		cacheOpts.Pool = pool.Pool

		if cfg.Catalog.AuditReloads {
			reloadAudit, err := postgres.NewReloadAudit(txm)
			if err != nil {
				log.Fatalw("failed to create reload audit", "error", err)
			}
			cacheOpts.Audit = reloadAudit
			history = reloadAudit
		}
	} else {
		cacheOpts.Source = seed.NewFileSource(cfg.Catalog.SeedFile)
		log.Infow("serving catalog from seed file", "path", cfg.Catalog.SeedFile)
	}

	// --- Catalog cache ---
	catalogCache := cache.NewCatalogCache(cacheOpts)
	if err := catalogCache.Start(ctx); err != nil {
		log.Fatalw("failed to load catalog", "error", err)
	}
	defer catalogCache.Stop()

	// --- JWT Service ---
	jwtConfig := auth.DefaultJWTConfig(cfg.JWT.Secret)
	jwtConfig.Issuer = cfg.JWT.Issuer
	jwtService := auth.NewJWTService(jwtConfig)

	// --- Router ---
	router, err := v1.NewRouter(v1.RouterConfig{
		Store:          store,
		Costing:        costing.NewService(store, log),
		Reloader:       catalogCache,
		ReloadHistory:  history,
		Pool:           pool,
		Logger:         log,
		JWTValidator:   jwtService,
		AdminRole:      cfg.JWT.AdminRole,
		AppName:        cfg.App.Name,
		Version:        cfg.App.Version,
		Debug:          cfg.App.IsDevelopment(),
		TrustedProxies: cfg.HTTP.TrustedProxies,
	})
	if err != nil {
		log.Fatalw("failed to build router", "error", err)
	}

	gzipWrapper, err := gzhttp.NewWrapper(gzhttp.MinSize(cfg.HTTP.GzipMinSize))
	if err != nil {
		log.Fatalw("failed to create gzip wrapper", "error", err)
	}

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      gzipWrapper(http.MaxBytesHandler(router, cfg.HTTP.MaxBodySize)),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Infow("server starting", "port", cfg.App.Port, "database", cfg.Database.Enabled())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// --- Graceful shutdown ---
	select {
	case <-ctx.Done():
	case err := <-serverErr:
		log.Errorw("server failed", "error", err)
	}

	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
