// Package main is the entry point for the varibulk API server.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"varibulk/internal/domain/auth"
	"varibulk/internal/domain/catalogs/attribute"
	"varibulk/internal/domain/catalogs/item"
	"varibulk/internal/domain/documents/sales_order"
	"varibulk/internal/domain/documents/stock_reconciliation"
	"varibulk/internal/domain/production"
	"varibulk/internal/domain/reports"
	"varibulk/internal/domain/variant"
	"varibulk/internal/infrastructure/cache"
	"varibulk/internal/infrastructure/config"
	v1 "varibulk/internal/infrastructure/http/v1"
	"varibulk/internal/infrastructure/http/v1/handlers"
	"varibulk/internal/infrastructure/lock"
	"varibulk/internal/infrastructure/storage/postgres"
	"varibulk/internal/infrastructure/storage/postgres/catalog_repo"
	"varibulk/internal/infrastructure/storage/postgres/document_repo"
	"varibulk/internal/infrastructure/storage/postgres/report_repo"
	"varibulk/pkg/logger"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("failed to load config: %v\n", err)
		os.Exit(1)
	}

	logCfg := logger.Config{
		Level:       cfg.Log.Level,
		Development: cfg.Log.Development,
	}
	if cfg.Log.Output != "" && cfg.Log.Output != "stdout" {
		logCfg.OutputPaths = []string{cfg.Log.Output}
	}
	log, err := logger.New(logCfg)
	if err != nil {
		fmt.Printf("failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logger.WithLogger(ctx, log)

	log.Infow("starting varibulk server", "env", cfg.App.Env, "version", cfg.App.Version)

	// --- Database ---
	poolCfg := postgres.DefaultPoolConfig(cfg.Database.DSN())
	poolCfg.ApplicationName = cfg.App.Name
	poolCfg.MaxConns = int32(cfg.Database.MaxConns)
	poolCfg.MinConns = int32(cfg.Database.MinConns)
	poolCfg.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	poolCfg.MaxConnIdleTime = cfg.Database.ConnMaxIdleTime

	pool, err := postgres.NewPool(ctx, poolCfg)
	if err != nil {
		log.Fatalw("failed to connect to database", "error", err)
	}
	defer pool.Close()
	log.Info("database connection established")

	txManager := postgres.NewTxManager(pool, cfg.Database.StatementTimeout)

	// --- Repositories ---
	attrCache := cache.NewAttributeCache(catalog_repo.NewAttributeRepo(txManager))
	itemRepo := catalog_repo.NewItemRepo(txManager)

	listener := cache.NewListener(pool.Pool, cache.AttributeChannel)
	listener.OnNotify(cache.InvalidateOn(attrCache))
	listener.Start(ctx)
	defer listener.Stop()

	errorLog, err := postgres.NewErrorLog(txManager, cfg.ErrorLog.CompressThreshold)
	if err != nil {
		log.Fatalw("failed to create error log", "error", err)
	}

	health := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pool, attrCache)

	// --- Binding lock ---
	var locker variant.BindingLocker
	if cfg.Variant.LockEnabled {
		client, err := lock.NewClient(ctx, cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Fatalw("failed to connect to redis", "error", err)
		}
		defer client.Close()

		locker = lock.NewRedisLocker(client, lock.Options{TTL: cfg.Variant.LockTTL})
		health.AddCheck("redis", handlers.PingFunc(func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		}))
		log.Infow("variant binding lock enabled", "addr", cfg.Redis.Addr(), "ttl", cfg.Variant.LockTTL)
	}

	// --- Services ---
	attributeService := attribute.NewService(attrCache, txManager)
	itemService := item.NewService(itemRepo, attrCache, txManager, cfg.Variant.MaxAttributes)

	resolver := variant.NewResolver(itemRepo, attrCache, cfg.Variant.MaxAttributes)
	materializer := variant.NewMaterializer(itemRepo, variant.NewStoreProvider(itemRepo), txManager, locker)
	variantService := variant.NewService(resolver, materializer, attributeService, errorLog)

	jwtConfig := auth.DefaultJWTConfig(cfg.JWT.Secret)
	jwtConfig.Issuer = cfg.JWT.Issuer
	jwtService := auth.NewJWTService(jwtConfig)

	// --- Router ---
	router := v1.NewRouter(v1.RouterConfig{
		Logger:           log,
		JWTValidator:     jwtService,
		Health:           health,
		PanicSink:        errorLog,
		ErrorLog:         errorLog,
		CORSAllowOrigins: cfg.HTTP.CORSAllowOrigins,
		MaxUploadBytes:   cfg.HTTP.MaxUploadBytes,
		Debug:            cfg.Log.Development,
		Services: v1.Services{
			Variants:        variantService,
			Items:           itemService,
			Attributes:      attributeService,
			SalesOrders:     sales_order.NewService(variantService, errorLog),
			Reconciliations: stock_reconciliation.NewService(variantService),
			Production:      production.NewService(document_repo.NewProductionRepo(txManager), txManager),
			Reports:         reports.NewService(report_repo.NewReportRepo(txManager)),
		},
	})

	// --- HTTP Server ---
	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
	}

	go func() {
		log.Infow("server starting", "port", cfg.App.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalw("server failed", "error", err)
		}
	}()

	// --- Graceful shutdown ---
	<-ctx.Done()
	log.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorw("server forced to shutdown", "error", err)
	}

	log.Info("server stopped")
}
