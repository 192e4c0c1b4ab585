package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperpsync "github.com/finlens/backend/internal/application/erpsync"
	"github.com/finlens/backend/internal/domain/erpsync"
	"github.com/finlens/backend/internal/infrastructure/cache"
	"github.com/finlens/backend/internal/infrastructure/config"
	"github.com/finlens/backend/internal/infrastructure/logger"
	"github.com/finlens/backend/internal/infrastructure/netsuite"
	"github.com/finlens/backend/internal/infrastructure/persistence"
	"github.com/finlens/backend/internal/interfaces/http/handler"
	"github.com/finlens/backend/internal/interfaces/http/middleware"
	"github.com/finlens/backend/internal/interfaces/http/router"
)

const shutdownTimeout = 30 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "server exited with error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting server",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabaseWithLogger(
		&cfg.Database,
		logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level)),
	)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Failed to close database", zap.Error(err))
		}
	}()

	runLock, lockCloser, err := newRunLock(cfg, log)
	if err != nil {
		return fmt.Errorf("initialize run lock: %w", err)
	}
	defer lockCloser()

	// Repositories
	integrationRepo := persistence.NewGormIntegrationRepository(db.DB)
	syncRunRepo := persistence.NewGormSyncRunRepository(db.DB)
	syncLogRepo := persistence.NewGormSyncLogRepository(db.DB)
	entityRepo := persistence.NewGormEntityRepository(db.DB)
	accountRepo := persistence.NewGormChartOfAccountRepository(db.DB)
	trialBalanceRepo := persistence.NewGormTrialBalanceRepository(db.DB)
	exchangeRateRepo := persistence.NewGormExchangeRateRepository(db.DB)

	// Application services
	connectors := netsuite.NewConnector(log)
	syncService := apperpsync.NewSyncService(
		integrationRepo,
		syncRunRepo,
		syncLogRepo,
		entityRepo,
		accountRepo,
		trialBalanceRepo,
		exchangeRateRepo,
		connectors,
		runLock,
		log,
	)
	connectionService := apperpsync.NewConnectionService(integrationRepo, connectors, log)
	integrationService := apperpsync.NewIntegrationService(integrationRepo, entityRepo, log)

	engine := newEngine(cfg, log)

	// Root liveness probe for load balancers, outside the versioned API
	engine.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.NewRouter(engine).
		Register(handler.NewHealthHandler(db.DB)).
		Register(handler.NewIntegrationHandler(integrationService, connectionService, syncService)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case sig := <-quit:
		log.Info("Shutdown signal received", zap.String("signal", sig.String()))
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

// newRunLock picks the distributed Redis lock when Redis is enabled and a
// process-local lock otherwise. Single-instance deployments do not need
// Redis for correct run exclusion.
func newRunLock(cfg *config.Config, log *zap.Logger) (erpsync.RunLock, func(), error) {
	if !cfg.Redis.Enabled {
		log.Info("Using in-memory run lock (redis disabled)")
		return cache.NewInMemoryRunLock(), func() {}, nil
	}

	lock, err := cache.NewRedisRunLock(cache.RedisConfig{
		Host:     cfg.Redis.Host,
		Port:     cfg.Redis.Port,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, nil, err
	}

	log.Info("Using redis run lock",
		zap.String("host", cfg.Redis.Host),
		zap.Int("port", cfg.Redis.Port),
	)

	closer := func() {
		if err := lock.Close(); err != nil {
			log.Error("Failed to close redis run lock", zap.Error(err))
		}
	}
	return lock, closer, nil
}

// newEngine builds the gin engine with the middleware chain
func newEngine(cfg *config.Config, log *zap.Logger) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowOrigins = cfg.HTTP.CORSAllowOrigins
	corsCfg.AllowMethods = cfg.HTTP.CORSAllowMethods
	corsCfg.AllowHeaders = cfg.HTTP.CORSAllowHeaders

	engine.Use(
		middleware.RequestID(),
		logger.GinMiddleware(log),
		logger.Recovery(log),
		middleware.Secure(),
		middleware.CORSWithConfig(corsCfg),
		middleware.CompanyMiddleware(),
	)

	return engine
}
