package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bive/backend/docs"
	"github.com/bive/backend/internal/audit"
	"github.com/bive/backend/internal/config"
	"github.com/bive/backend/internal/database"
	"github.com/bive/backend/internal/handlers"
	"github.com/bive/backend/internal/logger"
	mW "github.com/bive/backend/internal/middleware"
	"github.com/bive/backend/internal/services"
	"github.com/bive/backend/internal/store"
	"github.com/bive/backend/internal/store/memory"
	"github.com/bive/backend/internal/store/mongo"
	"github.com/bive/backend/internal/store/postgres"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

// @title Blood Credit Ledger API
// @version 1.0
// @description Credits, consent and inventory ledger for blood donation networks
// @host localhost:8080
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Environment: logger.Environment(cfg.Log.Environment),
		Level:       cfg.Log.Level,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if err := run(cfg, log); err != nil {
		log.Fatal("Server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx := context.Background()

	ledgerStore, err := openStore(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := ledgerStore.Close(closeCtx); err != nil {
			log.Warn("Store close failed", zap.Error(err))
		}
	}()

	// A nil *redis.Client inside the interface would look configured.
	var redisClient redis.Cmdable
	if rdb := database.OpenRedis(ctx, cfg.Redis, log); rdb != nil {
		redisClient = rdb
		defer rdb.Close()
	}

	docs.SwaggerInfo.Title = "Blood Credit Ledger API"
	docs.SwaggerInfo.Version = "1.0"
	docs.SwaggerInfo.BasePath = "/api/v1"
	if u, err := url.Parse(cfg.Server.PublicURL); err == nil && u.Host != "" {
		docs.SwaggerInfo.Host = u.Host
	}

	coordinator := services.NewCoordinator(ledgerStore, log).WithTimeout(cfg.Ledger.OperationTimeout)
	validator := services.NewValidationHelper()
	auditLogger := audit.NewLogger(log)

	donationService := services.NewDonationService(coordinator, validator, auditLogger, log)
	consentService := services.NewConsentService(coordinator, validator, auditLogger, log)
	emergencyService := services.NewEmergencyService(coordinator, validator, auditLogger, log)
	exchangeService := services.NewExchangeService(coordinator, validator, auditLogger, log)
	ledgerService := services.NewLedgerService(ledgerStore, log)
	qrService := services.NewQRService(consentService)

	router := &handlers.Router{
		Donations:      handlers.NewDonationHandler(donationService, log),
		Consents:       handlers.NewConsentHandler(consentService, log),
		QR:             handlers.NewQRHandler(qrService, consentService, cfg.Server.PublicURL, log),
		Emergency:      handlers.NewEmergencyHandler(emergencyService, log),
		Exchanges:      handlers.NewExchangeHandler(exchangeService, log),
		Ledger:         handlers.NewLedgerHandler(ledgerService, log),
		Health:         handlers.NewHealthHandler(ledgerStore, redisClient, log),
		Idempotency:    mW.NewIdempotency(redisClient, cfg.Idempotency.TTL, log),
		JWTSecret:      []byte(cfg.JWT.SecretKey),
		AllowedOrigins: cfg.Server.AllowedOrigins,
		RequestTimeout: 60 * time.Second,
		Logger:         log,
	}

	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router.Handler(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", server.Addr), zap.String("store", cfg.Store.Driver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return err
	case <-quit:
	}

	log.Info("Server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	log.Info("Server stopped")
	return nil
}

func openStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (store.Store, error) {
	switch cfg.Store.Driver {
	case config.DriverPostgres:
		db, err := database.OpenPostgres(ctx, cfg.Database, log)
		if err != nil {
			return nil, err
		}
		if err := postgres.Migrate(ctx, db, log); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("migrate: %w", err)
		}
		return postgres.New(db, log), nil

	case config.DriverMongo:
		client, err := database.OpenMongo(ctx, cfg.Mongo, log)
		if err != nil {
			return nil, err
		}
		s := mongo.New(client, cfg.Mongo.Database, log)
		if err := s.EnsureIndexes(ctx); err != nil {
			_ = s.Close(ctx)
			return nil, fmt.Errorf("ensure indexes: %w", err)
		}
		return s, nil

	case config.DriverMemory:
		log.Warn("Using in-memory store; data is lost on restart")
		return memory.New(), nil
	}
	return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
}
