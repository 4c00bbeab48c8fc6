package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"batch-custody-ledger/config"
	httpHandler "batch-custody-ledger/internal/adapter/http/handler"
	pgStorage "batch-custody-ledger/internal/adapter/storage/postgres"
	redisStorage "batch-custody-ledger/internal/adapter/storage/redis"
	"batch-custody-ledger/internal/core/ports"
	"batch-custody-ledger/internal/service"
	"batch-custody-ledger/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Batch Custody Ledger")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	batchRepo := pgStorage.NewBatchRepo(pool)
	channelRepo := pgStorage.NewChannelRepo(pool)
	manufacturerRepo := pgStorage.NewManufacturerRepo(pool)
	identityKeyRepo := pgStorage.NewIdentityKeyRepo(pool)
	eventRepo := pgStorage.NewEventRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Initialize Redis stores
	settlementCache := redisStorage.NewSettlementCache(rdb)
	nonceStore := redisStorage.NewNonceStore(rdb)

	// Initialize core services
	encSvc, err := service.NewAESEncryptionService(cfg.AES.Key)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize encryption service")
	}
	requestSigner := service.NewHMACRequestSigner()
	hashSvc := service.NewArgon2HashService()
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	attestSvc := service.NewHMACAttestationService(identityKeyRepo, encSvc)

	// Token minting collaborator. Without an endpoint configured, mint
	// outcomes are journaled but no external call is made.
	var minter ports.TokenMinter
	if cfg.Mint.Endpoint != "" {
		minter = service.NewHTTPTokenMinter(
			cfg.Mint.Endpoint,
			cfg.Mint.CapabilityKey,
			requestSigner,
			&http.Client{Timeout: 10 * time.Second},
			log,
		)
		log.Info().Str("endpoint", cfg.Mint.Endpoint).Msg("External token minter configured")
	} else {
		minter = service.NewNoopTokenMinter(log)
		log.Warn().Msg("No mint endpoint configured, rewards will be journal-only")
	}

	// Initialize business services
	registrySvc := service.NewRegistryService(batchRepo, eventRepo, transactor, cfg.Ledger.MaxParticipants, log)
	verificationSvc := service.NewVerificationService(batchRepo, eventRepo, transactor, attestSvc, log)
	rewardSvc := service.NewRewardService(batchRepo, eventRepo, transactor, minter, cfg.Ledger.RewardAmount, log)
	settlementSvc := service.NewSettlementService(
		registrySvc,
		channelRepo,
		manufacturerRepo,
		eventRepo,
		transactor,
		attestSvc,
		settlementCache,
		log,
	)
	aggregatorSvc := service.NewAggregatorService(
		settlementSvc,
		channelRepo,
		settlementCache,
		cfg.Ledger.SettleThreshold,
		cfg.Ledger.SettleTimeout,
		log,
	)
	authSvc := service.NewAuthService(manufacturerRepo, identityKeyRepo, hashSvc, encSvc, tokenSvc)
	manufacturerSvc := service.NewManufacturerService(manufacturerRepo, identityKeyRepo, encSvc)

	// Initialize rate limit store
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		AuthSvc:          authSvc,
		RegistrySvc:      registrySvc,
		VerificationSvc:  verificationSvc,
		RewardSvc:        rewardSvc,
		AggregatorSvc:    aggregatorSvc,
		ManufacturerRepo: manufacturerRepo,
		EncSvc:           encSvc,
		RequestSigner:    requestSigner,
		NonceStore:       nonceStore,
		TokenSvc:         tokenSvc,
		RateLimitStore:   rateLimitStore,
		HealthCheckers:   []ports.HealthChecker{pgHealth, redisHealth},
		ManufacturerSvc:  manufacturerSvc,
		Logger:           log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
