package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	httpAdapter "github.com/kovai/pawnbook/internal/adapter/http"
	"github.com/kovai/pawnbook/internal/adapter/http/handler"
	"github.com/kovai/pawnbook/internal/adapter/http/middleware"
	postgresRepo "github.com/kovai/pawnbook/internal/adapter/repository/postgres"
	redisRepo "github.com/kovai/pawnbook/internal/adapter/repository/redis"
	"github.com/kovai/pawnbook/internal/infrastructure/auth"
	"github.com/kovai/pawnbook/internal/infrastructure/config"
	"github.com/kovai/pawnbook/internal/infrastructure/logger"
	"github.com/kovai/pawnbook/internal/infrastructure/metrics"
	"github.com/kovai/pawnbook/internal/infrastructure/postgres"
	"github.com/kovai/pawnbook/internal/infrastructure/redis"
	"github.com/kovai/pawnbook/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Setup logger
	zlog := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	log.Logger = zlog

	ctx := context.Background()

	// Connect to PostgreSQL
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Connect to Redis
	redisClient, err := redis.NewClient(ctx, cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer redisClient.Close()
	log.Info().Msg("connected to redis")

	// Initialize repositories
	txManager := postgresRepo.NewTxManager(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	entryRepo := postgresRepo.NewEntryRepository(pool)
	pledgeRepo := postgresRepo.NewPledgeRepository(pool)
	receiptRepo := postgresRepo.NewReceiptRepository(pool)
	bankRepo := postgresRepo.NewBankPledgeRepository(pool)
	expenseRepo := postgresRepo.NewExpenseRepository(pool)
	voucherRepo := postgresRepo.NewVoucherRepository(pool)
	seqRepo := postgresRepo.NewSequenceRepository(pool)
	retrier := postgresRepo.NewRetrier()
	idGen := postgresRepo.NewULIDGenerator()
	idempotencyStore := redisRepo.NewIdempotencyStore(redisClient)
	cache := redisRepo.NewCache(redisClient)

	// Initialize use cases
	engine := usecase.NewLedgerEngine(accountRepo, entryRepo, idGen)
	chartUC := usecase.NewChartUseCase(txManager, accountRepo, entryRepo, idGen)
	ledgerUC := usecase.NewLedgerUseCase(entryRepo, accountRepo, cache)
	pledgeUC := usecase.NewPledgeUseCase(txManager, pledgeRepo, receiptRepo, engine, seqRepo, idGen, retrier)
	receiptUC := usecase.NewReceiptUseCase(txManager, receiptRepo, pledgeRepo, engine, seqRepo, idGen, retrier)
	bankUC := usecase.NewBankPledgeUseCase(txManager, bankRepo, pledgeRepo, receiptRepo, engine, seqRepo, idGen, retrier)
	expenseUC := usecase.NewExpenseUseCase(txManager, expenseRepo, engine, seqRepo, idGen, retrier)
	voucherUC := usecase.NewVoucherUseCase(txManager, voucherRepo, engine, seqRepo, idGen, retrier)

	// Initialize handlers
	m := metrics.New()
	accountHandler := handler.NewAccountHandler(chartUC, m)
	ledgerHandler := handler.NewLedgerHandler(ledgerUC, m)
	pledgeHandler := handler.NewPledgeHandler(pledgeUC, m)
	receiptHandler := handler.NewReceiptHandler(receiptUC, m)
	bankHandler := handler.NewBankPledgeHandler(bankUC, m)
	expenseHandler := handler.NewExpenseHandler(expenseUC, m)
	voucherHandler := handler.NewVoucherHandler(voucherUC, m)
	healthHandler := handler.NewHealthHandler(pool, redisClient)

	var jwtManager *auth.JWTManager
	if cfg.AuthEnabled && cfg.JWTSecret != "" {
		jwtManager = auth.NewJWTManager(cfg.JWTSecret, cfg.JWTExpiration)
		log.Info().Msg("authentication enabled")
	}

	rateLimiter := middleware.NewRateLimiter(float64(cfg.RateLimitPerMinute)/60.0, cfg.RateLimitPerMinute)

	cleanupDone := make(chan struct{})
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rateLimiter.CleanupStale()
			case <-cleanupDone:
				return
			}
		}
	}()
	defer close(cleanupDone)

	// Create router
	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		AccountHandler:    accountHandler,
		LedgerHandler:     ledgerHandler,
		PledgeHandler:     pledgeHandler,
		ReceiptHandler:    receiptHandler,
		BankPledgeHandler: bankHandler,
		ExpenseHandler:    expenseHandler,
		VoucherHandler:    voucherHandler,
		HealthHandler:     healthHandler,
		IdempotencyStore:  idempotencyStore,
		IdempotencyTTL:    cfg.IdempotencyTTL,
		JWTManager:        jwtManager,
		RateLimiter:       rateLimiter,
		Logger:            zlog,
		DefaultCompanyID:  cfg.DefaultCompanyID,
	})

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler:      router,
		ReadTimeout:  cfg.HTTPReadTimeout,
		WriteTimeout: cfg.HTTPWriteTimeout,
		IdleTimeout:  cfg.HTTPIdleTimeout,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("starting server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
