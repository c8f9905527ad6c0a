package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tutor-settlement/config"
	httpHandler "tutor-settlement/internal/adapter/http/handler"
	pgStorage "tutor-settlement/internal/adapter/storage/postgres"
	redisStorage "tutor-settlement/internal/adapter/storage/redis"
	"tutor-settlement/internal/core/ports"
	"tutor-settlement/internal/service"
	"tutor-settlement/internal/task"
	"tutor-settlement/pkg/logger"
)

func main() {
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Msg("Starting Tutor Settlement Engine")

	ctx, stop := context.WithCancel(context.Background())
	defer stop()

	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Repositories
	txRepo := pgStorage.NewTransactionRepo(pool)
	workflowRepo := pgStorage.NewWorkflowRepo(pool)
	unsettledRepo := pgStorage.NewUnsettledRepo(pool)
	feePolicyRepo := pgStorage.NewFeePolicyRepo(pool)
	bookingRepo := pgStorage.NewBookingRepo(pool)
	enrollmentRepo := pgStorage.NewEnrollmentRepo(pool)
	paymentMethodRepo := pgStorage.NewPaymentMethodRepo(pool)
	gatewayEventRepo := pgStorage.NewGatewayEventRepo(pool)
	auditRepo := pgStorage.NewAuditRepo(pool)
	transactor := pgStorage.NewTransactor(pool)

	// Redis stores
	eventCache := redisStorage.NewGatewayEventCache(rdb)
	ledgerCache := redisStorage.NewLedgerCache(rdb)
	workflowLock := redisStorage.NewWorkflowLock(rdb)
	rateLimitStore := redisStorage.NewRateLimitStore(rdb)

	sc := cfg.Settlement
	settings := service.Settings{
		BatchSize:           sc.BatchSize,
		Workers:             sc.Workers,
		LockTTL:             sc.LockTTL,
		CancellationWindow:  sc.CancellationWindow,
		RefundDelay:         sc.RefundDelay,
		CompletionDelay:     sc.CompletionDelay,
		MaxProcessingErrors: sc.MaxProcessingErrors,
	}
	defaultPolicy, err := service.ParseDefaultPolicy(
		sc.DefaultPolicy.FeePercentage,
		sc.DefaultPolicy.MinimumFee,
		sc.DefaultPolicy.MaximumFee,
		sc.DefaultPolicy.PayoutWaitHour,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid default fee policy")
	}

	// Core services
	tokenSvc := service.NewJWTTokenService(cfg.JWT.Secret, cfg.JWT.Expiry, cfg.JWT.Issuer)
	auditSvc := service.NewAuditService(auditRepo, log)
	ledger := service.NewCachedLedger(service.NewLedgerService(txRepo, log), ledgerCache, sc.LedgerCacheTTL, log)
	feePolicySvc := service.NewFeePolicyService(feePolicyRepo, transactor, defaultPolicy, log)
	unsettledSvc := service.NewUnsettledService(unsettledRepo, log)
	workflowSvc := service.NewWorkflowService(
		workflowRepo, txRepo, ledger, feePolicySvc, unsettledSvc, workflowLock, transactor, settings, log,
	)
	sweeper := service.NewSettlementSweeper(workflowSvc, settings, logger.Component(log, "sweeper"))
	payoutSvc := service.NewPayoutService(
		txRepo, paymentMethodRepo, ledger, unsettledSvc, transactor, settings, logger.Component(log, "payouts"),
	)
	cancellationSvc := service.NewCancellationService(bookingRepo, enrollmentRepo, txRepo, workflowSvc, transactor, settings, log)
	gatewaySvc := service.NewGatewayEventService(
		ledger, txRepo, gatewayEventRepo, eventCache, bookingRepo, enrollmentRepo,
		feePolicySvc, workflowSvc, unsettledSvc, transactor, settings, logger.Component(log, "gateway"),
	)
	financeSvc := service.NewFinanceService(txRepo, unsettledRepo)

	// Background settlement jobs
	jobLog := logger.Component(log, "scheduler")
	scheduler, err := task.NewScheduler(jobLog)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create scheduler")
	}
	if err := scheduler.Every(ctx, sc.SweepInterval, task.NewSettlementSweepJob(sweeper, jobLog)); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule settlement sweep")
	}
	if err := scheduler.Every(ctx, sc.PayoutInterval, task.NewPayoutBatchJob(payoutSvc, jobLog)); err != nil {
		log.Fatal().Err(err).Msg("Failed to schedule payout batch")
	}
	scheduler.Start()
	log.Info().Strs("jobs", scheduler.JobNames()).Msg("Settlement scheduler started")

	// Health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	specBytes, err := os.ReadFile("docs/api/openapi.yaml")
	if err != nil {
		log.Warn().Err(err).Msg("OpenAPI document not found, /swagger will answer 404")
	} else {
		log.Info().Int("bytes", len(specBytes)).Msg("OpenAPI document loaded for /swagger")
	}
	if cfg.Gateway.SigningSecret == "" {
		log.Warn().Msg("gateway.signing_secret is empty, gateway callbacks are not authenticated")
	}

	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		GatewaySvc:      gatewaySvc,
		CancellationSvc: cancellationSvc,
		Ledger:          ledger,
		FeePolicySvc:    feePolicySvc,
		FinanceSvc:      financeSvc,
		UnsettledSvc:    unsettledSvc,
		WorkflowSvc:     workflowSvc,
		TokenSvc:        tokenSvc,
		GatewaySecret:   cfg.Gateway.SigningSecret,
		RateLimitStore:  rateLimitStore,
		HealthCheckers:  []ports.HealthChecker{pgHealth, redisHealth},
		AuditSvc:        auditSvc,
		OpenAPISpec:     specBytes,
		Logger:          log,
	})

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

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

	// Cancel in-flight runs, then wait for the scheduler to drain.
	stop()
	if err := scheduler.Shutdown(); err != nil {
		log.Error().Err(err).Msg("Scheduler shutdown failed")
	}

	log.Info().Msg("Server exited")
}
