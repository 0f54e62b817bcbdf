package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"job-portal-subscriptions/internal/config"
	"job-portal-subscriptions/internal/infra/api"
	pg "job-portal-subscriptions/internal/infra/db/postgres"
	"job-portal-subscriptions/internal/infra/logging"
	"job-portal-subscriptions/internal/infra/metrics"
	pay "job-portal-subscriptions/internal/infra/payment"
	red "job-portal-subscriptions/internal/infra/redis"
	"job-portal-subscriptions/internal/infra/sched"
	"job-portal-subscriptions/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	metrics.MustRegister()

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, cfg.Database.MaxConns)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres")
	}
	defer pool.Close()

	// ---- Redis (fallback ledger journal) ----
	redisClient, err := red.NewClient(ctx, &cfg.Redis)
	if err != nil {
		logger.Fatal().Err(err).Msg("redis")
	}
	defer redisClient.Close()
	journal := red.NewPaymentJournal(redisClient, cfg.Redis.TTL)

	// ---- Repositories ----
	subRepo := pg.NewSubscriptionRepo(pool)
	ledgerRepo := pg.NewPaymentLedgerRepo(pool)
	userRepo := pg.NewUserRepo(pool)
	planRepo := pg.NewPlanRepo(pool)

	// ---- Payment gateway ----
	gateway := pay.NewRazorpayGateway(cfg.Payment.Razorpay.KeyID, cfg.Payment.Razorpay.KeySecret, cfg.Payment.Razorpay.BaseURL)
	verifier := pay.NewRazorpaySignatureVerifier(cfg.Payment.Razorpay.KeySecret)

	// ---- Use cases ----
	planUC := usecase.NewPlanUseCase(planRepo)
	checkoutUC := usecase.NewCheckoutUseCase(subRepo, planRepo, gateway, logger)
	recorder := usecase.NewLedgerRecorder(ledgerRepo, journal, logger)
	entitlement := usecase.NewEntitlementUpdater(userRepo, logger)
	verifyUC := usecase.NewVerificationUseCase(subRepo, planRepo, userRepo, verifier, recorder, entitlement, logger)

	if n, err := planUC.EnsureDefaults(ctx); err != nil {
		logger.Warn().Err(err).Msg("seed default plans")
	} else if n > 0 {
		logger.Info().Int("count", n).Msg("seeded default plans")
	}

	// ---- HTTP server ----
	auth := api.NewAuthManager(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	srv := api.NewServer(checkoutUC, verifyUC, planUC, subRepo, ledgerRepo, auth, logger)
	server := &http.Server{Addr: fmt.Sprintf(":%d", cfg.Server.Port), Handler: srv.Router()}
	go func() {
		logger.Info().Str("addr", server.Addr).Msg("http server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error().Err(err).Msg("http server")
		}
	}()

	// ---- Background workers ----
	reconciler := sched.NewLedgerReconciler(ledgerRepo, journal, entitlement, cfg.Scheduler.ReconcileInterval, logger)
	go func() { _ = reconciler.Run(ctx) }()

	expiry := sched.NewExpiryWorker(subRepo, userRepo, pg.NewTxManager(pool), cfg.Scheduler.ExpiryInterval, logger)
	go func() { _ = expiry.Run(ctx) }()

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()
	_ = server.Shutdown(context.Background())
}
