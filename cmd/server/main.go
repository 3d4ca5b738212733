package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	httpapi "rentvault-backend/internal/api/http"
	"rentvault-backend/internal/clock"
	"rentvault-backend/internal/config"
	"rentvault-backend/internal/jobs"
	"rentvault-backend/internal/logger"
	"rentvault-backend/internal/metrics"
	"rentvault-backend/internal/payment"
	"rentvault-backend/internal/repository"
	"rentvault-backend/internal/repository/memory"
	"rentvault-backend/internal/repository/postgres"
	"rentvault-backend/internal/scheduler"
	"rentvault-backend/internal/security"
	"rentvault-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting RentVault backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Storage configuration", "driver", cfg.Database.Driver)

	store, closeStore, err := openStore(cfg)
	if err != nil {
		logger.Error("Failed to open storage backend", "error", err)
		log.Fatalf("Failed to open storage backend: %v", err)
	}
	defer closeStore()

	// All mutating engine operations share one guard so settlement
	// pre-checks can never act on stale balances.
	guard := service.NewOpGuard()
	clk := clock.SystemClock{}
	gateway := payment.NoopGateway{}

	registrySvc := service.NewRegistryService(store.Assets, store.Params, clk, guard)
	bookingSvc := service.NewBookingService(store.Bookings, store.Assets, store.Ledger, store.Params, gateway, clk, guard)
	insuranceSvc := service.NewInsuranceService(store.Bookings, store.Assets, store.Ledger, guard)
	ledgerSvc := service.NewLedgerService(store.Ledger, store.Params, gateway, guard)
	governanceSvc := service.NewGovernanceService(store.Params, guard)

	metrics.RegisterLedgerGauges(store.Ledger.Balances)

	tokenManager := security.NewTokenManager(cfg.JWT.Secret)
	apiKeys := security.NewAPIKeyVerifier(cfg.APIKeys)

	router := httpapi.NewRouter(httpapi.RouterDeps{
		Registry:   registrySvc,
		Bookings:   bookingSvc,
		Insurance:  insuranceSvc,
		Ledger:     ledgerSvc,
		Governance: governanceSvc,
		Tokens:     tokenManager,
		APIKeys:    apiKeys,
	})

	jobRunner := jobs.NewJobRunner(bookingSvc, store.Bookings, cfg)
	sched := scheduler.NewScheduler(jobRunner)
	sched.Start()
	defer sched.Stop()

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("HTTP server failed", "error", err)
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.Info("Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}

// engineStore groups the four repositories regardless of backend.
type engineStore struct {
	Assets   repository.AssetRepository
	Bookings repository.BookingRepository
	Ledger   repository.LedgerRepository
	Params   repository.ParamsRepository
}

func openStore(cfg *config.Config) (*engineStore, func(), error) {
	if cfg.Database.Driver == "postgres" {
		db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
		if err != nil {
			return nil, nil, err
		}
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, nil, err
		}
		logger.Info("Database connection established")

		store := postgres.NewStore(db)
		return &engineStore{
			Assets:   store.AssetRepository,
			Bookings: store.BookingRepository,
			Ledger:   store.LedgerRepository,
			Params:   store.ParamsRepository,
		}, func() { db.Close() }, nil
	}

	store := memory.NewStore(cfg.InitialParams())
	return &engineStore{
		Assets:   store.AssetRepository,
		Bookings: store.BookingRepository,
		Ledger:   store.LedgerRepository,
		Params:   store.ParamsRepository,
	}, func() {}, nil
}
