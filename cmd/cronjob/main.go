package main

import (
	"database/sql"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"rentvault-backend/internal/clock"
	"rentvault-backend/internal/config"
	"rentvault-backend/internal/jobs"
	"rentvault-backend/internal/logger"
	"rentvault-backend/internal/payment"
	"rentvault-backend/internal/repository/postgres"
	"rentvault-backend/internal/scheduler"
	"rentvault-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'activate-due-bookings', 'all')")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting RentVault cronjob runner...", "log_level", cfg.Log.Level)

	// The standalone runner shares state with the API server through
	// the database, so the memory driver cannot back it.
	if cfg.Database.Driver != "postgres" {
		log.Fatalf("Cronjob runner requires the postgres driver, got %q", cfg.Database.Driver)
	}

	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)

	guard := service.NewOpGuard()
	bookingSvc := service.NewBookingService(
		store.BookingRepository,
		store.AssetRepository,
		store.LedgerRepository,
		store.ParamsRepository,
		payment.NoopGateway{},
		clock.SystemClock{},
		guard,
	)

	jobRunner := jobs.NewJobRunner(bookingSvc, store.BookingRepository, cfg)

	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	cronScheduler := scheduler.NewScheduler(jobRunner)
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutting down cronjob scheduler...")
	cronScheduler.Stop()
	logger.Info("Cronjob scheduler stopped")
}

func runJobOnce(jobRunner *jobs.JobRunner, jobName string) {
	switch jobName {
	case "activate-due-bookings":
		jobRunner.ActivateDueBookings()
	case "complete-elapsed-bookings":
		jobRunner.CompleteElapsedBookings()
	case "all":
		jobRunner.RunAllSweeps()
	default:
		logger.Error("Unknown job name", "job", jobName)
		fmt.Printf("Available jobs:\n")
		fmt.Printf("  - activate-due-bookings\n")
		fmt.Printf("  - complete-elapsed-bookings\n")
		fmt.Printf("  - all\n")
		os.Exit(1)
	}
}
