package jobs

import (
	"rentvault-backend/internal/config"
	"rentvault-backend/internal/logger"
	"rentvault-backend/internal/repository"
	"rentvault-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs.
type JobRunner struct {
	bookings    service.BookingService
	bookingRepo repository.BookingRepository
	config      *config.Config
}

// NewJobRunner creates a new job runner with all dependencies.
func NewJobRunner(bookings service.BookingService, bookingRepo repository.BookingRepository, cfg *config.Config) *JobRunner {
	return &JobRunner{
		bookings:    bookings,
		bookingRepo: bookingRepo,
		config:      cfg,
	}
}

// Config exposes the runner's configuration for schedule registration.
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// sweeper is the caller identity the jobs act under. It holds the
// relayer capability only, so a sweep can never perform renter- or
// admin-only transitions.
var sweeper = service.Caller{Account: "scheduler", Relayer: true}

// runWithRecovery wraps job execution with panic recovery.
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}
