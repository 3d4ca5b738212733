package jobs

import (
	"context"
	"errors"

	"rentvault-backend/internal/domain"
	"rentvault-backend/internal/logger"
)

// ActivateDueBookings activates booked rentals whose start time has
// arrived, acting as the relayer.
func (jr *JobRunner) ActivateDueBookings() {
	jr.runWithRecovery("ActivateDueBookings", func() {
		ctx := context.Background()

		booked, err := jr.bookingRepo.ListInState(ctx, domain.BookingStateBooked)
		if err != nil {
			logger.Error("Failed to list booked rentals", "error", err)
			return
		}

		count := 0
		for _, b := range booked {
			if _, err := jr.bookings.ActivateBooking(ctx, sweeper, b.ID); err != nil {
				// Not yet due, or another caller got there first.
				if errors.Is(err, domain.ErrTooEarly) || errors.Is(err, domain.ErrInvalidState) ||
					errors.Is(err, domain.ErrOperationInProgress) {
					continue
				}
				logger.Error("Failed to activate booking", "booking_id", b.ID, "error", err)
				continue
			}
			count++
		}

		logger.Info("Activated due bookings", "count", count)
	})
}

// CompleteElapsedBookings completes bookings whose rental period has
// fully elapsed. Completion is permissionless, so the sweep settles
// rentals even when neither party shows up to do it.
func (jr *JobRunner) CompleteElapsedBookings() {
	jr.runWithRecovery("CompleteElapsedBookings", func() {
		ctx := context.Background()

		count := 0
		for _, state := range []domain.BookingState{domain.BookingStateBooked, domain.BookingStateActive} {
			bookings, err := jr.bookingRepo.ListInState(ctx, state)
			if err != nil {
				logger.Error("Failed to list bookings", "state", state, "error", err)
				continue
			}

			for _, b := range bookings {
				if _, err := jr.bookings.CompleteBooking(ctx, sweeper, b.ID); err != nil {
					if errors.Is(err, domain.ErrTooEarly) || errors.Is(err, domain.ErrInvalidState) ||
						errors.Is(err, domain.ErrOperationInProgress) {
						continue
					}
					logger.Error("Failed to complete booking", "booking_id", b.ID, "error", err)
					continue
				}
				count++
			}
		}

		logger.Info("Completed elapsed bookings", "count", count)
	})
}

// RunAllSweeps runs every sweep once (for manual execution).
func (jr *JobRunner) RunAllSweeps() {
	jr.ActivateDueBookings()
	jr.CompleteElapsedBookings()
}
