package jobs

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentvault-backend/internal/clock"
	"rentvault-backend/internal/config"
	"rentvault-backend/internal/domain"
	"rentvault-backend/internal/payment"
	"rentvault-backend/internal/repository/memory"
	"rentvault-backend/internal/service"
)

const baseTime = int64(1_700_000_000)

func newRunner(t *testing.T) (*JobRunner, *memory.Store, *clock.FakeClock) {
	t.Helper()
	store := memory.NewStore(domain.Params{
		PlatformFeeRateBps: 300,
		InsuranceRateBps:   500,
		TreasuryAccount:    "treasury",
	})
	clk := clock.NewFakeClock(baseTime)
	bookings := service.NewBookingService(
		store.BookingRepository,
		store.AssetRepository,
		store.LedgerRepository,
		store.ParamsRepository,
		payment.NoopGateway{},
		clk,
		service.NewOpGuard(),
	)
	return NewJobRunner(bookings, store.BookingRepository, &config.Config{}), store, clk
}

// seedBooking stores an asset and a booked rental starting at the given
// time, bypassing the booking operation so the sweep is tested in
// isolation.
func seedBooking(t *testing.T, store *memory.Store, start int64, hours int32) *domain.Booking {
	t.Helper()
	ctx := context.Background()
	asset := &domain.Asset{Owner: "owner", PricePerHour: 100, Available: true}
	require.NoError(t, store.AssetRepository.Create(ctx, asset))

	rental := int64(100) * int64(hours)
	booking := &domain.Booking{
		AssetID:         asset.ID,
		Renter:          "renter",
		StartTime:       start,
		HoursBooked:     hours,
		RentalAmount:    rental,
		InsuranceAmount: rental * 500 / 10000,
		State:           domain.BookingStateBooked,
	}
	require.NoError(t, store.BookingRepository.Create(ctx, booking))
	require.NoError(t, store.LedgerRepository.ReceiveBookingPayment(ctx, booking.RentalAmount, booking.InsuranceAmount))
	return booking
}

func TestActivateDueBookings(t *testing.T) {
	runner, store, clk := newRunner(t)
	ctx := context.Background()

	due := seedBooking(t, store, baseTime, 2)
	notDue := seedBooking(t, store, baseTime+7200, 2)

	clk.Set(baseTime + 60)
	runner.ActivateDueBookings()

	got, err := store.BookingRepository.GetByID(ctx, due.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStateActive, got.State)

	got, err = store.BookingRepository.GetByID(ctx, notDue.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStateBooked, got.State)
}

func TestCompleteElapsedBookings(t *testing.T) {
	runner, store, clk := newRunner(t)
	ctx := context.Background()

	// One active and one still booked, both past their end.
	activeElapsed := seedBooking(t, store, baseTime, 1)
	require.NoError(t, store.BookingRepository.UpdateState(ctx, activeElapsed.ID, domain.BookingStateBooked, domain.BookingStateActive))
	bookedElapsed := seedBooking(t, store, baseTime, 1)
	running := seedBooking(t, store, baseTime, 10)

	clk.Set(baseTime + 2*domain.SecondsPerHour)
	runner.CompleteElapsedBookings()

	for _, id := range []int64{activeElapsed.ID, bookedElapsed.ID} {
		got, err := store.BookingRepository.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStateCompleted, got.State)
	}

	got, err := store.BookingRepository.GetByID(ctx, running.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.BookingStateBooked, got.State)

	// Settled payouts landed with the owner: 2 bookings x 97.
	payout, err := store.LedgerRepository.Withdrawable(ctx, "owner")
	require.NoError(t, err)
	assert.Equal(t, int64(194), payout)
}

func TestSweepsSurvivePanics(t *testing.T) {
	runner, _, _ := newRunner(t)
	assert.NotPanics(t, func() {
		runner.runWithRecovery("Boom", func() { panic("job blew up") })
	})
}
