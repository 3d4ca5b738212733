package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentvault-backend/internal/clock"
	"rentvault-backend/internal/domain"
	"rentvault-backend/internal/payment"
	"rentvault-backend/internal/repository/memory"
	"rentvault-backend/internal/service"
)

const baseTime = int64(1_700_000_000)

// stubGateway records transfers and can be programmed to fail or to
// run a callback on release.
type stubGateway struct {
	collectErr error
	releaseErr error
	onCollect  func(ctx context.Context, account string, amount int64) error
	onRelease  func(ctx context.Context, account string, amount int64) error
	collected  int64
	released   int64
}

func (g *stubGateway) Collect(ctx context.Context, account string, amount int64) error {
	if g.onCollect != nil {
		if err := g.onCollect(ctx, account, amount); err != nil {
			return err
		}
	}
	if g.collectErr != nil {
		return g.collectErr
	}
	g.collected += amount
	return nil
}

func (g *stubGateway) Release(ctx context.Context, account string, amount int64) error {
	if g.onRelease != nil {
		if err := g.onRelease(ctx, account, amount); err != nil {
			return err
		}
	}
	if g.releaseErr != nil {
		return g.releaseErr
	}
	g.released += amount
	return nil
}

var _ payment.Gateway = (*stubGateway)(nil)

type fixture struct {
	store      *memory.Store
	clk        *clock.FakeClock
	gw         *stubGateway
	registry   service.RegistryService
	bookings   service.BookingService
	insurance  service.InsuranceService
	ledger     service.LedgerService
	governance service.GovernanceService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore(domain.Params{
		PlatformFeeRateBps: 300,
		InsuranceRateBps:   500,
		TreasuryAccount:    "treasury",
	})
	clk := clock.NewFakeClock(baseTime)
	gw := &stubGateway{}
	guard := service.NewOpGuard()

	return &fixture{
		store:      store,
		clk:        clk,
		gw:         gw,
		registry:   service.NewRegistryService(store.AssetRepository, store.ParamsRepository, clk, guard),
		bookings:   service.NewBookingService(store.BookingRepository, store.AssetRepository, store.LedgerRepository, store.ParamsRepository, gw, clk, guard),
		insurance:  service.NewInsuranceService(store.BookingRepository, store.AssetRepository, store.LedgerRepository, guard),
		ledger:     service.NewLedgerService(store.LedgerRepository, store.ParamsRepository, gw, guard),
		governance: service.NewGovernanceService(store.ParamsRepository, guard),
	}
}

var (
	owner  = service.Caller{Account: "owner"}
	renter = service.Caller{Account: "renter"}
	admin  = service.Caller{Account: "root", Admin: true}
)

// registerAsset registers a 100-per-hour asset owned by "owner".
func (f *fixture) registerAsset(t *testing.T) *domain.Asset {
	t.Helper()
	asset, err := f.registry.RegisterAsset(context.Background(), owner, 100)
	require.NoError(t, err)
	return asset
}

// book creates a 2-hour booking one hour out at the standard rates:
// rental 200, premium 10, total 210.
func (f *fixture) book(t *testing.T, assetID int64) *domain.Booking {
	t.Helper()
	booking, err := f.bookings.BookAsset(context.Background(), renter, assetID, baseTime+3600, 2, 210)
	require.NoError(t, err)
	return booking
}

// checkConservation asserts the ledger identity: everything received is
// pool, accrued fees, held rental, withdrawable or withdrawn.
func (f *fixture) checkConservation(t *testing.T, accounts ...string) {
	t.Helper()
	ctx := context.Background()
	b, err := f.store.LedgerRepository.Balances(ctx)
	require.NoError(t, err)

	var sumWithdrawable int64
	for _, acct := range accounts {
		v, err := f.store.LedgerRepository.Withdrawable(ctx, acct)
		require.NoError(t, err)
		sumWithdrawable += v
	}
	assert.Equal(t, b.TotalReceived,
		b.InsurancePool+b.PlatformFeesAccrued+b.HeldRental+sumWithdrawable+b.TotalWithdrawn,
		"conservation identity violated")
	assert.GreaterOrEqual(t, b.HeldRental, int64(0))
}

func TestBookAsset(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		f := newFixture(t)
		asset := f.registerAsset(t)

		booking := f.book(t, asset.ID)
		assert.Equal(t, domain.BookingStateBooked, booking.State)
		assert.Equal(t, int64(200), booking.RentalAmount)
		assert.Equal(t, int64(10), booking.InsuranceAmount)
		assert.Equal(t, int64(210), f.gw.collected)

		b, err := f.ledger.Balances(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int64(10), b.InsurancePool)
		assert.Equal(t, int64(200), b.HeldRental)
		assert.Equal(t, int64(210), b.TotalReceived)
		f.checkConservation(t, "owner", "renter")
	})

	t.Run("WrongPayment", func(t *testing.T) {
		f := newFixture(t)
		asset := f.registerAsset(t)

		_, err := f.bookings.BookAsset(context.Background(), renter, asset.ID, baseTime+3600, 2, 209)
		assert.ErrorIs(t, err, domain.ErrWrongPayment)
	})

	t.Run("HoursOutOfRange", func(t *testing.T) {
		f := newFixture(t)
		asset := f.registerAsset(t)

		_, err := f.bookings.BookAsset(context.Background(), renter, asset.ID, baseTime+3600, 0, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidHours)

		_, err = f.bookings.BookAsset(context.Background(), renter, asset.ID, baseTime+3600, domain.MaxBookingHours+1, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidHours)
	})

	t.Run("StartInPast", func(t *testing.T) {
		f := newFixture(t)
		asset := f.registerAsset(t)

		_, err := f.bookings.BookAsset(context.Background(), renter, asset.ID, baseTime-1, 2, 210)
		assert.ErrorIs(t, err, domain.ErrStartInPast)
	})

	t.Run("Unavailable", func(t *testing.T) {
		f := newFixture(t)
		asset := f.registerAsset(t)
		_, err := f.registry.UpdateAsset(context.Background(), owner, asset.ID, 100, false)
		require.NoError(t, err)

		_, err = f.bookings.BookAsset(context.Background(), renter, asset.ID, baseTime+3600, 2, 210)
		assert.ErrorIs(t, err, domain.ErrAssetUnavailable)
	})

	t.Run("AssetNotFound", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.bookings.BookAsset(context.Background(), renter, 42, baseTime+3600, 2, 210)
		assert.ErrorIs(t, err, domain.ErrAssetNotFound)
	})

	t.Run("CollectFailureLeavesNoTrace", func(t *testing.T) {
		f := newFixture(t)
		asset := f.registerAsset(t)
		f.gw.collectErr = assert.AnError

		_, err := f.bookings.BookAsset(context.Background(), renter, asset.ID, baseTime+3600, 2, 210)
		assert.ErrorIs(t, err, domain.ErrTransferFailed)

		b, berr := f.ledger.Balances(context.Background())
		require.NoError(t, berr)
		assert.Zero(t, b.TotalReceived)
	})
}

func TestBookingFrozenPricing(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	asset := f.registerAsset(t)
	booking := f.book(t, asset.ID)

	// Raising the price after booking must not touch the frozen amounts.
	_, err := f.registry.UpdateAsset(ctx, owner, asset.ID, 1000, true)
	require.NoError(t, err)
	err = f.governance.SetInsuranceRate(ctx, admin, 2000)
	require.NoError(t, err)

	got, err := f.bookings.GetBooking(ctx, booking.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(200), got.RentalAmount)
	assert.Equal(t, int64(10), got.InsuranceAmount)

	// Settlement still uses the frozen rental with the current fee rate.
	f.clk.Set(baseTime + 3600 + 2*domain.SecondsPerHour)
	_, err = f.bookings.CompleteBooking(ctx, service.Caller{Account: "anyone"}, booking.ID)
	require.NoError(t, err)

	payout, err := f.ledger.Withdrawable(ctx, "owner")
	require.NoError(t, err)
	assert.Equal(t, int64(194), payout)
}

func TestActivateBooking(t *testing.T) {
	t.Run("RenterAtStart", func(t *testing.T) {
		f := newFixture(t)
		asset := f.registerAsset(t)
		booking := f.book(t, asset.ID)

		f.clk.Set(baseTime + 3600)
		got, err := f.bookings.ActivateBooking(context.Background(), renter, booking.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStateActive, got.State)
	})

	t.Run("TooEarly", func(t *testing.T) {
		f := newFixture(t)
		asset := f.registerAsset(t)
		booking := f.book(t, asset.ID)

		_, err := f.bookings.ActivateBooking(context.Background(), renter, booking.ID)
		assert.ErrorIs(t, err, domain.ErrTooEarly)
	})

	t.Run("StrangerRejected", func(t *testing.T) {
		f := newFixture(t)
		asset := f.registerAsset(t)
		booking := f.book(t, asset.ID)

		f.clk.Set(baseTime + 3600)
		_, err := f.bookings.ActivateBooking(context.Background(), service.Caller{Account: "stranger"}, booking.ID)
		assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	})

	t.Run("RelayerAllowed", func(t *testing.T) {
		f := newFixture(t)
		asset := f.registerAsset(t)
		booking := f.book(t, asset.ID)

		f.clk.Set(baseTime + 3600)
		_, err := f.bookings.ActivateBooking(context.Background(), service.Caller{Account: "sweeper", Relayer: true}, booking.ID)
		assert.NoError(t, err)
	})

	t.Run("OnlyFromBooked", func(t *testing.T) {
		f := newFixture(t)
		asset := f.registerAsset(t)
		booking := f.book(t, asset.ID)

		f.clk.Set(baseTime + 3600)
		_, err := f.bookings.ActivateBooking(context.Background(), renter, booking.ID)
		require.NoError(t, err)
		_, err = f.bookings.ActivateBooking(context.Background(), renter, booking.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})
}

func TestCompleteBooking(t *testing.T) {
	t.Run("SettlementSplit", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		asset := f.registerAsset(t)
		booking := f.book(t, asset.ID)

		f.clk.Set(baseTime + 3600)
		_, err := f.bookings.ActivateBooking(ctx, renter, booking.ID)
		require.NoError(t, err)

		f.clk.Set(booking.EndTime())
		got, err := f.bookings.CompleteBooking(ctx, service.Caller{Account: "anyone"}, booking.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStateCompleted, got.State)

		// fee = 200 * 300bps = 6, payout = 194
		b, err := f.ledger.Balances(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(6), b.PlatformFeesAccrued)
		assert.Zero(t, b.HeldRental)

		payout, err := f.ledger.Withdrawable(ctx, "owner")
		require.NoError(t, err)
		assert.Equal(t, int64(194), payout)
		f.checkConservation(t, "owner", "renter")
	})

	t.Run("DirectlyFromBooked", func(t *testing.T) {
		f := newFixture(t)
		asset := f.registerAsset(t)
		booking := f.book(t, asset.ID)

		f.clk.Set(booking.EndTime())
		got, err := f.bookings.CompleteBooking(context.Background(), renter, booking.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStateCompleted, got.State)
	})

	t.Run("TooEarly", func(t *testing.T) {
		f := newFixture(t)
		asset := f.registerAsset(t)
		booking := f.book(t, asset.ID)

		f.clk.Set(booking.EndTime() - 1)
		_, err := f.bookings.CompleteBooking(context.Background(), renter, booking.ID)
		assert.ErrorIs(t, err, domain.ErrTooEarly)
	})

	t.Run("NotTwice", func(t *testing.T) {
		f := newFixture(t)
		asset := f.registerAsset(t)
		booking := f.book(t, asset.ID)

		f.clk.Set(booking.EndTime())
		_, err := f.bookings.CompleteBooking(context.Background(), renter, booking.ID)
		require.NoError(t, err)
		_, err = f.bookings.CompleteBooking(context.Background(), renter, booking.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})
}

func TestCancelBooking(t *testing.T) {
	t.Run("InsidePenaltyWindow", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		asset := f.registerAsset(t)
		booking := f.book(t, asset.ID) // starts one hour out, inside the window

		got, err := f.bookings.CancelBooking(ctx, renter, booking.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStateCancelled, got.State)

		// penalty = 100 (half of 200), refund = 210 - 100 = 110
		refund, err := f.ledger.Withdrawable(ctx, "renter")
		require.NoError(t, err)
		assert.Equal(t, int64(110), refund)

		b, err := f.ledger.Balances(ctx)
		require.NoError(t, err)
		assert.Equal(t, int64(100), b.PlatformFeesAccrued)
		assert.Zero(t, b.InsurancePool)
		f.checkConservation(t, "owner", "renter")
	})

	t.Run("OutsidePenaltyWindow", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		asset := f.registerAsset(t)
		booking, err := f.bookings.BookAsset(ctx, renter, asset.ID, baseTime+2*domain.CancelPenaltyWindowSeconds, 2, 210)
		require.NoError(t, err)

		_, err = f.bookings.CancelBooking(ctx, renter, booking.ID)
		require.NoError(t, err)

		refund, err := f.ledger.Withdrawable(ctx, "renter")
		require.NoError(t, err)
		assert.Equal(t, int64(210), refund)

		b, err := f.ledger.Balances(ctx)
		require.NoError(t, err)
		assert.Zero(t, b.PlatformFeesAccrued)
		f.checkConservation(t, "owner", "renter")
	})

	t.Run("OnlyRenter", func(t *testing.T) {
		f := newFixture(t)
		asset := f.registerAsset(t)
		booking := f.book(t, asset.ID)

		_, err := f.bookings.CancelBooking(context.Background(), owner, booking.ID)
		assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	})

	t.Run("TooLateAfterStart", func(t *testing.T) {
		f := newFixture(t)
		asset := f.registerAsset(t)
		booking := f.book(t, asset.ID)

		f.clk.Set(baseTime + 3600)
		_, err := f.bookings.CancelBooking(context.Background(), renter, booking.ID)
		assert.ErrorIs(t, err, domain.ErrTooLate)
	})

	t.Run("NotFromActive", func(t *testing.T) {
		f := newFixture(t)
		asset := f.registerAsset(t)
		booking := f.book(t, asset.ID)

		f.clk.Set(baseTime + 3600)
		_, err := f.bookings.ActivateBooking(context.Background(), renter, booking.ID)
		require.NoError(t, err)
		_, err = f.bookings.CancelBooking(context.Background(), renter, booking.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})
}

func TestRefundBooking(t *testing.T) {
	t.Run("AdminFullRefund", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		asset := f.registerAsset(t)
		booking := f.book(t, asset.ID)

		got, err := f.bookings.RefundBooking(ctx, admin, booking.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStateRefunded, got.State)

		refund, err := f.ledger.Withdrawable(ctx, "renter")
		require.NoError(t, err)
		assert.Equal(t, int64(210), refund)
		f.checkConservation(t, "owner", "renter")
	})

	t.Run("OwnerAllowed", func(t *testing.T) {
		f := newFixture(t)
		asset := f.registerAsset(t)
		booking := f.book(t, asset.ID)

		_, err := f.bookings.RefundBooking(context.Background(), owner, booking.ID)
		assert.NoError(t, err)
	})

	t.Run("RenterRejected", func(t *testing.T) {
		f := newFixture(t)
		asset := f.registerAsset(t)
		booking := f.book(t, asset.ID)

		_, err := f.bookings.RefundBooking(context.Background(), renter, booking.ID)
		assert.ErrorIs(t, err, domain.ErrNotAuthorized)
	})

	t.Run("FromClaimSubmitted", func(t *testing.T) {
		f := newFixture(t)
		ctx := context.Background()
		asset := f.registerAsset(t)
		booking := f.book(t, asset.ID)

		f.clk.Set(baseTime + 3600)
		_, err := f.bookings.ActivateBooking(ctx, renter, booking.ID)
		require.NoError(t, err)
		_, err = f.insurance.SubmitClaim(ctx, renter, booking.ID)
		require.NoError(t, err)

		got, err := f.bookings.RefundBooking(ctx, admin, booking.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.BookingStateRefunded, got.State)
	})

	t.Run("NotFromCompleted", func(t *testing.T) {
		f := newFixture(t)
		asset := f.registerAsset(t)
		booking := f.book(t, asset.ID)

		f.clk.Set(booking.EndTime())
		_, err := f.bookings.CompleteBooking(context.Background(), renter, booking.ID)
		require.NoError(t, err)
		_, err = f.bookings.RefundBooking(context.Background(), admin, booking.ID)
		assert.ErrorIs(t, err, domain.ErrInvalidState)
	})
}

func TestBookingPaused(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	asset := f.registerAsset(t)
	booking := f.book(t, asset.ID)
	require.NoError(t, f.governance.Pause(ctx, admin))

	// Inbound money is blocked.
	_, err := f.bookings.BookAsset(ctx, renter, asset.ID, baseTime+3600, 2, 210)
	assert.ErrorIs(t, err, domain.ErrPaused)
	err = f.ledger.DepositInsurancePool(ctx, renter, 50)
	assert.ErrorIs(t, err, domain.ErrPaused)

	// Existing bookings keep moving so funds are never stranded.
	_, err = f.bookings.CancelBooking(ctx, renter, booking.ID)
	assert.NoError(t, err)
	_, err = f.ledger.Withdraw(ctx, renter)
	assert.NoError(t, err)
}
