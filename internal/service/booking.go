package service

import (
	"context"
	"fmt"

	"rentvault-backend/internal/clock"
	"rentvault-backend/internal/domain"
	"rentvault-backend/internal/logger"
	"rentvault-backend/internal/payment"
	"rentvault-backend/internal/repository"
	"rentvault-backend/internal/utils"
)

type bookingService struct {
	bookingRepo repository.BookingRepository
	assetRepo   repository.AssetRepository
	ledgerRepo  repository.LedgerRepository
	paramsRepo  repository.ParamsRepository
	gateway     payment.Gateway
	clock       clock.Clock
	guard       *OpGuard
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	assetRepo repository.AssetRepository,
	ledgerRepo repository.LedgerRepository,
	paramsRepo repository.ParamsRepository,
	gateway payment.Gateway,
	clk clock.Clock,
	guard *OpGuard,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		assetRepo:   assetRepo,
		ledgerRepo:  ledgerRepo,
		paramsRepo:  paramsRepo,
		gateway:     gateway,
		clock:       clk,
		guard:       guard,
	}
}

func (s *bookingService) BookAsset(ctx context.Context, caller Caller, assetID, startTime int64, hours int32, payment int64) (*domain.Booking, error) {
	release, err := s.guard.Acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	params, err := s.paramsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	if params.Paused {
		return nil, domain.ErrPaused
	}
	if caller.Account == "" {
		return nil, domain.ErrInvalidAccount
	}

	asset, err := s.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if !asset.Exists() {
		return nil, domain.ErrAssetNotFound
	}
	if !asset.Available {
		return nil, domain.ErrAssetUnavailable
	}
	if hours < domain.MinBookingHours || hours > domain.MaxBookingHours {
		return nil, domain.ErrInvalidHours
	}
	now := s.clock.Now()
	if startTime < now {
		return nil, domain.ErrStartInPast
	}

	quote := utils.ComputeQuote(asset.PricePerHour, hours, params.InsuranceRateBps)
	if payment != quote.Total {
		return nil, domain.ErrWrongPayment
	}

	// Pull the payment in before any book-keeping; a failed collect
	// leaves the engine untouched. The guard stays held across the
	// external call.
	if err := s.gateway.Collect(ctx, caller.Account, quote.Total); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrTransferFailed, err)
	}

	if err := s.ledgerRepo.ReceiveBookingPayment(ctx, quote.Rental, quote.Premium); err != nil {
		return nil, fmt.Errorf("recording booking payment: %w", err)
	}

	booking := &domain.Booking{
		AssetID:         assetID,
		Renter:          caller.Account,
		StartTime:       startTime,
		HoursBooked:     hours,
		RentalAmount:    quote.Rental,
		InsuranceAmount: quote.Premium,
		State:           domain.BookingStateBooked,
		CreatedAt:       now,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("creating booking: %w", err)
	}

	logger.Info("Booking created",
		"booking_id", booking.ID, "asset_id", assetID, "renter", caller.Account,
		"rental_amount", booking.RentalAmount, "insurance_amount", booking.InsuranceAmount)
	return booking, nil
}

func (s *bookingService) ActivateBooking(ctx context.Context, caller Caller, bookingID int64) (*domain.Booking, error) {
	release, err := s.guard.Acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.State != domain.BookingStateBooked {
		return nil, domain.ErrInvalidState
	}
	if caller.Account != booking.Renter && !caller.Relayer && !caller.Admin {
		return nil, domain.ErrNotAuthorized
	}
	if s.clock.Now() < booking.StartTime {
		return nil, domain.ErrTooEarly
	}

	// Pure state transition, no ledger effect.
	if err := s.bookingRepo.UpdateState(ctx, bookingID, domain.BookingStateBooked, domain.BookingStateActive); err != nil {
		return nil, err
	}
	booking.State = domain.BookingStateActive
	logger.Info("Booking activated", "booking_id", bookingID)
	return booking, nil
}

// CompleteBooking is intentionally callable by anyone once the rental
// period has elapsed, so an owner withholding confirmation cannot hold
// the renter's funds hostage.
func (s *bookingService) CompleteBooking(ctx context.Context, caller Caller, bookingID int64) (*domain.Booking, error) {
	release, err := s.guard.Acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.State != domain.BookingStateBooked && booking.State != domain.BookingStateActive {
		return nil, domain.ErrInvalidState
	}
	if s.clock.Now() < booking.EndTime() {
		return nil, domain.ErrTooEarly
	}

	asset, err := s.assetRepo.GetByID(ctx, booking.AssetID)
	if err != nil {
		return nil, err
	}
	params, err := s.paramsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	fee := utils.PlatformFee(booking.RentalAmount, params.PlatformFeeRateBps)
	payout := booking.RentalAmount - fee

	if err := s.bookingRepo.UpdateState(ctx, bookingID, booking.State, domain.BookingStateCompleted); err != nil {
		return nil, err
	}
	if err := s.ledgerRepo.SettleRental(ctx, asset.Owner, payout, fee); err != nil {
		return nil, fmt.Errorf("settling rental for booking %d: %w", bookingID, err)
	}

	booking.State = domain.BookingStateCompleted
	logger.Info("Booking completed", "booking_id", bookingID, "owner_payout", payout, "platform_fee", fee)
	return booking, nil
}

func (s *bookingService) CancelBooking(ctx context.Context, caller Caller, bookingID int64) (*domain.Booking, error) {
	release, err := s.guard.Acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.State != domain.BookingStateBooked {
		return nil, domain.ErrInvalidState
	}
	if caller.Account != booking.Renter {
		return nil, domain.ErrNotAuthorized
	}
	now := s.clock.Now()
	if now >= booking.StartTime {
		return nil, domain.ErrTooLate
	}

	refund := domain.AddChecked(booking.RentalAmount, booking.InsuranceAmount)
	var penalty int64
	if booking.StartTime-now < domain.CancelPenaltyWindowSeconds {
		penalty = utils.CancelPenalty(booking.RentalAmount)
		refund -= penalty
	}

	if err := s.bookingRepo.UpdateState(ctx, bookingID, domain.BookingStateBooked, domain.BookingStateCancelled); err != nil {
		return nil, err
	}
	// The frozen premium leaves the pool regardless of penalty; the
	// ledger floors the debit at zero when prior claims drained the pool.
	if err := s.ledgerRepo.RefundBooking(ctx, booking.Renter, refund, penalty, booking.InsuranceAmount); err != nil {
		return nil, fmt.Errorf("refunding cancelled booking %d: %w", bookingID, err)
	}

	booking.State = domain.BookingStateCancelled
	logger.Info("Booking cancelled", "booking_id", bookingID, "refund", refund, "penalty", penalty)
	return booking, nil
}

// RefundBooking is the administrative reversal path: full refund, no
// penalty, available to the admin or the asset owner while the booking
// is live or under claim.
func (s *bookingService) RefundBooking(ctx context.Context, caller Caller, bookingID int64) (*domain.Booking, error) {
	release, err := s.guard.Acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	switch booking.State {
	case domain.BookingStateBooked, domain.BookingStateActive, domain.BookingStateClaimSubmitted:
	default:
		return nil, domain.ErrInvalidState
	}

	asset, err := s.assetRepo.GetByID(ctx, booking.AssetID)
	if err != nil {
		return nil, err
	}
	if !caller.Admin && caller.Account != asset.Owner {
		return nil, domain.ErrNotAuthorized
	}

	refund := domain.AddChecked(booking.RentalAmount, booking.InsuranceAmount)
	if err := s.bookingRepo.UpdateState(ctx, bookingID, booking.State, domain.BookingStateRefunded); err != nil {
		return nil, err
	}
	if err := s.ledgerRepo.RefundBooking(ctx, booking.Renter, refund, 0, booking.InsuranceAmount); err != nil {
		return nil, fmt.Errorf("refunding booking %d: %w", bookingID, err)
	}

	booking.State = domain.BookingStateRefunded
	logger.Info("Booking refunded", "booking_id", bookingID, "refund", refund)
	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, bookingID int64) (*domain.Booking, error) {
	return s.bookingRepo.GetByID(ctx, bookingID)
}
