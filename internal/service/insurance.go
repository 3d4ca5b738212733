package service

import (
	"context"
	"fmt"

	"rentvault-backend/internal/domain"
	"rentvault-backend/internal/logger"
	"rentvault-backend/internal/repository"
)

type insuranceService struct {
	bookingRepo repository.BookingRepository
	assetRepo   repository.AssetRepository
	ledgerRepo  repository.LedgerRepository
	guard       *OpGuard
}

func NewInsuranceService(
	bookingRepo repository.BookingRepository,
	assetRepo repository.AssetRepository,
	ledgerRepo repository.LedgerRepository,
	guard *OpGuard,
) InsuranceService {
	return &insuranceService{
		bookingRepo: bookingRepo,
		assetRepo:   assetRepo,
		ledgerRepo:  ledgerRepo,
		guard:       guard,
	}
}

// SubmitClaim opens a settlement window. It moves no money.
func (s *insuranceService) SubmitClaim(ctx context.Context, caller Caller, bookingID int64) (*domain.Booking, error) {
	release, err := s.guard.Acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.State != domain.BookingStateActive && booking.State != domain.BookingStateCompleted {
		return nil, domain.ErrInvalidState
	}

	asset, err := s.assetRepo.GetByID(ctx, booking.AssetID)
	if err != nil {
		return nil, err
	}
	if caller.Account != booking.Renter && caller.Account != asset.Owner {
		return nil, domain.ErrNotAuthorized
	}

	if err := s.bookingRepo.UpdateState(ctx, bookingID, booking.State, domain.BookingStateClaimSubmitted); err != nil {
		return nil, err
	}
	booking.State = domain.BookingStateClaimSubmitted
	logger.Info("Claim submitted", "booking_id", bookingID, "claimant", caller.Account)
	return booking, nil
}

// SettleClaim pays a discretionary amount from the pooled fund. The
// engine enforces solvency only; whether the claim deserves the amount
// is the insurer's off-engine decision.
func (s *insuranceService) SettleClaim(ctx context.Context, caller Caller, bookingID int64, recipient string, amount int64) (*domain.Booking, error) {
	release, err := s.guard.Acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	if !caller.Insurer {
		return nil, domain.ErrNotAuthorized
	}
	if recipient == "" {
		return nil, domain.ErrInvalidAccount
	}
	if amount < 0 {
		return nil, domain.ErrWrongPayment
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.State != domain.BookingStateClaimSubmitted {
		return nil, domain.ErrInvalidState
	}

	balances, err := s.ledgerRepo.Balances(ctx)
	if err != nil {
		return nil, err
	}
	if amount > balances.InsurancePool {
		return nil, domain.ErrInsufficientPool
	}

	if err := s.bookingRepo.UpdateState(ctx, bookingID, domain.BookingStateClaimSubmitted, domain.BookingStateClaimSettled); err != nil {
		return nil, err
	}
	// The repository re-checks pool sufficiency; under the guard the
	// pre-check above cannot go stale, this is a backstop.
	if err := s.ledgerRepo.SettleClaim(ctx, recipient, amount); err != nil {
		return nil, fmt.Errorf("settling claim for booking %d: %w", bookingID, err)
	}

	booking.State = domain.BookingStateClaimSettled
	logger.Info("Claim settled", "booking_id", bookingID, "recipient", recipient, "amount", amount)
	return booking, nil
}
