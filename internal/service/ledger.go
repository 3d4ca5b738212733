package service

import (
	"context"
	"fmt"

	"rentvault-backend/internal/domain"
	"rentvault-backend/internal/logger"
	"rentvault-backend/internal/payment"
	"rentvault-backend/internal/repository"
)

type ledgerService struct {
	ledgerRepo repository.LedgerRepository
	paramsRepo repository.ParamsRepository
	gateway    payment.Gateway
	guard      *OpGuard
}

func NewLedgerService(
	ledgerRepo repository.LedgerRepository,
	paramsRepo repository.ParamsRepository,
	gateway payment.Gateway,
	guard *OpGuard,
) LedgerService {
	return &ledgerService{
		ledgerRepo: ledgerRepo,
		paramsRepo: paramsRepo,
		gateway:    gateway,
		guard:      guard,
	}
}

// Withdraw zeroes the caller's withdrawable balance, then releases the
// funds externally. The balance is zeroed before the external call so a
// re-entrant withdraw can never pay twice; if the transfer fails the
// balance is restored and the operation reports TransferFailed.
func (s *ledgerService) Withdraw(ctx context.Context, caller Caller) (int64, error) {
	release, err := s.guard.Acquire()
	if err != nil {
		return 0, err
	}
	defer release()

	if caller.Account == "" {
		return 0, domain.ErrInvalidAccount
	}
	amount, err := s.ledgerRepo.WithdrawAll(ctx, caller.Account)
	if err != nil {
		return 0, err
	}
	if err := s.gateway.Release(ctx, caller.Account, amount); err != nil {
		if restoreErr := s.ledgerRepo.RestoreWithdrawable(ctx, caller.Account, amount); restoreErr != nil {
			// Both the transfer and the restore failed; the balance is on
			// the books as withdrawn but nothing left. This needs an
			// operator, not a silent retry.
			logger.Error("Failed to restore balance after transfer failure",
				"account", caller.Account, "amount", amount, "error", restoreErr)
			return 0, fmt.Errorf("restoring balance after failed transfer: %w", restoreErr)
		}
		return 0, fmt.Errorf("%w: %v", domain.ErrTransferFailed, err)
	}

	logger.Info("Withdrawal released", "account", caller.Account, "amount", amount)
	return amount, nil
}

func (s *ledgerService) WithdrawPlatformFees(ctx context.Context, caller Caller) (int64, error) {
	release, err := s.guard.Acquire()
	if err != nil {
		return 0, err
	}
	defer release()

	if !caller.Admin {
		return 0, domain.ErrNotAuthorized
	}
	params, err := s.paramsRepo.Get(ctx)
	if err != nil {
		return 0, err
	}
	if params.TreasuryAccount == "" {
		return 0, domain.ErrInvalidAccount
	}

	amount, err := s.ledgerRepo.WithdrawFees(ctx)
	if err != nil {
		return 0, err
	}
	if err := s.gateway.Release(ctx, params.TreasuryAccount, amount); err != nil {
		if restoreErr := s.ledgerRepo.RestoreFees(ctx, amount); restoreErr != nil {
			logger.Error("Failed to restore fees after transfer failure", "amount", amount, "error", restoreErr)
			return 0, fmt.Errorf("restoring fees after failed transfer: %w", restoreErr)
		}
		return 0, fmt.Errorf("%w: %v", domain.ErrTransferFailed, err)
	}

	logger.Info("Platform fees swept", "treasury", params.TreasuryAccount, "amount", amount)
	return amount, nil
}

// DepositInsurancePool routes an unsolicited or voluntary top-up into
// the pool, keeping the conservation law intact for inbound funds that
// belong to no booking.
func (s *ledgerService) DepositInsurancePool(ctx context.Context, caller Caller, amount int64) error {
	release, err := s.guard.Acquire()
	if err != nil {
		return err
	}
	defer release()

	params, err := s.paramsRepo.Get(ctx)
	if err != nil {
		return err
	}
	if params.Paused {
		return domain.ErrPaused
	}
	if caller.Account == "" {
		return domain.ErrInvalidAccount
	}
	if amount <= 0 {
		return domain.ErrWrongPayment
	}

	if err := s.gateway.Collect(ctx, caller.Account, amount); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrTransferFailed, err)
	}
	if err := s.ledgerRepo.DepositToPool(ctx, amount); err != nil {
		return fmt.Errorf("recording pool deposit: %w", err)
	}
	logger.Info("Insurance pool deposit", "account", caller.Account, "amount", amount)
	return nil
}

func (s *ledgerService) Balances(ctx context.Context) (*domain.LedgerBalances, error) {
	return s.ledgerRepo.Balances(ctx)
}

func (s *ledgerService) Withdrawable(ctx context.Context, account string) (int64, error) {
	return s.ledgerRepo.Withdrawable(ctx, account)
}
