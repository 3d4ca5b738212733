package service

import (
	"context"

	"rentvault-backend/internal/domain"
	"rentvault-backend/internal/logger"
	"rentvault-backend/internal/repository"
)

type governanceService struct {
	paramsRepo repository.ParamsRepository
	guard      *OpGuard
}

func NewGovernanceService(paramsRepo repository.ParamsRepository, guard *OpGuard) GovernanceService {
	return &governanceService{paramsRepo: paramsRepo, guard: guard}
}

func (s *governanceService) GetParams(ctx context.Context) (*domain.Params, error) {
	return s.paramsRepo.Get(ctx)
}

func (s *governanceService) mutate(ctx context.Context, caller Caller, apply func(*domain.Params) error) error {
	release, err := s.guard.Acquire()
	if err != nil {
		return err
	}
	defer release()

	if !caller.Admin {
		return domain.ErrNotAuthorized
	}
	params, err := s.paramsRepo.Get(ctx)
	if err != nil {
		return err
	}
	if err := apply(params); err != nil {
		return err
	}
	return s.paramsRepo.Update(ctx, params)
}

func (s *governanceService) SetPlatformFeeRate(ctx context.Context, caller Caller, rateBps int32) error {
	return s.mutate(ctx, caller, func(p *domain.Params) error {
		if rateBps < 0 || rateBps > domain.MaxPlatformFeeRateBps {
			return domain.ErrInvalidRate
		}
		p.PlatformFeeRateBps = rateBps
		logger.Info("Platform fee rate updated", "rate_bps", rateBps)
		return nil
	})
}

func (s *governanceService) SetInsuranceRate(ctx context.Context, caller Caller, rateBps int32) error {
	return s.mutate(ctx, caller, func(p *domain.Params) error {
		if rateBps < 0 || rateBps > domain.MaxInsuranceRateBps {
			return domain.ErrInvalidRate
		}
		p.InsuranceRateBps = rateBps
		logger.Info("Insurance rate updated", "rate_bps", rateBps)
		return nil
	})
}

func (s *governanceService) SetTreasury(ctx context.Context, caller Caller, account string) error {
	return s.mutate(ctx, caller, func(p *domain.Params) error {
		if account == "" {
			return domain.ErrInvalidAccount
		}
		p.TreasuryAccount = account
		logger.Info("Treasury account updated", "treasury", account)
		return nil
	})
}

func (s *governanceService) Pause(ctx context.Context, caller Caller) error {
	return s.mutate(ctx, caller, func(p *domain.Params) error {
		p.Paused = true
		logger.Warn("Engine paused")
		return nil
	})
}

func (s *governanceService) Unpause(ctx context.Context, caller Caller) error {
	return s.mutate(ctx, caller, func(p *domain.Params) error {
		p.Paused = false
		logger.Info("Engine unpaused")
		return nil
	})
}
