package service

import (
	"context"
	"fmt"

	"rentvault-backend/internal/clock"
	"rentvault-backend/internal/domain"
	"rentvault-backend/internal/logger"
	"rentvault-backend/internal/repository"
	"rentvault-backend/internal/utils"
)

type registryService struct {
	assetRepo  repository.AssetRepository
	paramsRepo repository.ParamsRepository
	clock      clock.Clock
	guard      *OpGuard
}

func NewRegistryService(
	assetRepo repository.AssetRepository,
	paramsRepo repository.ParamsRepository,
	clk clock.Clock,
	guard *OpGuard,
) RegistryService {
	return &registryService{
		assetRepo:  assetRepo,
		paramsRepo: paramsRepo,
		clock:      clk,
		guard:      guard,
	}
}

func (s *registryService) RegisterAsset(ctx context.Context, caller Caller, pricePerHour int64) (*domain.Asset, error) {
	release, err := s.guard.Acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	if caller.Account == "" {
		return nil, domain.ErrInvalidAccount
	}
	if pricePerHour <= 0 {
		return nil, domain.ErrInvalidPrice
	}

	asset := &domain.Asset{
		Owner:        caller.Account,
		PricePerHour: pricePerHour,
		Available:    true,
		CreatedAt:    s.clock.Now(),
	}
	if err := s.assetRepo.Create(ctx, asset); err != nil {
		return nil, fmt.Errorf("creating asset: %w", err)
	}

	logger.Info("Asset registered", "asset_id", asset.ID, "owner", asset.Owner, "price_per_hour", asset.PricePerHour)
	return asset, nil
}

func (s *registryService) UpdateAsset(ctx context.Context, caller Caller, assetID, newPrice int64, available bool) (*domain.Asset, error) {
	release, err := s.guard.Acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	asset, err := s.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if !asset.Exists() {
		return nil, domain.ErrAssetNotFound
	}
	if asset.Owner != caller.Account {
		return nil, domain.ErrNotOwner
	}
	if newPrice <= 0 {
		return nil, domain.ErrInvalidPrice
	}

	// Bookings already created keep their frozen cost; only future
	// bookings observe the new price.
	asset.PricePerHour = newPrice
	asset.Available = available
	if err := s.assetRepo.Update(ctx, asset); err != nil {
		return nil, fmt.Errorf("updating asset %d: %w", assetID, err)
	}
	return asset, nil
}

func (s *registryService) TransferOwnership(ctx context.Context, caller Caller, assetID int64, newOwner string) (*domain.Asset, error) {
	release, err := s.guard.Acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	asset, err := s.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if !asset.Exists() {
		return nil, domain.ErrAssetNotFound
	}
	if asset.Owner != caller.Account {
		return nil, domain.ErrNotOwner
	}
	if newOwner == "" {
		return nil, domain.ErrInvalidAccount
	}

	// Pure registry mutation; outstanding bookings are unaffected.
	asset.Owner = newOwner
	if err := s.assetRepo.Update(ctx, asset); err != nil {
		return nil, fmt.Errorf("transferring asset %d: %w", assetID, err)
	}
	logger.Info("Asset ownership transferred", "asset_id", assetID, "new_owner", newOwner)
	return asset, nil
}

func (s *registryService) GetAsset(ctx context.Context, assetID int64) (*domain.Asset, error) {
	asset, err := s.assetRepo.GetByID(ctx, assetID)
	if err != nil {
		return nil, err
	}
	if !asset.Exists() {
		return nil, domain.ErrAssetNotFound
	}
	return asset, nil
}

func (s *registryService) Quote(ctx context.Context, assetID int64, hours int32) (utils.Quote, error) {
	asset, err := s.GetAsset(ctx, assetID)
	if err != nil {
		return utils.Quote{}, err
	}
	if hours < domain.MinBookingHours || hours > domain.MaxBookingHours {
		return utils.Quote{}, domain.ErrInvalidHours
	}
	params, err := s.paramsRepo.Get(ctx)
	if err != nil {
		return utils.Quote{}, err
	}
	return utils.ComputeQuote(asset.PricePerHour, hours, params.InsuranceRateBps), nil
}
