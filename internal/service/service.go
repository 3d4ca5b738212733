package service

import (
	"context"

	"rentvault-backend/internal/domain"
	"rentvault-backend/internal/utils"
)

// Caller carries the authenticated account and the role capabilities
// the identity layer resolved for it. The engine never looks up roles
// itself; it only consumes these booleans.
type Caller struct {
	Account string
	Admin   bool
	Insurer bool
	Relayer bool
}

type RegistryService interface {
	RegisterAsset(ctx context.Context, caller Caller, pricePerHour int64) (*domain.Asset, error)
	UpdateAsset(ctx context.Context, caller Caller, assetID, newPrice int64, available bool) (*domain.Asset, error)
	TransferOwnership(ctx context.Context, caller Caller, assetID int64, newOwner string) (*domain.Asset, error)
	GetAsset(ctx context.Context, assetID int64) (*domain.Asset, error)
	Quote(ctx context.Context, assetID int64, hours int32) (utils.Quote, error)
}

type BookingService interface {
	BookAsset(ctx context.Context, caller Caller, assetID, startTime int64, hours int32, payment int64) (*domain.Booking, error)
	ActivateBooking(ctx context.Context, caller Caller, bookingID int64) (*domain.Booking, error)
	CompleteBooking(ctx context.Context, caller Caller, bookingID int64) (*domain.Booking, error)
	CancelBooking(ctx context.Context, caller Caller, bookingID int64) (*domain.Booking, error)
	RefundBooking(ctx context.Context, caller Caller, bookingID int64) (*domain.Booking, error)
	GetBooking(ctx context.Context, bookingID int64) (*domain.Booking, error)
}

type InsuranceService interface {
	SubmitClaim(ctx context.Context, caller Caller, bookingID int64) (*domain.Booking, error)
	SettleClaim(ctx context.Context, caller Caller, bookingID int64, recipient string, amount int64) (*domain.Booking, error)
}

type LedgerService interface {
	Withdraw(ctx context.Context, caller Caller) (int64, error)
	WithdrawPlatformFees(ctx context.Context, caller Caller) (int64, error)
	DepositInsurancePool(ctx context.Context, caller Caller, amount int64) error
	Balances(ctx context.Context) (*domain.LedgerBalances, error)
	Withdrawable(ctx context.Context, account string) (int64, error)
}

type GovernanceService interface {
	GetParams(ctx context.Context) (*domain.Params, error)
	SetPlatformFeeRate(ctx context.Context, caller Caller, rateBps int32) error
	SetInsuranceRate(ctx context.Context, caller Caller, rateBps int32) error
	SetTreasury(ctx context.Context, caller Caller, account string) error
	Pause(ctx context.Context, caller Caller) error
	Unpause(ctx context.Context, caller Caller) error
}
