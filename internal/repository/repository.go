package repository

import (
	"context"

	"rentvault-backend/internal/domain"
)

type AssetRepository interface {
	// Create assigns the next sequential id and stores the asset.
	Create(ctx context.Context, asset *domain.Asset) error
	GetByID(ctx context.Context, id int64) (*domain.Asset, error)
	Update(ctx context.Context, asset *domain.Asset) error
}

type BookingRepository interface {
	// Create assigns the next sequential id and stores the booking.
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	// UpdateState moves the booking from one state to another. It fails
	// with domain.ErrInvalidState when the stored state no longer matches
	// from, which makes every transition safe against racing callers.
	UpdateState(ctx context.Context, id int64, from, to domain.BookingState) error
	ListInState(ctx context.Context, state domain.BookingState) ([]domain.Booking, error)
}

// LedgerRepository owns all balance state. Operations that touch more
// than one balance are single methods so the conservation law has one
// enforcement point; no caller does balance arithmetic on its own.
type LedgerRepository interface {
	Balances(ctx context.Context) (*domain.LedgerBalances, error)
	Withdrawable(ctx context.Context, account string) (int64, error)

	// ReceiveBookingPayment records an inbound booking payment: the
	// premium joins the insurance pool, the rental portion stays held.
	ReceiveBookingPayment(ctx context.Context, rental, premium int64) error
	// SettleRental releases a held rental: fee accrues to the platform,
	// the payout becomes withdrawable by the asset owner.
	SettleRental(ctx context.Context, owner string, payout, fee int64) error
	// RefundBooking credits the refund to the renter, accrues any
	// cancellation penalty to platform fees, and removes poolDebit from
	// the insurance pool, floored at zero.
	RefundBooking(ctx context.Context, renter string, refund, penalty, poolDebit int64) error
	// SettleClaim debits the pool and credits the recipient. Unlike the
	// refund path the pool debit is a hard precondition: it fails with
	// domain.ErrInsufficientPool and changes nothing when the pool
	// cannot cover the amount.
	SettleClaim(ctx context.Context, recipient string, amount int64) error
	DepositToPool(ctx context.Context, amount int64) error
	Credit(ctx context.Context, account string, amount int64) error

	// WithdrawAll atomically reads and zeroes the account's withdrawable
	// balance, counting it as withdrawn. Fails with
	// domain.ErrNothingToWithdraw on a zero balance.
	WithdrawAll(ctx context.Context, account string) (int64, error)
	// RestoreWithdrawable puts a withdrawn amount back after the external
	// transfer failed, so funds are never silently lost.
	RestoreWithdrawable(ctx context.Context, account string, amount int64) error
	WithdrawFees(ctx context.Context) (int64, error)
	RestoreFees(ctx context.Context, amount int64) error
}

type ParamsRepository interface {
	Get(ctx context.Context) (*domain.Params, error)
	Update(ctx context.Context, params *domain.Params) error
}
