package memory

import (
	"context"

	"rentvault-backend/internal/domain"
)

type ledgerRepo struct {
	st *state
}

func (r *ledgerRepo) Balances(ctx context.Context) (*domain.LedgerBalances, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return r.balancesLocked(), nil
}

// balancesLocked derives HeldRental as the residual of the conservation
// identity, so a floored pool debit shows up as held float absorbed
// rather than money created.
func (r *ledgerRepo) balancesLocked() *domain.LedgerBalances {
	var sumWithdrawable int64
	for _, v := range r.st.withdrawable {
		sumWithdrawable += v
	}
	return &domain.LedgerBalances{
		InsurancePool:       r.st.insurancePool,
		PlatformFeesAccrued: r.st.platformFees,
		HeldRental:          r.st.totalReceived - r.st.insurancePool - r.st.platformFees - sumWithdrawable - r.st.totalWithdrawn,
		TotalReceived:       r.st.totalReceived,
		TotalWithdrawn:      r.st.totalWithdrawn,
	}
}

func (r *ledgerRepo) Withdrawable(ctx context.Context, account string) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	return r.st.withdrawable[account], nil
}

func (r *ledgerRepo) ReceiveBookingPayment(ctx context.Context, rental, premium int64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.totalReceived = domain.AddChecked(r.st.totalReceived, domain.AddChecked(rental, premium))
	r.st.insurancePool = domain.AddChecked(r.st.insurancePool, premium)
	return nil
}

func (r *ledgerRepo) SettleRental(ctx context.Context, owner string, payout, fee int64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.platformFees = domain.AddChecked(r.st.platformFees, fee)
	r.st.withdrawable[owner] = domain.AddChecked(r.st.withdrawable[owner], payout)
	return nil
}

func (r *ledgerRepo) RefundBooking(ctx context.Context, renter string, refund, penalty, poolDebit int64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if poolDebit > r.st.insurancePool {
		poolDebit = r.st.insurancePool // silent floor, see DESIGN.md
	}
	r.st.insurancePool -= poolDebit
	r.st.platformFees = domain.AddChecked(r.st.platformFees, penalty)
	r.st.withdrawable[renter] = domain.AddChecked(r.st.withdrawable[renter], refund)
	return nil
}

func (r *ledgerRepo) SettleClaim(ctx context.Context, recipient string, amount int64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if amount > r.st.insurancePool {
		return domain.ErrInsufficientPool
	}
	r.st.insurancePool -= amount
	r.st.withdrawable[recipient] = domain.AddChecked(r.st.withdrawable[recipient], amount)
	return nil
}

func (r *ledgerRepo) DepositToPool(ctx context.Context, amount int64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.totalReceived = domain.AddChecked(r.st.totalReceived, amount)
	r.st.insurancePool = domain.AddChecked(r.st.insurancePool, amount)
	return nil
}

func (r *ledgerRepo) Credit(ctx context.Context, account string, amount int64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.withdrawable[account] = domain.AddChecked(r.st.withdrawable[account], amount)
	return nil
}

func (r *ledgerRepo) WithdrawAll(ctx context.Context, account string) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	amount := r.st.withdrawable[account]
	if amount == 0 {
		return 0, domain.ErrNothingToWithdraw
	}
	r.st.withdrawable[account] = 0
	r.st.totalWithdrawn = domain.AddChecked(r.st.totalWithdrawn, amount)
	return amount, nil
}

func (r *ledgerRepo) RestoreWithdrawable(ctx context.Context, account string, amount int64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.withdrawable[account] = domain.AddChecked(r.st.withdrawable[account], amount)
	r.st.totalWithdrawn -= amount
	return nil
}

func (r *ledgerRepo) WithdrawFees(ctx context.Context) (int64, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	amount := r.st.platformFees
	if amount == 0 {
		return 0, domain.ErrNothingToWithdraw
	}
	r.st.platformFees = 0
	r.st.totalWithdrawn = domain.AddChecked(r.st.totalWithdrawn, amount)
	return amount, nil
}

func (r *ledgerRepo) RestoreFees(ctx context.Context, amount int64) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	r.st.platformFees = domain.AddChecked(r.st.platformFees, amount)
	r.st.totalWithdrawn -= amount
	return nil
}
