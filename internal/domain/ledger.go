package domain

import "fmt"

// LedgerBalances is a snapshot of the pooled quantities plus the
// conservation counters. TotalReceived must always equal
// InsurancePool + PlatformFeesAccrued + Σ withdrawable + HeldRental +
// TotalWithdrawn; HeldRental is the rental portion of live bookings not
// yet released to any party.
type LedgerBalances struct {
	InsurancePool       int64 `json:"insurance_pool"`
	PlatformFeesAccrued int64 `json:"platform_fees_accrued"`
	HeldRental          int64 `json:"held_rental"`
	TotalReceived       int64 `json:"total_received"`
	TotalWithdrawn      int64 `json:"total_withdrawn"`
}

// AddChecked sums two non-negative currency amounts and panics on
// overflow. Currency supply is bounded far below the int64 range, so an
// overflow here is a programming-invariant violation, not an input
// error.
func AddChecked(a, b int64) int64 {
	sum := a + b
	if sum < a {
		panic(fmt.Sprintf("currency overflow: %d + %d", a, b))
	}
	return sum
}

// MulChecked multiplies two non-negative amounts with the same overflow
// policy as AddChecked.
func MulChecked(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	product := a * b
	if product/b != a {
		panic(fmt.Sprintf("currency overflow: %d * %d", a, b))
	}
	return product
}
