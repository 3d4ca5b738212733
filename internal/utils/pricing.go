package utils

import "rentvault-backend/internal/domain"

// Quote is the cost breakdown for a prospective booking at the asset's
// current price and the current governance rates. Once a booking is
// created these numbers are frozen onto it and never recomputed.
type Quote struct {
	Rental  int64 `json:"rental"`
	Premium int64 `json:"premium"`
	Total   int64 `json:"total"`
}

// ComputeQuote prices hours at pricePerHour and adds the insurance
// premium at insuranceRateBps. Division truncates, matching the
// settlement math everywhere else in the engine.
func ComputeQuote(pricePerHour int64, hours int32, insuranceRateBps int32) Quote {
	rental := domain.MulChecked(pricePerHour, int64(hours))
	premium := ApplyBps(rental, insuranceRateBps)
	return Quote{
		Rental:  rental,
		Premium: premium,
		Total:   domain.AddChecked(rental, premium),
	}
}

// ApplyBps returns amount scaled by a basis-point rate, truncated.
func ApplyBps(amount int64, rateBps int32) int64 {
	if rateBps == 0 {
		return 0
	}
	return domain.MulChecked(amount, int64(rateBps)) / domain.BpsDenominator
}

// PlatformFee is the completion-time fee taken from a frozen rental
// amount.
func PlatformFee(rentalAmount int64, platformFeeRateBps int32) int64 {
	return ApplyBps(rentalAmount, platformFeeRateBps)
}

// CancelPenalty is the amount forfeited when a renter cancels inside
// the penalty window: half the frozen rental amount.
func CancelPenalty(rentalAmount int64) int64 {
	return rentalAmount / 2
}
