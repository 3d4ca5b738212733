package domain

type BookingState string

const (
	BookingStateBooked         BookingState = "BOOKED"
	BookingStateActive         BookingState = "ACTIVE"
	BookingStateCompleted      BookingState = "COMPLETED"
	BookingStateCancelled      BookingState = "CANCELLED"
	BookingStateClaimSubmitted BookingState = "CLAIM_SUBMITTED"
	BookingStateClaimSettled   BookingState = "CLAIM_SETTLED"
	BookingStateRefunded       BookingState = "REFUNDED"
)

const (
	MinBookingHours = 1
	MaxBookingHours = 720

	SecondsPerHour = 3600

	// Cancellations inside this window before start forfeit half the
	// rental amount to platform fees.
	CancelPenaltyWindowSeconds = 24 * 3600
)

type Booking struct {
	ID          int64  `json:"id"`
	AssetID     int64  `json:"asset_id"`
	Renter      string `json:"renter"`
	StartTime   int64  `json:"start_time"` // unix seconds
	HoursBooked int32  `json:"hours_booked"`
	// Cost snapshot fields, captured from the asset price and governance
	// rates at booking time. All later settlement math uses these, never
	// the live price or rates.
	RentalAmount    int64        `json:"rental_amount"`
	InsuranceAmount int64        `json:"insurance_amount"`
	State           BookingState `json:"state"`
	CreatedAt       int64        `json:"created_at"`
}

// EndTime is the unix second after which the booking is completable.
func (b *Booking) EndTime() int64 {
	return b.StartTime + int64(b.HoursBooked)*SecondsPerHour
}

// Terminal reports whether no further transition is legal from the
// state. Completed still admits submitClaim and is handled where the
// claim transition is checked.
func (s BookingState) Terminal() bool {
	switch s {
	case BookingStateCancelled, BookingStateClaimSettled, BookingStateRefunded:
		return true
	}
	return false
}
