package domain

import "errors"

// Engine error taxonomy. Every rejected operation surfaces one of these,
// possibly wrapped with call-site context; the HTTP layer maps them to
// status codes.
var (
	ErrInvalidPrice        = errors.New("price per hour must be positive")
	ErrInvalidRate         = errors.New("rate exceeds allowed maximum")
	ErrNotOwner            = errors.New("caller is not the asset owner")
	ErrInvalidAccount      = errors.New("invalid account")
	ErrAssetNotFound       = errors.New("asset not found")
	ErrAssetUnavailable    = errors.New("asset is not available")
	ErrInvalidHours        = errors.New("hours booked out of allowed range")
	ErrStartInPast         = errors.New("start time is in the past")
	ErrWrongPayment        = errors.New("payment does not match rental plus premium")
	ErrInvalidState        = errors.New("booking is not in a legal state for this transition")
	ErrTooEarly            = errors.New("time condition not yet met")
	ErrTooLate             = errors.New("time window has passed")
	ErrNotAuthorized       = errors.New("caller not authorized")
	ErrInsufficientPool    = errors.New("insurance pool balance insufficient")
	ErrNothingToWithdraw   = errors.New("nothing to withdraw")
	ErrPaused              = errors.New("engine is paused")
	ErrTransferFailed      = errors.New("external value transfer failed")
	ErrOperationInProgress = errors.New("another operation is in progress")
	ErrBookingNotFound     = errors.New("booking not found")
)
