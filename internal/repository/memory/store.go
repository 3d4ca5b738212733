package memory

import (
	"sync"

	"rentvault-backend/internal/domain"
	"rentvault-backend/internal/repository"
)

// Store is the in-memory authoritative state owner: two append-only-id
// keyed tables plus the ledger balances, all behind one mutex. It backs
// the default deployment mode and the engine tests.
type Store struct {
	repository.AssetRepository
	repository.BookingRepository
	repository.LedgerRepository
	repository.ParamsRepository
}

// state is shared by every repository in the store so a single mutex
// covers all of it.
type state struct {
	mu sync.Mutex

	assets      map[int64]domain.Asset
	nextAssetID int64

	bookings      map[int64]domain.Booking
	nextBookingID int64

	insurancePool  int64
	platformFees   int64
	withdrawable   map[string]int64
	totalReceived  int64
	totalWithdrawn int64

	params domain.Params
}

func NewStore(initial domain.Params) *Store {
	st := &state{
		assets:        make(map[int64]domain.Asset),
		nextAssetID:   1,
		bookings:      make(map[int64]domain.Booking),
		nextBookingID: 1,
		withdrawable:  make(map[string]int64),
		params:        initial,
	}
	return &Store{
		AssetRepository:   &assetRepo{st},
		BookingRepository: &bookingRepo{st},
		LedgerRepository:  &ledgerRepo{st},
		ParamsRepository:  &paramsRepo{st},
	}
}
