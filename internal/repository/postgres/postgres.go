package postgres

import (
	"database/sql"

	"rentvault-backend/internal/repository"

	_ "github.com/lib/pq"
)

type Store struct {
	db *sql.DB
	repository.AssetRepository
	repository.BookingRepository
	repository.LedgerRepository
	repository.ParamsRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                db,
		AssetRepository:   NewAssetRepository(db),
		BookingRepository: NewBookingRepository(db),
		LedgerRepository:  NewLedgerRepository(db),
		ParamsRepository:  NewParamsRepository(db),
	}
}
