package postgres

import (
	"context"
	"database/sql"
	"errors"

	"rentvault-backend/internal/domain"
	"rentvault-backend/internal/repository"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, asset_id, renter, start_time, hours_booked, rental_amount, insurance_amount, state, created_at`

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `INSERT INTO bookings (asset_id, renter, start_time, hours_booked, rental_amount, insurance_amount, state, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	return r.db.QueryRowContext(ctx, query, b.AssetID, b.Renter, b.StartTime, b.HoursBooked, b.RentalAmount, b.InsuranceAmount, b.State, b.CreatedAt).Scan(&b.ID)
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	b := &domain.Booking{}
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, id).Scan(&b.ID, &b.AssetID, &b.Renter, &b.StartTime, &b.HoursBooked, &b.RentalAmount, &b.InsuranceAmount, &b.State, &b.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrBookingNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateState uses the source state as a guard in the WHERE clause so a
// transition lost to a racing caller updates zero rows.
func (r *bookingRepository) UpdateState(ctx context.Context, id int64, from, to domain.BookingState) error {
	query := `UPDATE bookings SET state = $1 WHERE id = $2 AND state = $3`
	res, err := r.db.ExecContext(ctx, query, to, id, from)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		var exists bool
		if err := r.db.QueryRowContext(ctx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE id = $1)`, id).Scan(&exists); err != nil {
			return err
		}
		if !exists {
			return domain.ErrBookingNotFound
		}
		return domain.ErrInvalidState
	}
	return nil
}

func (r *bookingRepository) ListInState(ctx context.Context, state domain.BookingState) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE state = $1 ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, state)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		var b domain.Booking
		if err := rows.Scan(&b.ID, &b.AssetID, &b.Renter, &b.StartTime, &b.HoursBooked, &b.RentalAmount, &b.InsuranceAmount, &b.State, &b.CreatedAt); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}
