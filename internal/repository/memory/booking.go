package memory

import (
	"context"

	"rentvault-backend/internal/domain"
)

type bookingRepo struct {
	st *state
}

func (r *bookingRepo) Create(ctx context.Context, booking *domain.Booking) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	booking.ID = r.st.nextBookingID
	r.st.nextBookingID++
	r.st.bookings[booking.ID] = *booking
	return nil
}

func (r *bookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	b, ok := r.st.bookings[id]
	if !ok {
		return nil, domain.ErrBookingNotFound
	}
	out := b
	return &out, nil
}

func (r *bookingRepo) UpdateState(ctx context.Context, id int64, from, to domain.BookingState) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	b, ok := r.st.bookings[id]
	if !ok {
		return domain.ErrBookingNotFound
	}
	if b.State != from {
		return domain.ErrInvalidState
	}
	b.State = to
	r.st.bookings[id] = b
	return nil
}

func (r *bookingRepo) ListInState(ctx context.Context, state domain.BookingState) ([]domain.Booking, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []domain.Booking
	for id := int64(1); id < r.st.nextBookingID; id++ {
		if b, ok := r.st.bookings[id]; ok && b.State == state {
			out = append(out, b)
		}
	}
	return out, nil
}
