package http

import (
	"context"
	"encoding/json"
	"net/http"

	"rentvault-backend/internal/domain"
	"rentvault-backend/internal/metrics"
	"rentvault-backend/internal/service"
)

type BookingHandler struct {
	bookings  service.BookingService
	insurance service.InsuranceService
}

func NewBookingHandler(bookings service.BookingService, insurance service.InsuranceService) *BookingHandler {
	return &BookingHandler{bookings: bookings, insurance: insurance}
}

type createBookingRequest struct {
	AssetID   int64 `json:"asset_id"`
	StartTime int64 `json:"start_time"`
	Hours     int32 `json:"hours"`
	Payment   int64 `json:"payment"`
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}

	booking, err := h.bookings.BookAsset(r.Context(), caller, req.AssetID, req.StartTime, req.Hours, req.Payment)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	metrics.BookingTransitionsTotal.WithLabelValues(string(booking.State)).Inc()
	respondWithJSON(w, http.StatusCreated, booking)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	bookingID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	booking, err := h.bookings.GetBooking(r.Context(), bookingID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, booking)
}

// applyTransition adapts the single-booking transition operations,
// which all share a signature, to one handler shape.
func (h *BookingHandler) applyTransition(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, caller service.Caller, bookingID int64) (*domain.Booking, error),
) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	bookingID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	booking, err := op(r.Context(), caller, bookingID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	metrics.BookingTransitionsTotal.WithLabelValues(string(booking.State)).Inc()
	respondWithJSON(w, http.StatusOK, booking)
}

func (h *BookingHandler) Activate(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, h.bookings.ActivateBooking)
}

func (h *BookingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, h.bookings.CompleteBooking)
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, h.bookings.CancelBooking)
}

func (h *BookingHandler) Refund(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, h.bookings.RefundBooking)
}

func (h *BookingHandler) SubmitClaim(w http.ResponseWriter, r *http.Request) {
	h.applyTransition(w, r, h.insurance.SubmitClaim)
}

type settleClaimRequest struct {
	Recipient string `json:"recipient"`
	Amount    int64  `json:"amount"`
}

func (h *BookingHandler) SettleClaim(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	bookingID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req settleClaimRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}

	booking, err := h.insurance.SettleClaim(r.Context(), caller, bookingID, req.Recipient, req.Amount)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	metrics.BookingTransitionsTotal.WithLabelValues(string(booking.State)).Inc()
	respondWithJSON(w, http.StatusOK, booking)
}
