package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"rentvault-backend/internal/domain"
)

func respondWithJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload != nil {
		json.NewEncoder(w).Encode(payload)
	}
}

func respondWithError(w http.ResponseWriter, status int, message string) {
	respondWithJSON(w, status, map[string]string{"error": message})
}

// respondWithDomainError maps the engine error taxonomy onto HTTP
// status codes. Every rejection keeps its specific reason text so no
// error collapses into a generic failure.
func respondWithDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrAssetNotFound),
		errors.Is(err, domain.ErrBookingNotFound),
		errors.Is(err, domain.ErrNothingToWithdraw):
		status = http.StatusNotFound
	case errors.Is(err, domain.ErrNotOwner),
		errors.Is(err, domain.ErrNotAuthorized):
		status = http.StatusForbidden
	case errors.Is(err, domain.ErrInvalidPrice),
		errors.Is(err, domain.ErrInvalidRate),
		errors.Is(err, domain.ErrInvalidAccount),
		errors.Is(err, domain.ErrInvalidHours),
		errors.Is(err, domain.ErrStartInPast),
		errors.Is(err, domain.ErrWrongPayment),
		errors.Is(err, domain.ErrAssetUnavailable),
		errors.Is(err, domain.ErrInsufficientPool):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrTooEarly),
		errors.Is(err, domain.ErrTooLate),
		errors.Is(err, domain.ErrOperationInProgress):
		status = http.StatusConflict
	case errors.Is(err, domain.ErrPaused):
		status = http.StatusServiceUnavailable
	case errors.Is(err, domain.ErrTransferFailed):
		status = http.StatusBadGateway
	}
	respondWithError(w, status, err.Error())
}
