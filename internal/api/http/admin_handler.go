package http

import (
	"context"
	"encoding/json"
	"net/http"

	"rentvault-backend/internal/service"
)

type AdminHandler struct {
	governance service.GovernanceService
}

func NewAdminHandler(governance service.GovernanceService) *AdminHandler {
	return &AdminHandler{governance: governance}
}

func (h *AdminHandler) GetParams(w http.ResponseWriter, r *http.Request) {
	params, err := h.governance.GetParams(r.Context())
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, params)
}

type setRateRequest struct {
	RateBps int32 `json:"rate_bps"`
}

func (h *AdminHandler) SetPlatformFeeRate(w http.ResponseWriter, r *http.Request) {
	h.setRate(w, r, h.governance.SetPlatformFeeRate)
}

func (h *AdminHandler) SetInsuranceRate(w http.ResponseWriter, r *http.Request) {
	h.setRate(w, r, h.governance.SetInsuranceRate)
}

func (h *AdminHandler) setRate(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, caller service.Caller, rateBps int32) error,
) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var req setRateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}

	if err := op(r.Context(), caller, req.RateBps); err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int32{"rate_bps": req.RateBps})
}

type setTreasuryRequest struct {
	Account string `json:"account"`
}

func (h *AdminHandler) SetTreasury(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var req setTreasuryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}

	if err := h.governance.SetTreasury(r.Context(), caller, req.Account); err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]string{"treasury_account": req.Account})
}

func (h *AdminHandler) Pause(w http.ResponseWriter, r *http.Request) {
	h.setPaused(w, r, h.governance.Pause, true)
}

func (h *AdminHandler) Unpause(w http.ResponseWriter, r *http.Request) {
	h.setPaused(w, r, h.governance.Unpause, false)
}

func (h *AdminHandler) setPaused(w http.ResponseWriter, r *http.Request,
	op func(ctx context.Context, caller service.Caller) error, paused bool,
) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	if err := op(r.Context(), caller); err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]bool{"paused": paused})
}
