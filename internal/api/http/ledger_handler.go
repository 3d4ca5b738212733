package http

import (
	"encoding/json"
	"net/http"

	"rentvault-backend/internal/service"
)

type LedgerHandler struct {
	ledger service.LedgerService
}

func NewLedgerHandler(ledger service.LedgerService) *LedgerHandler {
	return &LedgerHandler{ledger: ledger}
}

func (h *LedgerHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	amount, err := h.ledger.Withdraw(r.Context(), caller)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int64{"withdrawn": amount})
}

func (h *LedgerHandler) WithdrawPlatformFees(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	amount, err := h.ledger.WithdrawPlatformFees(r.Context(), caller)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int64{"withdrawn": amount})
}

type depositPoolRequest struct {
	Amount int64 `json:"amount"`
}

func (h *LedgerHandler) DepositInsurancePool(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var req depositPoolRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}

	if err := h.ledger.DepositInsurancePool(r.Context(), caller, req.Amount); err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int64{"deposited": req.Amount})
}

func (h *LedgerHandler) Balances(w http.ResponseWriter, r *http.Request) {
	balances, err := h.ledger.Balances(r.Context())
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, balances)
}

func (h *LedgerHandler) Withdrawable(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	balance, err := h.ledger.Withdrawable(r.Context(), caller.Account)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, map[string]int64{"withdrawable": balance})
}
