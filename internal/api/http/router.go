package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rentvault-backend/internal/security"
	"rentvault-backend/internal/service"
)

// RouterDeps bundles everything the HTTP surface needs.
type RouterDeps struct {
	Registry   service.RegistryService
	Bookings   service.BookingService
	Insurance  service.InsuranceService
	Ledger     service.LedgerService
	Governance service.GovernanceService
	Tokens     security.TokenManager
	APIKeys    *security.APIKeyVerifier
}

// NewRouter builds the full route table. Reads are open; every mutating
// route resolves a caller through the auth middleware and the service
// layer enforces ownership and capability from there.
func NewRouter(deps RouterDeps) *mux.Router {
	assets := NewAssetHandler(deps.Registry)
	bookings := NewBookingHandler(deps.Bookings, deps.Insurance)
	ledger := NewLedgerHandler(deps.Ledger)
	admin := NewAdminHandler(deps.Governance)

	r := mux.NewRouter()
	r.Use(RequestIDMiddleware)
	r.Use(MetricsMiddleware)
	r.Use(AuthMiddleware(deps.Tokens, deps.APIKeys))

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		respondWithJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/v1").Subrouter()

	api.HandleFunc("/assets", assets.Register).Methods(http.MethodPost)
	api.HandleFunc("/assets/{id}", assets.Get).Methods(http.MethodGet)
	api.HandleFunc("/assets/{id}", assets.Update).Methods(http.MethodPut)
	api.HandleFunc("/assets/{id}/transfer", assets.Transfer).Methods(http.MethodPost)
	api.HandleFunc("/assets/{id}/quote", assets.Quote).Methods(http.MethodGet)

	api.HandleFunc("/bookings", bookings.Create).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}", bookings.Get).Methods(http.MethodGet)
	api.HandleFunc("/bookings/{id}/activate", bookings.Activate).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/complete", bookings.Complete).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/cancel", bookings.Cancel).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/refund", bookings.Refund).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/claim", bookings.SubmitClaim).Methods(http.MethodPost)
	api.HandleFunc("/bookings/{id}/claim/settle", bookings.SettleClaim).Methods(http.MethodPost)

	api.HandleFunc("/ledger/balances", ledger.Balances).Methods(http.MethodGet)
	api.HandleFunc("/ledger/withdrawable", ledger.Withdrawable).Methods(http.MethodGet)
	api.HandleFunc("/withdrawals", ledger.Withdraw).Methods(http.MethodPost)
	api.HandleFunc("/platform-fees/withdrawals", ledger.WithdrawPlatformFees).Methods(http.MethodPost)
	api.HandleFunc("/insurance-pool/deposits", ledger.DepositInsurancePool).Methods(http.MethodPost)

	api.HandleFunc("/params", admin.GetParams).Methods(http.MethodGet)
	api.HandleFunc("/params/platform-fee-rate", admin.SetPlatformFeeRate).Methods(http.MethodPut)
	api.HandleFunc("/params/insurance-rate", admin.SetInsuranceRate).Methods(http.MethodPut)
	api.HandleFunc("/params/treasury", admin.SetTreasury).Methods(http.MethodPut)
	api.HandleFunc("/pause", admin.Pause).Methods(http.MethodPost)
	api.HandleFunc("/unpause", admin.Unpause).Methods(http.MethodPost)

	return r
}
