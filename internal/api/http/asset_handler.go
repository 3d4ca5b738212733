package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"rentvault-backend/internal/service"
)

type AssetHandler struct {
	registry service.RegistryService
}

func NewAssetHandler(registry service.RegistryService) *AssetHandler {
	return &AssetHandler{registry: registry}
}

type registerAssetRequest struct {
	PricePerHour int64 `json:"price_per_hour"`
}

func (h *AssetHandler) Register(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}

	var req registerAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}

	asset, err := h.registry.RegisterAsset(r.Context(), caller, req.PricePerHour)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusCreated, asset)
}

type updateAssetRequest struct {
	PricePerHour int64 `json:"price_per_hour"`
	Available    bool  `json:"available"`
}

func (h *AssetHandler) Update(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	assetID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req updateAssetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}

	asset, err := h.registry.UpdateAsset(r.Context(), caller, assetID, req.PricePerHour, req.Available)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, asset)
}

type transferOwnershipRequest struct {
	NewOwner string `json:"new_owner"`
}

func (h *AssetHandler) Transfer(w http.ResponseWriter, r *http.Request) {
	caller, ok := requireCaller(w, r)
	if !ok {
		return
	}
	assetID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	var req transferOwnershipRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "malformed JSON body")
		return
	}

	asset, err := h.registry.TransferOwnership(r.Context(), caller, assetID, req.NewOwner)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, asset)
}

func (h *AssetHandler) Get(w http.ResponseWriter, r *http.Request) {
	assetID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	asset, err := h.registry.GetAsset(r.Context(), assetID)
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, asset)
}

func (h *AssetHandler) Quote(w http.ResponseWriter, r *http.Request) {
	assetID, ok := pathID(w, r, "id")
	if !ok {
		return
	}

	hours, err := strconv.ParseInt(r.URL.Query().Get("hours"), 10, 32)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "hours query parameter required")
		return
	}

	quote, err := h.registry.Quote(r.Context(), assetID, int32(hours))
	if err != nil {
		respondWithDomainError(w, err)
		return
	}
	respondWithJSON(w, http.StatusOK, quote)
}

// pathID parses the named path variable as an int64 id, writing a 400
// on failure.
func pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid "+name+" path parameter")
		return 0, false
	}
	return id, true
}
