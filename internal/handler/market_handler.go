package handler

import (
	"encoding/json"
	"net/http"

	"farmhub-server/internal/domain"
	"farmhub-server/internal/middleware"
	"farmhub-server/internal/service"
	"farmhub-server/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
)

type MarketHandler struct {
	marketService *service.MarketService
	validator     *validator.Validate
}

func NewMarketHandler(marketService *service.MarketService) *MarketHandler {
	return &MarketHandler{
		marketService: marketService,
		validator:     validator.New(),
	}
}

func (h *MarketHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	var req domain.CreateListingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	listing, err := h.marketService.CreateListing(r.Context(), userID, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, listing)
}

func (h *MarketHandler) Browse(w http.ResponseWriter, r *http.Request) {
	listings, err := h.marketService.Browse(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, listings)
}

func (h *MarketHandler) Mine(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	listings, err := h.marketService.MyListings(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, listings)
}

func (h *MarketHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	id := mux.Vars(r)["id"]

	listing, err := h.marketService.Deactivate(r.Context(), userID, id)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, listing)
}

func (h *MarketHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	id := mux.Vars(r)["id"]

	if err := h.marketService.Delete(r.Context(), userID, id); err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, map[string]string{"message": "Listing deleted"})
}
