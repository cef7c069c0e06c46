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

type SoilHandler struct {
	soilService *service.SoilService
	validator   *validator.Validate
}

func NewSoilHandler(soilService *service.SoilService) *SoilHandler {
	return &SoilHandler{
		soilService: soilService,
		validator:   validator.New(),
	}
}

func (h *SoilHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	var req domain.CreateSoilAnalysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	analysis, err := h.soilService.Create(r.Context(), userID, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, analysis)
}

func (h *SoilHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	analyses, err := h.soilService.History(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, analyses)
}

func (h *SoilHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	id := mux.Vars(r)["id"]

	analysis, ok := h.soilService.Get(userID, id)
	if !ok {
		response.NotFound(w, "Soil analysis not found")
		return
	}

	response.Success(w, analysis)
}

func (h *SoilHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	id := mux.Vars(r)["id"]

	if err := h.soilService.Delete(r.Context(), userID, id); err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, map[string]string{"message": "Soil analysis deleted"})
}
