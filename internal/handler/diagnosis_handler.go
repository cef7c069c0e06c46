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

type DiagnosisHandler struct {
	diagnosisService *service.DiagnosisService
	validator        *validator.Validate
}

func NewDiagnosisHandler(diagnosisService *service.DiagnosisService) *DiagnosisHandler {
	return &DiagnosisHandler{
		diagnosisService: diagnosisService,
		validator:        validator.New(),
	}
}

func (h *DiagnosisHandler) Diagnose(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	var req domain.CreateDiagnosisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}
	// The image may arrive inline instead of as a URL.
	if req.ImageURL == "" && req.ImageData == "" {
		response.BadRequest(w, "Either image_url or image_data is required")
		return
	}

	diagnosis, err := h.diagnosisService.Diagnose(r.Context(), userID, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, diagnosis)
}

func (h *DiagnosisHandler) History(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	diagnoses, err := h.diagnosisService.History(r.Context(), userID)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, diagnoses)
}

func (h *DiagnosisHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	id := mux.Vars(r)["id"]

	diagnosis, ok := h.diagnosisService.Get(userID, id)
	if !ok {
		response.NotFound(w, "Diagnosis not found")
		return
	}

	response.Success(w, diagnosis)
}

func (h *DiagnosisHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	id := mux.Vars(r)["id"]

	if err := h.diagnosisService.Delete(r.Context(), userID, id); err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, map[string]string{"message": "Diagnosis deleted"})
}
