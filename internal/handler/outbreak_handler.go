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

type OutbreakHandler struct {
	outbreakService *service.OutbreakService
	validator       *validator.Validate
}

func NewOutbreakHandler(outbreakService *service.OutbreakService) *OutbreakHandler {
	return &OutbreakHandler{
		outbreakService: outbreakService,
		validator:       validator.New(),
	}
}

func (h *OutbreakHandler) Report(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)

	var req domain.ReportOutbreakRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	outbreak, err := h.outbreakService.Report(r.Context(), userID, &req)
	if err != nil {
		writeError(w, err)
		return
	}

	response.Created(w, outbreak)
}

func (h *OutbreakHandler) List(w http.ResponseWriter, r *http.Request) {
	outbreaks, err := h.outbreakService.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, outbreaks)
}

type updateOutbreakStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=active contained resolved"`
}

func (h *OutbreakHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	id := mux.Vars(r)["id"]

	var req updateOutbreakStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	outbreak, err := h.outbreakService.UpdateStatus(r.Context(), userID, id, domain.OutbreakStatus(req.Status))
	if err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, outbreak)
}

func (h *OutbreakHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID := middleware.GetUserID(r)
	id := mux.Vars(r)["id"]

	if err := h.outbreakService.Delete(r.Context(), userID, id); err != nil {
		writeError(w, err)
		return
	}

	response.Success(w, map[string]string{"message": "Outbreak deleted"})
}
