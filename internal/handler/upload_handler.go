package handler

import (
	"encoding/json"
	"io"
	"net/http"

	"farmhub-server/internal/storage"
	"farmhub-server/pkg/response"

	"github.com/go-playground/validator/v10"
)

type UploadHandler struct {
	uploader  *storage.Uploader
	validator *validator.Validate
}

func NewUploadHandler(uploader *storage.Uploader) *UploadHandler {
	return &UploadHandler{
		uploader:  uploader,
		validator: validator.New(),
	}
}

const maxUploadBytes = 10 << 20

// Upload accepts a multipart image and stores it directly, for clients that
// cannot use the presigned flow.
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		response.Error(w, http.StatusServiceUnavailable, "Object storage not configured")
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		response.BadRequest(w, "Invalid multipart form")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		response.BadRequest(w, "Missing image file")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxUploadBytes))
	if err != nil {
		response.InternalError(w, "Failed to read upload")
		return
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	url, err := h.uploader.Upload(r.Context(), data, contentType)
	if err != nil {
		response.InternalError(w, "Failed to store upload")
		return
	}

	response.Created(w, map[string]string{"url": url})
}

type presignRequest struct {
	ContentType string `json:"content_type" validate:"required"`
}

// Presign hands the client a short-lived PUT URL so image uploads bypass the
// API server entirely.
func (h *UploadHandler) Presign(w http.ResponseWriter, r *http.Request) {
	if h.uploader == nil {
		response.Error(w, http.StatusServiceUnavailable, "Object storage not configured")
		return
	}

	var req presignRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request body")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		response.BadRequest(w, err.Error())
		return
	}

	uploadURL, objectURL, err := h.uploader.PresignUpload(r.Context(), req.ContentType)
	if err != nil {
		response.InternalError(w, "Failed to presign upload")
		return
	}

	response.Success(w, map[string]string{
		"upload_url": uploadURL,
		"object_url": objectURL,
	})
}
