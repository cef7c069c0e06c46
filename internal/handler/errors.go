package handler

import (
	"errors"
	"net/http"

	"farmhub-server/internal/domain"
	"farmhub-server/pkg/response"
)

// writeError maps the shared error taxonomy onto HTTP statuses. Anything
// outside the taxonomy is a 500.
func writeError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	var networkErr *domain.NetworkError
	var aiErr *domain.UpstreamAIError

	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.NotFound(w, "Resource not found")
	case errors.Is(err, domain.ErrUnauthorized):
		response.Forbidden(w, "Not allowed")
	case errors.As(err, &validationErr):
		response.BadRequest(w, validationErr.Error())
	case errors.As(err, &aiErr):
		response.BadGateway(w, aiErr.Error())
	case errors.As(err, &networkErr):
		response.BadGateway(w, "Upstream store unavailable")
	default:
		response.InternalError(w, err.Error())
	}
}
