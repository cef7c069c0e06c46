package handler

import (
	"net/http"

	"farmhub-server/internal/service"
	"farmhub-server/pkg/response"
)

type WeatherHandler struct {
	weatherService *service.WeatherService
}

func NewWeatherHandler(weatherService *service.WeatherService) *WeatherHandler {
	return &WeatherHandler{
		weatherService: weatherService,
	}
}

// Get always answers 200: provider failures degrade to the fallback report
// with its Fallback flag set rather than an error page.
func (h *WeatherHandler) Get(w http.ResponseWriter, r *http.Request) {
	location := r.URL.Query().Get("location")

	report := h.weatherService.Report(r.Context(), location)
	response.Success(w, report)
}
