package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"strings"
	"time"

	"farmhub-server/internal/cache"
	"farmhub-server/internal/domain"
	"farmhub-server/internal/upstream"
)

// DefaultLocation is shown when the user has not set one and the provider
// cannot be reached.
const DefaultLocation = "Visakhapatnam"

type WeatherService struct {
	cache  *cache.TTLCache[string, *domain.WeatherReport]
	client *upstream.WeatherClient
}

func NewWeatherService(c *cache.TTLCache[string, *domain.WeatherReport], client *upstream.WeatherClient) *WeatherService {
	return &WeatherService{
		cache:  c,
		client: client,
	}
}

// Report returns the advisory payload for location, serving from cache while
// fresh. Provider failures degrade to a canned fallback report that is
// returned but never cached, so the next request retries the provider.
func (s *WeatherService) Report(ctx context.Context, location string) *domain.WeatherReport {
	if location == "" {
		location = DefaultLocation
	}
	key := strings.ToLower(strings.TrimSpace(location))

	if report, ok := s.cache.Get(key); ok {
		return report
	}

	obs, err := s.client.Fetch(ctx, location)
	if err != nil {
		log.Printf("weather fetch for %q failed: %v", location, err)
		return fallbackReport()
	}

	report := buildReport(obs)
	s.cache.Put(key, report)
	return report
}

func buildReport(obs *upstream.Observation) *domain.WeatherReport {
	current := domain.CurrentWeather{
		Location:    obs.Location,
		Condition:   obs.Condition,
		Temperature: int(math.Round(obs.TempC)),
		FeelsLike:   int(math.Round(obs.FeelsLike)),
		Humidity:    obs.Humidity,
		WindSpeed:   int(obs.WindKmh),
		Pressure:    obs.Pressure,
		Icon:        obs.Icon,
	}

	forecast := make([]domain.ForecastDay, 0, len(obs.Forecast))
	for _, f := range obs.Forecast {
		forecast = append(forecast, domain.ForecastDay{
			Day:  f.Day,
			Temp: int(math.Round(f.Temp)),
			Icon: f.Icon,
		})
	}

	return &domain.WeatherReport{
		Current:     current,
		Forecast:    forecast,
		Advisories:  advisories(current),
		Irrigation:  irrigationHint(current),
		RetrievedAt: time.Now(),
	}
}

// advisories derives the farming warnings shown under the weather card.
func advisories(w domain.CurrentWeather) []string {
	var out []string
	if w.Temperature > 30 {
		out = append(out, fmt.Sprintf("High temperature (%d°C): provide shade for sensitive crops and water early morning or evening.", w.Temperature))
	}
	if w.Humidity > 70 {
		out = append(out, fmt.Sprintf("High humidity (%d%%): watch for fungal diseases; ensure good air circulation.", w.Humidity))
	}
	if w.WindSpeed > 15 {
		out = append(out, fmt.Sprintf("Strong wind (%d km/h): delay spraying and stake tall plants.", w.WindSpeed))
	}
	if strings.Contains(strings.ToLower(w.Condition), "rain") {
		out = append(out, "Rain expected: hold off on irrigation and fertilizer application.")
	}
	return out
}

func irrigationHint(w domain.CurrentWeather) string {
	switch {
	case strings.Contains(strings.ToLower(w.Condition), "rain"):
		return "Skip irrigation today; rainfall should cover crop water needs."
	case w.Temperature > 30 && w.Humidity < 50:
		return "Hot and dry: irrigate deeply today, preferably before 9 AM."
	case w.Humidity > 70:
		return "Humid conditions: reduce irrigation to avoid waterlogging."
	default:
		return "Normal conditions: follow your regular irrigation schedule."
	}
}

// fallbackReport is the canned Visakhapatnam payload used when the provider is
// down. Callers must not cache it.
func fallbackReport() *domain.WeatherReport {
	current := domain.CurrentWeather{
		Location:    "Visakhapatnam, IN",
		Condition:   "Partly Cloudy",
		Temperature: 32,
		FeelsLike:   35,
		Humidity:    78,
		WindSpeed:   14,
		Icon:        "02d",
	}
	return &domain.WeatherReport{
		Current: current,
		Forecast: []domain.ForecastDay{
			{Day: "Today", Temp: 32, Icon: "02d"},
			{Day: "Tomorrow", Temp: 31, Icon: "02d"},
			{Day: "Day 3", Temp: 33, Icon: "01d"},
			{Day: "Day 4", Temp: 30, Icon: "10d"},
			{Day: "Day 5", Temp: 31, Icon: "02d"},
		},
		Advisories:  advisories(current),
		Irrigation:  irrigationHint(current),
		Fallback:    true,
		RetrievedAt: time.Now(),
	}
}
