package upstream

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"time"
)

// WeatherClient wraps the three-call provider sequence: geocode the location
// name, then fetch current weather and the 5-day forecast for the resolved
// coordinates. Response shapes follow the OpenWeatherMap API.
type WeatherClient struct {
	fetcher *Fetcher
	baseURL string
	geoURL  string
	apiKey  string
}

func NewWeatherClient(fetcher *Fetcher, baseURL, geoURL, apiKey string) *WeatherClient {
	return &WeatherClient{
		fetcher: fetcher,
		baseURL: baseURL,
		geoURL:  geoURL,
		apiKey:  apiKey,
	}
}

type geoResult struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

type currentResponse struct {
	Name    string `json:"name"`
	Weather []struct {
		Main string `json:"main"`
		Icon string `json:"icon"`
	} `json:"weather"`
	Main struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Wind struct {
		Speed float64 `json:"speed"` // m/s
	} `json:"wind"`
	Sys struct {
		Country string `json:"country"`
	} `json:"sys"`
}

type forecastResponse struct {
	List []struct {
		Dt   int64 `json:"dt"`
		Main struct {
			Temp    float64 `json:"temp"`
			TempMax float64 `json:"temp_max"`
			TempMin float64 `json:"temp_min"`
		} `json:"main"`
		Weather []struct {
			Main string `json:"main"`
			Icon string `json:"icon"`
		} `json:"weather"`
	} `json:"list"`
}

// Observation is the provider data for one location before any advisory
// derivation.
type Observation struct {
	Location  string
	Condition string
	TempC     float64
	FeelsLike float64
	Humidity  int
	WindKmh   float64
	Pressure  int
	Icon      string
	Forecast  []ForecastEntry
}

type ForecastEntry struct {
	Day  string
	Temp float64
	Icon string
}

// Geocode resolves a free-form location name to coordinates. A name the
// provider does not know yields a FetchError with status 404.
func (c *WeatherClient) Geocode(ctx context.Context, location string) (lat, lon float64, err error) {
	u := fmt.Sprintf("%s/geo/1.0/direct?q=%s&limit=1&appid=%s", c.geoURL, url.QueryEscape(location), c.apiKey)

	var results []geoResult
	if err := c.fetcher.FetchJSON(ctx, http.MethodGet, u, nil, nil, &results); err != nil {
		return 0, 0, err
	}
	if len(results) == 0 {
		return 0, 0, &FetchError{Status: http.StatusNotFound, Body: "location not found"}
	}
	return results[0].Lat, results[0].Lon, nil
}

// Fetch runs the full sequence for location and reduces the provider payloads
// to an Observation: wind converted from m/s to km/h, the forecast collapsed
// to one noon reading per day, five entries at most.
func (c *WeatherClient) Fetch(ctx context.Context, location string) (*Observation, error) {
	lat, lon, err := c.Geocode(ctx, location)
	if err != nil {
		return nil, err
	}

	var current currentResponse
	u := fmt.Sprintf("%s/data/2.5/weather?lat=%f&lon=%f&units=metric&appid=%s", c.baseURL, lat, lon, c.apiKey)
	if err := c.fetcher.FetchJSON(ctx, http.MethodGet, u, nil, nil, &current); err != nil {
		return nil, err
	}
	if len(current.Weather) == 0 {
		return nil, &FetchError{Status: http.StatusOK, Cause: fmt.Errorf("weather response missing conditions")}
	}

	var forecast forecastResponse
	u = fmt.Sprintf("%s/data/2.5/forecast?lat=%f&lon=%f&units=metric&appid=%s", c.baseURL, lat, lon, c.apiKey)
	if err := c.fetcher.FetchJSON(ctx, http.MethodGet, u, nil, nil, &forecast); err != nil {
		return nil, err
	}

	obs := &Observation{
		Location:  current.Name,
		Condition: current.Weather[0].Main,
		TempC:     current.Main.Temp,
		FeelsLike: current.Main.FeelsLike,
		Humidity:  current.Main.Humidity,
		WindKmh:   math.Round(current.Wind.Speed * 3.6),
		Pressure:  current.Main.Pressure,
		Icon:      current.Weather[0].Icon,
	}
	if current.Sys.Country != "" {
		obs.Location = current.Name + ", " + current.Sys.Country
	}

	obs.Forecast = append(obs.Forecast, ForecastEntry{
		Day:  "Today",
		Temp: current.Main.Temp,
		Icon: current.Weather[0].Icon,
	})

	seen := map[string]bool{"Today": true}
	today := time.Now().Weekday().String()[:3]
	seen[today] = true
	for _, item := range forecast.List {
		if len(obs.Forecast) >= 5 {
			break
		}
		ts := time.Unix(item.Dt, 0)
		day := ts.Weekday().String()[:3]
		// One reading per day, taken at noon.
		if ts.Hour() != 12 || seen[day] || len(item.Weather) == 0 {
			continue
		}
		seen[day] = true
		obs.Forecast = append(obs.Forecast, ForecastEntry{
			Day:  day,
			Temp: item.Main.Temp,
			Icon: item.Weather[0].Icon,
		})
	}

	return obs, nil
}
