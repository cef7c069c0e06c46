package domain

import "time"

// CurrentWeather mirrors what the dashboard weather card displays.
type CurrentWeather struct {
	Location    string `json:"location"`
	Condition   string `json:"condition"`
	Temperature int    `json:"temperature"` // °C
	FeelsLike   int    `json:"feels_like,omitempty"`
	Humidity    int    `json:"humidity"`   // %
	WindSpeed   int    `json:"wind_speed"` // km/h
	Pressure    int    `json:"pressure,omitempty"`
	Icon        string `json:"icon"`
}

type ForecastDay struct {
	Day  string `json:"day"`
	Temp int    `json:"temp"`
	High int    `json:"high,omitempty"`
	Low  int    `json:"low,omitempty"`
	Icon string `json:"icon"`
}

// WeatherReport is the full advisory payload: live or fallback data plus the
// farming recommendations derived from it.
type WeatherReport struct {
	Current     CurrentWeather `json:"current"`
	Forecast    []ForecastDay  `json:"forecast"`
	Advisories  []string       `json:"advisories,omitempty"`
	Irrigation  string         `json:"irrigation,omitempty"`
	Fallback    bool           `json:"fallback"`
	RetrievedAt time.Time      `json:"retrieved_at"`
}
