package config

import (
	"testing"
	"time"
)

func TestWeatherTimeoutDefault(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Weather.Timeout != 5*time.Second {
		t.Errorf("Weather.Timeout = %v, want 5s", cfg.Weather.Timeout)
	}
	// Weather lookups must not inherit the AI deadline.
	if cfg.Weather.Timeout == cfg.AI.Timeout {
		t.Error("weather and AI timeouts must be configured independently")
	}
}

func TestWeatherTimeoutOverride(t *testing.T) {
	t.Setenv("WEATHER_TIMEOUT", "2s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Weather.Timeout != 2*time.Second {
		t.Errorf("Weather.Timeout = %v, want 2s", cfg.Weather.Timeout)
	}
}

func TestWeatherTimeoutInvalid(t *testing.T) {
	t.Setenv("WEATHER_TIMEOUT", "soon")

	if _, err := Load(); err == nil {
		t.Fatal("Load() must reject an unparseable WEATHER_TIMEOUT")
	}
}
