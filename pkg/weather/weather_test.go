package weather

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestKelvinToFahrenheitFixedPoints(t *testing.T) {
	t.Parallel()

	if got := KelvinToFahrenheit(273.15); got != 32.0 {
		t.Fatalf("KelvinToFahrenheit(273.15) = %v, want 32.0", got)
	}
	if got := KelvinToFahrenheit(373.15); got != 212.0 {
		t.Fatalf("KelvinToFahrenheit(373.15) = %v, want 212.0", got)
	}
}

func TestForecastConvertsAndMaps(t *testing.T) {
	t.Parallel()

	var gotLat, gotLon, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		gotLat, gotLon, gotKey = q.Get("lat"), q.Get("lon"), q.Get("appid")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"list": [{
			"dt_txt": "2026-08-30 12:00:00",
			"main": {"temp": 293.15, "pressure": 1013, "humidity": 40},
			"weather": [{"description": "clear sky"}],
			"wind": {"speed": 3.1},
			"clouds": {"all": 5}
		}]}`))
	}))
	defer server.Close()

	client := MustNew(Config{BaseURL: server.URL, APIKey: "test-key"})
	entries, err := client.Forecast(context.Background(), "38.29", "122.28")
	if err != nil {
		t.Fatalf("Forecast() error = %v", err)
	}

	if gotLat != "38.29" || gotLon != "122.28" || gotKey != "test-key" {
		t.Fatalf("query = (%s, %s, %s), want passed-through params", gotLat, gotLon, gotKey)
	}
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	entry := entries[0]
	if entry.Temperature != 68.0 {
		t.Fatalf("Temperature = %v, want 68.0 for 293.15K", entry.Temperature)
	}
	if entry.Weather != "clear sky" || entry.Pressure != 1013 || entry.Humidity != 40 {
		t.Fatalf("entry = %+v, want mapped fields", entry)
	}
	if entry.Datetime != "2026-08-30 12:00:00" {
		t.Fatalf("Datetime = %q", entry.Datetime)
	}
}

func TestForecastErrorStatus(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer server.Close()

	client := MustNew(Config{BaseURL: server.URL, APIKey: "bad-key"})
	if _, err := client.Forecast(context.Background(), "0", "0"); err == nil {
		t.Fatalf("Forecast() error = nil, want status error")
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Parallel()

	if _, err := NewClient(Config{}); err == nil {
		t.Fatalf("NewClient() error = nil, want missing key error")
	}
}
