// Package weather wraps the OpenWeather five-day forecast API. The upstream
// reports Kelvin; temperatures are converted to Fahrenheit at this edge so
// every consumer sees one unit.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	contractx "github.com/voyagent/voyagent/agent/contract"
)

const defaultBaseURL = "https://api.openweathermap.org/data/2.5/forecast"

type Config struct {
	BaseURL string        `split_words:"true" default:"https://api.openweathermap.org/data/2.5/forecast"`
	APIKey  string        `split_words:"true" required:"true"`
	Timeout time.Duration `split_words:"true" default:"10s"`
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

var _ contractx.Forecaster = (*Client)(nil)

func NewClient(cfg Config) (*Client, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("weather api key is required")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  strings.TrimSpace(cfg.APIKey),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func MustNew(cfg Config) *Client {
	client, err := NewClient(cfg)
	if err != nil {
		panic(err)
	}
	return client
}

type forecastResponse struct {
	List []struct {
		DtTxt string `json:"dt_txt"`
		Main  struct {
			Temp     float64 `json:"temp"`
			Pressure int     `json:"pressure"`
			Humidity int     `json:"humidity"`
		} `json:"main"`
		Weather []struct {
			Description string `json:"description"`
		} `json:"weather"`
		Wind   map[string]any `json:"wind"`
		Clouds map[string]any `json:"clouds"`
	} `json:"list"`
}

// Forecast returns the time-series forecast for a coordinate pair.
func (c *Client) Forecast(ctx context.Context, lat, lon string) ([]contractx.ForecastEntry, error) {
	params := url.Values{}
	params.Set("lat", lat)
	params.Set("lon", lon)
	params.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("weather: build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("weather: query: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("weather: unexpected status %d", resp.StatusCode)
	}

	var decoded forecastResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("weather: decode response: %w", err)
	}

	entries := make([]contractx.ForecastEntry, 0, len(decoded.List))
	for _, item := range decoded.List {
		condition := ""
		if len(item.Weather) > 0 {
			condition = item.Weather[0].Description
		}
		entries = append(entries, contractx.ForecastEntry{
			Datetime:    item.DtTxt,
			Temperature: KelvinToFahrenheit(item.Main.Temp),
			Pressure:    item.Main.Pressure,
			Humidity:    item.Main.Humidity,
			Weather:     condition,
			Wind:        item.Wind,
			Clouds:      item.Clouds,
		})
	}
	return entries, nil
}

// KelvinToFahrenheit converts an absolute temperature to Fahrenheit.
func KelvinToFahrenheit(k float64) float64 {
	return (k-273.15)*9/5 + 32
}
