// Package weather proxies current conditions from OpenWeatherMap.
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

	"golang.org/x/sync/singleflight"

	"github.com/shelfwise/shelfwise/internal/shared"
)

// DefaultURL is the current-weather endpoint.
const DefaultURL = "https://api.openweathermap.org/data/2.5/weather"

const fetchTimeout = 10 * time.Second

// ErrCityNotFound is returned when the upstream knows no such city.
var ErrCityNotFound = errors.New("weather: city not found")

// Report is the reshaped current-conditions payload.
type Report struct {
	City          string  `json:"city"`
	Country       string  `json:"country,omitempty"`
	Temp          float64 `json:"temp"`
	FeelsLike     float64 `json:"feels_like"`
	Humidity      int     `json:"humidity"`
	Pressure      int     `json:"pressure"`
	Description   string  `json:"description,omitempty"`
	WindSpeed     float64 `json:"wind_speed"`
	WindDirection int     `json:"wind_direction"`
}

// upstream mirrors the subset of the OpenWeatherMap response that is used.
// cod is a number on success and a string on errors.
type upstream struct {
	Cod     json.Number `json:"cod"`
	Message string      `json:"message"`
	Name    string      `json:"name"`
	Sys     struct {
		Country string `json:"country"`
	} `json:"sys"`
	Main *struct {
		Temp      float64 `json:"temp"`
		FeelsLike float64 `json:"feels_like"`
		Humidity  int     `json:"humidity"`
		Pressure  int     `json:"pressure"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Wind struct {
		Speed float64 `json:"speed"`
		Deg   int     `json:"deg"`
	} `json:"wind"`
}

// Client fetches reports. Concurrent lookups of the same city share one
// upstream request.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	group      singleflight.Group
}

// NewClient creates a client. If httpClient is nil, a default client with a
// 10s timeout is used.
func NewClient(baseURL, apiKey string, httpClient *http.Client) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: fetchTimeout}
	}
	return &Client{baseURL: baseURL, apiKey: apiKey, httpClient: httpClient}
}

// Current returns the conditions for city in metric units. The shared
// upstream request outlives any single caller and is bounded by fetchTimeout;
// each caller stops waiting when its own ctx ends.
func (c *Client) Current(ctx context.Context, city string) (Report, error) {
	key := strings.ToLower(city)
	ch := c.group.DoChan(key, func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		return c.fetch(fetchCtx, city)
	})
	select {
	case <-ctx.Done():
		return Report{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return Report{}, res.Err
		}
		return res.Val.(Report), nil
	}
}

func (c *Client) fetch(ctx context.Context, city string) (Report, error) {
	q := url.Values{}
	q.Set("q", city)
	q.Set("units", "metric")
	q.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Report{}, fmt.Errorf("weather: build request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Report{}, fmt.Errorf("weather: request: %w: %w", shared.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Report{}, fmt.Errorf("weather: read body: %w: %w", shared.ErrUpstreamUnavailable, err)
	}

	var data upstream
	if err := json.Unmarshal(body, &data); err != nil {
		return Report{}, fmt.Errorf("weather: decode (status %d): %w: %w", resp.StatusCode, shared.ErrUpstreamUnavailable, err)
	}
	if resp.StatusCode == http.StatusNotFound || data.Cod.String() == "404" {
		return Report{}, ErrCityNotFound
	}
	if resp.StatusCode != http.StatusOK || data.Main == nil {
		msg := data.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return Report{}, fmt.Errorf("weather: upstream status %d: %s: %w", resp.StatusCode, msg, shared.ErrUpstreamUnavailable)
	}

	r := Report{
		City:          data.Name,
		Country:       data.Sys.Country,
		Temp:          data.Main.Temp,
		FeelsLike:     data.Main.FeelsLike,
		Humidity:      data.Main.Humidity,
		Pressure:      data.Main.Pressure,
		WindSpeed:     data.Wind.Speed,
		WindDirection: data.Wind.Deg,
	}
	if len(data.Weather) > 0 {
		r.Description = data.Weather[0].Description
	}
	return r, nil
}
