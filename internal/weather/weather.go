// Package weather fetches current conditions from the OpenWeatherMap API.
package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// DefaultBaseURL is the OpenWeatherMap current-weather endpoint.
const DefaultBaseURL = "https://api.openweathermap.org/data/2.5/weather"

// Observation is the subset of the API response the clockface uses.
type Observation struct {
	// Temperature in degrees Celsius.
	Temperature float64
	// Description is the short condition text (e.g. "light rain").
	Description string
	// FetchedAt is when the observation was retrieved.
	FetchedAt time.Time
}

// Client queries current conditions for a fixed location.
type Client struct {
	client  *http.Client
	baseURL string
	apiKey  string
	lat     float64
	lon     float64
}

// NewClient creates a weather client for the given coordinates.
func NewClient(apiKey string, lat, lon float64) *Client {
	return &Client{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
		baseURL: DefaultBaseURL,
		apiKey:  apiKey,
		lat:     lat,
		lon:     lon,
	}
}

// SetBaseURL overrides the API endpoint; used in tests.
func (c *Client) SetBaseURL(u string) {
	c.baseURL = u
}

// owmResponse mirrors the parts of the OpenWeatherMap JSON payload we
// decode. The "cod" field is a number on success but a string on some
// error responses, so it is captured as a raw message.
type owmResponse struct {
	Cod  json.RawMessage `json:"cod"`
	Main struct {
		Temp float64 `json:"temp"`
	} `json:"main"`
	Weather []struct {
		Description string `json:"description"`
	} `json:"weather"`
	Message string `json:"message"`
}

// Current fetches the current observation, in metric units.
func (c *Client) Current(ctx context.Context) (Observation, error) {
	if c.apiKey == "" {
		return Observation{}, errors.New("weather: API key is empty")
	}

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(c.lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(c.lon, 'f', -1, 64))
	q.Set("units", "metric")
	q.Set("appid", c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return Observation{}, err
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return Observation{}, err
	}
	defer resp.Body.Close()

	var body owmResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Observation{}, fmt.Errorf("weather: decoding response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if body.Message != "" {
			return Observation{}, fmt.Errorf("weather: %s: %s", resp.Status, body.Message)
		}
		return Observation{}, fmt.Errorf("weather: %s", resp.Status)
	}

	obs := Observation{
		Temperature: body.Main.Temp,
		FetchedAt:   time.Now(),
	}
	if len(body.Weather) > 0 {
		obs.Description = body.Weather[0].Description
	}
	return obs, nil
}
