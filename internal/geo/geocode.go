package geo

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sethvargo/go-retry"

	"slot_bot/internal/model"
)

const defaultGeocodeURL = "https://nominatim.openstreetmap.org/search"

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

var errNoMatch = errors.New("no matching location")

// NominatimClient geocodes free-text addresses against a
// Nominatim-compatible search endpoint.
type NominatimClient struct {
	client  HTTPClient
	baseURL string
}

// NewNominatimClient creates a geocoding client with the given HTTP client.
func NewNominatimClient(client HTTPClient) *NominatimClient {
	return &NominatimClient{
		client:  client,
		baseURL: defaultGeocodeURL,
	}
}

// SetBaseURL overrides the default endpoint (useful for testing).
func (c *NominatimClient) SetBaseURL(u string) {
	c.baseURL = u
}

// Geocode resolves an address to coordinates, retrying transient failures
// with fibonacci backoff. An address with no match is returned immediately;
// retrying it would not help.
func (c *NominatimClient) Geocode(ctx context.Context, address string) (model.Coordinates, error) {
	var coords model.Coordinates
	backoff := retry.WithMaxRetries(2, retry.NewFibonacci(500*time.Millisecond))
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		got, err := c.geocodeOnce(ctx, address)
		if err != nil {
			if errors.Is(err, errNoMatch) {
				return err
			}
			return retry.RetryableError(err)
		}
		coords = got
		return nil
	})
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("geocode %q: %w", address, err)
	}
	return coords, nil
}

func (c *NominatimClient) geocodeOnce(ctx context.Context, address string) (model.Coordinates, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("parse geocode url: %w", err)
	}
	q := u.Query()
	q.Set("q", address)
	q.Set("format", "json")
	q.Set("limit", "1")
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "slotbot/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return model.Coordinates{}, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("read body: %w", err)
	}

	// Nominatim reports coordinates as strings.
	var results []struct {
		Lat string `json:"lat"`
		Lon string `json:"lon"`
	}
	if err := json.Unmarshal(body, &results); err != nil {
		return model.Coordinates{}, fmt.Errorf("decode response: %w", err)
	}
	if len(results) == 0 {
		return model.Coordinates{}, errNoMatch
	}

	lat, err := strconv.ParseFloat(results[0].Lat, 64)
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("parse latitude %q: %w", results[0].Lat, err)
	}
	lon, err := strconv.ParseFloat(results[0].Lon, 64)
	if err != nil {
		return model.Coordinates{}, fmt.Errorf("parse longitude %q: %w", results[0].Lon, err)
	}
	return model.Coordinates{Lat: lat, Lon: lon}, nil
}
