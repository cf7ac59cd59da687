// Package source fetches the raw appointment batch from the booking
// site's availability endpoint.
package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"slot_bot/internal/model"
)

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Source produces the raw location → time-strings batch for one poll.
type Source interface {
	Fetch(ctx context.Context, appointmentType string) (model.RawBatch, error)
}

// HTTPSource fetches availability as a JSON object mapping location names
// to comma-delimited time strings.
type HTTPSource struct {
	client HTTPClient
	url    string
}

// New creates an HTTPSource against the given endpoint.
func New(client HTTPClient, endpoint string) *HTTPSource {
	return &HTTPSource{client: client, url: endpoint}
}

// Fetch retrieves the batch for the given appointment type. The type
// string must exactly match the source's taxonomy.
func (s *HTTPSource) Fetch(ctx context.Context, appointmentType string) (model.RawBatch, error) {
	u, err := url.Parse(s.url)
	if err != nil {
		return nil, fmt.Errorf("parse source url: %w", err)
	}
	q := u.Query()
	q.Set("type", appointmentType)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "slotbot/1.0")
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("http get: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 5*1024*1024))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	var batch model.RawBatch
	if err := json.Unmarshal(body, &batch); err != nil {
		return nil, fmt.Errorf("parse batch: %w", err)
	}
	return batch, nil
}
