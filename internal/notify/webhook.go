package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// HTTPClient is the interface for performing HTTP requests.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Kind selects the webhook payload envelope.
type Kind string

// Supported webhook kinds.
const (
	KindDiscord Kind = "discord"
	KindSlack   Kind = "slack"
)

// ParseKind validates a transport name from configuration.
func ParseKind(s string) (Kind, error) {
	switch Kind(s) {
	case KindDiscord, KindSlack:
		return Kind(s), nil
	}
	return "", fmt.Errorf("unknown webhook kind %q (want discord or slack)", s)
}

// maxLen is the transport's message size limit.
func (k Kind) maxLen() int {
	if k == KindSlack {
		return 4000
	}
	return 2000
}

func (k Kind) payload(text string) ([]byte, error) {
	field := "content"
	if k == KindSlack {
		field = "text"
	}
	return json.Marshal(map[string]string{field: text})
}

// Webhook delivers notification text to a single webhook endpoint, chunked
// to the transport's message limit and paced to roughly one chunk per
// second to stay under provider throttling.
type Webhook struct {
	client  HTTPClient
	url     string
	kind    Kind
	limiter *rate.Limiter
	log     *slog.Logger
}

// NewWebhook creates a sender for the given kind and endpoint URL.
func NewWebhook(client HTTPClient, kind Kind, url string, log *slog.Logger) *Webhook {
	return &Webhook{
		client:  client,
		url:     url,
		kind:    kind,
		limiter: rate.NewLimiter(rate.Every(time.Second), 1),
		log:     log,
	}
}

// Send chunks and posts the text. The first failed chunk abandons the
// rest for this cycle; the next poll produces a fresh notification.
func (w *Webhook) Send(ctx context.Context, text string) error {
	chunks := Chunk(text, w.kind.maxLen())
	for i, chunk := range chunks {
		if err := w.limiter.Wait(ctx); err != nil {
			return err
		}
		if err := w.post(ctx, chunk); err != nil {
			return fmt.Errorf("send chunk %d of %d: %w", i+1, len(chunks), err)
		}
	}
	w.log.Debug("notification delivered", "chunks", len(chunks), "bytes", len(text))
	return nil
}

func (w *Webhook) post(ctx context.Context, chunk string) error {
	body, err := w.kind.payload(chunk)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, w.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("http post: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, detail)
	}
	return nil
}
