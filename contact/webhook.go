package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// StatusError is returned when the webhook answers outside 2xx.
type StatusError struct {
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("contact: webhook returned status %d", e.Code)
}

// WebhookForwarder POSTs payloads as JSON to a fixed URL.
type WebhookForwarder struct {
	url    string
	client *http.Client
}

// NewWebhookForwarder validates rawURL and returns a forwarder whose client
// gives up after timeout.
func NewWebhookForwarder(rawURL string, timeout time.Duration) (*WebhookForwarder, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("contact: parse webhook URL: %w", err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("contact: webhook URL must be absolute http(s), got %q", rawURL)
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &WebhookForwarder{
		url:    u.String(),
		client: &http.Client{Timeout: timeout},
	}, nil
}

// Forward sends p once. Redirects are followed and only the final status
// counts.
func (f *WebhookForwarder) Forward(ctx context.Context, p Payload) error {
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("contact: marshal payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("contact: build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("contact: post webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &StatusError{Code: resp.StatusCode}
	}
	return nil
}
