package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goliatone/go-evalform/pkg/wizard"
)

// DefaultWebhookTimeout bounds a single delivery when no timeout is configured.
const DefaultWebhookTimeout = 10 * time.Second

// ErrWebhookStatus is wrapped when the endpoint answers outside 2xx.
var ErrWebhookStatus = errors.New("sink: unexpected webhook status")

// Webhook POSTs submissions as JSON to a fixed URL.
type Webhook struct {
	url     string
	client  *http.Client
	timeout time.Duration
	headers http.Header
}

// WebhookOption configures a Webhook.
type WebhookOption func(*Webhook)

// WithHTTPClient swaps the client used for deliveries.
func WithHTTPClient(client *http.Client) WebhookOption {
	return func(w *Webhook) {
		if client != nil {
			w.client = client
		}
	}
}

// WithTimeout bounds every delivery. Non-positive values disable the bound.
func WithTimeout(d time.Duration) WebhookOption {
	return func(w *Webhook) {
		w.timeout = d
	}
}

// WithHeader adds a header sent with every delivery, e.g. an auth token.
func WithHeader(key, value string) WebhookOption {
	return func(w *Webhook) {
		w.headers.Add(key, value)
	}
}

// NewWebhook builds a sink targeting url.
func NewWebhook(url string, opts ...WebhookOption) (*Webhook, error) {
	trimmed := strings.TrimSpace(url)
	if trimmed == "" {
		return nil, errors.New("sink: webhook url is required")
	}
	w := &Webhook{
		url:     trimmed,
		client:  http.DefaultClient,
		timeout: DefaultWebhookTimeout,
		headers: make(http.Header),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	return w, nil
}

// Submit implements wizard.Sink.
func (w *Webhook) Submit(ctx context.Context, submission wizard.Submission) error {
	payload, err := json.Marshal(submission)
	if err != nil {
		return fmt.Errorf("sink: encode submission: %w", err)
	}

	reqCtx := ctx
	if w.timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, w.url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("sink: build request: %w", err)
	}
	for key, values := range w.headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return fmt.Errorf("sink: deliver: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: %s", ErrWebhookStatus, resp.Status)
	}
	return nil
}
