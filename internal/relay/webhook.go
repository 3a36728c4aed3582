package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/michael-berardi/harborform/internal/models"
)

// WebhookSink posts each lead as JSON to a fixed URL. There is no retry.
type WebhookSink struct {
	client *resty.Client
	url    string
}

// NewWebhookSink builds a sink for url. A zero timeout leaves the call
// bounded only by the request context.
func NewWebhookSink(url string, timeout time.Duration) *WebhookSink {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("User-Agent", "harborform-relay")
	return &WebhookSink{client: client, url: url}
}

func (s *WebhookSink) Deliver(ctx context.Context, lead models.Lead) error {
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(lead).
		Post(s.url)
	if err != nil {
		return fmt.Errorf("post to webhook: %w", err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("webhook responded %s", resp.Status())
	}
	return nil
}
