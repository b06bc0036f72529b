// Package webhook implements the dispatch.Provider backed by a hosted
// workflow endpoint. Submit posts the generation request as JSON; the
// workflow performs the generation out of band and pushes the result to
// the callback URL carried in the request.
package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/careerforge/pitch-api/internal/config"
	"github.com/careerforge/pitch-api/internal/dispatch"
)

// maxErrorBodyBytes bounds how much of a rejection body is read for the
// error message.
const maxErrorBodyBytes = 512

// Client submits generation requests to the configured webhook endpoint.
type Client struct {
	endpoint  string
	authToken string
	client    *http.Client
	logger    *slog.Logger
}

// NewClient creates a webhook provider from the provider configuration.
// The endpoint URL is validated up front so a misconfigured deployment
// fails at startup rather than on the first dispatch.
func NewClient(cfg config.ProviderConfig, log *slog.Logger) (*Client, error) {
	if cfg.WebhookURL == "" {
		return nil, fmt.Errorf("%w: webhook URL is not set", dispatch.ErrInvalidConfig)
	}
	parsed, err := url.Parse(cfg.WebhookURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: webhook URL %q is not absolute", dispatch.ErrInvalidConfig, cfg.WebhookURL)
	}
	if log == nil {
		log = slog.Default()
	}

	return &Client{
		endpoint:  cfg.WebhookURL,
		authToken: cfg.AuthToken,
		client: &http.Client{
			Timeout: cfg.Timeout(),
		},
		logger: log.With("component", "webhook_provider"),
	}, nil
}

// Submit posts the request to the webhook endpoint. A 2xx answer means
// the workflow accepted the job; anything else is reported as
// dispatch.ErrProviderRejected so the dispatcher rolls the attempt back.
func (c *Client) Submit(ctx context.Context, req dispatch.SubmitRequest) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode submit request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build submit request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.authToken != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.authToken)
	}

	start := time.Now()
	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("failed to reach webhook endpoint: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		c.logger.Warn("webhook rejected generation request",
			"task_id", req.TaskID.String(),
			"status_code", resp.StatusCode,
			"duration_ms", time.Since(start).Milliseconds())
		return fmt.Errorf("%w: status %d: %s", dispatch.ErrProviderRejected, resp.StatusCode, string(snippet))
	}

	// The webhook answers immediately; the result arrives later via the
	// callback URL. Drain the body so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)

	c.logger.Debug("generation request accepted",
		"task_id", req.TaskID.String(),
		"duration_ms", time.Since(start).Milliseconds())
	return nil
}
