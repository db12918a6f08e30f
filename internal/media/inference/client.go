package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/social-wizard/internal/media"
	"github.com/social-wizard/pkg/logger"
)

// maxImageBytes bounds how much of a response body is read
const maxImageBytes = 20 << 20

// Client calls a text-to-image inference endpoint that answers with raw image bytes
type Client struct {
	endpoint   string
	apiKey     string
	httpClient *http.Client
	log        *logger.Logger
}

var _ media.Provider = (*Client)(nil)

// NewClient creates a new inference client
func NewClient(endpoint, apiKey string, timeout time.Duration, log *logger.Logger) *Client {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log.WithComponent("inference"),
	}
}

// Name implements media.Provider
func (c *Client) Name() string { return "inference" }

// Render posts {"inputs": prompt} and returns the image body
func (c *Client) Render(ctx context.Context, req media.Request) ([]byte, string, error) {
	payload, err := json.Marshal(map[string]string{"inputs": req.Prompt})
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "image/png")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	c.log.Debug().Int("prompt_chars", len(req.Prompt)).Msg("Requesting image")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, "", fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image data: %w", err)
	}

	return data, resp.Header.Get("Content-Type"), nil
}
