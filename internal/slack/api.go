package slack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/social-wizard/internal/models"
)

// APIError is a non-2xx answer from the generate endpoint
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("generate endpoint returned %d: %s", e.Status, e.Message)
}

// APIClient calls the HTTP generate endpoint
type APIClient struct {
	url        string
	httpClient *http.Client
}

// NewAPIClient creates a client for the generate endpoint
func NewAPIClient(url string, timeout time.Duration) *APIClient {
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	return &APIClient{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type generateResponse struct {
	Success bool   `json:"success"`
	Post    string `json:"post"`
	Error   string `json:"error"`
}

// Generate requests one post and returns its text
func (c *APIClient) Generate(ctx context.Context, opts models.GenerationOptions) (string, error) {
	payload, err := json.Marshal(opts)
	if err != nil {
		return "", fmt.Errorf("failed to encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 16<<20))
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	var out generateResponse
	decodeErr := json.Unmarshal(body, &out)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := out.Error
		if decodeErr != nil || msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return "", &APIError{Status: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return "", fmt.Errorf("failed to decode response: %w", decodeErr)
	}
	if out.Post == "" {
		return "", fmt.Errorf("generate endpoint returned no post")
	}

	return out.Post, nil
}
