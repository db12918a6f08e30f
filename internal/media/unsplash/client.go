package unsplash

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/social-wizard/internal/media"
	"github.com/social-wizard/pkg/logger"
)

const (
	defaultBaseURL = "https://api.unsplash.com"

	// queryWords is how many leading words of the post seed form the search query
	queryWords = 8
)

// Photo represents an Unsplash photo
type Photo struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	AltDesc     string `json:"alt_description"`
	URLs        URLs   `json:"urls"`
	User        User   `json:"user"`
	Links       Links  `json:"links"`
}

// URLs contains different size URLs for the photo
type URLs struct {
	Full    string `json:"full"`
	Regular string `json:"regular"` // 1080px width
	Small   string `json:"small"`
}

// User represents the photographer
type User struct {
	Name     string `json:"name"`
	Username string `json:"username"`
}

// Links contains API links for the photo
type Links struct {
	DownloadLocation string `json:"download_location"` // Use this to trigger download count
}

// SearchResult represents the API response for photo search
type SearchResult struct {
	Total   int     `json:"total"`
	Results []Photo `json:"results"`
}

// Client is the Unsplash API client. It serves as a stock-photo image provider.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	log        *logger.Logger
}

var _ media.Provider = (*Client)(nil)

// NewClient creates a new Unsplash client. An empty baseURL uses the public API.
func NewClient(apiKey, baseURL string, timeout time.Duration, log *logger.Logger) *Client {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log.WithComponent("unsplash"),
	}
}

// Name implements media.Provider
func (c *Client) Name() string { return "unsplash" }

// Render searches a photo matching the post seed and downloads it
func (c *Client) Render(ctx context.Context, req media.Request) ([]byte, string, error) {
	query := SearchQuery(req.Seed)
	if query == "" {
		return nil, "", fmt.Errorf("empty search query")
	}

	photo, err := c.GetBestPhoto(ctx, query)
	if err != nil {
		return nil, "", err
	}
	return c.DownloadPhoto(ctx, photo)
}

// SearchQuery keeps the first few plain words of the seed
func SearchQuery(seed string) string {
	words := strings.FieldsFunc(seed, func(r rune) bool {
		return !(r == '-' || r == '\'' || (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || r > 127)
	})
	if len(words) > queryWords {
		words = words[:queryWords]
	}
	return strings.Join(words, " ")
}

// SearchPhotos searches for photos matching the query
func (c *Client) SearchPhotos(ctx context.Context, query string, perPage int) ([]Photo, error) {
	if perPage <= 0 {
		perPage = 5
	}
	if perPage > 30 {
		perPage = 30
	}

	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", fmt.Sprintf("%d", perPage))
	params.Set("orientation", "landscape")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/search/photos?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Client-ID "+c.apiKey)
	req.Header.Set("Accept-Version", "v1")

	c.log.Debug().Str("query", query).Msg("Searching Unsplash photos")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("API error (status %d): %s", resp.StatusCode, string(body))
	}

	var result SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return result.Results, nil
}

// GetBestPhoto picks a random photo from the top results for variety
func (c *Client) GetBestPhoto(ctx context.Context, query string) (*Photo, error) {
	photos, err := c.SearchPhotos(ctx, query, 10)
	if err != nil {
		return nil, err
	}
	if len(photos) == 0 {
		return nil, fmt.Errorf("no photos found for query: %s", query)
	}
	idx := rand.IntN(len(photos))
	return &photos[idx], nil
}

// DownloadPhoto downloads a photo and returns the image data and its content type.
// It also pings the download endpoint, which Unsplash requires for attribution.
func (c *Client) DownloadPhoto(ctx context.Context, photo *Photo) ([]byte, string, error) {
	if photo.Links.DownloadLocation != "" {
		if trigger, err := http.NewRequestWithContext(ctx, http.MethodGet, photo.Links.DownloadLocation, nil); err == nil {
			trigger.Header.Set("Authorization", "Client-ID "+c.apiKey)
			if resp, err := c.httpClient.Do(trigger); err == nil {
				resp.Body.Close()
			}
		}
	}

	imageURL := photo.URLs.Regular
	if imageURL == "" {
		imageURL = photo.URLs.Full
	}
	if imageURL == "" {
		return nil, "", fmt.Errorf("photo %s has no download URL", photo.ID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, imageURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("failed to create download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, "", fmt.Errorf("download failed with status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read image data: %w", err)
	}

	c.log.Info().
		Str("photo_id", photo.ID).
		Int("size_bytes", len(data)).
		Str("attribution", Attribution(photo)).
		Msg("Photo downloaded")

	return data, resp.Header.Get("Content-Type"), nil
}

// Attribution returns the credit line Unsplash requires
func Attribution(photo *Photo) string {
	return fmt.Sprintf("Photo by %s on Unsplash", photo.User.Name)
}
