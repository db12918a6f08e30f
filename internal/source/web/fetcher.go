package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/social-wizard/internal/config"
	"github.com/social-wizard/internal/models"
	"github.com/social-wizard/pkg/logger"
	"github.com/social-wizard/pkg/ratelimit"
)

var (
	// ErrFetch covers network failures, timeouts and non-2xx responses
	ErrFetch = errors.New("fetch error")
	// ErrParse covers markup that cannot be turned into a document
	ErrParse = errors.New("parse error")
)

const (
	defaultMaxChars = 5000
	maxPageBytes    = 10 << 20
	untitled        = "Untitled"
)

// bodySelectors is a strict fallback chain: the first region with text wins.
var bodySelectors = []string{"article", "main", ".content", ".post-content", "body"}

// stripSelectors are removed before any text is read
const stripSelectors = "script, style, noscript, template"

// Page is the extracted readable part of a web page
type Page struct {
	Title string
	Body  string
}

// Record formats the page the way it is stored in the corpus
func (p Page) Record() string {
	return fmt.Sprintf("Title: %s\n\nContent:\n%s", p.Title, p.Body)
}

// Fetcher retrieves pages and turns them into content documents
type Fetcher struct {
	httpClient  *http.Client
	userAgent   string
	maxChars    int
	rateLimiter *ratelimit.MultiLimiter
	log         *logger.Logger
}

// NewFetcher creates a new page fetcher
func NewFetcher(cfg config.ScraperConfig, limiter *ratelimit.MultiLimiter, log *logger.Logger) *Fetcher {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	maxChars := cfg.MaxChars
	if maxChars <= 0 {
		maxChars = defaultMaxChars
	}

	return &Fetcher{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent:   cfg.UserAgent,
		maxChars:    maxChars,
		rateLimiter: limiter,
		log:         log.WithComponent("scraper"),
	}
}

// Fetch downloads rawURL once and returns an unsaved scraped content document
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*models.Document, error) {
	u, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, fmt.Errorf("%w: invalid url %q", ErrFetch, rawURL)
	}

	if f.rateLimiter != nil {
		if err := f.rateLimiter.Wait(ctx, ratelimit.LimiterScrape); err != nil {
			return nil, fmt.Errorf("%w: rate limit: %v", ErrFetch, err)
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrFetch, err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")

	f.log.Debug().Str("url", u.String()).Msg("Fetching page")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetch, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrFetch, u.Host, resp.StatusCode)
	}

	page, err := f.Extract(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, err
	}

	f.log.Info().
		Str("url", u.String()).
		Str("title", page.Title).
		Int("chars", len([]rune(page.Body))).
		Msg("Page scraped")

	return models.NewContent(models.ContentTypeScraped, page.Record(), u.String()), nil
}

// Extract parses markup and pulls out the title and main text
func (f *Fetcher) Extract(r io.Reader) (page Page, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("%w: %v", ErrParse, rec)
		}
	}()

	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return Page{}, fmt.Errorf("%w: %v", ErrParse, err)
	}

	doc.Find(stripSelectors).Remove()

	page.Title = extractTitle(doc)
	page.Body = truncate(extractBody(doc), f.maxChars)
	return page, nil
}

func extractTitle(doc *goquery.Document) string {
	if title := cleanText(doc.Find("title").First().Text()); title != "" {
		return title
	}
	if h1 := cleanText(doc.Find("h1").First().Text()); h1 != "" {
		return h1
	}
	return untitled
}

func extractBody(doc *goquery.Document) string {
	for _, selector := range bodySelectors {
		if text := cleanText(spacedText(doc.Find(selector))); text != "" {
			return text
		}
	}
	return ""
}

// spacedText joins every text node under sel with a space, so adjacent
// block elements do not run together
func spacedText(sel *goquery.Selection) string {
	var parts []string
	var walk func(*goquery.Selection)
	walk = func(s *goquery.Selection) {
		s.Contents().Each(func(_ int, child *goquery.Selection) {
			switch goquery.NodeName(child) {
			case "#text":
				parts = append(parts, child.Text())
			case "#comment":
			default:
				walk(child)
			}
		})
	}
	walk(sel)
	return strings.Join(parts, " ")
}

// cleanText collapses whitespace runs to single spaces
func cleanText(s string) string {
	return strings.TrimSpace(strings.Join(strings.Fields(s), " "))
}

// truncate cuts s to at most n characters
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
