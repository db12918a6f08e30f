package media

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/social-wizard/internal/config"
	"github.com/social-wizard/pkg/logger"
	"github.com/social-wizard/pkg/metrics"
	"github.com/social-wizard/pkg/ratelimit"
)

// ErrImageGeneration marks a failed image attempt. It never fails a request.
var ErrImageGeneration = errors.New("image generation failed")

const defaultSeedChars = 180

// Result is either Image or NoImage
type Result interface {
	isResult()
}

// Image is a generated image encoded as a data URI
type Image struct {
	DataURI  string
	MIMEType string
}

// NoImage explains why no image was produced
type NoImage struct {
	Reason string
	Err    error
}

func (Image) isResult()   {}
func (NoImage) isResult() {}

// Request is what a provider receives
type Request struct {
	// Prompt is style prefix plus seed, for generative backends
	Prompt string
	// Seed is the leading slice of the post text, for search backends
	Seed string
}

// Provider renders one image. Implementations make a single attempt.
type Provider interface {
	Name() string
	Render(ctx context.Context, req Request) (data []byte, mimeType string, err error)
}

// Generator wraps a provider with prompt building, timeout and failure capture
type Generator struct {
	provider    Provider
	stylePrefix string
	seedChars   int
	timeout     time.Duration
	rateLimiter *ratelimit.MultiLimiter
	log         *logger.Logger
}

// NewGenerator creates an image generator around a provider
func NewGenerator(p Provider, cfg config.ImageConfig, limiter *ratelimit.MultiLimiter, log *logger.Logger) *Generator {
	seed := cfg.SeedChars
	if seed <= 0 {
		seed = defaultSeedChars
	}
	return &Generator{
		provider:    p,
		stylePrefix: cfg.StylePrefix,
		seedChars:   seed,
		timeout:     cfg.Timeout,
		rateLimiter: limiter,
		log:         log.WithComponent("media"),
	}
}

// Generate produces an image for the post. Failures come back as NoImage.
func (g *Generator) Generate(ctx context.Context, post string) Result {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	req := Request{
		Prompt: BuildPrompt(g.stylePrefix, post, g.seedChars),
		Seed:   seed(post, g.seedChars),
	}

	data, mimeType, err := g.render(ctx, req)
	if err != nil {
		err = fmt.Errorf("%w: %v", ErrImageGeneration, err)
		g.log.Warn().Err(err).Str("provider", g.provider.Name()).Msg("Image generation failed, continuing without image")
		metrics.Images.WithLabelValues(g.provider.Name(), metrics.OutcomeFailure).Inc()
		return NoImage{Reason: err.Error(), Err: err}
	}

	g.log.Info().
		Str("provider", g.provider.Name()).
		Str("mime_type", mimeType).
		Int("size_bytes", len(data)).
		Msg("Image generated")
	metrics.Images.WithLabelValues(g.provider.Name(), metrics.OutcomeSuccess).Inc()

	return Image{DataURI: DataURI(mimeType, data), MIMEType: mimeType}
}

func (g *Generator) render(ctx context.Context, req Request) ([]byte, string, error) {
	if g.rateLimiter != nil {
		if err := g.rateLimiter.Wait(ctx, ratelimit.LimiterImage); err != nil {
			return nil, "", fmt.Errorf("rate limit: %w", err)
		}
	}

	data, mimeType, err := g.provider.Render(ctx, req)
	if err != nil {
		return nil, "", err
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%s returned no image data", g.provider.Name())
	}

	mimeType = ResolveMIME(mimeType, data)
	if !strings.HasPrefix(mimeType, "image/") {
		return nil, "", fmt.Errorf("%s returned %s, not an image", g.provider.Name(), mimeType)
	}
	return data, mimeType, nil
}

// BuildPrompt prefixes the style text to the first seedChars characters of the post
func BuildPrompt(stylePrefix, post string, seedChars int) string {
	return stylePrefix + seed(post, seedChars)
}

func seed(post string, n int) string {
	r := []rune(post)
	if n >= 0 && len(r) > n {
		r = r[:n]
	}
	return string(r)
}

// ResolveMIME trusts a declared image type and sniffs the bytes otherwise
func ResolveMIME(declared string, data []byte) string {
	if i := strings.Index(declared, ";"); i >= 0 {
		declared = declared[:i]
	}
	declared = strings.TrimSpace(strings.ToLower(declared))
	if strings.HasPrefix(declared, "image/") {
		return declared
	}
	return http.DetectContentType(data)
}

// DataURI encodes binary image data for inline transport
func DataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
