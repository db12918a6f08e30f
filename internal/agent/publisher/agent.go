package publisher

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/social-wizard/internal/media"
	"github.com/social-wizard/internal/models"
	"github.com/social-wizard/internal/prompt"
	"github.com/social-wizard/internal/storage"
	"github.com/social-wizard/pkg/logger"
	"github.com/social-wizard/pkg/metrics"
)

// errImageNotConfigured is reported when an image is requested but no provider is wired
var errImageNotConfigured = fmt.Errorf("%w: no image provider configured", media.ErrImageGeneration)

// TextGenerator produces post text from a prompt
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ImageGenerator produces an optional image for a post
type ImageGenerator interface {
	Generate(ctx context.Context, post string) media.Result
}

// Notifier delivers a finished post somewhere people will read it
type Notifier interface {
	Post(ctx context.Context, text string) error
}

// Agent runs the generation pipeline: load corpus, compose, generate, illustrate
type Agent struct {
	repository storage.Repository
	composer   *prompt.Composer
	text       TextGenerator
	images     ImageGenerator
	notifier   Notifier
	log        *logger.Logger
}

// NewAgent creates a new publisher agent. images and notifier may be nil.
func NewAgent(
	repository storage.Repository,
	composer *prompt.Composer,
	text TextGenerator,
	images ImageGenerator,
	notifier Notifier,
	log *logger.Logger,
) *Agent {
	return &Agent{
		repository: repository,
		composer:   composer,
		text:       text,
		images:     images,
		notifier:   notifier,
		log:        log.WithComponent("publisher"),
	}
}

// GenerateResult contains the result of content generation
type GenerateResult struct {
	Post string
	// Image is nil when no image was requested
	Image        media.Result
	Selected     *models.Document
	TopicMatched bool

	ContentPool   int
	BrandExamples int
	MemoryNotes   int
	TrendingUsed  bool
}

// ImageURL returns the data URI of a produced image, or nil
func (r *GenerateResult) ImageURL() *string {
	if img, ok := r.Image.(media.Image); ok {
		return &img.DataURI
	}
	return nil
}

// ImageError returns the failure reason when an image was requested but not produced
func (r *GenerateResult) ImageError() string {
	if none, ok := r.Image.(media.NoImage); ok {
		return none.Reason
	}
	return ""
}

// LoadCorpus reads every pool and the trending blob from the store
func (a *Agent) LoadCorpus(ctx context.Context) (prompt.Corpus, error) {
	var corpus prompt.Corpus
	var err error

	if corpus.Content, err = a.repository.List(ctx, models.KindContent); err != nil {
		return corpus, fmt.Errorf("failed to list content: %w", err)
	}
	if corpus.Brand, err = a.repository.List(ctx, models.KindBrand); err != nil {
		return corpus, fmt.Errorf("failed to list brand examples: %w", err)
	}
	if corpus.Memory, err = a.repository.List(ctx, models.KindMemory); err != nil {
		return corpus, fmt.Errorf("failed to list memory notes: %w", err)
	}
	if corpus.Trending, err = a.repository.GetTrending(ctx); err != nil {
		return corpus, fmt.Errorf("failed to read trending topics: %w", err)
	}
	return corpus, nil
}

// Generate writes one post. An empty content pool fails with prompt.ErrEmptyPool
// before the text backend is called. Image failures never fail the call.
func (a *Agent) Generate(ctx context.Context, opts models.GenerationOptions) (*GenerateResult, error) {
	corpus, err := a.LoadCorpus(ctx)
	if err != nil {
		metrics.Generations.WithLabelValues(metrics.OutcomeFailure).Inc()
		return nil, err
	}

	composition, err := a.composer.Compose(corpus, opts)
	if err != nil {
		if errors.Is(err, prompt.ErrEmptyPool) {
			metrics.Generations.WithLabelValues(metrics.OutcomeSkipped).Inc()
		} else {
			metrics.Generations.WithLabelValues(metrics.OutcomeFailure).Inc()
		}
		return nil, err
	}

	log := a.log.WithDocumentID(composition.Selected.ID)
	log.Info().
		Str("topic", opts.Topic).
		Bool("topic_matched", composition.TopicMatched).
		Str("length", string(opts.Length)).
		Str("tone", string(opts.Tone)).
		Strs("sections", composition.Sections).
		Msg("Generating post")

	post, err := a.text.GenerateText(ctx, composition.Text)
	if err != nil {
		metrics.Generations.WithLabelValues(metrics.OutcomeFailure).Inc()
		return nil, err
	}
	metrics.Generations.WithLabelValues(metrics.OutcomeSuccess).Inc()

	result := &GenerateResult{
		Post:          post,
		Selected:      composition.Selected,
		TopicMatched:  composition.TopicMatched,
		ContentPool:   len(corpus.Content),
		BrandExamples: len(corpus.Brand),
		MemoryNotes:   len(corpus.Memory),
		TrendingUsed:  strings.TrimSpace(corpus.Trending) != "",
	}

	if opts.GenerateImage {
		result.Image = a.illustrate(ctx, post)
	}

	log.Info().
		Int("post_chars", len(post)).
		Bool("image", result.ImageURL() != nil).
		Msg("Post generated")

	return result, nil
}

// Publish generates a post and hands it to the notifier
func (a *Agent) Publish(ctx context.Context, opts models.GenerationOptions) (*GenerateResult, error) {
	if a.notifier == nil {
		return nil, fmt.Errorf("no notifier configured")
	}

	result, err := a.Generate(ctx, opts)
	if err != nil {
		return nil, err
	}

	if err := a.notifier.Post(ctx, FormatPost(result.Post)); err != nil {
		return result, fmt.Errorf("failed to deliver post: %w", err)
	}

	a.log.Info().Msg("Post delivered")
	return result, nil
}

// FormatPost renders a post for chat delivery
func FormatPost(post string) string {
	return "✨ LinkedIn Post:\n\n" + post
}

func (a *Agent) illustrate(ctx context.Context, post string) media.Result {
	if a.images == nil {
		a.log.Warn().Msg("Image requested but no image provider is configured")
		return media.NoImage{Reason: errImageNotConfigured.Error(), Err: errImageNotConfigured}
	}
	return a.images.Generate(ctx, post)
}
