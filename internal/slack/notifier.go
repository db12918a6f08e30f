package slack

import (
	"context"
	"fmt"

	"github.com/slack-go/slack"

	"github.com/social-wizard/pkg/logger"
	"github.com/social-wizard/pkg/ratelimit"
)

// Poster sends plain text to a channel
type Poster interface {
	PostText(ctx context.Context, channel, text string) error
}

// apiPoster adapts the slack Web API client to Poster
type apiPoster struct {
	api *slack.Client
}

// NewPoster wraps a slack client
func NewPoster(api *slack.Client) Poster {
	return &apiPoster{api: api}
}

func (p *apiPoster) PostText(ctx context.Context, channel, text string) error {
	_, _, err := p.api.PostMessageContext(ctx, channel, slack.MsgOptionText(text, false))
	return err
}

// Notifier posts to the configured default channel
type Notifier struct {
	poster      Poster
	channel     string
	rateLimiter *ratelimit.MultiLimiter
	log         *logger.Logger
}

// NewNotifier creates a channel notifier
func NewNotifier(poster Poster, channel string, limiter *ratelimit.MultiLimiter, log *logger.Logger) *Notifier {
	return &Notifier{
		poster:      poster,
		channel:     channel,
		rateLimiter: limiter,
		log:         log.WithComponent("slack"),
	}
}

// Post sends text to the default channel
func (n *Notifier) Post(ctx context.Context, text string) error {
	return n.PostTo(ctx, n.channel, text)
}

// PostTo sends text to a specific channel
func (n *Notifier) PostTo(ctx context.Context, channel, text string) error {
	if n.rateLimiter != nil {
		if err := n.rateLimiter.Wait(ctx, ratelimit.LimiterSlack); err != nil {
			return fmt.Errorf("rate limit error: %w", err)
		}
	}

	if err := n.poster.PostText(ctx, channel, text); err != nil {
		n.log.Error().Err(err).Str("channel", channel).Msg("Slack post failed")
		return fmt.Errorf("slack post to %s failed: %w", channel, err)
	}

	n.log.Debug().Str("channel", channel).Int("chars", len(text)).Msg("Posted to Slack")
	return nil
}
