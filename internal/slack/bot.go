package slack

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/slack-go/slack"
	"github.com/slack-go/slack/socketmode"

	"github.com/social-wizard/internal/agent/publisher"
	"github.com/social-wizard/internal/models"
	"github.com/social-wizard/pkg/logger"
)

// Slash commands handled by the bot
const (
	CommandSuggestPost       = "/suggest-post"
	CommandSuggestPostCustom = "/suggest-post-custom"
)

const genericFailure = "❌ Error generating post."

// Generator produces a post for the given options
type Generator interface {
	Generate(ctx context.Context, opts models.GenerationOptions) (string, error)
}

// ViewOpener opens modals
type ViewOpener interface {
	OpenViewContext(ctx context.Context, triggerID string, view slack.ModalViewRequest) (*slack.ViewResponse, error)
}

// Bot relays slash commands to the generate endpoint and posts the result back
type Bot struct {
	generator Generator
	notifier  *Notifier
	views     ViewOpener
	log       *logger.Logger
}

// NewBot creates a bot
func NewBot(generator Generator, notifier *Notifier, views ViewOpener, log *logger.Logger) *Bot {
	return &Bot{
		generator: generator,
		notifier:  notifier,
		views:     views,
		log:       log.WithComponent("slackbot"),
	}
}

// Run consumes socket mode events until ctx is done
func (b *Bot) Run(ctx context.Context, client *socketmode.Client) error {
	go b.consume(ctx, client)
	return client.RunContext(ctx)
}

func (b *Bot) consume(ctx context.Context, client *socketmode.Client) {
	for {
		select {
		case <-ctx.Done():
			return
		case evt, ok := <-client.Events:
			if !ok {
				return
			}
			b.dispatch(ctx, client, evt)
		}
	}
}

func (b *Bot) dispatch(ctx context.Context, client *socketmode.Client, evt socketmode.Event) {
	switch evt.Type {
	case socketmode.EventTypeConnecting:
		b.log.Info().Msg("Connecting to Slack")
	case socketmode.EventTypeConnected:
		b.log.Info().Msg("Slack bot connected")
	case socketmode.EventTypeConnectionError:
		b.log.Warn().Msg("Slack connection error, retrying")

	case socketmode.EventTypeSlashCommand:
		cmd, ok := evt.Data.(slack.SlashCommand)
		if !ok {
			return
		}
		client.Ack(*evt.Request)
		b.async(func() { b.HandleSlashCommand(ctx, cmd) })

	case socketmode.EventTypeInteractive:
		cb, ok := evt.Data.(slack.InteractionCallback)
		if !ok {
			return
		}
		// empty ack closes the modal
		client.Ack(*evt.Request)
		b.async(func() { b.HandleInteraction(ctx, cb) })
	}
}

// async runs a handler off the event loop. Panics are logged, never propagated.
func (b *Bot) async(fn func()) {
	go func() {
		defer func() {
			if r := recover(); r != nil {
				b.log.Error().Interface("panic", r).Msg("Slack handler panicked")
			}
		}()
		fn()
	}()
}

// HandleSlashCommand serves /suggest-post and /suggest-post-custom
func (b *Bot) HandleSlashCommand(ctx context.Context, cmd slack.SlashCommand) {
	b.log.Info().
		Str("command", cmd.Command).
		Str("channel", cmd.ChannelID).
		Str("user", cmd.UserID).
		Msg("Slash command received")

	switch cmd.Command {
	case CommandSuggestPost:
		b.relay(ctx, cmd.ChannelID, models.GenerationOptions{})
	case CommandSuggestPostCustom:
		if _, err := b.views.OpenViewContext(ctx, cmd.TriggerID, customPostModal(cmd.ChannelID)); err != nil {
			b.log.Error().Err(err).Msg("Failed to open custom post modal")
			b.say(ctx, cmd.ChannelID, "❌ Could not open the post options form.")
		}
	default:
		b.log.Warn().Str("command", cmd.Command).Msg("Unknown slash command")
	}
}

// HandleInteraction serves custom post modal submissions
func (b *Bot) HandleInteraction(ctx context.Context, cb slack.InteractionCallback) {
	if cb.Type != slack.InteractionTypeViewSubmission || cb.View.CallbackID != customPostCallbackID {
		return
	}

	channel := cb.View.PrivateMetadata
	if channel == "" {
		channel = cb.User.ID
	}
	b.relay(ctx, channel, optionsFromState(cb.View.State))
}

// relay generates a post and publishes the outcome in the channel
func (b *Bot) relay(ctx context.Context, channel string, opts models.GenerationOptions) {
	post, err := b.generator.Generate(ctx, opts)
	if err != nil {
		b.log.Error().Err(err).Str("channel", channel).Msg("Post generation failed")
		b.say(ctx, channel, FailureText(err))
		return
	}
	b.say(ctx, channel, publisher.FormatPost(post))
}

func (b *Bot) say(ctx context.Context, channel, text string) {
	if err := b.notifier.PostTo(ctx, channel, text); err != nil {
		b.log.Error().Err(err).Msg("Failed to reply in Slack")
	}
}

// FailureText turns a generation error into the in-channel message
func FailureText(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusBadRequest {
		return fmt.Sprintf("❌ %s", apiErr.Message)
	}
	return genericFailure
}
