package slack

import (
	"github.com/slack-go/slack"

	"github.com/social-wizard/internal/models"
)

// customPostCallbackID identifies the custom post modal on submission
const customPostCallbackID = "custom_post_modal"

// Block and action IDs of the custom post modal
const (
	blockTopic  = "topic_block"
	actionTopic = "topic_input"
	blockLength = "length_block"
	actionLen   = "length_select"
	blockTone   = "tone_block"
	actionTone  = "tone_select"
	blockImage  = "image_block"
	actionImage = "image_checkbox"
	imageValue  = "generate_image"
)

func plain(text string) *slack.TextBlockObject {
	return slack.NewTextBlockObject(slack.PlainTextType, text, false, false)
}

func option(value, text string) *slack.OptionBlockObject {
	return slack.NewOptionBlockObject(value, plain(text), nil)
}

// customPostModal builds the options form. The originating channel travels in PrivateMetadata.
func customPostModal(channelID string) slack.ModalViewRequest {
	topic := slack.NewInputBlock(blockTopic, plain("Topic"), plain("Leave empty for a random content pick"),
		slack.NewPlainTextInputBlockElement(plain("e.g. SMS marketing"), actionTopic))
	topic.Optional = true

	medium := option(string(models.LengthMedium), "Medium (100-250 words)")
	lengthSelect := slack.NewOptionsSelectBlockElement(slack.OptTypeStatic, plain("Pick a length"), actionLen,
		option(string(models.LengthShort), "Short (50-100 words)"),
		medium,
		option(string(models.LengthLong), "Long (250-400 words)"),
	)
	lengthSelect.InitialOption = medium

	tone := option(string(models.ToneDefault), "Default")
	toneSelect := slack.NewOptionsSelectBlockElement(slack.OptTypeStatic, plain("Pick a tone"), actionTone,
		tone,
		option(string(models.ToneCasual), "Casual"),
		option(string(models.ToneInspirational), "Inspirational"),
		option(string(models.ToneControversial), "Controversial"),
	)
	toneSelect.InitialOption = tone

	image := slack.NewInputBlock(blockImage, plain("Image"), nil,
		slack.NewCheckboxGroupsBlockElement(actionImage, option(imageValue, "Generate an image")))
	image.Optional = true

	return slack.ModalViewRequest{
		Type:            slack.VTModal,
		CallbackID:      customPostCallbackID,
		Title:           plain("Custom LinkedIn post"),
		Submit:          plain("Generate"),
		Close:           plain("Cancel"),
		PrivateMetadata: channelID,
		Blocks: slack.Blocks{BlockSet: []slack.Block{
			topic,
			slack.NewInputBlock(blockLength, plain("Length"), nil, lengthSelect),
			slack.NewInputBlock(blockTone, plain("Tone"), nil, toneSelect),
			image,
		}},
	}
}

// optionsFromState reads the submitted modal values
func optionsFromState(state *slack.ViewState) models.GenerationOptions {
	var opts models.GenerationOptions
	if state == nil {
		return opts
	}

	if a, ok := state.Values[blockTopic][actionTopic]; ok {
		opts.Topic = a.Value
	}
	if a, ok := state.Values[blockLength][actionLen]; ok {
		opts.Length = models.Length(a.SelectedOption.Value)
	}
	if a, ok := state.Values[blockTone][actionTone]; ok {
		opts.Tone = models.Tone(a.SelectedOption.Value)
	}
	if a, ok := state.Values[blockImage][actionImage]; ok {
		for _, o := range a.SelectedOptions {
			if o.Value == imageValue {
				opts.GenerateImage = true
			}
		}
	}
	return opts
}
