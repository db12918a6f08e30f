package prompt

import (
	"github.com/social-wizard/internal/config"
	"github.com/social-wizard/internal/models"
)

// Template holds every piece of fixed wording in the generation prompt.
// All of it is configurable; DefaultTemplate fills the gaps.
type Template struct {
	Intro         string
	RulesHeader   string
	Rules         []string
	BannedPhrases []string
	Task          string
	Guidelines    []string
	Closing       string

	BrandLabel    string
	MemoryLabel   string
	TrendingLabel string
	TrendingHint  string

	Lengths       map[models.Length]string
	DefaultLength models.Length
	Tones         map[models.Tone]string
	DefaultTone   models.Tone
}

// DefaultTemplate returns the built-in wording
func DefaultTemplate() Template {
	return Template{
		Intro:       "You are writing a LinkedIn post for the company's CEO.",
		RulesHeader: "CRITICAL INSTRUCTION - READ CAREFULLY:",
		Rules: []string{
			`If content contains "The Result" or "The Conclusion" section: Use ONLY those sections to determine what's real`,
			`If content contains "Hypothesis" or "Methodology": These are context only, NOT results`,
			"NEVER infer results from hypothesis. If hypothesis says X will happen, but results say Y happened, report Y",
			"If you cannot find clear results/conclusions, ask for clarification instead of making up data",
			"Report numbers, percentages, and outcomes EXACTLY as stated. Do not round or interpret",
			"If something failed or was negative, say so clearly. Do not reframe failures as successes",
		},
		BannedPhrases: []string{
			"game-changer",
			"in today's fast-paced world",
			"let's dive in",
			"unlock the power",
			"revolutionize",
			"delve",
		},
		Task: "Your task: Write ONE compelling LinkedIn post about the main finding/result in this content.",
		Guidelines: []string{
			"Lead with the actual result or key finding",
			"Explain WHY it matters",
			"Be educational and actionable",
			"End with insight or question",
		},
		Closing: "Write the post. Report only what the content actually says.",

		BrandLabel:    "Here are examples of the author's LinkedIn posting style to match:",
		MemoryLabel:   "Important context to remember:",
		TrendingLabel: "Currently trending topics:",
		TrendingHint:  "Try to connect the content to one of these trending topics if possible.",

		Lengths: map[models.Length]string{
			models.LengthShort:  "50-100 words, punchy",
			models.LengthMedium: "100-250 words",
			models.LengthLong:   "250-400 words, in-depth with a clear narrative",
		},
		DefaultLength: models.LengthMedium,
		Tones: map[models.Tone]string{
			models.ToneDefault:       "direct, data-driven, practical",
			models.ToneCasual:        "conversational and relaxed, like talking to a peer over coffee",
			models.ToneInspirational: "uplifting and motivating, grounded in the actual data",
			models.ToneControversial: "contrarian, bold hot take that challenges conventional wisdom",
		},
		DefaultTone: models.ToneDefault,
	}
}

// TemplateFromConfig overlays configured wording on the defaults
func TemplateFromConfig(cfg config.PromptConfig) Template {
	t := DefaultTemplate()

	if cfg.Intro != "" {
		t.Intro = cfg.Intro
	}
	if len(cfg.Rules) > 0 {
		t.Rules = cfg.Rules
	}
	if cfg.BannedPhrases != nil {
		t.BannedPhrases = cfg.BannedPhrases
	}
	if cfg.Task != "" {
		t.Task = cfg.Task
	}
	if len(cfg.Guidelines) > 0 {
		t.Guidelines = cfg.Guidelines
	}
	if cfg.Closing != "" {
		t.Closing = cfg.Closing
	}
	if cfg.BrandLabel != "" {
		t.BrandLabel = cfg.BrandLabel
	}
	if cfg.MemoryLabel != "" {
		t.MemoryLabel = cfg.MemoryLabel
	}
	if cfg.TrendingLabel != "" {
		t.TrendingLabel = cfg.TrendingLabel
	}
	if cfg.TrendingHint != "" {
		t.TrendingHint = cfg.TrendingHint
	}
	for k, v := range cfg.LengthDirectives {
		if v != "" {
			t.Lengths[models.Length(k)] = v
		}
	}
	for k, v := range cfg.ToneDirectives {
		if v != "" {
			t.Tones[models.Tone(k)] = v
		}
	}

	return t
}

// LengthDirective resolves a length option, falling back to the default entry
func (t Template) LengthDirective(l models.Length) string {
	if d, ok := t.Lengths[l]; ok {
		return d
	}
	return t.Lengths[t.DefaultLength]
}

// ToneDirective resolves a tone option, falling back to the default entry
func (t Template) ToneDirective(tone models.Tone) string {
	if d, ok := t.Tones[tone]; ok {
		return d
	}
	return t.Tones[t.DefaultTone]
}
