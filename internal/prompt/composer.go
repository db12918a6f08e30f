package prompt

import (
	"errors"
	"math/rand/v2"
	"strings"

	"github.com/social-wizard/internal/models"
)

// ErrEmptyPool is returned when there is no content to write about
var ErrEmptyPool = errors.New("no content available, add content first")

// maxBrandExamples caps how many brand-voice posts go into a prompt
const maxBrandExamples = 3

const brandSeparator = "\n\n---\n\n"

// Selector picks an index in [0, n). n is always positive.
type Selector func(n int) int

// RandomSelector draws uniformly at random
func RandomSelector(n int) int {
	return rand.IntN(n)
}

// Corpus is the composer's view of the stored pools
type Corpus struct {
	Content  []*models.Document
	Brand    []*models.Document
	Memory   []*models.Document
	Trending string
}

// Composition is a finished prompt and the content it was built from
type Composition struct {
	Text     string
	Selected *models.Document
	// TopicMatched is true when the topic filter picked the content
	TopicMatched bool
	// Sections names the context blocks that made it into the prompt
	Sections []string
}

// Composer builds generation prompts. It does no I/O.
type Composer struct {
	tmpl   Template
	choose Selector
}

// NewComposer creates a composer. A nil selector means RandomSelector.
func NewComposer(tmpl Template, choose Selector) *Composer {
	if choose == nil {
		choose = RandomSelector
	}
	return &Composer{tmpl: tmpl, choose: choose}
}

// Compose selects a content document and assembles the full prompt
func (c *Composer) Compose(corpus Corpus, opts models.GenerationOptions) (*Composition, error) {
	selected, matched, err := c.selectContent(corpus.Content, opts.Topic)
	if err != nil {
		return nil, err
	}

	var b strings.Builder

	b.WriteString(c.tmpl.Intro)
	b.WriteString("\n\n")
	b.WriteString(c.ruleBlock())
	b.WriteString("\n\n")
	b.WriteString(c.tmpl.Task)
	b.WriteString("\n\n")
	b.WriteString(c.postBlock(opts))

	sections := c.sections(corpus)
	names := make([]string, 0, len(sections))
	for _, s := range sections {
		b.WriteString("\n\n")
		b.WriteString(s.render())
		names = append(names, s.name)
	}

	b.WriteString("\n\nContent:\n")
	b.WriteString(selected.Body)
	b.WriteString("\n\n")
	b.WriteString(c.tmpl.Closing)

	return &Composition{
		Text:         b.String(),
		Selected:     selected,
		TopicMatched: matched,
		Sections:     names,
	}, nil
}

// selectContent applies the topic filter, then falls back to the selector
func (c *Composer) selectContent(pool []*models.Document, topic string) (*models.Document, bool, error) {
	if len(pool) == 0 {
		return nil, false, ErrEmptyPool
	}

	if needle := strings.ToLower(strings.TrimSpace(topic)); needle != "" {
		for _, doc := range pool {
			if strings.Contains(strings.ToLower(doc.Body), needle) {
				return doc, true, nil
			}
		}
	}

	idx := c.choose(len(pool))
	if idx < 0 || idx >= len(pool) {
		idx = ((idx % len(pool)) + len(pool)) % len(pool)
	}
	return pool[idx], false, nil
}

func (c *Composer) ruleBlock() string {
	lines := make([]string, 0, len(c.tmpl.Rules)+2)
	lines = append(lines, c.tmpl.RulesHeader)
	for _, rule := range c.tmpl.Rules {
		lines = append(lines, "- "+rule)
	}
	if len(c.tmpl.BannedPhrases) > 0 {
		lines = append(lines, "- Never use these phrases: "+strings.Join(quoteAll(c.tmpl.BannedPhrases), ", "))
	}
	return strings.Join(lines, "\n")
}

func (c *Composer) postBlock(opts models.GenerationOptions) string {
	lines := []string{
		"The post should:",
		"- Be " + c.tmpl.LengthDirective(opts.Length),
		"- Use this tone: " + c.tmpl.ToneDirective(opts.Tone),
	}
	for _, g := range c.tmpl.Guidelines {
		lines = append(lines, "- "+g)
	}
	return strings.Join(lines, "\n")
}

func quoteAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = `"` + s + `"`
	}
	return out
}
