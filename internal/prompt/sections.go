package prompt

import (
	"strings"

	"github.com/social-wizard/internal/models"
)

// section is one optional labelled block of context
type section struct {
	name  string
	label string
	body  string
	hint  string
}

func (s section) render() string {
	out := s.label + "\n" + s.body
	if s.hint != "" {
		out += "\n\n" + s.hint
	}
	return out
}

// sections returns the context blocks in fixed order, skipping empty sources
func (c *Composer) sections(corpus Corpus) []section {
	builders := []func(Corpus) (section, bool){
		c.brandSection,
		c.memorySection,
		c.trendingSection,
	}

	out := make([]section, 0, len(builders))
	for _, build := range builders {
		if s, ok := build(corpus); ok {
			out = append(out, s)
		}
	}
	return out
}

func (c *Composer) brandSection(corpus Corpus) (section, bool) {
	examples := bodies(corpus.Brand)
	if len(examples) == 0 {
		return section{}, false
	}
	if len(examples) > maxBrandExamples {
		examples = examples[:maxBrandExamples]
	}
	return section{
		name:  "brand",
		label: c.tmpl.BrandLabel,
		body:  strings.Join(examples, brandSeparator),
	}, true
}

func (c *Composer) memorySection(corpus Corpus) (section, bool) {
	notes := bodies(corpus.Memory)
	if len(notes) == 0 {
		return section{}, false
	}
	return section{
		name:  "memory",
		label: c.tmpl.MemoryLabel,
		body:  strings.Join(notes, "\n"),
	}, true
}

func (c *Composer) trendingSection(corpus Corpus) (section, bool) {
	if strings.TrimSpace(corpus.Trending) == "" {
		return section{}, false
	}
	return section{
		name:  "trending",
		label: c.tmpl.TrendingLabel,
		body:  corpus.Trending,
		hint:  c.tmpl.TrendingHint,
	}, true
}

func bodies(docs []*models.Document) []string {
	out := make([]string, 0, len(docs))
	for _, d := range docs {
		if d != nil {
			out = append(out, d.Body)
		}
	}
	return out
}
