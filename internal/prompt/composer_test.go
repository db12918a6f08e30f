package prompt

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/social-wizard/internal/config"
	"github.com/social-wizard/internal/models"
)

func docs(kind models.Kind, bodies ...string) []*models.Document {
	out := make([]*models.Document, 0, len(bodies))
	for _, b := range bodies {
		out = append(out, &models.Document{Kind: kind, Body: b})
	}
	return out
}

func fixed(i int) Selector {
	return func(n int) int { return i }
}

func TestCompose_Deterministic(t *testing.T) {
	corpus := Corpus{
		Content:  docs(models.KindContent, "alpha", "beta", "gamma"),
		Brand:    docs(models.KindBrand, "b1", "b2"),
		Memory:   docs(models.KindMemory, "m1"),
		Trending: "AI agents",
	}
	opts := models.GenerationOptions{Length: models.LengthShort, Tone: models.ToneCasual}

	first, err := NewComposer(DefaultTemplate(), fixed(1)).Compose(corpus, opts)
	require.NoError(t, err)
	second, err := NewComposer(DefaultTemplate(), fixed(1)).Compose(corpus, opts)
	require.NoError(t, err)

	assert.Equal(t, first.Text, second.Text)
	assert.Equal(t, "beta", first.Selected.Body)
	assert.False(t, first.TopicMatched)
}

func TestCompose_EmptyPool(t *testing.T) {
	called := false
	c := NewComposer(DefaultTemplate(), func(n int) int {
		called = true
		return 0
	})

	res, err := c.Compose(Corpus{Brand: docs(models.KindBrand, "b")}, models.GenerationOptions{Topic: "x"})
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, ErrEmptyPool))
	assert.False(t, called, "selector must not be consulted for an empty pool")
}

func TestCompose_TopicMatchIsCaseInsensitive(t *testing.T) {
	corpus := Corpus{Content: docs(models.KindContent,
		"Email open rates",
		"SMS Marketing lifted revenue",
		"sms marketing again",
	)}
	c := NewComposer(DefaultTemplate(), func(n int) int {
		t.Fatal("selector should not run when a topic matches")
		return 0
	})

	res, err := c.Compose(corpus, models.GenerationOptions{Topic: "  sms MARKETING "})
	require.NoError(t, err)
	assert.Equal(t, "SMS Marketing lifted revenue", res.Selected.Body)
	assert.True(t, res.TopicMatched)
}

func TestCompose_TopicMissFallsBackToSelector(t *testing.T) {
	corpus := Corpus{Content: docs(models.KindContent, "one", "two")}

	res, err := NewComposer(DefaultTemplate(), fixed(1)).Compose(corpus, models.GenerationOptions{Topic: "podcasts"})
	require.NoError(t, err)
	assert.Equal(t, "two", res.Selected.Body)
	assert.False(t, res.TopicMatched)
}

func TestCompose_SelectorOutOfRangeIsClamped(t *testing.T) {
	corpus := Corpus{Content: docs(models.KindContent, "one", "two", "three")}

	res, err := NewComposer(DefaultTemplate(), fixed(7)).Compose(corpus, models.GenerationOptions{})
	require.NoError(t, err)
	assert.Equal(t, "two", res.Selected.Body)

	res, err = NewComposer(DefaultTemplate(), fixed(-1)).Compose(corpus, models.GenerationOptions{})
	require.NoError(t, err)
	assert.Equal(t, "three", res.Selected.Body)
}

func TestCompose_SectionsPresentOnlyWhenSourceNonEmpty(t *testing.T) {
	tmpl := DefaultTemplate()
	base := Corpus{Content: docs(models.KindContent, "content body")}

	res, err := NewComposer(tmpl, fixed(0)).Compose(base, models.GenerationOptions{})
	require.NoError(t, err)
	assert.NotContains(t, res.Text, tmpl.BrandLabel)
	assert.NotContains(t, res.Text, tmpl.MemoryLabel)
	assert.NotContains(t, res.Text, tmpl.TrendingLabel)
	assert.Empty(t, res.Sections)
	assert.NotContains(t, res.Text, "\n\n\n")

	withMemory := base
	withMemory.Memory = docs(models.KindMemory, "never mention competitor X", "we are based in Budapest")
	withMemory.Trending = "   "
	res, err = NewComposer(tmpl, fixed(0)).Compose(withMemory, models.GenerationOptions{})
	require.NoError(t, err)
	assert.Contains(t, res.Text, tmpl.MemoryLabel+"\nnever mention competitor X\nwe are based in Budapest")
	assert.NotContains(t, res.Text, tmpl.TrendingLabel)
	assert.Equal(t, []string{"memory"}, res.Sections)
}

func TestCompose_SectionOrder(t *testing.T) {
	tmpl := DefaultTemplate()
	corpus := Corpus{
		Content:  docs(models.KindContent, "content body"),
		Brand:    docs(models.KindBrand, "brand"),
		Memory:   docs(models.KindMemory, "memory"),
		Trending: "trend",
	}

	res, err := NewComposer(tmpl, fixed(0)).Compose(corpus, models.GenerationOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"brand", "memory", "trending"}, res.Sections)

	brandAt := strings.Index(res.Text, tmpl.BrandLabel)
	memoryAt := strings.Index(res.Text, tmpl.MemoryLabel)
	trendingAt := strings.Index(res.Text, tmpl.TrendingLabel)
	contentAt := strings.Index(res.Text, "Content:\ncontent body")
	assert.True(t, brandAt < memoryAt && memoryAt < trendingAt && trendingAt < contentAt)
	assert.Contains(t, res.Text, tmpl.TrendingLabel+"\ntrend\n\n"+tmpl.TrendingHint)
}

func TestCompose_BrandCappedAtThree(t *testing.T) {
	tmpl := DefaultTemplate()
	corpus := Corpus{
		Content: docs(models.KindContent, "c"),
		Brand:   docs(models.KindBrand, "b1", "b2", "b3", "b4", "b5"),
	}

	res, err := NewComposer(tmpl, fixed(0)).Compose(corpus, models.GenerationOptions{})
	require.NoError(t, err)
	assert.Contains(t, res.Text, tmpl.BrandLabel+"\nb1\n\n---\n\nb2\n\n---\n\nb3")
	assert.NotContains(t, res.Text, "b4")
	assert.NotContains(t, res.Text, "b5")
}

func TestCompose_HypothesisScenario(t *testing.T) {
	tmpl := DefaultTemplate()
	body := "Hypothesis: X. The Result: conversion rose 12%."
	corpus := Corpus{Content: docs(models.KindContent, body)}

	res, err := NewComposer(tmpl, fixed(0)).Compose(corpus, models.GenerationOptions{})
	require.NoError(t, err)

	assert.Contains(t, res.Text, "Content:\n"+body+"\n\n"+tmpl.Closing)
	for _, rule := range tmpl.Rules {
		assert.Contains(t, res.Text, "- "+rule+"\n")
	}
	assert.Contains(t, res.Text, "NEVER infer results from hypothesis")
	assert.Contains(t, res.Text, "Report numbers, percentages, and outcomes EXACTLY as stated")
	assert.Contains(t, res.Text, `- Never use these phrases: "game-changer"`)
	assert.True(t, strings.HasSuffix(res.Text, tmpl.Closing))
}

func TestCompose_Directives(t *testing.T) {
	tmpl := DefaultTemplate()
	corpus := Corpus{Content: docs(models.KindContent, "c")}
	c := NewComposer(tmpl, fixed(0))

	res, err := c.Compose(corpus, models.GenerationOptions{Length: models.LengthShort, Tone: models.ToneControversial})
	require.NoError(t, err)
	assert.Contains(t, res.Text, "- Be 50-100 words, punchy\n")
	assert.Contains(t, res.Text, "- Use this tone: contrarian, bold hot take")

	res, err = c.Compose(corpus, models.GenerationOptions{Length: "epic", Tone: "sarcastic"})
	require.NoError(t, err)
	assert.Contains(t, res.Text, "- Be "+tmpl.Lengths[models.LengthMedium]+"\n")
	assert.Contains(t, res.Text, "- Use this tone: "+tmpl.Tones[models.ToneDefault]+"\n")
}

func TestTemplateFromConfig(t *testing.T) {
	tmpl := TemplateFromConfig(config.PromptConfig{
		Intro:            "You write for Ada.",
		Rules:            []string{"Only facts"},
		BannedPhrases:    []string{},
		LengthDirectives: map[string]string{"short": "under 60 words"},
		ToneDirectives:   map[string]string{"witty": "dry humour"},
	})

	assert.Equal(t, "You write for Ada.", tmpl.Intro)
	assert.Equal(t, []string{"Only facts"}, tmpl.Rules)
	assert.Empty(t, tmpl.BannedPhrases)
	assert.Equal(t, "under 60 words", tmpl.LengthDirective(models.LengthShort))
	assert.Equal(t, "dry humour", tmpl.ToneDirective("witty"))
	assert.Equal(t, DefaultTemplate().Task, tmpl.Task)

	res, err := NewComposer(tmpl, fixed(0)).Compose(Corpus{Content: docs(models.KindContent, "c")}, models.GenerationOptions{})
	require.NoError(t, err)
	assert.NotContains(t, res.Text, "Never use these phrases")
	assert.True(t, strings.HasPrefix(res.Text, "You write for Ada.\n\n"))
}
