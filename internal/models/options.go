package models

import (
	"time"
)

// Length is the requested post length
type Length string

const (
	LengthShort  Length = "short"
	LengthMedium Length = "medium"
	LengthLong   Length = "long"
)

// Tone is the requested post tone
type Tone string

const (
	ToneDefault       Tone = "default"
	ToneCasual        Tone = "casual"
	ToneInspirational Tone = "inspirational"
	ToneControversial Tone = "controversial"
)

// GenerationOptions are per-request knobs for post generation. Never persisted.
type GenerationOptions struct {
	Topic         string `json:"topic,omitempty"`
	Length        Length `json:"length,omitempty"`
	Tone          Tone   `json:"tone,omitempty"`
	GenerateImage bool   `json:"generateImage,omitempty"`
}

// TrendingItem is a single headline pulled from a trending source
type TrendingItem struct {
	Title       string
	URL         string
	SourceType  string
	SourceName  string
	PublishedAt time.Time
}
