package models

import (
	"time"
)

// Kind identifies which corpus pool a document belongs to
type Kind string

const (
	KindContent Kind = "content"
	KindBrand   Kind = "brand"
	KindMemory  Kind = "memory"
)

// Kinds lists every corpus pool in a stable order
var Kinds = []Kind{KindContent, KindBrand, KindMemory}

// Valid reports whether k names a known pool
func (k Kind) Valid() bool {
	switch k {
	case KindContent, KindBrand, KindMemory:
		return true
	}
	return false
}

// ContentType records how a content document entered the corpus
type ContentType string

const (
	ContentTypeManual  ContentType = "manual"
	ContentTypeScraped ContentType = "scraped"
)

// Valid reports whether t is a known content type
func (t ContentType) Valid() bool {
	return t == ContentTypeManual || t == ContentTypeScraped
}

// Document is a stored piece of corpus text: source content, a brand-voice
// example or a memory note. Documents are immutable once created.
type Document struct {
	ID        string      `json:"id"`
	Kind      Kind        `json:"kind"`
	Type      ContentType `json:"type,omitempty"` // content documents only
	Body      string      `json:"content"`
	SourceURL string      `json:"sourceUrl,omitempty"`
	CreatedAt time.Time   `json:"createdAt"`
}

// NewContent creates a content document
func NewContent(contentType ContentType, body, sourceURL string) *Document {
	return &Document{
		Kind:      KindContent,
		Type:      contentType,
		Body:      body,
		SourceURL: sourceURL,
	}
}

// NewBrandExample creates a brand-voice example document
func NewBrandExample(body string) *Document {
	return &Document{Kind: KindBrand, Body: body}
}

// NewMemoryNote creates a memory note document
func NewMemoryNote(body string) *Document {
	return &Document{Kind: KindMemory, Body: body}
}
