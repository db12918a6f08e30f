package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/social-wizard/internal/models"
)

// ErrValidation is returned when a document is missing required input
var ErrValidation = errors.New("validation error")

// Repository defines the interface for corpus persistence.
// Implementations must be safe for concurrent use.
type Repository interface {
	// Document operations. Documents are insert-only.
	Add(ctx context.Context, doc *models.Document) error
	List(ctx context.Context, kind models.Kind) ([]*models.Document, error)

	// Trending topics singleton
	SetTrending(ctx context.Context, text string) error
	GetTrending(ctx context.Context) (string, error)
	ClearTrending(ctx context.Context) error

	// Maintenance
	Close() error
	Migrate() error
}

// ValidateDocument checks a document before insertion
func ValidateDocument(doc *models.Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is required", ErrValidation)
	}
	if !doc.Kind.Valid() {
		return fmt.Errorf("%w: unknown document kind %q", ErrValidation, doc.Kind)
	}
	if strings.TrimSpace(doc.Body) == "" {
		return fmt.Errorf("%w: %s body is required", ErrValidation, doc.Kind)
	}
	if doc.Kind == models.KindContent && !doc.Type.Valid() {
		return fmt.Errorf("%w: unknown content type %q", ErrValidation, doc.Type)
	}
	return nil
}

// Prepare validates a document and assigns its identity and creation time
func Prepare(doc *models.Document) error {
	if err := ValidateDocument(doc); err != nil {
		return err
	}
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	if doc.CreatedAt.IsZero() {
		doc.CreatedAt = time.Now().UTC()
	}
	return nil
}
