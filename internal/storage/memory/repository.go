package memory

import (
	"context"
	"sync"

	"github.com/social-wizard/internal/models"
	"github.com/social-wizard/internal/storage"
)

// Repository is an in-process corpus store used by tests and ephemeral runs.
// Nothing survives a restart.
type Repository struct {
	mu       sync.RWMutex
	docs     map[models.Kind][]models.Document
	trending string
}

// New creates an empty in-memory repository
func New() *Repository {
	return &Repository{
		docs: make(map[models.Kind][]models.Document),
	}
}

// Migrate is a no-op
func (r *Repository) Migrate() error {
	return nil
}

// Close is a no-op
func (r *Repository) Close() error {
	return nil
}

func (r *Repository) Add(ctx context.Context, doc *models.Document) error {
	if err := storage.Prepare(doc); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs[doc.Kind] = append(r.docs[doc.Kind], *doc)
	return nil
}

func (r *Repository) List(ctx context.Context, kind models.Kind) ([]*models.Document, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	stored := r.docs[kind]
	out := make([]*models.Document, 0, len(stored))
	for i := range stored {
		d := stored[i]
		out = append(out, &d)
	}
	return out, nil
}

func (r *Repository) SetTrending(ctx context.Context, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trending = text
	return nil
}

func (r *Repository) GetTrending(ctx context.Context) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.trending, nil
}

func (r *Repository) ClearTrending(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.trending = ""
	return nil
}

// Ensure Repository implements storage.Repository
var _ storage.Repository = (*Repository)(nil)
