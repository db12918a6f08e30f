package sqldb

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/social-wizard/internal/models"
	"github.com/social-wizard/internal/storage"
)

// document is the table row for a corpus document.
// RowID gives a stable creation order independent of clock resolution.
type document struct {
	RowID     uint      `gorm:"primaryKey;autoIncrement"`
	ID        string    `gorm:"uniqueIndex;size:36;not null"`
	Kind      string    `gorm:"index;size:16;not null"`
	Type      string    `gorm:"size:16"`
	Body      string    `gorm:"type:text;not null"`
	SourceURL string    `gorm:"size:2048"`
	CreatedAt time.Time `gorm:"not null"`
}

func (document) TableName() string {
	return "documents"
}

// setting is a singleton key/value row
type setting struct {
	Name      string `gorm:"primaryKey;size:64"`
	Value     string `gorm:"type:text"`
	UpdatedAt time.Time
}

func (setting) TableName() string {
	return "settings"
}

const trendingKey = "trending_topics"

// Config holds database configuration
type Config struct {
	Driver string // "sqlite" or "postgres"
	DSN    string
	Log    logger.LogLevel
}

// Repository implements storage.Repository on SQLite or PostgreSQL via GORM
type Repository struct {
	db *gorm.DB
}

// New opens a database connection for the configured driver
func New(cfg Config) (*Repository, error) {
	if cfg.Log == 0 {
		cfg.Log = logger.Silent
	}
	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(cfg.Log),
	}

	var dialector gorm.Dialector
	switch cfg.Driver {
	case "sqlite", "":
		// Ensure directory exists
		dir := filepath.Dir(cfg.DSN)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create data directory: %w", err)
			}
		}
		dialector = sqlite.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", cfg.Driver)
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	return &Repository{db: db}, nil
}

// Migrate runs database migrations
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(
		&document{},
		&setting{},
	)
}

// Close closes the database connection
func (r *Repository) Close() error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Document operations

func (r *Repository) Add(ctx context.Context, doc *models.Document) error {
	if err := storage.Prepare(doc); err != nil {
		return err
	}

	row := &document{
		ID:        doc.ID,
		Kind:      string(doc.Kind),
		Type:      string(doc.Type),
		Body:      doc.Body,
		SourceURL: doc.SourceURL,
		CreatedAt: doc.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(row).Error; err != nil {
		return fmt.Errorf("failed to insert %s document: %w", doc.Kind, err)
	}
	return nil
}

func (r *Repository) List(ctx context.Context, kind models.Kind) ([]*models.Document, error) {
	var rows []document
	if err := r.db.WithContext(ctx).
		Where("kind = ?", string(kind)).
		Order("row_id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}

	docs := make([]*models.Document, 0, len(rows))
	for _, row := range rows {
		docs = append(docs, &models.Document{
			ID:        row.ID,
			Kind:      models.Kind(row.Kind),
			Type:      models.ContentType(row.Type),
			Body:      row.Body,
			SourceURL: row.SourceURL,
			CreatedAt: row.CreatedAt,
		})
	}
	return docs, nil
}

// Trending operations

func (r *Repository) SetTrending(ctx context.Context, text string) error {
	// Upsert - last write wins
	row := &setting{Name: trendingKey, Value: text, UpdatedAt: time.Now().UTC()}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(row).Error
}

func (r *Repository) GetTrending(ctx context.Context) (string, error) {
	var row setting
	err := r.db.WithContext(ctx).Where("name = ?", trendingKey).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return row.Value, nil
}

func (r *Repository) ClearTrending(ctx context.Context) error {
	return r.db.WithContext(ctx).Where("name = ?", trendingKey).Delete(&setting{}).Error
}

// Ensure Repository implements storage.Repository
var _ storage.Repository = (*Repository)(nil)
