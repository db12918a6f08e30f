package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/social-wizard/internal/models"
	"github.com/social-wizard/internal/storage"
	"github.com/social-wizard/pkg/logger"
)

const (
	settingsCollection = "settings"
	trendingID         = "trending_topics"
)

// record is the stored shape of a corpus document. One collection per kind.
type record struct {
	ID        string    `bson:"_id"`
	Type      string    `bson:"type,omitempty"`
	Body      string    `bson:"body"`
	SourceURL string    `bson:"source_url,omitempty"`
	CreatedAt time.Time `bson:"created_at"`
	Seq       int64     `bson:"seq"`
}

type settingRecord struct {
	ID        string    `bson:"_id"`
	Value     string    `bson:"value"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// Config holds MongoDB connection settings
type Config struct {
	URI      string
	Database string
	Timeout  time.Duration
}

// Repository implements storage.Repository on MongoDB
type Repository struct {
	client  *mongo.Client
	db      *mongo.Database
	timeout time.Duration
	log     *logger.Logger
}

// New connects to MongoDB and verifies the connection with a ping
func New(ctx context.Context, cfg Config, log *logger.Logger) (*Repository, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	connectCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(cfg.URI).SetTimeout(cfg.Timeout))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	return &Repository{
		client:  client,
		db:      client.Database(cfg.Database),
		timeout: cfg.Timeout,
		log:     log.WithComponent("mongo-repo"),
	}, nil
}

// Migrate ensures the ordering index exists on each pool collection
func (r *Repository) Migrate() error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	for _, kind := range models.Kinds {
		idx := mongo.IndexModel{Keys: bson.D{{Key: "seq", Value: 1}}}
		if _, err := r.collection(kind).Indexes().CreateOne(ctx, idx); err != nil {
			return fmt.Errorf("failed to create index on %s: %w", kind, err)
		}
	}

	r.log.Info().Msg("Mongo collections ready")
	return nil
}

// Close disconnects the client
func (r *Repository) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()
	return r.client.Disconnect(ctx)
}

func (r *Repository) collection(kind models.Kind) *mongo.Collection {
	return r.db.Collection(string(kind))
}

func (r *Repository) Add(ctx context.Context, doc *models.Document) error {
	if err := storage.Prepare(doc); err != nil {
		return err
	}

	rec := record{
		ID:        doc.ID,
		Type:      string(doc.Type),
		Body:      doc.Body,
		SourceURL: doc.SourceURL,
		CreatedAt: doc.CreatedAt,
		Seq:       time.Now().UnixNano(),
	}
	if _, err := r.collection(doc.Kind).InsertOne(ctx, rec); err != nil {
		return fmt.Errorf("failed to insert %s document: %w", doc.Kind, err)
	}
	return nil
}

func (r *Repository) List(ctx context.Context, kind models.Kind) ([]*models.Document, error) {
	opts := options.Find().SetSort(bson.D{{Key: "seq", Value: 1}, {Key: "created_at", Value: 1}})
	cur, err := r.collection(kind).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	docs := []*models.Document{}
	for cur.Next(ctx) {
		var rec record
		if err := cur.Decode(&rec); err != nil {
			return nil, err
		}
		docs = append(docs, &models.Document{
			ID:        rec.ID,
			Kind:      kind,
			Type:      models.ContentType(rec.Type),
			Body:      rec.Body,
			SourceURL: rec.SourceURL,
			CreatedAt: rec.CreatedAt,
		})
	}
	return docs, cur.Err()
}

func (r *Repository) SetTrending(ctx context.Context, text string) error {
	rec := settingRecord{ID: trendingID, Value: text, UpdatedAt: time.Now().UTC()}
	_, err := r.db.Collection(settingsCollection).ReplaceOne(ctx,
		bson.M{"_id": trendingID}, rec, options.Replace().SetUpsert(true))
	return err
}

func (r *Repository) GetTrending(ctx context.Context) (string, error) {
	var rec settingRecord
	err := r.db.Collection(settingsCollection).FindOne(ctx, bson.M{"_id": trendingID}).Decode(&rec)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return rec.Value, nil
}

func (r *Repository) ClearTrending(ctx context.Context) error {
	_, err := r.db.Collection(settingsCollection).DeleteOne(ctx, bson.M{"_id": trendingID})
	return err
}

// Ensure Repository implements storage.Repository
var _ storage.Repository = (*Repository)(nil)
