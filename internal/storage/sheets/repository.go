package sheets

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/social-wizard/internal/models"
	"github.com/social-wizard/internal/storage"
	"github.com/social-wizard/pkg/logger"
)

const trendingSheetName = "Trending"

// sheetNames maps each corpus pool to its tab
var sheetNames = map[models.Kind]string{
	models.KindContent: "Content",
	models.KindBrand:   "Brand",
	models.KindMemory:  "Memory",
}

// Config holds configuration for Sheets repository
type Config struct {
	SpreadsheetID      string
	ServiceAccountJSON string
	CredentialsFile    string
	// Extra client options (endpoint overrides in tests)
	Options []option.ClientOption
}

// Repository implements storage.Repository using Google Sheets.
// Rows are append-only, so sheet order is creation order.
type Repository struct {
	service       *sheets.Service
	spreadsheetID string
	log           *logger.Logger
}

// New creates a new Sheets repository
func New(cfg Config, log *logger.Logger) (*Repository, error) {
	ctx := context.Background()

	opts := append([]option.ClientOption{}, cfg.Options...)
	if cfg.ServiceAccountJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(cfg.ServiceAccountJSON)))
	} else if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	} else if len(cfg.Options) == 0 {
		return nil, fmt.Errorf("no Google credentials provided")
	}

	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Repository{
		service:       srv,
		spreadsheetID: cfg.SpreadsheetID,
		log:           log.WithComponent("sheets-repo"),
	}, nil
}

// Migrate creates sheets and headers if they don't exist
func (r *Repository) Migrate() error {
	ctx := context.Background()

	for _, kind := range models.Kinds {
		name := sheetNames[kind]
		if err := r.ensureSheetExists(ctx, name, documentHeaders()); err != nil {
			return fmt.Errorf("failed to create %s sheet: %w", name, err)
		}
	}
	if err := r.ensureSheetExists(ctx, trendingSheetName, nil); err != nil {
		return fmt.Errorf("failed to create %s sheet: %w", trendingSheetName, err)
	}

	r.log.Info().Msg("Sheets repository migrated successfully")
	return nil
}

// Close is a no-op for Sheets
func (r *Repository) Close() error {
	return nil
}

// ============ DOCUMENT OPERATIONS ============

// Add appends a document row to its pool's sheet
func (r *Repository) Add(ctx context.Context, doc *models.Document) error {
	if err := storage.Prepare(doc); err != nil {
		return err
	}
	return r.appendRow(ctx, sheetNames[doc.Kind], documentToRow(doc))
}

// List reads every row of a pool's sheet
func (r *Repository) List(ctx context.Context, kind models.Kind) ([]*models.Document, error) {
	name, ok := sheetNames[kind]
	if !ok {
		return []*models.Document{}, nil
	}

	readRange := fmt.Sprintf("%s!A2:%s", name, columnLetter(len(documentHeaders())))
	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	docs := make([]*models.Document, 0, len(resp.Values))
	for _, row := range resp.Values {
		if doc := rowToDocument(kind, row); doc != nil {
			docs = append(docs, doc)
		}
	}
	return docs, nil
}

// ============ TRENDING OPERATIONS ============

// SetTrending overwrites cell A1 of the Trending sheet
func (r *Repository) SetTrending(ctx context.Context, text string) error {
	writeRange := fmt.Sprintf("%s!A1", trendingSheetName)
	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{{text}},
	}
	_, err := r.service.Spreadsheets.Values.Update(r.spreadsheetID, writeRange, valueRange).
		ValueInputOption("RAW").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to write trending topics: %w", err)
	}
	return nil
}

// GetTrending reads cell A1 of the Trending sheet
func (r *Repository) GetTrending(ctx context.Context) (string, error) {
	readRange := fmt.Sprintf("%s!A1", trendingSheetName)
	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("failed to read trending topics: %w", err)
	}
	if len(resp.Values) == 0 {
		return "", nil
	}
	return parseString(resp.Values[0], 0), nil
}

// ClearTrending empties the Trending sheet
func (r *Repository) ClearTrending(ctx context.Context) error {
	clearRange := fmt.Sprintf("%s!A1", trendingSheetName)
	_, err := r.service.Spreadsheets.Values.Clear(r.spreadsheetID, clearRange, &sheets.ClearValuesRequest{}).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to clear trending topics: %w", err)
	}
	return nil
}

// ============ HELPERS ============

func (r *Repository) ensureSheetExists(ctx context.Context, sheetName string, headers []string) error {
	// Get spreadsheet to check existing sheets
	spreadsheet, err := r.service.Spreadsheets.Get(r.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to get spreadsheet: %w", err)
	}

	sheetExists := false
	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == sheetName {
			sheetExists = true
			break
		}
	}

	if !sheetExists {
		r.log.Info().Str("sheet", sheetName).Msg("Creating new sheet")
		req := &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{
				{
					AddSheet: &sheets.AddSheetRequest{
						Properties: &sheets.SheetProperties{
							Title: sheetName,
						},
					},
				},
			},
		}
		if _, err := r.service.Spreadsheets.BatchUpdate(r.spreadsheetID, req).Context(ctx).Do(); err != nil {
			return fmt.Errorf("failed to create sheet: %w", err)
		}
	}

	if len(headers) == 0 {
		return nil
	}

	// Check if headers exist
	readRange := fmt.Sprintf("%s!A1:%s1", sheetName, columnLetter(len(headers)))
	resp, err := r.service.Spreadsheets.Values.Get(r.spreadsheetID, readRange).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read sheet: %w", err)
	}

	// Write headers if empty
	if len(resp.Values) == 0 {
		headerRow := make([]interface{}, 0, len(headers))
		for _, h := range headers {
			headerRow = append(headerRow, h)
		}

		writeRange := fmt.Sprintf("%s!A1", sheetName)
		valueRange := &sheets.ValueRange{
			Values: [][]interface{}{headerRow},
		}
		_, err = r.service.Spreadsheets.Values.Update(r.spreadsheetID, writeRange, valueRange).
			ValueInputOption("RAW").
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("failed to write headers: %w", err)
		}
		r.log.Info().Str("sheet", sheetName).Msg("Headers initialized")
	}

	return nil
}

func (r *Repository) appendRow(ctx context.Context, sheetName string, row []interface{}) error {
	appendRange := fmt.Sprintf("%s!A:%s", sheetName, columnLetter(len(row)))
	valueRange := &sheets.ValueRange{
		Values: [][]interface{}{row},
	}

	_, err := r.service.Spreadsheets.Values.Append(r.spreadsheetID, appendRange, valueRange).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("failed to append row: %w", err)
	}

	return nil
}

func columnLetter(n int) string {
	result := ""
	for n > 0 {
		n-- // Adjust for 0-based indexing
		result = string(rune('A'+n%26)) + result
		n /= 26
	}
	return result
}

func documentHeaders() []string {
	return []string{"ID", "Type", "Body", "Source URL", "Created At"}
}

func documentToRow(d *models.Document) []interface{} {
	return []interface{}{
		d.ID,
		string(d.Type),
		d.Body,
		d.SourceURL,
		d.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func rowToDocument(kind models.Kind, row []interface{}) *models.Document {
	id := parseString(row, 0)
	if id == "" {
		return nil
	}
	return &models.Document{
		ID:        id,
		Kind:      kind,
		Type:      models.ContentType(parseString(row, 1)),
		Body:      parseString(row, 2),
		SourceURL: parseString(row, 3),
		CreatedAt: parseTime(row, 4),
	}
}

func parseString(row []interface{}, idx int) string {
	if idx < len(row) && row[idx] != nil {
		return fmt.Sprintf("%v", row[idx])
	}
	return ""
}

func parseTime(row []interface{}, idx int) time.Time {
	if idx < len(row) {
		t, _ := time.Parse(time.RFC3339Nano, parseString(row, idx))
		return t
	}
	return time.Time{}
}

// Ensure Repository implements storage.Repository
var _ storage.Repository = (*Repository)(nil)
