package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"

	"github.com/spacesedan/swotflow/internal/models"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS analyses (
	id TEXT PRIMARY KEY,
	product TEXT NOT NULL,
	source TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	payload TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_analyses_product ON analyses(product, created_at);
`

// SQLiteStore keeps every analysis as a JSON payload keyed by its ID.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the database at path with WAL enabled.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("[SQLiteStore] failed to open %s: %w", path, err)
	}

	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("[SQLiteStore] failed to enable WAL: %w", err)
	}
	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("[SQLiteStore] failed to create schema: %w", err)
	}

	slog.Info("[SQLiteStore] Database ready", slog.String("path", path))
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Name() string { return "sqlite" }

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) Save(ctx context.Context, record *models.AnalysisRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("[SQLiteStore] failed to encode analysis: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO analyses (id, product, source, created_at, payload) VALUES (?, ?, ?, ?, ?)`,
		record.ID, record.Product, record.Source, record.CreatedAt.UnixNano(), string(payload))
	if err != nil {
		return fmt.Errorf("[SQLiteStore] failed to insert analysis %s: %w", record.ID, err)
	}

	slog.Debug("[SQLiteStore] Analysis saved",
		slog.String("id", record.ID),
		slog.String("product", record.Product))
	return nil
}

func (s *SQLiteStore) Latest(ctx context.Context, productName string) (*models.AnalysisRecord, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM analyses WHERE product = ? ORDER BY created_at DESC, id DESC LIMIT 1`,
		productName).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound(productName)
	}
	if err != nil {
		return nil, fmt.Errorf("[SQLiteStore] lookup for %q failed: %w", productName, err)
	}

	var record models.AnalysisRecord
	if err := json.Unmarshal([]byte(payload), &record); err != nil {
		return nil, fmt.Errorf("[SQLiteStore] corrupt payload for %q: %w", productName, err)
	}
	return &record, nil
}

// Count returns the number of analyses stored for a product.
func (s *SQLiteStore) Count(ctx context.Context, productName string) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM analyses WHERE product = ?`, productName).Scan(&n)
	return n, err
}
