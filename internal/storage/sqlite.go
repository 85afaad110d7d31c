package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/sentaku/pkg/utils"
)

// SQLiteStore implements SnapshotStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist. ":memory:" opens a private in-memory store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if dbPath != ":memory:" {
		if dir := filepath.Dir(dbPath); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// each pooled connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS snapshot_manifest (
		model_id TEXT PRIMARY KEY,
		dimensions INTEGER NOT NULL,
		records INTEGER NOT NULL DEFAULT 0,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE TABLE IF NOT EXISTS corpus_embeddings (
		model_id TEXT NOT NULL,
		url TEXT NOT NULL,
		text_hash TEXT NOT NULL,
		vector BLOB NOT NULL,
		PRIMARY KEY (model_id, url)
	);

	CREATE INDEX IF NOT EXISTS idx_embeddings_model ON corpus_embeddings(model_id);
	`
	_, err := db.Exec(schema)
	return err
}

// Manifest returns the manifest for modelID, or nil if none exists.
func (s *SQLiteStore) Manifest(ctx context.Context, modelID string) (*Manifest, error) {
	return s.scanManifest(s.db.QueryRowContext(ctx,
		`SELECT model_id, dimensions, records, updated_at FROM snapshot_manifest WHERE model_id = ?`, modelID))
}

// LatestManifest returns the most recently updated manifest, or nil.
func (s *SQLiteStore) LatestManifest(ctx context.Context) (*Manifest, error) {
	return s.scanManifest(s.db.QueryRowContext(ctx,
		`SELECT model_id, dimensions, records, updated_at FROM snapshot_manifest ORDER BY updated_at DESC LIMIT 1`))
}

func (s *SQLiteStore) scanManifest(row *sql.Row) (*Manifest, error) {
	var m Manifest
	err := row.Scan(&m.ModelID, &m.Dimensions, &m.Records, &m.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// LoadVectors returns all stored vectors for modelID keyed by url.
func (s *SQLiteStore) LoadVectors(ctx context.Context, modelID string) (map[string]StoredVector, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT url, text_hash, vector FROM corpus_embeddings WHERE model_id = ?`, modelID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]StoredVector)
	for rows.Next() {
		var v StoredVector
		var blob []byte
		if err := rows.Scan(&v.URL, &v.TextHash, &blob); err != nil {
			return nil, err
		}
		if v.Vector, err = utils.DecodeFloat32s(blob); err != nil {
			return nil, fmt.Errorf("decode vector for %s: %w", v.URL, err)
		}
		out[v.URL] = v
	}
	return out, rows.Err()
}

// SaveVectors upserts vectors for modelID and refreshes its manifest in one transaction.
// If the stored manifest has different dimensions, existing vectors for modelID are dropped first.
func (s *SQLiteStore) SaveVectors(ctx context.Context, modelID string, dimensions int, vecs []StoredVector) error {
	for _, v := range vecs {
		if len(v.Vector) != dimensions {
			return fmt.Errorf("vector for %s has %d dimensions, expected %d", v.URL, len(v.Vector), dimensions)
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	var existingDims int
	err = tx.QueryRowContext(ctx, `SELECT dimensions FROM snapshot_manifest WHERE model_id = ?`, modelID).Scan(&existingDims)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return err
	case existingDims != dimensions:
		if _, err := tx.ExecContext(ctx, `DELETE FROM corpus_embeddings WHERE model_id = ?`, modelID); err != nil {
			return err
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO corpus_embeddings (model_id, url, text_hash, vector) VALUES (?, ?, ?, ?)
		 ON CONFLICT(model_id, url) DO UPDATE SET text_hash = excluded.text_hash, vector = excluded.vector`,
	)
	if err != nil {
		return err
	}
	defer stmt.Close()

	for _, v := range vecs {
		if _, err := stmt.ExecContext(ctx, modelID, v.URL, v.TextHash, utils.EncodeFloat32s(v.Vector)); err != nil {
			return err
		}
	}

	var count int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM corpus_embeddings WHERE model_id = ?`, modelID).Scan(&count); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO snapshot_manifest (model_id, dimensions, records, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(model_id) DO UPDATE SET dimensions = excluded.dimensions, records = excluded.records, updated_at = excluded.updated_at`,
		modelID, dimensions, count, time.Now().UTC(),
	); err != nil {
		return err
	}
	return tx.Commit()
}

// Prune deletes vectors for modelID whose url is not in keep and updates the manifest count.
func (s *SQLiteStore) Prune(ctx context.Context, modelID string, keep []string) (int, error) {
	keepSet := make(map[string]bool, len(keep))
	for _, u := range keep {
		keepSet[u] = true
	}
	stored, err := s.LoadVectors(ctx, modelID)
	if err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	removed := 0
	for url := range stored {
		if keepSet[url] {
			continue
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM corpus_embeddings WHERE model_id = ? AND url = ?`, modelID, url); err != nil {
			return 0, err
		}
		removed++
	}
	if _, err := tx.ExecContext(ctx,
		`UPDATE snapshot_manifest SET records = (SELECT COUNT(*) FROM corpus_embeddings WHERE model_id = ?) WHERE model_id = ?`,
		modelID, modelID,
	); err != nil {
		return 0, err
	}
	return removed, tx.Commit()
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
