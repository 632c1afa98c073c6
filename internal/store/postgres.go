package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog/log"

	"loctext/internal/loctext"
	"loctext/internal/textutil"
)

const schema = `
CREATE TABLE IF NOT EXISTS loc_assets (
	name         TEXT PRIMARY KEY,
	content_hash TEXT NOT NULL,
	updated_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS loc_pragmas (
	asset TEXT NOT NULL REFERENCES loc_assets(name) ON DELETE CASCADE,
	key   TEXT NOT NULL,
	value TEXT NOT NULL,
	PRIMARY KEY (asset, key)
);
CREATE TABLE IF NOT EXISTS loc_texts (
	asset      TEXT NOT NULL REFERENCES loc_assets(name) ON DELETE CASCADE,
	position   INTEGER NOT NULL,
	text_id    TEXT NOT NULL,
	locale_pos INTEGER NOT NULL,
	locale     TEXT NOT NULL,
	value      TEXT NOT NULL,
	PRIMARY KEY (asset, position, locale_pos)
);
CREATE INDEX IF NOT EXISTS loc_texts_text_id ON loc_texts (text_id);
`

// PostgresStore persists parsed locale assets, preserving record and locale
// order so a loaded document serializes identically to the saved one.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store on pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// EnsureSchema creates the tables if they do not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Save replaces the stored copy of asset with doc. It reports false without
// writing when the stored content hash already matches.
func (s *PostgresStore) Save(ctx context.Context, asset string, doc *loctext.Document) (bool, error) {
	text, err := loctext.SerializeDocument(doc)
	if err != nil {
		return false, fmt.Errorf("serialize %s: %w", asset, err)
	}
	hash := textutil.Hash(text)

	var stored string
	err = s.pool.QueryRow(ctx, `SELECT content_hash FROM loc_assets WHERE name = $1`, asset).Scan(&stored)
	switch {
	case err == nil && stored == hash:
		log.Debug().Str("asset", asset).Msg("Asset unchanged, skipping save")
		return false, nil
	case err != nil && !errors.Is(err, pgx.ErrNoRows):
		return false, fmt.Errorf("query asset hash: %w", err)
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM loc_assets WHERE name = $1`, asset); err != nil {
		return false, fmt.Errorf("delete asset %s: %w", asset, err)
	}
	if _, err := tx.Exec(ctx, `INSERT INTO loc_assets (name, content_hash) VALUES ($1, $2)`, asset, hash); err != nil {
		return false, fmt.Errorf("insert asset %s: %w", asset, err)
	}

	batch := &pgx.Batch{}
	for k, v := range doc.Pragmas {
		batch.Queue(`INSERT INTO loc_pragmas (asset, key, value) VALUES ($1, $2, $3)`, asset, k, v)
	}
	for pos, rec := range doc.Records {
		for lpos, lv := range rec.Locales() {
			batch.Queue(`INSERT INTO loc_texts (asset, position, text_id, locale_pos, locale, value)
				VALUES ($1, $2, $3, $4, $5, $6)`, asset, pos, rec.ID, lpos, lv.Locale, lv.Value)
		}
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return false, fmt.Errorf("insert rows for %s: %w", asset, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return false, fmt.Errorf("commit %s: %w", asset, err)
	}

	log.Info().Str("asset", asset).Int("records", len(doc.Records)).Msg("Saved asset")
	return true, nil
}

// Load rebuilds the document stored for asset.
func (s *PostgresStore) Load(ctx context.Context, asset string) (*loctext.Document, error) {
	var exists bool
	if err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM loc_assets WHERE name = $1)`, asset).Scan(&exists); err != nil {
		return nil, fmt.Errorf("query asset: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("asset %q: %w", asset, ErrNotFound)
	}

	doc := &loctext.Document{Pragmas: loctext.PragmaTable{}}

	rows, err := s.pool.Query(ctx, `SELECT key, value FROM loc_pragmas WHERE asset = $1`, asset)
	if err != nil {
		return nil, fmt.Errorf("query pragmas: %w", err)
	}
	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scan pragma: %w", err)
		}
		doc.Pragmas[k] = v
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read pragmas: %w", err)
	}

	rows, err = s.pool.Query(ctx, `
		SELECT position, text_id, locale, value
		FROM loc_texts
		WHERE asset = $1
		ORDER BY position, locale_pos`, asset)
	if err != nil {
		return nil, fmt.Errorf("query texts: %w", err)
	}
	defer rows.Close()

	lastPos := -1
	for rows.Next() {
		var (
			pos               int32
			id, locale, value string
		)
		if err := rows.Scan(&pos, &id, &locale, &value); err != nil {
			return nil, fmt.Errorf("scan text: %w", err)
		}
		if int(pos) != lastPos {
			doc.Records = append(doc.Records, loctext.NewTextRecord(id))
			lastPos = int(pos)
		}
		doc.Records[len(doc.Records)-1].Set(locale, value)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read texts: %w", err)
	}

	return doc, nil
}

// Assets lists stored asset names.
func (s *PostgresStore) Assets(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT name FROM loc_assets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("query assets: %w", err)
	}
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("read assets: %w", err)
	}
	return names, nil
}
