// Package store persists extracted rulings in SQLite so downstream
// consumers (search, display) can query them without reparsing JSON.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/avolkov/abyssal-tome/internal/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS rulings (
	id                   TEXT PRIMARY KEY,
	source_entity_code   TEXT NOT NULL,
	kind                 TEXT NOT NULL,
	question             TEXT,
	answer               TEXT,
	text                 TEXT,
	source_type          TEXT NOT NULL,
	source_name          TEXT,
	source_date          TEXT,
	retrieval_date       TEXT NOT NULL,
	source_url           TEXT,
	related_entity_codes TEXT NOT NULL,
	raw_snippet          TEXT,
	tags                 TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_rulings_source ON rulings(source_entity_code);
CREATE INDEX IF NOT EXISTS idx_rulings_kind   ON rulings(kind);
`

// Store manages the rulings SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Insert writes rulings in one transaction, replacing rows that share
// an id (re-running a process run is idempotent per identifier).
func (s *Store) Insert(ctx context.Context, rulings []model.Ruling) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR REPLACE INTO rulings
		(id, source_entity_code, kind, question, answer, text,
		 source_type, source_name, source_date, retrieval_date, source_url,
		 related_entity_codes, raw_snippet, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range rulings {
		r := &rulings[i]
		related, err := json.Marshal(r.RelatedCodes)
		if err != nil {
			return fmt.Errorf("marshal related codes: %w", err)
		}
		tags, err := json.Marshal(r.Tags)
		if err != nil {
			return fmt.Errorf("marshal tags: %w", err)
		}

		_, err = stmt.ExecContext(ctx,
			r.ID, r.SourceCode, string(r.Kind), r.Question, r.Answer, r.Text,
			r.Provenance.SourceType, r.Provenance.SourceName, r.Provenance.SourceDate,
			r.Provenance.RetrievalDate.Format(time.RFC3339), r.Provenance.SourceURL,
			string(related), r.RawSnippet, string(tags))
		if err != nil {
			return fmt.Errorf("insert ruling %s: %w", r.ID, err)
		}
	}
	return tx.Commit()
}

// ByCode returns every ruling extracted under the given card code.
func (s *Store) ByCode(ctx context.Context, code string) ([]model.Ruling, error) {
	return s.query(ctx, `SELECT id, source_entity_code, kind, question, answer, text,
		source_type, source_name, source_date, retrieval_date, source_url,
		related_entity_codes, raw_snippet, tags
		FROM rulings WHERE source_entity_code = ? ORDER BY rowid`, code)
}

// Search returns rulings whose question, answer or text contains the
// term (case-insensitive LIKE).
func (s *Store) Search(ctx context.Context, term string) ([]model.Ruling, error) {
	pattern := "%" + term + "%"
	return s.query(ctx, `SELECT id, source_entity_code, kind, question, answer, text,
		source_type, source_name, source_date, retrieval_date, source_url,
		related_entity_codes, raw_snippet, tags
		FROM rulings
		WHERE question LIKE ? OR answer LIKE ? OR text LIKE ?
		ORDER BY source_entity_code, rowid`, pattern, pattern, pattern)
}

// Count returns the number of stored rulings.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM rulings`).Scan(&n)
	return n, err
}

func (s *Store) query(ctx context.Context, q string, args ...any) ([]model.Ruling, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("query rulings: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var rulings []model.Ruling
	for rows.Next() {
		var r model.Ruling
		var kind, retrieval, related, tags string
		err := rows.Scan(&r.ID, &r.SourceCode, &kind, &r.Question, &r.Answer, &r.Text,
			&r.Provenance.SourceType, &r.Provenance.SourceName, &r.Provenance.SourceDate,
			&retrieval, &r.Provenance.SourceURL, &related, &r.RawSnippet, &tags)
		if err != nil {
			return nil, fmt.Errorf("scan ruling: %w", err)
		}

		r.Kind = model.RulingKind(kind)
		if r.Provenance.RetrievalDate, err = time.Parse(time.RFC3339, retrieval); err != nil {
			return nil, fmt.Errorf("parse retrieval date: %w", err)
		}
		if err := json.Unmarshal([]byte(related), &r.RelatedCodes); err != nil {
			return nil, fmt.Errorf("decode related codes: %w", err)
		}
		if err := json.Unmarshal([]byte(tags), &r.Tags); err != nil {
			return nil, fmt.Errorf("decode tags: %w", err)
		}
		rulings = append(rulings, r)
	}
	return rulings, rows.Err()
}
