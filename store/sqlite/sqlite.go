/*
Package sqlite provides the SQLite-backed persistence for cases under
revision.

PURPOSE:
  Implements the repository ports the orchestration consumes
  (revurdering.Repo, revurdering.VedtakRepo and the document archive)
  using SQLite. In production the same patterns apply to PostgreSQL,
  only minor SQL dialect differences.

STORAGE MODEL:
  Aggregates are stored as one row per aggregate: a few indexed scalar
  columns for lookups (id, sak_id, tilstand, opprettet) plus a JSON
  document holding the full aggregate. The JSON shapes live in json.go
  and are versioned implicitly by being append-compatible: new fields
  may be added, existing fields never change meaning.

KEY TABLES:
  revurderinger: one row per revision, last write wins
  vedtak:        immutable decision history per sak
  dokumenter:    archived generated correspondence

CONCURRENCY:
  Uses sync.RWMutex in front of the connection. Concurrent writers to
  the same revision are resolved last-write-wins; the repository layer
  does not implement version checks.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so readers do not
  block on the single writer.
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	_ "github.com/mattn/go-sqlite3"
)

// Store implements the persistence ports on a single SQLite handle.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New opens the database and migrates the schema.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("kunne ikke åpne databasen: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("kunne ikke migrere databasen: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	-- Revisions, one row per aggregate, last write wins
	CREATE TABLE IF NOT EXISTS revurderinger (
		id TEXT PRIMARY KEY,
		sak_id TEXT NOT NULL,
		tilstand TEXT NOT NULL,
		opprettet TEXT NOT NULL,
		oppdatert TEXT NOT NULL,
		data_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_revurderinger_sak
		ON revurderinger(sak_id);
	CREATE INDEX IF NOT EXISTS idx_revurderinger_tilstand
		ON revurderinger(tilstand);

	-- Decision history is append-only: no UPDATE, no DELETE
	CREATE TABLE IF NOT EXISTS vedtak (
		id TEXT PRIMARY KEY,
		sak_id TEXT NOT NULL,
		behandling_id TEXT NOT NULL,
		vedtakstype TEXT NOT NULL,
		opprettet TEXT NOT NULL,
		fra_og_med TEXT NOT NULL,
		til_og_med TEXT NOT NULL,
		data_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_vedtak_sak
		ON vedtak(sak_id, opprettet DESC);
	CREATE INDEX IF NOT EXISTS idx_vedtak_behandling
		ON vedtak(behandling_id);

	-- Suspension and resumption, same one-row model as revurderinger
	CREATE TABLE IF NOT EXISTS stans (
		id TEXT PRIMARY KEY,
		sak_id TEXT NOT NULL,
		tilstand TEXT NOT NULL,
		opprettet TEXT NOT NULL,
		data_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_stans_sak
		ON stans(sak_id);

	CREATE TABLE IF NOT EXISTS gjenopptak (
		id TEXT PRIMARY KEY,
		sak_id TEXT NOT NULL,
		tilstand TEXT NOT NULL,
		opprettet TEXT NOT NULL,
		data_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_gjenopptak_sak
		ON gjenopptak(sak_id);

	-- Archived correspondence
	CREATE TABLE IF NOT EXISTS dokumenter (
		id TEXT PRIMARY KEY,
		sak_id TEXT NOT NULL,
		behandling_id TEXT NOT NULL,
		dokumenttype TEXT NOT NULL,
		tittel TEXT NOT NULL,
		opprettet TEXT NOT NULL,
		generert_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_dokumenter_sak
		ON dokumenter(sak_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// withTx runs fn inside one transaction; rollback on any error.
func (s *Store) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("kunne ikke starte transaksjon: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}
