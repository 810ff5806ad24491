// Package store persists path records to a transactional relational
// store, backed by a pure-Go SQLite driver so the renderer needs no cgo
// toolchain. The Store abstraction exists so the ant never depends on
// database/sql directly: begin a transaction, run statements against
// it, commit.
package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS node (
	path_id INTEGER PRIMARY KEY,
	Lo_x REAL, Lo_y REAL, Lo_z REAL,
	wo_x REAL, wo_y REAL, wo_z REAL,
	pos_out_x REAL, pos_out_y REAL, pos_out_z REAL,
	inter_happened INTEGER,
	inter_pos_x REAL, inter_pos_y REAL, inter_pos_z REAL,
	Li_light_x REAL, Li_light_y REAL, Li_light_z REAL,
	wi_light_x REAL, wi_light_y REAL, wi_light_z REAL,
	inter_light_happened INTEGER,
	inter_light_pos_x REAL, inter_light_pos_y REAL, inter_light_pos_z REAL,
	Li_obj_x REAL, Li_obj_y REAL, Li_obj_z REAL,
	wi_obj_x REAL, wi_obj_y REAL, wi_obj_z REAL,
	inter_obj_happened INTEGER,
	inter_obj_pos_x REAL, inter_obj_pos_y REAL, inter_obj_pos_z REAL,
	RR REAL,
	inter_obj_is_emission INTEGER
);
CREATE TABLE IF NOT EXISTS path (
	row INTEGER,
	col INTEGER,
	node_cnt INTEGER,
	node_ids TEXT
);
`

// Tx is a single transaction: callers Exec statements against it, then
// Commit or Rollback. Apart from the schema setup and truncation that
// Open runs directly, every write goes through a Tx — the ant is the
// store's only writer, and it always writes inside a transaction, per
// the concurrency design.
type Tx interface {
	Exec(ctx context.Context, query string, args ...any) error
	Commit() error
	Rollback() error
}

// Store opens transactions against the node/path schema.
type Store interface {
	Begin(ctx context.Context) (Tx, error)
	Close() error
}

type sqliteTx struct{ tx *sql.Tx }

func (t *sqliteTx) Exec(ctx context.Context, query string, args ...any) error {
	_, err := t.tx.ExecContext(ctx, query, args...)
	return err
}

func (t *sqliteTx) Commit() error   { return t.tx.Commit() }
func (t *sqliteTx) Rollback() error { return t.tx.Rollback() }

type sqliteStore struct{ db *sql.DB }

// Open creates (or truncates) the node/path schema at path and returns a
// Store backed by it. Tables are truncated here, at the start of the
// run, per the persistence design — not per-transaction.
func Open(ctx context.Context, path string) (Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	db.SetMaxOpenConns(1) // the ant is the store's only writer

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: create schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM node"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: truncate node: %w", err)
	}
	if _, err := db.ExecContext(ctx, "DELETE FROM path"); err != nil {
		db.Close()
		return nil, fmt.Errorf("store: truncate path: %w", err)
	}

	return &sqliteStore{db: db}, nil
}

func (s *sqliteStore) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: begin transaction: %w", err)
	}
	return &sqliteTx{tx: tx}, nil
}

func (s *sqliteStore) Close() error { return s.db.Close() }
