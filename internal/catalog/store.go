package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/matthewbaird/crisis/internal/types"
)

// OpenSQLite opens a SQLite database for the store. SQLite allows one writer,
// so the pool is limited to a single connection.
func OpenSQLite(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	db.SetMaxOpenConns(1)
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	return db, nil
}

// SQLiteStore keeps an operator-editable copy of the catalog in a single
// table. The running engine never reads it directly; a catalog is loaded once
// at startup and changes take effect on the next start.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore wraps an open database handle.
func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

// CreateTable creates the crisis_indicators table if it does not exist.
func (s *SQLiteStore) CreateTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS crisis_indicators (
			position         INTEGER NOT NULL PRIMARY KEY,
			keyword          TEXT    NOT NULL,
			severity         TEXT    NOT NULL,
			category         TEXT    NOT NULL,
			context          TEXT    NOT NULL DEFAULT '[]',
			immediate_action INTEGER NOT NULL DEFAULT 0,
			UNIQUE (keyword, category)
		)`)
	if err != nil {
		return fmt.Errorf("creating crisis_indicators: %w", err)
	}
	return nil
}

// Count returns the number of stored indicators.
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM crisis_indicators`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting indicators: %w", err)
	}
	return n, nil
}

// Replace overwrites the stored table with c in one transaction.
func (s *SQLiteStore) Replace(ctx context.Context, c *Catalog) (err error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM crisis_indicators`); err != nil {
		return fmt.Errorf("clearing indicators: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO crisis_indicators (position, keyword, severity, category, context, immediate_action)
		VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, ind := range c.indicators {
		ctxJSON, mErr := json.Marshal(ind.Context)
		if mErr != nil {
			return fmt.Errorf("encoding context for %q: %w", ind.Keyword, mErr)
		}
		if ind.Context == nil {
			ctxJSON = []byte("[]")
		}
		if _, err = stmt.ExecContext(ctx, i, ind.Keyword, ind.Severity.String(), string(ind.Category), string(ctxJSON), ind.ImmediateAction); err != nil {
			return fmt.Errorf("inserting %q: %w", ind.Keyword, err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing indicators: %w", err)
	}
	return nil
}

// Load reads the stored indicators in position order and validates them.
func (s *SQLiteStore) Load(ctx context.Context) (*Catalog, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT keyword, severity, category, context, immediate_action
		FROM crisis_indicators ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("querying indicators: %w", err)
	}
	defer rows.Close()

	var entries []types.CrisisIndicator
	for rows.Next() {
		var (
			ind      types.CrisisIndicator
			severity string
			category string
			ctxJSON  string
		)
		if err := rows.Scan(&ind.Keyword, &severity, &category, &ctxJSON, &ind.ImmediateAction); err != nil {
			return nil, fmt.Errorf("scanning indicator: %w", err)
		}
		if ind.Severity, err = types.ParseSeverity(severity); err != nil {
			return nil, fmt.Errorf("indicator %q: %w", ind.Keyword, err)
		}
		ind.Category = types.Category(category)
		if err := json.Unmarshal([]byte(ctxJSON), &ind.Context); err != nil {
			return nil, fmt.Errorf("indicator %q: decoding context: %w", ind.Keyword, err)
		}
		if len(ind.Context) == 0 {
			ind.Context = nil
		}
		entries = append(entries, ind)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating indicators: %w", err)
	}
	return New(entries)
}
