package catalog

import (
	"context"
	"fmt"
)

// Source names where a resolved catalog came from.
type Source string

const (
	SourceFile     Source = "file"
	SourceDatabase Source = "database"
	SourceBuiltin  Source = "builtin"
)

// Resolve picks the catalog the service runs with: the file when one is
// given, else the database table when dsn is set and the table has rows,
// else the built-in registry. An invalid file or table is an error, never a
// silent fallback.
func Resolve(ctx context.Context, file, dsn string) (*Catalog, Source, error) {
	if file != "" {
		c, err := Load(file)
		if err != nil {
			return nil, "", err
		}
		return c, SourceFile, nil
	}

	if dsn != "" {
		db, err := OpenSQLite(ctx, dsn)
		if err != nil {
			return nil, "", err
		}
		defer db.Close()

		store := NewSQLiteStore(db)
		if err := store.CreateTable(ctx); err != nil {
			return nil, "", err
		}
		n, err := store.Count(ctx)
		if err != nil {
			return nil, "", err
		}
		if n > 0 {
			c, err := store.Load(ctx)
			if err != nil {
				return nil, "", fmt.Errorf("loading catalog from database: %w", err)
			}
			return c, SourceDatabase, nil
		}
	}

	return Default(), SourceBuiltin, nil
}
