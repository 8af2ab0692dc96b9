package catalog

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matthewbaird/crisis/internal/types"
)

func TestResolve_Builtin(t *testing.T) {
	c, src, err := Resolve(context.Background(), "", "")
	require.NoError(t, err)
	assert.Equal(t, SourceBuiltin, src)
	assert.Same(t, Default(), c)
}

func TestResolve_FileWins(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.cue")
	require.NoError(t, os.WriteFile(path, []byte(sampleCUE), 0o600))

	c, src, err := Resolve(context.Background(), path, "file:"+filepath.Join(dir, "unused.db"))
	require.NoError(t, err)
	assert.Equal(t, SourceFile, src)
	assert.Equal(t, 2, c.Len())

	_, _, err = Resolve(context.Background(), filepath.Join(dir, "missing.cue"), "")
	assert.Error(t, err)
}

func TestResolve_Database(t *testing.T) {
	ctx := context.Background()
	dsn := "file:" + filepath.Join(t.TempDir(), "crisis.db")

	// An empty table falls back to the built-in registry.
	_, src, err := Resolve(ctx, "", dsn)
	require.NoError(t, err)
	assert.Equal(t, SourceBuiltin, src)

	db, err := OpenSQLite(ctx, dsn)
	require.NoError(t, err)
	store := NewSQLiteStore(db)
	require.NoError(t, store.Replace(ctx, MustNew([]types.CrisisIndicator{
		{Keyword: "hopeless", Severity: types.SeverityMedium, Category: types.CategoryGeneralDistress},
	})))
	require.NoError(t, db.Close())

	c, src, err := Resolve(ctx, "", dsn)
	require.NoError(t, err)
	assert.Equal(t, SourceDatabase, src)
	assert.Equal(t, 1, c.Len())
}
