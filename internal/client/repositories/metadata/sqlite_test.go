package metadata

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE metadata (
  key   TEXT PRIMARY KEY,
  value BLOB NOT NULL
);`)
	require.NoError(t, err)
	return db
}

func TestSet_InsertThenList(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "token", []byte("tok123")))

	m, err := r.List(ctx, "token")
	require.NoError(t, err)
	require.Equal(t, map[string][]byte{"token": []byte("tok123")}, m)
}

func TestList_NotExists_ReturnsEmptyMap(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))

	m, err := r.List(context.Background(), "absent")
	require.NoError(t, err)
	require.Empty(t, m)
}

func TestSet_UpsertOverwritesValue(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()

	require.NoError(t, r.Set(ctx, "k", []byte("old")))
	require.NoError(t, r.Set(ctx, "k", []byte("new")))

	m, err := r.List(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, []byte("new"), m["k"])
}

func TestList_AllAndSelected(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	require.NoError(t, r.Set(ctx, "token", []byte{0xAA}))
	require.NoError(t, r.Set(ctx, "user", []byte{0xBB, 0xCC}))
	require.NoError(t, r.Set(ctx, "other", []byte{0x01}))

	all, err := r.List(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	some, err := r.List(ctx, "token", "user", "missing")
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"token": {0xAA}, "user": {0xBB, 0xCC}}, some)
}

func TestDelete_RemovesKeys_AndIsIdempotent(t *testing.T) {
	r := NewSQLiteRepository(setupDB(t))
	ctx := context.Background()
	require.NoError(t, r.Set(ctx, "token", []byte{1}))
	require.NoError(t, r.Set(ctx, "user", []byte{2}))
	require.NoError(t, r.Set(ctx, "keep", []byte{3}))

	require.NoError(t, r.Delete(ctx, "token", "user"))
	require.NoError(t, r.Delete(ctx, "token", "user"))
	require.NoError(t, r.Delete(ctx))

	m, err := r.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string][]byte{"keep": {3}}, m)
}

func TestRepository_DBErrorsWrapped(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	require.NoError(t, db.Close())

	err := r.Set(ctx, "k", []byte("v"))
	require.ErrorContains(t, err, "failed to set metadata[k]")

	err = r.Delete(ctx, "k")
	require.ErrorContains(t, err, "failed to delete metadata")

	_, err = r.List(ctx)
	require.ErrorContains(t, err, "failed to list metadata")
}
