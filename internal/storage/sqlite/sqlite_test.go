package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/students-demo/students-api/internal/storage"
	"github.com/students-demo/students-api/internal/storage/storagetest"
	"github.com/students-demo/students-api/internal/types"
)

func newTestDB(t *testing.T) *SQLite {
	t.Helper()

	db, err := New(filepath.Join(t.TempDir(), "students.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSQLite(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Storage {
		return newTestDB(t)
	})
}

func TestNew_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "students.db")

	db, err := New(path)
	require.NoError(t, err)
	defer db.Close()

	_, err = db.FindAll(context.Background())
	assert.NoError(t, err)
}

func TestNew_ReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "students.db")
	ctx := context.Background()

	db, err := New(path)
	require.NoError(t, err)
	saved, err := db.Save(ctx, types.NewStudent("Ada", "Lovelace", "SOE", 300))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	db, err = New(path)
	require.NoError(t, err)
	defer db.Close()

	got, err := db.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, saved.Equal(got))
}
