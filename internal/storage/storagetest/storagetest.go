// Package storagetest runs the same behavioural checks against every
// storage.Storage backend.
package storagetest

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/students-demo/students-api/internal/storage"
	"github.com/students-demo/students-api/internal/types"
)

// Run exercises s. The store must start empty.
func Run(t *testing.T, newStore func(t *testing.T) storage.Storage) {
	t.Helper()

	t.Run("SaveAssignsFreshIDs", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		a, err := s.Save(ctx, types.NewStudent("Ada", "Lovelace", "SOE", 300))
		require.NoError(t, err)
		b, err := s.Save(ctx, types.NewStudent("Grace", "Hopper", "SOP", 400))
		require.NoError(t, err)

		assert.NotZero(t, a.ID)
		assert.NotZero(t, b.ID)
		assert.NotEqual(t, a.ID, b.ID)
		assert.Equal(t, "Ada", a.FirstName)
		assert.Equal(t, 300, a.LevelValue())
	})

	t.Run("FindAllIsEmptyNotNil", func(t *testing.T) {
		s := newStore(t)

		all, err := s.FindAll(context.Background())
		require.NoError(t, err)
		assert.NotNil(t, all)
		assert.Empty(t, all)
	})

	t.Run("FindAllOrderedByID", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		for _, st := range storage.DemoStudents() {
			_, err := s.Save(ctx, st)
			require.NoError(t, err)
		}

		all, err := s.FindAll(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Less(t, all[0].ID, all[1].ID)
		assert.Equal(t, "Kelvin", all[0].FirstName)
		assert.Equal(t, "Marcus", all[1].FirstName)
	})

	t.Run("FindByID", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		saved, err := s.Save(ctx, types.NewStudent("Ada", "Lovelace", "SOE", 300))
		require.NoError(t, err)

		got, err := s.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.True(t, saved.Equal(got), "got %s want %s", got, saved)
	})

	t.Run("FindByIDMissing", func(t *testing.T) {
		s := newStore(t)

		_, err := s.FindByID(context.Background(), 999)
		assert.ErrorIs(t, err, storage.ErrNotFound)
		assert.Contains(t, err.Error(), "999")
	})

	t.Run("ExistsByID", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		saved, err := s.Save(ctx, types.NewStudent("Ada", "Lovelace", "SOE", 300))
		require.NoError(t, err)

		ok, err := s.ExistsByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.True(t, ok)

		ok, err = s.ExistsByID(ctx, saved.ID+100)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("SaveUpdatesExisting", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		saved, err := s.Save(ctx, types.NewStudent("Ada", "Lovelace", "SOE", 300))
		require.NoError(t, err)

		level := 400
		saved.Level = &level
		updated, err := s.Save(ctx, saved)
		require.NoError(t, err)
		assert.Equal(t, saved.ID, updated.ID)
		assert.Equal(t, 400, updated.LevelValue())

		got, err := s.FindByID(ctx, saved.ID)
		require.NoError(t, err)
		assert.Equal(t, 400, got.LevelValue())
		assert.Equal(t, "Lovelace", got.LastName)
	})

	t.Run("SaveUpdateMissing", func(t *testing.T) {
		s := newStore(t)

		ghost := types.NewStudent("Ada", "Lovelace", "SOE", 300)
		ghost.ID = 999
		_, err := s.Save(context.Background(), ghost)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("DeleteThenNotFound", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		saved, err := s.Save(ctx, types.NewStudent("Ada", "Lovelace", "SOE", 300))
		require.NoError(t, err)

		require.NoError(t, s.DeleteByID(ctx, saved.ID))

		_, err = s.FindByID(ctx, saved.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)

		err = s.DeleteByID(ctx, saved.ID)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("ConcurrentSaves", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		const n = 20
		ids := make(chan int64, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				saved, err := s.Save(ctx, types.NewStudent("Student", "Concurrent", "SOE", i))
				if assert.NoError(t, err) {
					ids <- saved.ID
				}
			}(i)
		}
		wg.Wait()
		close(ids)

		seen := make(map[int64]bool)
		for id := range ids {
			assert.False(t, seen[id], "duplicate id %d", id)
			seen[id] = true
		}
		assert.Len(t, seen, n)
	})
}
