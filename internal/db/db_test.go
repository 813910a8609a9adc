package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dori/weektodo/internal/model"
	"github.com/dori/weektodo/internal/store"
)

func openTest(t *testing.T) *DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSnapshotRoundTrip(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()

	high := model.PriorityHigh
	weekly := model.RecurWeekly
	snap := store.Snapshot{
		Tasks: []model.Task{
			{ID: "2", Title: "second", Date: "2024-01-05", Color: model.ColorRed, Time: model.Ptr("09:30"), Priority: &high},
			{ID: "1", Title: "first", Date: "2024-01-06", Color: model.ColorBlue, Completed: true, Recurring: &weekly},
		},
		Lists: []model.CustomList{
			{ID: "b", Name: "Books", Color: "from-blue-500 to-cyan-500", Tasks: []model.Task{
				{ID: "3", Title: "Dune", Color: model.ColorTeal, ListID: model.Ptr("b"), Reminder: model.Ptr("1h")},
			}},
			{ID: "a", Name: "Empty", Color: "from-red-500 to-pink-500", Tasks: []model.Task{}},
		},
	}

	require.NoError(t, db.SaveSnapshot(ctx, snap))
	got, err := db.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap, got)

	synced, err := db.SyncedAt(ctx)
	require.NoError(t, err)
	assert.False(t, synced.IsZero())
}

func TestSaveSnapshotReplaces(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()

	require.NoError(t, db.SaveSnapshot(ctx, store.Snapshot{
		Tasks: []model.Task{{ID: "1", Title: "old", Color: model.ColorBlue}},
		Lists: []model.CustomList{{ID: "x", Name: "Old", Color: "c"}},
	}))
	require.NoError(t, db.SaveSnapshot(ctx, store.Snapshot{
		Tasks: []model.Task{{ID: "2", Title: "new", Color: model.ColorBlue}},
	}))

	got, err := db.LoadSnapshot(ctx)
	require.NoError(t, err)
	require.Len(t, got.Tasks, 1)
	assert.Equal(t, "2", got.Tasks[0].ID)
	assert.Empty(t, got.Lists)
}

func TestEmptyCache(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()

	got, err := db.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.Empty(t, got.Tasks)
	assert.Empty(t, got.Lists)

	synced, err := db.SyncedAt(ctx)
	require.NoError(t, err)
	assert.True(t, synced.IsZero())
}

func TestWarmStoreFromCache(t *testing.T) {
	db := openTest(t)
	ctx := context.Background()
	require.NoError(t, db.SaveSnapshot(ctx, store.Snapshot{
		Tasks: []model.Task{{ID: "1", Title: "cached", Date: "2024-01-05", Color: model.ColorGreen}},
	}))

	s := store.New(nil, store.Options{Cache: db})
	ok, err := s.Warm(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	got, found := s.Find("1")
	require.True(t, found)
	assert.Equal(t, "cached", got.Title)
}
