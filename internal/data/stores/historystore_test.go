package stores

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calmops/folio/internal/data/db"
)

func newTestHistoryStore(t *testing.T) *HistoryStore {
	t.Helper()
	database, err := db.Open(t.TempDir(), db.DefaultOpenOptions())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close() })
	return NewHistoryStore(database)
}

func TestHistoryStore_GetOrCreate(t *testing.T) {
	ctx := context.Background()
	store := newTestHistoryStore(t)

	h, err := store.GetOrCreate(ctx, "/books/novel.md")
	require.NoError(t, err)
	assert.Equal(t, "/books/novel.md", h.Filepath)
	assert.Zero(t, h.ReadingProgress)
	assert.True(t, h.LastRead.IsZero())

	// Second call returns the same row, no duplicate insert.
	again, err := store.GetOrCreate(ctx, "/books/novel.md")
	require.NoError(t, err)
	assert.Equal(t, h, again)
}

func TestHistoryStore_SaveAndReload(t *testing.T) {
	ctx := context.Background()
	store := newTestHistoryStore(t)

	read := time.Date(2026, 8, 20, 21, 0, 0, 0, time.UTC)
	err := store.Save(ctx, History{
		Filepath:        "/books/novel.md",
		Title:           "A Novel",
		Author:          "Someone",
		ReadingProgress: 0.42,
		LastRead:        read,
	})
	require.NoError(t, err)

	h, err := store.GetOrCreate(ctx, "/books/novel.md")
	require.NoError(t, err)
	assert.Equal(t, "A Novel", h.Title)
	assert.Equal(t, "Someone", h.Author)
	assert.InDelta(t, 0.42, h.ReadingProgress, 1e-9)
	assert.True(t, h.LastRead.Equal(read))
}

func TestHistoryStore_SaveOverwrites(t *testing.T) {
	ctx := context.Background()
	store := newTestHistoryStore(t)

	require.NoError(t, store.Save(ctx, History{Filepath: "/b.md", ReadingProgress: 0.1}))
	require.NoError(t, store.Save(ctx, History{Filepath: "/b.md", ReadingProgress: 0.9}))

	h, err := store.GetOrCreate(ctx, "/b.md")
	require.NoError(t, err)
	assert.InDelta(t, 0.9, h.ReadingProgress, 1e-9)
}

func TestHistoryStore_SaveAll(t *testing.T) {
	ctx := context.Background()
	store := newTestHistoryStore(t)

	err := store.SaveAll(ctx, []History{
		{Filepath: "/a.md", ReadingProgress: 0.3, LastRead: time.Unix(100, 0)},
		{Filepath: "/b.md", ReadingProgress: 0.6, LastRead: time.Unix(200, 0)},
	})
	require.NoError(t, err)

	recent, err := store.Recent(ctx, 10)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "/b.md", recent[0].Filepath, "most recently read first")
	assert.Equal(t, "/a.md", recent[1].Filepath)
}

func TestHistoryStore_RecentLimit(t *testing.T) {
	ctx := context.Background()
	store := newTestHistoryStore(t)

	for i, path := range []string{"/1.md", "/2.md", "/3.md"} {
		require.NoError(t, store.Save(ctx, History{
			Filepath: path,
			LastRead: time.Unix(int64(100*(i+1)), 0),
		}))
	}

	recent, err := store.Recent(ctx, 2)
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "/3.md", recent[0].Filepath)
}
