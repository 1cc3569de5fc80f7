package store_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/serroba/tinyurl-history/internal/history"
	"github.com/serroba/tinyurl-history/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewFileStore(t *testing.T) {
	t.Run("creates missing directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "data")

		s, err := store.NewFileStore(dir)

		require.NoError(t, err)
		assert.NotNil(t, s)
		assert.DirExists(t, dir)
	})

	t.Run("rejects empty directory", func(t *testing.T) {
		s, err := store.NewFileStore("")

		assert.Nil(t, s)
		assert.Error(t, err)
	})
}

func TestFileStore_SetGet(t *testing.T) {
	t.Run("round-trips a value", func(t *testing.T) {
		s, err := store.NewFileStore(t.TempDir())
		require.NoError(t, err)

		err = s.Set(context.Background(), "shortenedUrls", []byte(`[{"longUrl":"a"}]`))
		require.NoError(t, err)

		value, err := s.Get(context.Background(), "shortenedUrls")

		require.NoError(t, err)
		assert.Equal(t, `[{"longUrl":"a"}]`, string(value))
	})

	t.Run("returns ErrNotFound for a missing key", func(t *testing.T) {
		s, err := store.NewFileStore(t.TempDir())
		require.NoError(t, err)

		value, err := s.Get(context.Background(), "missing")

		assert.Nil(t, value)
		assert.ErrorIs(t, err, history.ErrNotFound)
	})

	t.Run("keeps keys with path characters inside the directory", func(t *testing.T) {
		dir := t.TempDir()
		s, err := store.NewFileStore(dir)
		require.NoError(t, err)

		err = s.Set(context.Background(), "../escape/key", []byte(`[]`))
		require.NoError(t, err)

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)

		value, err := s.Get(context.Background(), "../escape/key")
		require.NoError(t, err)
		assert.Equal(t, `[]`, string(value))
	})

	t.Run("stores keys longer than a file name allows", func(t *testing.T) {
		dir := t.TempDir()
		s, err := store.NewFileStore(dir)
		require.NoError(t, err)

		long := strings.Repeat("k", 1024)
		other := strings.Repeat("k", 1023) + "j"

		require.NoError(t, s.Set(context.Background(), long, []byte(`[1]`)))
		require.NoError(t, s.Set(context.Background(), other, []byte(`[2]`)))

		value, err := s.Get(context.Background(), long)
		require.NoError(t, err)
		assert.Equal(t, `[1]`, string(value))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.LessOrEqual(t, len(entries[0].Name()), 255)
	})

	t.Run("leaves no temp files behind", func(t *testing.T) {
		dir := t.TempDir()
		s, err := store.NewFileStore(dir)
		require.NoError(t, err)

		_ = s.Set(context.Background(), "main", []byte(`[1]`))
		_ = s.Set(context.Background(), "main", []byte(`[2]`))

		entries, err := os.ReadDir(dir)
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})
}

func TestFileStore_Ping(t *testing.T) {
	t.Run("succeeds when directory exists", func(t *testing.T) {
		s, err := store.NewFileStore(t.TempDir())
		require.NoError(t, err)

		assert.NoError(t, s.Ping(context.Background()))
	})

	t.Run("fails when directory was removed", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "data")
		s, err := store.NewFileStore(dir)
		require.NoError(t, err)
		require.NoError(t, os.RemoveAll(dir))

		assert.Error(t, s.Ping(context.Background()))
	})
}

func TestFileStore_HistoryRoundTrip(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()
	createdAt := time.Date(2024, 4, 19, 10, 30, 15, 0, time.UTC)

	backend, err := store.NewFileStore(dir)
	require.NoError(t, err)

	first := history.NewStore(ctx, backend, "testManager", zap.NewNop())
	require.NoError(t, first.Add(ctx, history.Record{LongURL: "http://a", ShortURL: "http://s/1", CreatedAt: createdAt}))

	reopened, err := store.NewFileStore(dir)
	require.NoError(t, err)

	second := history.NewStore(ctx, reopened, "testManager", zap.NewNop())

	require.Equal(t, 1, second.Count())

	got, ok := second.Get(0)
	require.True(t, ok)
	assert.Equal(t, "http://a", got.LongURL)
	assert.Equal(t, "http://s/1", got.ShortURL)
	assert.True(t, createdAt.Equal(got.CreatedAt))
}

func TestFileStore_LongCollectionKey(t *testing.T) {
	s, err := store.NewFileStore(t.TempDir())
	require.NoError(t, err)

	key := strings.Repeat("collection", 40)
	h := history.NewStore(context.Background(), s, key, zap.NewNop())

	require.NoError(t, h.Add(context.Background(), history.Record{
		LongURL:  "https://example.com",
		ShortURL: "https://tinyurl.com/abc",
	}))

	reloaded := history.NewStore(context.Background(), s, key, zap.NewNop())
	assert.Equal(t, 1, reloaded.Count())
}
