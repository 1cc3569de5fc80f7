package store_test

import (
	"context"
	"testing"

	"github.com/serroba/tinyurl-history/internal/history"
	"github.com/serroba/tinyurl-history/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_Set(t *testing.T) {
	t.Run("stores value successfully", func(t *testing.T) {
		s := store.NewMemoryStore()

		err := s.Set(context.Background(), "main", []byte(`[]`))

		require.NoError(t, err)
	})

	t.Run("overwrites existing value", func(t *testing.T) {
		s := store.NewMemoryStore()
		_ = s.Set(context.Background(), "main", []byte(`[1]`))

		err := s.Set(context.Background(), "main", []byte(`[2]`))
		require.NoError(t, err)

		value, _ := s.Get(context.Background(), "main")
		assert.JSONEq(t, `[2]`, string(value))
	})

	t.Run("copies the value on write", func(t *testing.T) {
		s := store.NewMemoryStore()
		value := []byte(`[1]`)
		_ = s.Set(context.Background(), "main", value)

		value[1] = '9'

		got, _ := s.Get(context.Background(), "main")
		assert.Equal(t, `[1]`, string(got))
	})
}

func TestMemoryStore_Get(t *testing.T) {
	t.Run("returns value when found", func(t *testing.T) {
		s := store.NewMemoryStore()
		_ = s.Set(context.Background(), "main", []byte(`[]`))

		value, err := s.Get(context.Background(), "main")

		require.NoError(t, err)
		assert.Equal(t, `[]`, string(value))
	})

	t.Run("returns ErrNotFound when key does not exist", func(t *testing.T) {
		s := store.NewMemoryStore()

		value, err := s.Get(context.Background(), "missing")

		assert.Nil(t, value)
		assert.ErrorIs(t, err, history.ErrNotFound)
	})

	t.Run("keeps keys independent", func(t *testing.T) {
		s := store.NewMemoryStore()
		_ = s.Set(context.Background(), "main", []byte(`["main"]`))
		_ = s.Set(context.Background(), "test", []byte(`["test"]`))

		value, err := s.Get(context.Background(), "test")

		require.NoError(t, err)
		assert.Equal(t, `["test"]`, string(value))
	})
}

func TestMemoryStore_Ping(t *testing.T) {
	s := store.NewMemoryStore()

	assert.NoError(t, s.Ping(context.Background()))
}
