package storage_test

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jportela/puzzleladder/internal/storage"
)

func kvs(t *testing.T) map[string]storage.KV {
	sqlite, err := storage.OpenSQLite(":memory:", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, sqlite.Close()) })

	return map[string]storage.KV{
		"memory": storage.NewMemory(),
		"sqlite": sqlite,
	}
}

func TestKV_MissingKey(t *testing.T) {
	for name, kv := range kvs(t) {
		t.Run(name, func(t *testing.T) {
			_, ok, err := kv.Get(context.Background(), "absent")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestKV_SetGet(t *testing.T) {
	for name, kv := range kvs(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, kv.Set(ctx, "greeting", "hello"))

			v, ok, err := kv.Get(ctx, "greeting")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "hello", v)
		})
	}
}

func TestKV_Overwrite(t *testing.T) {
	for name, kv := range kvs(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, kv.Set(ctx, "k", "v1"))
			require.NoError(t, kv.Set(ctx, "k", "v2"))

			v, ok, err := kv.Get(ctx, "k")
			require.NoError(t, err)
			assert.True(t, ok)
			assert.Equal(t, "v2", v)
		})
	}
}

func TestKV_EmptyValue(t *testing.T) {
	for name, kv := range kvs(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, kv.Set(ctx, "empty", ""))

			v, ok, err := kv.Get(ctx, "empty")
			require.NoError(t, err)
			assert.True(t, ok, "an empty value is still a present key")
			assert.Equal(t, "", v)
		})
	}
}
