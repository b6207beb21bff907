package testutil

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/jportela/puzzleladder/internal/storage"
)

// NewTestKV creates an in-memory SQLite-backed KV store, closed when the
// test finishes.
func NewTestKV(t *testing.T) *storage.SQLite {
	kv, err := storage.OpenSQLite(":memory:", zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, kv.Close()) })
	return kv
}
