package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestKV(t *testing.T) *SQLiteKV {
	t.Helper()

	kv, err := NewSQLiteKV(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	require.NoError(t, kv.Migrate(context.Background()))

	t.Cleanup(func() {
		require.NoError(t, kv.Close())
	})

	return kv
}

func TestSQLiteKVRoundTrip(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	_, ok, err := kv.Get(ctx, "ecosnap.history")
	require.NoError(t, err)
	assert.False(t, ok, "missing key should report absent")

	require.NoError(t, kv.Set(ctx, "ecosnap.history", `[{"id":"a"}]`))

	value, ok, err := kv.Get(ctx, "ecosnap.history")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `[{"id":"a"}]`, value)
}

func TestSQLiteKVSetReplaces(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", "one"))
	require.NoError(t, kv.Set(ctx, "k", "two"))

	value, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "two", value)
}

func TestSQLiteKVDelete(t *testing.T) {
	kv := newTestKV(t)
	ctx := context.Background()

	require.NoError(t, kv.Set(ctx, "k", "v"))
	require.NoError(t, kv.Delete(ctx, "k"))

	_, ok, err := kv.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)

	// Deleting an absent key is a no-op
	require.NoError(t, kv.Delete(ctx, "k"))
}

func TestSQLiteKVValidation(t *testing.T) {
	kv := newTestKV(t)

	_, _, err := kv.Get(context.Background(), "  ")
	assert.ErrorIs(t, err, ErrEmptyString)

	err = kv.Set(context.Background(), "", "v")
	assert.ErrorIs(t, err, ErrEmptyString)
}

func TestNewSQLiteKVEmptyPath(t *testing.T) {
	_, err := NewSQLiteKV("")
	assert.Error(t, err)
}
