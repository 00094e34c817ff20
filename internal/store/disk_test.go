package store

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestDiskStoreRoundTrip(t *testing.T) {
	t.Parallel()

	d, err := NewDiskStore(t.TempDir(), discardLogger())
	require.NoError(t, err)

	ctx := context.Background()
	payload := []byte("png bytes")

	before := time.Now().Add(-time.Second)
	require.NoError(t, d.Write(ctx, 12345, 720, payload))

	got, mtime, err := d.Read(ctx, 12345, 720)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
	assert.True(t, mtime.After(before), "mtime reflects the write")
}

func TestDiskStoreAbsent(t *testing.T) {
	t.Parallel()

	d, err := NewDiskStore(t.TempDir(), discardLogger())
	require.NoError(t, err)

	_, _, err = d.Read(context.Background(), 1, 720)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDiskStoreOverwrite(t *testing.T) {
	t.Parallel()

	d, err := NewDiskStore(t.TempDir(), discardLogger())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, d.Write(ctx, 1, 180, []byte("old")))
	require.NoError(t, d.Write(ctx, 1, 180, []byte("new")))

	got, _, err := d.Read(ctx, 1, 180)
	require.NoError(t, err)
	assert.Equal(t, []byte("new"), got)
}

func TestDiskStoreRemove(t *testing.T) {
	t.Parallel()

	d, err := NewDiskStore(t.TempDir(), discardLogger())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, d.Write(ctx, 1, 720, []byte("x")))
	require.NoError(t, d.Remove(ctx, 1, 720))

	_, _, err = d.Read(ctx, 1, 720)
	require.ErrorIs(t, err, ErrNotFound)

	// Removing an absent entry is not an error.
	require.NoError(t, d.Remove(ctx, 1, 720))
}

func TestDiskStoreKeysAreIsolated(t *testing.T) {
	t.Parallel()

	d, err := NewDiskStore(t.TempDir(), discardLogger())
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, d.Write(ctx, 1, 180, []byte("a")))
	require.NoError(t, d.Write(ctx, 1, 720, []byte("b")))
	require.NoError(t, d.Write(ctx, 2, 180, []byte("c")))

	got, _, err := d.Read(ctx, 1, 180)
	require.NoError(t, err)
	assert.Equal(t, []byte("a"), got)

	got, _, err = d.Read(ctx, 1, 720)
	require.NoError(t, err)
	assert.Equal(t, []byte("b"), got)
}
