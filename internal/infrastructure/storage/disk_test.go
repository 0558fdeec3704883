package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minutemart/storefront/internal/core/domain"
	"github.com/minutemart/storefront/internal/core/ports"
)

// Minimal but real file headers so content sniffing recognizes them.
var (
	pngBytes  = append([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, bytes.Repeat([]byte{0}, 32)...)
	jpegBytes = append([]byte{0xFF, 0xD8, 0xFF, 0xE0}, bytes.Repeat([]byte{0}, 32)...)
)

func newTestStore(t *testing.T, maxBytes int64) *DiskStore {
	t.Helper()
	store, err := NewDiskStore(t.TempDir(), maxBytes, zerolog.Nop())
	require.NoError(t, err)
	return store
}

func upload(data []byte, contentType string) ports.Upload {
	return ports.Upload{
		Reader:      bytes.NewReader(data),
		Filename:    "photo.png",
		ContentType: contentType,
		Size:        int64(len(data)),
	}
}

func TestDiskStore_StorePNG(t *testing.T) {
	store := newTestStore(t, 1<<20)

	ref, err := store.Store(context.Background(), upload(pngBytes, "image/png"))
	require.NoError(t, err)
	assert.Equal(t, ".png", filepath.Ext(ref))

	written, err := os.ReadFile(filepath.Join(store.Root(), ref))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, written)
}

func TestDiskStore_StoreJPEG(t *testing.T) {
	store := newTestStore(t, 1<<20)

	ref, err := store.Store(context.Background(), upload(jpegBytes, "image/jpeg"))
	require.NoError(t, err)
	assert.Equal(t, ".jpg", filepath.Ext(ref))
}

func TestDiskStore_RejectsDeclaredType(t *testing.T) {
	store := newTestStore(t, 1<<20)

	_, err := store.Store(context.Background(), upload(pngBytes, "application/pdf"))
	assert.ErrorIs(t, err, domain.ErrNotAnImage)

	entries, err := os.ReadDir(store.Root())
	require.NoError(t, err)
	assert.Empty(t, entries, "a rejected upload must leave no file behind")
}

func TestDiskStore_RejectsLyingContentType(t *testing.T) {
	store := newTestStore(t, 1<<20)

	// Declared image/png, actual bytes are plain text.
	_, err := store.Store(context.Background(), upload([]byte("#!/bin/sh\nrm -rf /\n"), "image/png"))
	assert.ErrorIs(t, err, domain.ErrNotAnImage)

	entries, err := os.ReadDir(store.Root())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDiskStore_RejectsOversize(t *testing.T) {
	store := newTestStore(t, 16)

	_, err := store.Store(context.Background(), upload(pngBytes, "image/png"))
	assert.ErrorIs(t, err, domain.ErrImageTooLarge)

	entries, err := os.ReadDir(store.Root())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestDiskStore_DistinctNames(t *testing.T) {
	store := newTestStore(t, 1<<20)
	ctx := context.Background()

	a, err := store.Store(ctx, upload(pngBytes, "image/png"))
	require.NoError(t, err)
	b, err := store.Store(ctx, upload(pngBytes, "image/png"))
	require.NoError(t, err)

	assert.NotEqual(t, a, b, "identical payloads must still get distinct references")
}

func TestDiskStore_Remove(t *testing.T) {
	store := newTestStore(t, 1<<20)
	ctx := context.Background()

	ref, err := store.Store(ctx, upload(pngBytes, "image/png"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(ctx, ref))
	_, err = os.Stat(filepath.Join(store.Root(), ref))
	assert.ErrorIs(t, err, os.ErrNotExist)

	// Removing again, or removing something that never existed, is success.
	assert.NoError(t, store.Remove(ctx, ref))
	assert.NoError(t, store.Remove(ctx, "never-there.png"))
	assert.NoError(t, store.Remove(ctx, ""))
}

func TestDiskStore_RemoveClampsPaths(t *testing.T) {
	store := newTestStore(t, 1<<20)
	ctx := context.Background()

	outside := filepath.Join(filepath.Dir(store.Root()), "victim.txt")
	require.NoError(t, os.WriteFile(outside, []byte("precious"), 0o644))

	require.NoError(t, store.Remove(ctx, "../victim.txt"))

	_, err := os.Stat(outside)
	assert.NoError(t, err, "a path-shaped reference must never reach outside the upload dir")
}
