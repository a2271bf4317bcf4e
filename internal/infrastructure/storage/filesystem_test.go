package storage

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFilesystemStorePut(t *testing.T) {
	store, err := NewFilesystemStore(t.TempDir(), "http://localhost:8000/")
	require.NoError(t, err)

	url, err := store.Put(context.Background(), "photos", "123-family.jpg", []byte("jpeg bytes"), "image/jpeg")
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8000/media/photos/123-family.jpg", url)

	data, err := os.ReadFile(filepath.Join(store.Dir(), "photos", "123-family.jpg"))
	require.NoError(t, err)
	require.Equal(t, "jpeg bytes", string(data))
}

func TestFilesystemStoreNeverOverwrites(t *testing.T) {
	store, err := NewFilesystemStore(t.TempDir(), "http://localhost:8000")
	require.NoError(t, err)

	ctx := context.Background()
	_, err = store.Put(ctx, "audio", "key.webm", []byte("first"), "audio/webm")
	require.NoError(t, err)

	_, err = store.Put(ctx, "audio", "key.webm", []byte("second"), "audio/webm")
	require.Error(t, err)

	data, err := os.ReadFile(filepath.Join(store.Dir(), "audio", "key.webm"))
	require.NoError(t, err)
	require.Equal(t, "first", string(data))
}

func TestFilesystemStoreRemove(t *testing.T) {
	store, err := NewFilesystemStore(t.TempDir(), "http://localhost:8000")
	require.NoError(t, err)

	ctx := context.Background()
	_, err = store.Put(ctx, "documents", "will.pdf", []byte("pdf"), "application/pdf")
	require.NoError(t, err)

	require.NoError(t, store.Remove(ctx, "documents", "will.pdf"))
	_, err = os.Stat(filepath.Join(store.Dir(), "documents", "will.pdf"))
	require.True(t, os.IsNotExist(err))
}
