package storage

import (
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLocalStore_SaveOpenRoundTrip(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	path, size, err := store.Save(strings.NewReader("hello"), "greeting.txt")
	require.NoError(t, err)
	require.Equal(t, int64(5), size)
	require.True(t, store.Exists(path))

	reader, err := store.Open(path)
	require.NoError(t, err)
	defer reader.Close()

	data, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.Equal(t, "hello", string(data))
}

func TestLocalStore_SaveGeneratesDistinctNames(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	first, _, err := store.Save(strings.NewReader("a"), "same.txt")
	require.NoError(t, err)
	second, _, err := store.Save(strings.NewReader("b"), "same.txt")
	require.NoError(t, err)

	require.NotEqual(t, first, second)
	require.Equal(t, ".txt", filepath.Ext(first))
}

func TestLocalStore_SanitizesNames(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	path, _, err := store.Save(strings.NewReader("x"), `we?ird:"name".txt`)
	require.NoError(t, err)
	require.NotContains(t, filepath.Base(path), "?")
	require.NotContains(t, filepath.Base(path), ":")
	require.NotContains(t, filepath.Base(path), `"`)

	// Cyrillic letters survive sanitization.
	path, _, err = store.Save(strings.NewReader("x"), "Договор.pdf")
	require.NoError(t, err)
	require.Contains(t, filepath.Base(path), "Договор")
}

func TestLocalStore_DeleteIdempotent(t *testing.T) {
	store, err := NewLocalStore(t.TempDir())
	require.NoError(t, err)

	path, _, err := store.Save(strings.NewReader("bye"), "gone.txt")
	require.NoError(t, err)

	require.NoError(t, store.Delete(path))
	require.False(t, store.Exists(path))
	require.NoError(t, store.Delete(path), "deleting a missing blob is not an error")
}
