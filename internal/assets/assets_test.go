package assets

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStoreUpload(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	store, err := NewLocalStore(dir, "http://localhost:8080/")
	require.NoError(t, err)

	url, err := store.Upload(context.Background(), strings.NewReader("fake image bytes"), "cat.PNG")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/prompts/"), "unexpected url %q", url)
	assert.True(t, strings.HasSuffix(url, ".png"), "extension should be kept and lowercased, got %q", url)

	// The file must exist under the store dir at the key the URL points to.
	key := strings.TrimPrefix(url, "http://localhost:8080/uploads/")
	data, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
	require.NoError(t, err)
	assert.Equal(t, "fake image bytes", string(data))
}

func TestStorageKeyUnique(t *testing.T) {
	t.Parallel()

	a := storageKey("img.jpg")
	b := storageKey("img.jpg")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, ".jpg"))
}
