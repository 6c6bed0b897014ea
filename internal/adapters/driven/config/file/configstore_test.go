package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "config")

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestSetAndGet_PersistsAcrossLoads(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set(KeyCollection, "CUSTOM_COLLECTION"))
	require.NoError(t, store.Set(KeyTopK, 7))

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "CUSTOM_COLLECTION", reloaded.Collection())
	assert.Equal(t, 7, reloaded.TopK())
}

func TestDefaults(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, DefaultCollection, store.Collection())
	assert.Equal(t, DefaultTopK, store.TopK())
	assert.Equal(t, DefaultEmbeddingModel, store.EmbeddingModel())
	assert.Equal(t, DefaultLLMModel, store.LLMModel())
	assert.Empty(t, store.EmbeddingBaseURL())
	assert.Empty(t, store.LLMBaseURL())
}

func TestDataDir_DefaultsNextToConfig(t *testing.T) {
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, "data"), store.DataDir())

	require.NoError(t, store.Set(KeyDataDir, "/srv/prospecta"))
	assert.Equal(t, "/srv/prospecta", store.DataDir())
}

func TestGetInt_TOMLInt64(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte("top_k = 3\n"), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, 3, store.TopK())
}

func TestGetString_WrongType(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Set(KeyCollection, 42))

	// Wrong-typed values fall back to the default.
	assert.Equal(t, DefaultCollection, store.Collection())
}
