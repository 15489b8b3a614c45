package fs

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/grove/pkg/core"
)

func TestCache_Load(t *testing.T) {
	t.Run("starts empty if file missing", func(t *testing.T) {
		c := newCache(t.TempDir(), DefaultSystemDir)
		require.NoError(t, c.Load())
		assert.Zero(t, c.Len())
	})

	t.Run("resets on corrupted json", func(t *testing.T) {
		dir := t.TempDir()
		require.NoError(t, os.MkdirAll(filepath.Join(dir, DefaultSystemDir), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultSystemDir, "index.json"), []byte("{not json"), 0o644))

		c := newCache(dir, DefaultSystemDir)
		require.NoError(t, c.Load())
		assert.Zero(t, c.Len())
	})
}

func TestCache_SaveAndReload(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "a.json")
	require.NoError(t, os.WriteFile(doc, []byte(`{"name":"Work"}`), 0o644))
	info, err := os.Stat(doc)
	require.NoError(t, err)

	c := newCache(dir, DefaultSystemDir)
	require.NoError(t, c.Load())
	c.Set("categories/a.json", &indexEntry{
		ID:           "a",
		Fields:       core.Fields{"name": "Work"},
		Size:         info.Size(),
		LastModified: info.ModTime(),
	})
	require.NoError(t, c.Save())

	reloaded := newCache(dir, DefaultSystemDir)
	require.NoError(t, reloaded.Load())
	entry, ok := reloaded.Get("categories/a.json", info)
	require.True(t, ok)
	assert.Equal(t, "Work", entry.Fields.String("name"))

	// A changed mtime invalidates the entry.
	later := info.ModTime().Add(time.Second)
	require.NoError(t, os.Chtimes(doc, later, later))
	info, err = os.Stat(doc)
	require.NoError(t, err)
	_, ok = reloaded.Get("categories/a.json", info)
	assert.False(t, ok)
}

func TestCache_PruneDir(t *testing.T) {
	c := newCache(t.TempDir(), DefaultSystemDir)
	c.Set("categories/a.json", &indexEntry{ID: "a"})
	c.Set("categories/b.json", &indexEntry{ID: "b"})
	c.Set("categories/a/topics/t.json", &indexEntry{ID: "t"})

	c.PruneDir("categories", map[string]bool{"categories/a.json": true})
	assert.Equal(t, 2, c.Len())

	c.Delete("categories/a/topics/t.json")
	assert.Equal(t, 1, c.Len())
}
