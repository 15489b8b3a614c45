package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/aretw0/grove/pkg/core"
)

// indexEntry holds the parsed fields of one document file.
type indexEntry struct {
	ID           string      `json:"id"`
	Fields       core.Fields `json:"fields,omitempty"`
	Size         int64       `json:"size"`
	LastModified time.Time   `json:"lastModified"`
}

// index represents the persistent cache state.
type index struct {
	Version int                    `json:"version"`
	Entries map[string]*indexEntry `json:"entries"` // Key is relative path (e.g. "categories/abc.json")
	dirty   bool
	mu      sync.RWMutex
}

// cache manages the loading, updating, and saving of the index.
type cache struct {
	Path     string // Path to .grove/index.json
	index    *index
	loadOnce sync.Once
}

func newCache(rootPath, systemDir string) *cache {
	return &cache{
		Path: filepath.Join(rootPath, systemDir, "index.json"),
		index: &index{
			Version: 1,
			Entries: make(map[string]*indexEntry),
		},
	}
}

// Load reads the cache from disk once. A missing or corrupted file yields an empty index.
func (c *cache) Load() error {
	var loadErr error
	c.loadOnce.Do(func() {
		c.index.mu.Lock()
		defer c.index.mu.Unlock()

		data, err := os.ReadFile(c.Path)
		if os.IsNotExist(err) {
			return
		}
		if err != nil {
			loadErr = fmt.Errorf("failed to read cache: %w", err)
			return
		}

		if err := json.Unmarshal(data, c.index); err != nil || c.index.Entries == nil {
			// Self-heal: a corrupted index is rebuilt from the documents.
			c.index.Entries = make(map[string]*indexEntry)
		}
		c.index.dirty = false
	})
	return loadErr
}

// Save persists the cache to disk if it's dirty.
func (c *cache) Save() error {
	c.index.mu.RLock()
	if !c.index.dirty {
		c.index.mu.RUnlock()
		return nil
	}
	data, err := json.Marshal(c.index)
	c.index.mu.RUnlock()

	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(c.Path), 0755); err != nil {
		return err
	}
	if err := writeFileAtomic(c.Path, data, 0644); err != nil {
		return err
	}

	c.index.mu.Lock()
	c.index.dirty = false
	c.index.mu.Unlock()
	return nil
}

// Get returns the entry for relPath when it matches the file's current size and mtime.
func (c *cache) Get(relPath string, info os.FileInfo) (*indexEntry, bool) {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()

	entry, ok := c.index.Entries[relPath]
	if !ok {
		return nil, false
	}
	if entry.Size != info.Size() || !entry.LastModified.Equal(info.ModTime()) {
		return nil, false
	}
	return entry, true
}

// Set updates an entry in the cache.
func (c *cache) Set(relPath string, entry *indexEntry) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	c.index.Entries[relPath] = entry
	c.index.dirty = true
}

// Delete removes a single entry from the cache.
func (c *cache) Delete(relPath string) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	if _, ok := c.index.Entries[relPath]; ok {
		delete(c.index.Entries, relPath)
		c.index.dirty = true
	}
}

// PruneDir removes entries directly inside dir that are not in keep.
func (c *cache) PruneDir(dir string, keep map[string]bool) {
	c.index.mu.Lock()
	defer c.index.mu.Unlock()

	for relPath := range c.index.Entries {
		if filepath.ToSlash(filepath.Dir(relPath)) == dir && !keep[relPath] {
			delete(c.index.Entries, relPath)
			c.index.dirty = true
		}
	}
}

// Len returns the number of entries in the cache.
func (c *cache) Len() int {
	c.index.mu.RLock()
	defer c.index.mu.RUnlock()
	return len(c.index.Entries)
}
