package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/grove/pkg/core"
)

// DefaultSystemDir is the hidden directory holding the repository cache.
const DefaultSystemDir = ".grove"

// Repository implements core.Repository on the filesystem.
//
// A collection "categories/{c}/topics" maps to the directory
// "<Path>/categories/{c}/topics" and each document to one file "<id><ext>"
// inside it. The sub-collections of a document live in the directory named
// after its ID.
type Repository struct {
	Path        string
	config      Config
	cache       *cache
	serializers map[string]Serializer
	writeExt    string

	// writeMu serializes Save, Patch and Delete.
	writeMu sync.Mutex

	mu             sync.RWMutex
	activeWatchers int
	lastWatchStart *time.Time
}

// Config holds the configuration for the filesystem repository.
type Config struct {
	Path         string
	SystemDir    string // e.g. ".grove"
	Format       string // "json" (default), "yaml" or "md"
	MustExist    bool
	ReadOnly     bool
	Strict       bool
	Logger       *slog.Logger
	ErrorHandler func(error)   // receives watcher runtime errors
	Debounce     time.Duration // per-document event debounce, default 50ms
}

// NewRepository creates a new filesystem-backed repository.
func NewRepository(config Config) (*Repository, error) {
	if config.SystemDir == "" {
		config.SystemDir = DefaultSystemDir
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Debounce <= 0 {
		config.Debounce = 50 * time.Millisecond
	}
	ext, err := FormatExtension(config.Format)
	if err != nil {
		return nil, err
	}

	return &Repository{
		Path:        config.Path,
		config:      config,
		cache:       newCache(config.Path, config.SystemDir),
		serializers: DefaultSerializers(config.Strict),
		writeExt:    ext,
	}, nil
}

// Initialize performs the necessary setup for the repository.
func (r *Repository) Initialize(ctx context.Context) error {
	if r.config.MustExist || r.config.ReadOnly {
		info, err := os.Stat(r.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("data path does not exist: %s", r.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat data path: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("data path is not a directory: %s", r.Path)
		}
		return nil
	}

	if err := os.MkdirAll(filepath.Join(r.Path, r.config.SystemDir), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	return nil
}

// collectionDir returns the absolute directory and the slash separated
// relative directory of coll.
func (r *Repository) collectionDir(coll core.Path) (abs, rel string, err error) {
	if err := coll.Validate(); err != nil {
		return "", "", err
	}
	rel = coll.String()
	if coll.Segments()[0] == r.config.SystemDir {
		return "", "", fmt.Errorf("%w: %q is reserved", core.ErrInvalidPath, rel)
	}
	return filepath.Join(r.Path, filepath.FromSlash(rel)), rel, nil
}

func validateID(id string) error {
	if id == "" {
		return core.ErrEmptyID
	}
	if id == "." || id == ".." || strings.ContainsAny(id, `/\`) || isTempFile(id) {
		return fmt.Errorf("invalid document ID %q", id)
	}
	return nil
}

// Save persists a document.
//
// Workflow:
//  1. Validate the collection path and ID.
//  2. Create the collection directory.
//  3. Serialize with the configured format and write atomically to disk.
//  4. Remove any copy of the same document stored with another extension.
func (r *Repository) Save(ctx context.Context, coll core.Path, doc core.Document) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := validateID(doc.ID); err != nil {
		return err
	}
	dir, rel, err := r.collectionDir(coll)
	if err != nil {
		return err
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()
	return r.save(coll, dir, rel, doc)
}

// Patch merges fields into an existing document. It fails with
// core.ErrNotFound, and writes nothing, when the file is gone at write time.
func (r *Repository) Patch(ctx context.Context, coll core.Path, id string, fields core.Fields) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := validateID(id); err != nil {
		return err
	}
	dir, rel, err := r.collectionDir(coll)
	if err != nil {
		return err
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	path, ext, err := r.findFile(dir, id)
	if err != nil {
		return fmt.Errorf("%w: %s", err, coll.DocPath(id))
	}
	current, err := r.parseFile(path, ext)
	if err != nil {
		return fmt.Errorf("failed to parse document %s: %w", coll.DocPath(id), err)
	}

	// Another process may have removed the file while it was parsed.
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: %s", core.ErrNotFound, coll.DocPath(id))
	}
	return r.save(coll, dir, rel, core.Document{ID: id, Fields: current.Merge(fields)})
}

func (r *Repository) save(coll core.Path, dir, rel string, doc core.Document) error {

	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	data, err := r.serializers[r.writeExt].Serialize(doc.Fields)
	if err != nil {
		return fmt.Errorf("failed to serialize document: %w", err)
	}

	fullPath := filepath.Join(dir, doc.ID+r.writeExt)
	if err := writeFileAtomic(fullPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	for ext := range r.serializers {
		if ext == r.writeExt {
			continue
		}
		stale := filepath.Join(dir, doc.ID+ext)
		if err := os.Remove(stale); err == nil {
			r.cache.Delete(rel + "/" + doc.ID + ext)
		}
	}

	r.config.Logger.Debug("document saved", "collection", coll, "id", doc.ID)
	return nil
}

// findFile locates the file backing id in dir, whatever its extension.
func (r *Repository) findFile(dir, id string) (string, string, error) {
	for _, ext := range r.readOrder() {
		path := filepath.Join(dir, id+ext)
		info, err := os.Stat(path)
		if err == nil && !info.IsDir() {
			return path, ext, nil
		}
	}
	return "", "", core.ErrNotFound
}

// readOrder lists the configured extension first so it wins over stale copies.
func (r *Repository) readOrder() []string {
	order := []string{r.writeExt}
	for _, ext := range []string{".json", ".yaml", ".yml", ".md"} {
		if ext != r.writeExt {
			order = append(order, ext)
		}
	}
	return order
}

func (r *Repository) parseFile(path, ext string) (core.Fields, error) {
	s, ok := r.serializers[ext]
	if !ok {
		return nil, fmt.Errorf("no serializer for %s", ext)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return s.Parse(f)
}

// Get retrieves a document from the filesystem.
func (r *Repository) Get(ctx context.Context, coll core.Path, id string) (core.Document, error) {
	if err := validateID(id); err != nil {
		return core.Document{}, err
	}
	dir, _, err := r.collectionDir(coll)
	if err != nil {
		return core.Document{}, err
	}

	path, ext, err := r.findFile(dir, id)
	if err != nil {
		return core.Document{}, fmt.Errorf("%w: %s", err, coll.DocPath(id))
	}

	fields, err := r.parseFile(path, ext)
	if err != nil {
		return core.Document{}, fmt.Errorf("failed to parse document %s: %w", coll.DocPath(id), err)
	}
	return core.Document{ID: id, Fields: fields}, nil
}

// List returns every document file directly inside the collection directory,
// ordered by ID. A collection that was never written is empty.
func (r *Repository) List(ctx context.Context, coll core.Path) ([]core.Document, error) {
	dir, rel, err := r.collectionDir(coll)
	if err != nil {
		return nil, err
	}

	if err := r.cache.Load(); err != nil {
		r.config.Logger.Warn("cache load failed", "error", err)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []core.Document{}, nil
		}
		return nil, fmt.Errorf("failed to read collection %s: %w", coll, err)
	}

	docs := make([]core.Document, 0, len(entries))
	seenIDs := make(map[string]bool)
	keep := make(map[string]bool)

	for _, ext := range r.readOrder() {
		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() || filepath.Ext(name) != ext || isTempFile(name) {
				continue
			}
			id := strings.TrimSuffix(name, ext)
			if seenIDs[id] {
				continue
			}

			info, err := entry.Info()
			if err != nil {
				continue // removed while listing
			}
			relPath := rel + "/" + name
			keep[relPath] = true

			if cached, hit := r.cache.Get(relPath, info); hit {
				seenIDs[id] = true
				docs = append(docs, core.Document{ID: id, Fields: cached.Fields.Clone()})
				continue
			}

			fields, err := r.parseFile(filepath.Join(dir, name), ext)
			if err != nil {
				r.config.Logger.Warn("skipping unparseable document", "path", relPath, "error", err)
				continue
			}
			r.cache.Set(relPath, &indexEntry{
				ID:           id,
				Fields:       fields.Clone(),
				Size:         info.Size(),
				LastModified: info.ModTime(),
			})
			seenIDs[id] = true
			docs = append(docs, core.Document{ID: id, Fields: fields})
		}
	}

	sort.Slice(docs, func(i, j int) bool {
		return docs[i].ID < docs[j].ID
	})

	r.cache.PruneDir(rel, keep)
	if !r.config.ReadOnly {
		if err := r.cache.Save(); err != nil {
			r.config.Logger.Debug("cache save failed", "error", err)
		}
	}

	return docs, nil
}

// Delete removes the document file. Its sub-collection directory is removed
// only when it holds no documents, so non-cascading deletes keep descendants.
func (r *Repository) Delete(ctx context.Context, coll core.Path, id string) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := validateID(id); err != nil {
		return err
	}
	dir, rel, err := r.collectionDir(coll)
	if err != nil {
		return err
	}

	r.writeMu.Lock()
	defer r.writeMu.Unlock()

	path, ext, err := r.findFile(dir, id)
	if err != nil {
		return fmt.Errorf("%w: %s", err, coll.DocPath(id))
	}

	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove file: %w", err)
	}
	r.cache.Delete(rel + "/" + id + ext)

	if err := removeEmptyTree(filepath.Join(dir, id)); err != nil {
		r.config.Logger.Debug("sub-collection cleanup skipped", "path", coll.DocPath(id), "error", err)
	}
	return nil
}

// removeEmptyTree deletes root when it contains directories only.
func removeEmptyTree(root string) error {
	hasFiles := false
	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			hasFiles = true
			return filepath.SkipAll
		}
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	if hasFiles {
		return nil
	}
	return os.RemoveAll(root)
}

// Watch pushes an event for every document file created, modified or removed
// in coll. The channel is closed once ctx is done.
func (r *Repository) Watch(ctx context.Context, coll core.Path) (<-chan core.Event, error) {
	dir, _, err := r.collectionDir(coll)
	if err != nil {
		return nil, err
	}

	if r.config.ReadOnly {
		if _, err := os.Stat(dir); err != nil {
			return nil, fmt.Errorf("failed to watch %s: %w", coll, err)
		}
	} else if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directories: %w", err)
	}

	events := make(chan core.Event)
	w := newWatchWorker(r, coll, dir, events)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	return events, nil
}

var (
	_ core.Repository = (*Repository)(nil)
	_ core.Watchable  = (*Repository)(nil)
	_ core.Patcher    = (*Repository)(nil)
)
