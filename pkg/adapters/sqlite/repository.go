// Package sqlite implements a single-file document store on SQLite using the
// pure-Go modernc driver. Change notifications are published in-process to
// the watchers of the written collection.
package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aretw0/grove/pkg/core"
)

//go:embed schema.sql
var schemaSQL string

// DefaultFileName is the database file created inside a data directory.
const DefaultFileName = "grove.db"

// Config holds the configuration for the SQLite repository.
type Config struct {
	Path     string // database file
	ReadOnly bool
	Logger   *slog.Logger
	// WatchBuffer is the per-watcher event buffer (default 16).
	WatchBuffer int
}

// Repository implements core.Repository, core.Watchable and core.Patcher.
type Repository struct {
	config Config
	hub    *hub

	mu sync.RWMutex
	db *sql.DB
}

// NewRepository creates a repository; Initialize opens the database.
func NewRepository(config Config) *Repository {
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.WatchBuffer <= 0 {
		config.WatchBuffer = 16
	}
	return &Repository{
		config: config,
		hub:    newHub(config.WatchBuffer),
	}
}

// Initialize opens the database file and applies the schema.
func (r *Repository) Initialize(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.db != nil {
		return nil
	}

	if r.config.ReadOnly {
		if _, err := os.Stat(r.config.Path); err != nil {
			return fmt.Errorf("database does not exist: %w", err)
		}
	} else if err := os.MkdirAll(filepath.Dir(r.config.Path), 0755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", r.config.Path)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	// One connection serialises writers and avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000;"); err != nil {
		db.Close()
		return fmt.Errorf("failed to configure database: %w", err)
	}
	if !r.config.ReadOnly {
		if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
			db.Close()
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}

	r.db = db
	return nil
}

// Close closes the database and every watcher channel.
func (r *Repository) Close() error {
	r.hub.closeAll()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.db == nil {
		return nil
	}
	err := r.db.Close()
	r.db = nil
	return err
}

func (r *Repository) conn() (*sql.DB, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.db == nil {
		return nil, errors.New("database is not initialized")
	}
	return r.db, nil
}

func (r *Repository) checkWrite(coll core.Path, id string) error {
	if r.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := coll.Validate(); err != nil {
		return err
	}
	if id == "" {
		return core.ErrEmptyID
	}
	return nil
}

func encodeFields(fields core.Fields) (string, error) {
	if fields == nil {
		fields = core.Fields{}
	}
	data, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("failed to encode fields: %w", err)
	}
	return string(data), nil
}

func decodeFields(raw string) (core.Fields, error) {
	fields := make(core.Fields)
	if err := json.Unmarshal([]byte(raw), &fields); err != nil {
		return nil, fmt.Errorf("failed to decode fields: %w", err)
	}
	return fields, nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Save inserts or replaces a document.
func (r *Repository) Save(ctx context.Context, coll core.Path, doc core.Document) error {
	if err := r.checkWrite(coll, doc.ID); err != nil {
		return err
	}
	db, err := r.conn()
	if err != nil {
		return err
	}
	payload, err := encodeFields(doc.Fields)
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRowContext(ctx,
		`SELECT COUNT(1) FROM documents WHERE collection = ? AND id = ?`,
		coll.String(), doc.ID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("failed to check document: %w", err)
	}

	ts := now()
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO documents (collection, id, fields, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT (collection, id) DO UPDATE SET fields = excluded.fields, updated_at = excluded.updated_at`,
		coll.String(), doc.ID, payload, ts, ts,
	); err != nil {
		return fmt.Errorf("failed to save document: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	eType := core.EventCreate
	if exists > 0 {
		eType = core.EventModify
	}
	r.hub.publish(core.Event{Type: eType, Collection: coll, ID: doc.ID, Timestamp: time.Now().Unix()})
	return nil
}

// Patch merges fields into a stored document inside one transaction.
func (r *Repository) Patch(ctx context.Context, coll core.Path, id string, fields core.Fields) error {
	if err := r.checkWrite(coll, id); err != nil {
		return err
	}
	db, err := r.conn()
	if err != nil {
		return err
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var raw string
	err = tx.QueryRowContext(ctx,
		`SELECT fields FROM documents WHERE collection = ? AND id = ?`,
		coll.String(), id,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("%w: %s", core.ErrNotFound, coll.DocPath(id))
	}
	if err != nil {
		return fmt.Errorf("failed to read document: %w", err)
	}

	current, err := decodeFields(raw)
	if err != nil {
		return err
	}
	payload, err := encodeFields(current.Merge(fields))
	if err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE documents SET fields = ?, updated_at = ? WHERE collection = ? AND id = ?`,
		payload, now(), coll.String(), id,
	); err != nil {
		return fmt.Errorf("failed to update document: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	r.hub.publish(core.Event{Type: core.EventModify, Collection: coll, ID: id, Timestamp: time.Now().Unix()})
	return nil
}

// Get retrieves a document by ID.
func (r *Repository) Get(ctx context.Context, coll core.Path, id string) (core.Document, error) {
	db, err := r.conn()
	if err != nil {
		return core.Document{}, err
	}

	var raw string
	err = db.QueryRowContext(ctx,
		`SELECT fields FROM documents WHERE collection = ? AND id = ?`,
		coll.String(), id,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Document{}, fmt.Errorf("%w: %s", core.ErrNotFound, coll.DocPath(id))
	}
	if err != nil {
		return core.Document{}, fmt.Errorf("failed to read document: %w", err)
	}

	fields, err := decodeFields(raw)
	if err != nil {
		return core.Document{}, err
	}
	return core.Document{ID: id, Fields: fields}, nil
}

// List returns the documents of one collection ordered by ID.
func (r *Repository) List(ctx context.Context, coll core.Path) ([]core.Document, error) {
	if err := coll.Validate(); err != nil {
		return nil, err
	}
	db, err := r.conn()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx,
		`SELECT id, fields FROM documents WHERE collection = ? ORDER BY id`,
		coll.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", coll, err)
	}
	defer rows.Close()

	docs := []core.Document{}
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("failed to scan document: %w", err)
		}
		fields, err := decodeFields(raw)
		if err != nil {
			r.config.Logger.Warn("skipping undecodable document", "collection", coll, "id", id, "error", err)
			continue
		}
		docs = append(docs, core.Document{ID: id, Fields: fields})
	}
	return docs, rows.Err()
}

// Delete removes one document. Documents of its sub-collections stay.
func (r *Repository) Delete(ctx context.Context, coll core.Path, id string) error {
	if err := r.checkWrite(coll, id); err != nil {
		return err
	}
	db, err := r.conn()
	if err != nil {
		return err
	}

	res, err := db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = ? AND id = ?`,
		coll.String(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete document: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", core.ErrNotFound, coll.DocPath(id))
	}

	r.hub.publish(core.Event{Type: core.EventDelete, Collection: coll, ID: id, Timestamp: time.Now().Unix()})
	return nil
}

// Watch subscribes to changes written through this repository.
func (r *Repository) Watch(ctx context.Context, coll core.Path) (<-chan core.Event, error) {
	if err := coll.Validate(); err != nil {
		return nil, err
	}
	if _, err := r.conn(); err != nil {
		return nil, err
	}
	return r.hub.subscribe(ctx, coll), nil
}

var (
	_ core.Repository = (*Repository)(nil)
	_ core.Watchable  = (*Repository)(nil)
	_ core.Patcher    = (*Repository)(nil)
	_ core.Closer     = (*Repository)(nil)
)
