package grove

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/grove/internal/platform"
	"github.com/aretw0/grove/pkg/core"
	"github.com/aretw0/grove/pkg/syncclient"
)

// --- Configuration ---

// Option configures how New opens a store.
type Option = platform.Option

// Adapter names accepted by WithAdapter.
const (
	AdapterFS     = platform.AdapterFS
	AdapterSQLite = platform.AdapterSQLite
)

// WithAdapter selects the storage adapter by name ("fs" or "sqlite").
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithFormat sets the file format of the fs adapter (json, yaml, md).
func WithFormat(format string) Option {
	return platform.WithFormat(format)
}

// WithLogger sets the logger for the service and its adapter.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository injects a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithSystemDir sets the hidden directory name of the fs adapter (default ".grove").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithEventBuffer sets the buffer size of every watch channel.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithDebounce sets how long the fs watcher coalesces bursts of file events.
func WithDebounce(d time.Duration) Option {
	return platform.WithDebounce(d)
}

// WithReadOnly rejects every write with core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithMustExist fails instead of creating a missing store.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithForceTemp forces the store into the temp sandbox (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithDevSafety toggles the `go run`/`go test` sandbox. Enabled by default.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// --- Factory ---

// New opens the store at path and returns a service over it.
func New(ctx context.Context, path string, opts ...Option) (*core.Service, error) {
	return platform.New(ctx, path, opts...)
}

// Client is the live-list client every view talks to.
type Client = syncclient.Client

// ClientConfig configures NewClient.
type ClientConfig = syncclient.Config

// NewClient wraps svc with subscriptions and cascading deletes.
func NewClient(svc *core.Service, cfg ClientConfig) *Client {
	return syncclient.New(svc, cfg)
}

// --- Safety & Utils ---

// ResolveDataPath returns the path a store actually opens at.
func ResolveDataPath(userPath string, forceTemp bool) string {
	return platform.ResolveDataPath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindRoot looks upwards from startDir for a directory holding a store.
func FindRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}
