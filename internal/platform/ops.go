package platform

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aretw0/grove/pkg/adapters/fs"
	"github.com/aretw0/grove/pkg/adapters/sqlite"
	"github.com/aretw0/grove/pkg/core"
)

// Open builds and initializes the repository selected by the options.
// uri is the data directory; the sqlite adapter also accepts a .db file.
func Open(ctx context.Context, uri string, opts ...Option) (core.Repository, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if o.repository != nil {
		return o.repository, nil
	}

	path := resolvePath(uri, o)

	var repo core.Repository
	switch o.adapter {
	case AdapterFS, "":
		r, err := openFS(path, o)
		if err != nil {
			return nil, err
		}
		repo = r
	case AdapterSQLite:
		r, err := openSQLite(path, o)
		if err != nil {
			return nil, err
		}
		repo = r
	default:
		return nil, fmt.Errorf("unknown adapter: %s", o.adapter)
	}

	if err := repo.Initialize(ctx); err != nil {
		if c, ok := repo.(core.Closer); ok {
			_ = c.Close()
		}
		return nil, err
	}

	o.log().Debug("store opened", "adapter", o.adapter, "path", path, "read_only", o.readOnly)
	return repo, nil
}

func resolvePath(uri string, o *options) string {
	bypass := o.readOnly || !o.devSafety
	sandbox := o.forceTemp || (IsDevRun() && !bypass)
	path := ResolveDataPath(uri, sandbox)
	if sandbox && path != filepath.Clean(uri) {
		o.log().Warn("running in sandbox mode", "original_path", uri, "resolved_path", path)
	}
	return path
}

func openFS(path string, o *options) (*fs.Repository, error) {
	return fs.NewRepository(fs.Config{
		Path:         path,
		SystemDir:    o.systemDir,
		Format:       o.format,
		MustExist:    o.mustExist,
		ReadOnly:     o.readOnly,
		Strict:       o.strict,
		Logger:       o.logger,
		ErrorHandler: o.errorHandler,
		Debounce:     o.debounce,
	})
}

func openSQLite(path string, o *options) (*sqlite.Repository, error) {
	if !strings.HasSuffix(path, ".db") {
		path = filepath.Join(path, sqlite.DefaultFileName)
	}
	if o.mustExist || o.readOnly {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("database not found: %w", err)
		}
	}
	return sqlite.NewRepository(sqlite.Config{
		Path:     path,
		ReadOnly: o.readOnly,
		Logger:   o.logger,
	}), nil
}
