package platform

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/aretw0/grove/pkg/adapters/fs"
	"github.com/aretw0/grove/pkg/adapters/sqlite"
)

// ErrRootNotFound is returned by FindRoot when no store encloses the directory.
var ErrRootNotFound = errors.New("root not found")

// FindRoot walks up from startDir to the first directory holding a store:
// a .grove directory or a grove.db file.
func FindRoot(startDir string) (string, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", err
	}

	for {
		if hasFile(dir, fs.DefaultSystemDir) || hasFile(dir, sqlite.DefaultFileName) {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", ErrRootNotFound
		}
		dir = parent
	}
}

func hasFile(dir, name string) bool {
	_, err := os.Stat(filepath.Join(dir, name))
	return err == nil
}
