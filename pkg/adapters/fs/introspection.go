package fs

import (
	"sort"
	"time"

	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path           string     `json:"path"`
	SystemDir      string     `json:"system_dir"`
	Format         string     `json:"format"`
	CacheSize      int        `json:"cache_size"`
	ReadOnly       bool       `json:"read_only"`
	Strict         bool       `json:"strict"`
	Serializers    []string   `json:"serializers"`
	ActiveWatchers int        `json:"active_watchers"`
	LastWatchStart *time.Time `json:"last_watch_start,omitempty"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	defer r.mu.RUnlock()

	serializers := make([]string, 0, len(r.serializers))
	for ext := range r.serializers {
		serializers = append(serializers, ext)
	}
	sort.Strings(serializers)

	return RepositoryState{
		Path:           r.Path,
		SystemDir:      r.config.SystemDir,
		Format:         r.writeExt,
		CacheSize:      r.cache.Len(),
		ReadOnly:       r.config.ReadOnly,
		Strict:         r.config.Strict,
		Serializers:    serializers,
		ActiveWatchers: r.activeWatchers,
		LastWatchStart: r.lastWatchStart,
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "fs-repository"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)

func (r *Repository) trackWatcher(delta int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activeWatchers += delta
	if delta > 0 {
		now := time.Now()
		r.lastWatchStart = &now
	}
}
