package sqlite

import (
	"github.com/aretw0/introspection"
)

// RepositoryState exposes internal state for observability.
type RepositoryState struct {
	Path     string `json:"path"`
	ReadOnly bool   `json:"read_only"`
	Open     bool   `json:"open"`
	Watchers int    `json:"watchers"`
}

// State implements introspection.Introspectable.
func (r *Repository) State() any {
	r.mu.RLock()
	open := r.db != nil
	r.mu.RUnlock()

	return RepositoryState{
		Path:     r.config.Path,
		ReadOnly: r.config.ReadOnly,
		Open:     open,
		Watchers: r.hub.count(),
	}
}

// ComponentType implements introspection.Component.
func (r *Repository) ComponentType() string {
	return "sqlite-repository"
}

var _ introspection.Introspectable = (*Repository)(nil)
var _ introspection.Component = (*Repository)(nil)
