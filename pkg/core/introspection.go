package core

import (
	"sort"

	"github.com/aretw0/introspection"
)

// ServiceState is the observable state of a Service.
type ServiceState struct {
	RepositoryType  string         `json:"repository_type"`
	EventBufferSize int            `json:"event_buffer_size"`
	ReadOnly        bool           `json:"read_only"`
	ActiveWatchers  int            `json:"active_watchers"`
	Watched         []WatchedCount `json:"watched,omitempty"`
}

// WatchedCount is the number of open watches on one collection.
type WatchedCount struct {
	Collection Path `json:"collection"`
	Watchers   int  `json:"watchers"`
}

// State implements introspection.Introspectable. A watch that outlives its
// subscriber shows up here as a leftover count.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st := ServiceState{
		RepositoryType:  "repository",
		EventBufferSize: s.eventBufferSize,
		ReadOnly:        s.readOnly,
	}
	if comp, ok := s.repo.(introspection.Component); ok {
		st.RepositoryType = comp.ComponentType()
	}
	for coll, n := range s.watchers {
		st.ActiveWatchers += n
		st.Watched = append(st.Watched, WatchedCount{Collection: coll, Watchers: n})
	}
	sort.Slice(st.Watched, func(i, j int) bool { return st.Watched[i].Collection < st.Watched[j].Collection })
	return st
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "grove-service"
}

var (
	_ introspection.Introspectable = (*Service)(nil)
	_ introspection.Component      = (*Service)(nil)
)
