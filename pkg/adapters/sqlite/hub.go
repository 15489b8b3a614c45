package sqlite

import (
	"context"
	"sync"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/grove/pkg/core"
)

type subscriber struct {
	ch   chan core.Event
	once sync.Once
}

func (s *subscriber) close() {
	s.once.Do(func() { close(s.ch) })
}

// hub fans committed changes out to the watchers of each collection.
type hub struct {
	buffer int

	mu   sync.Mutex
	subs map[core.Path]map[*subscriber]struct{}
}

func newHub(buffer int) *hub {
	return &hub{
		buffer: buffer,
		subs:   make(map[core.Path]map[*subscriber]struct{}),
	}
}

func (h *hub) subscribe(ctx context.Context, coll core.Path) <-chan core.Event {
	sub := &subscriber{ch: make(chan core.Event, h.buffer)}

	h.mu.Lock()
	if h.subs[coll] == nil {
		h.subs[coll] = make(map[*subscriber]struct{})
	}
	h.subs[coll][sub] = struct{}{}
	h.mu.Unlock()

	lifecycle.Go(ctx, func(ctx context.Context) error {
		<-ctx.Done()
		h.unsubscribe(coll, sub)
		return nil
	})

	return sub.ch
}

func (h *hub) unsubscribe(coll core.Path, sub *subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if set, ok := h.subs[coll]; ok {
		delete(set, sub)
		if len(set) == 0 {
			delete(h.subs, coll)
		}
	}
	sub.close()
}

// publish never blocks. A full buffer already holds an undelivered event for
// the collection, which is enough for the watcher to re-read it.
func (h *hub) publish(e core.Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for sub := range h.subs[e.Collection] {
		select {
		case sub.ch <- e:
		default:
		}
	}
}

func (h *hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for coll, set := range h.subs {
		for sub := range set {
			sub.close()
		}
		delete(h.subs, coll)
	}
}

func (h *hub) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	n := 0
	for _, set := range h.subs {
		n += len(set)
	}
	return n
}
