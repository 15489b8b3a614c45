package fs

import (
	"sync"
	"time"

	"github.com/aretw0/grove/pkg/core"
)

// debouncer coalesces bursts of events per document ID.
type debouncer struct {
	delay   time.Duration
	mu      sync.Mutex
	timers  map[string]*time.Timer
	pending map[string]core.Event
	stopped bool
	wg      sync.WaitGroup
}

func newDebouncer(delay time.Duration) *debouncer {
	return &debouncer{
		delay:   delay,
		timers:  make(map[string]*time.Timer),
		pending: make(map[string]core.Event),
	}
}

// add schedules fire for e after the delay, restarting the delay when another
// event for the same ID arrives first.
func (d *debouncer) add(e core.Event, fire func(core.Event)) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}

	id := e.ID
	if prev, ok := d.pending[id]; ok {
		e = coalesce(prev, e)
	}
	d.pending[id] = e

	if old, ok := d.timers[id]; ok && old.Stop() {
		d.wg.Done()
	}

	var t *time.Timer
	d.wg.Add(1)
	t = time.AfterFunc(d.delay, func() {
		defer d.wg.Done()

		d.mu.Lock()
		if d.stopped || d.timers[id] != t {
			d.mu.Unlock()
			return
		}
		ev := d.pending[id]
		delete(d.pending, id)
		delete(d.timers, id)
		d.mu.Unlock()

		fire(ev)
	})
	d.timers[id] = t
}

// stopAndWait drops pending events and waits for in-flight callbacks.
func (d *debouncer) stopAndWait(timeout time.Duration) {
	d.mu.Lock()
	d.stopped = true
	for id, t := range d.timers {
		if t.Stop() {
			d.wg.Done()
		}
		delete(d.timers, id)
	}
	d.pending = make(map[string]core.Event)
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
	}
}

// coalesce merges two consecutive events of the same document.
func coalesce(prev, next core.Event) core.Event {
	switch {
	case next.Type == core.EventDelete:
		return next
	case prev.Type == core.EventCreate:
		next.Type = core.EventCreate
	case prev.Type == core.EventDelete && next.Type == core.EventCreate:
		next.Type = core.EventModify
	}
	return next
}
