package fs

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aretw0/grove/pkg/core"
)

func TestDebouncer_CoalescesBursts(t *testing.T) {
	d := newDebouncer(30 * time.Millisecond)

	var mu sync.Mutex
	var fired []core.Event
	record := func(e core.Event) {
		mu.Lock()
		defer mu.Unlock()
		fired = append(fired, e)
	}

	d.add(core.Event{Type: core.EventCreate, ID: "a"}, record)
	d.add(core.Event{Type: core.EventModify, ID: "a"}, record)
	d.add(core.Event{Type: core.EventModify, ID: "b"}, record)

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(fired) == 2
	}, time.Second, 5*time.Millisecond)

	d.stopAndWait(time.Second)

	mu.Lock()
	defer mu.Unlock()
	types := map[string]core.EventType{}
	for _, e := range fired {
		types[e.ID] = e.Type
	}
	assert.Equal(t, core.EventCreate, types["a"])
	assert.Equal(t, core.EventModify, types["b"])
}

func TestDebouncer_StopDropsPending(t *testing.T) {
	d := newDebouncer(time.Hour)
	called := false
	d.add(core.Event{Type: core.EventCreate, ID: "a"}, func(core.Event) { called = true })
	d.stopAndWait(time.Second)
	d.add(core.Event{Type: core.EventCreate, ID: "b"}, func(core.Event) { called = true })
	assert.False(t, called)
}

func TestCoalesce(t *testing.T) {
	ev := func(tp core.EventType) core.Event { return core.Event{Type: tp, ID: "x"} }

	assert.Equal(t, core.EventDelete, coalesce(ev(core.EventCreate), ev(core.EventDelete)).Type)
	assert.Equal(t, core.EventModify, coalesce(ev(core.EventDelete), ev(core.EventCreate)).Type)
	assert.Equal(t, core.EventCreate, coalesce(ev(core.EventCreate), ev(core.EventModify)).Type)
	assert.Equal(t, core.EventModify, coalesce(ev(core.EventModify), ev(core.EventModify)).Type)
}
