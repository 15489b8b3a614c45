package views

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/aretw0/grove/pkg/core"
	"github.com/aretw0/grove/pkg/syncclient"
	"github.com/aretw0/grove/pkg/typed"
)

// list is the state every view shares: one subscription and the decoded
// cache of its latest snapshot.
type list[T any] struct {
	client Client
	path   core.Path
	sub    *syncclient.Subscription
	logger *slog.Logger
	rows   []typed.DocumentModel[T]
	seq    uint64
	// prompt renders the delete confirmation for a row.
	prompt func(id string) string
}

func openList[T any](ctx context.Context, client Client, path core.Path, logger *slog.Logger) (*list[T], error) {
	sub, err := client.Subscribe(ctx, path)
	if err != nil {
		return nil, err
	}
	return &list[T]{
		client: client,
		path:   path,
		sub:    sub,
		logger: logger,
	}, nil
}

// Path returns the collection shown by the view.
func (l *list[T]) Path() core.Path {
	return l.path
}

// Updates delivers snapshots for the view. Pass each one to Apply.
func (l *list[T]) Updates() <-chan syncclient.Snapshot {
	return l.sub.Snapshots()
}

// Apply replaces the cache with snap. Snapshots of another path or older
// than the current one are ignored.
func (l *list[T]) Apply(snap syncclient.Snapshot) bool {
	if snap.Path != l.path || snap.Seq <= l.seq {
		return false
	}
	rows, errs := typed.DecodeAll[T](snap.Documents)
	for _, err := range errs {
		l.logger.Warn("skipping document", "path", l.path, "error", err)
	}
	l.rows = rows
	l.seq = snap.Seq
	return true
}

// Next waits for one snapshot and applies it.
func (l *list[T]) Next(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case snap, ok := <-l.Updates():
		if !ok {
			return ErrClosed
		}
		l.Apply(snap)
		return nil
	}
}

// Loaded reports whether a snapshot has been applied yet.
func (l *list[T]) Loaded() bool {
	return l.seq > 0
}

// Rows returns a copy of the cached rows in server order.
func (l *list[T]) Rows() []typed.DocumentModel[T] {
	return slices.Clone(l.rows)
}

// Len returns the number of cached rows.
func (l *list[T]) Len() int {
	return len(l.rows)
}

// Row returns the cached row id.
func (l *list[T]) Row(id string) (typed.DocumentModel[T], bool) {
	i := l.index(id)
	if i < 0 {
		return typed.DocumentModel[T]{}, false
	}
	return l.rows[i], true
}

func (l *list[T]) index(id string) int {
	return slices.IndexFunc(l.rows, func(r typed.DocumentModel[T]) bool {
		return r.ID == id
	})
}

func (l *list[T]) mustRow(id string) (typed.DocumentModel[T], error) {
	row, ok := l.Row(id)
	if !ok {
		return row, fmt.Errorf("%s: %w", l.path.DocPath(id), core.ErrNotFound)
	}
	return row, nil
}

// DeletePrompt is the confirmation shown before deleting id.
func (l *list[T]) DeletePrompt(id string) string {
	return l.prompt(id)
}

// Delete removes id. The row disappears with the next snapshot.
func (l *list[T]) Delete(ctx context.Context, id string) error {
	return l.client.Delete(ctx, l.path, id)
}

// ConfirmDelete asks c and deletes id on a yes. It reports whether the
// delete was issued.
func (l *list[T]) ConfirmDelete(ctx context.Context, id string, c Confirmer) (bool, error) {
	ok, err := c.Confirm(ctx, l.DeletePrompt(id))
	if err != nil || !ok {
		return false, err
	}
	return true, l.Delete(ctx, id)
}

// Close releases the subscription. The parent view stays live.
func (l *list[T]) Close() {
	l.client.Unsubscribe(l.sub)
}
