package views

import (
	"context"
	"fmt"

	"github.com/aretw0/grove/pkg/core"
	"github.com/aretw0/grove/pkg/syncclient"
	"github.com/aretw0/grove/pkg/tree"
)

// CategoryView lists categories and supports inline rename.
// Views are driven from one event loop and are not safe for concurrent use.
type CategoryView struct {
	*list[tree.Category]
	cfg   *Config
	draft string
	// renames holds per-row drafts, keyed by id, apart from the cached rows.
	renames map[string]string
}

// OpenCategories subscribes to the root collection.
func OpenCategories(ctx context.Context, client Client, cfg Config) (*CategoryView, error) {
	cfg.normalize()
	l, err := openList[tree.Category](ctx, client, tree.Categories(), cfg.Logger)
	if err != nil {
		return nil, err
	}
	v := &CategoryView{list: l, cfg: &cfg, renames: make(map[string]string)}
	l.prompt = func(id string) string {
		row, _ := l.Row(id)
		return fmt.Sprintf("Delete %q and all its topics?", row.Data.Name)
	}
	return v, nil
}

// Apply rebuilds the cache and drops rename drafts of removed rows.
func (v *CategoryView) Apply(snap syncclient.Snapshot) bool {
	if !v.list.Apply(snap) {
		return false
	}
	for id := range v.renames {
		if v.index(id) < 0 {
			delete(v.renames, id)
		}
	}
	return true
}

// Next waits for one snapshot and applies it.
func (v *CategoryView) Next(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case snap, ok := <-v.Updates():
		if !ok {
			return ErrClosed
		}
		v.Apply(snap)
		return nil
	}
}

func (v *CategoryView) Draft() string { return v.draft }
func (v *CategoryView) SetDraft(s string) { v.draft = s }

// SubmitNew creates a category named after the trimmed draft and clears it.
func (v *CategoryView) SubmitNew(ctx context.Context) (string, error) {
	name, err := tree.Required(tree.FieldName, v.draft)
	if err != nil {
		return "", err
	}
	id, err := v.client.Create(ctx, v.path, core.Fields{tree.FieldName: name})
	if err != nil {
		return "", err
	}
	v.draft = ""
	return id, nil
}

// Select opens the topics of category id.
func (v *CategoryView) Select(ctx context.Context, id string) (*TopicView, error) {
	row, err := v.mustRow(id)
	if err != nil {
		return nil, err
	}
	return openTopics(ctx, v.client, v.cfg, id, row.Data.Name)
}

// StartRename puts row id in edit mode with its current name as draft.
func (v *CategoryView) StartRename(id string) error {
	row, err := v.mustRow(id)
	if err != nil {
		return err
	}
	v.renames[id] = row.Data.Name
	return nil
}

// Renaming returns the rename draft of id, if the row is in edit mode.
func (v *CategoryView) Renaming(id string) (string, bool) {
	d, ok := v.renames[id]
	return d, ok
}

func (v *CategoryView) SetRenameDraft(id, name string) {
	if _, ok := v.renames[id]; ok {
		v.renames[id] = name
	}
}

func (v *CategoryView) CancelRename(id string) {
	delete(v.renames, id)
}

// SaveRename writes the trimmed draft of id. On success the row leaves edit
// mode and the cache shows the new name before the next snapshot arrives.
func (v *CategoryView) SaveRename(ctx context.Context, id string) error {
	draft, ok := v.renames[id]
	if !ok {
		return fmt.Errorf("%s is not being renamed", id)
	}
	name, err := tree.Required(tree.FieldName, draft)
	if err != nil {
		return err
	}
	if err := v.client.Update(ctx, v.path, id, core.Fields{tree.FieldName: name}); err != nil {
		return err
	}
	delete(v.renames, id)
	if i := v.index(id); i >= 0 {
		v.rows[i].Data.Name = name
	}
	return nil
}
