package views

import (
	"context"

	"github.com/aretw0/grove/pkg/core"
	"github.com/aretw0/grove/pkg/tree"
)

// TopicView lists the topics of one category.
type TopicView struct {
	*list[tree.Topic]
	cfg          *Config
	categoryID   string
	categoryName string
	draft        string
}

func openTopics(ctx context.Context, client Client, cfg *Config, categoryID, categoryName string) (*TopicView, error) {
	l, err := openList[tree.Topic](ctx, client, tree.Topics(categoryID), cfg.Logger)
	if err != nil {
		return nil, err
	}
	l.prompt = func(string) string { return "Delete this topic and all its notes?" }
	return &TopicView{
		list:         l,
		cfg:          cfg,
		categoryID:   categoryID,
		categoryName: categoryName,
	}, nil
}

// Heading is the name of the owning category.
func (v *TopicView) Heading() string { return v.categoryName }

func (v *TopicView) Draft() string { return v.draft }
func (v *TopicView) SetDraft(s string) { v.draft = s }

// SubmitNew creates a topic named after the trimmed draft and clears it.
func (v *TopicView) SubmitNew(ctx context.Context) (string, error) {
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

// Select opens the notes of topic id.
func (v *TopicView) Select(ctx context.Context, id string) (*NoteView, error) {
	row, err := v.mustRow(id)
	if err != nil {
		return nil, err
	}
	return openNotes(ctx, v.client, v.cfg, v.categoryID, id, row.Data.Name)
}
