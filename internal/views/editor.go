package views

import (
	"context"

	"github.com/aretw0/grove/pkg/core"
	"github.com/aretw0/grove/pkg/tree"
)

// NoteEditor holds a draft copy of one note.
type NoteEditor struct {
	view     *NoteView
	id       string
	draft    NoteDraft
	imageURL string
}

func (e *NoteEditor) ID() string { return e.id }
func (e *NoteEditor) Draft() NoteDraft { return e.draft }
func (e *NoteEditor) SetTitle(s string) { e.draft.Title = s }
func (e *NoteEditor) SetContent(s string) { e.draft.Content = s }
func (e *NoteEditor) Attach(a *Attachment) { e.draft.Image = a }

// ImageURL is the image the note keeps unless a new one is attached.
func (e *NoteEditor) ImageURL() string { return e.imageURL }

// Save commits title, content and image URL in one update. A newly attached
// image is uploaded first; if that fails nothing is written.
func (e *NoteEditor) Save(ctx context.Context) error {
	title, err := e.draft.validate()
	if err != nil {
		return err
	}
	url := e.imageURL
	if e.draft.Image != nil {
		if url, err = e.view.upload(ctx, e.draft.Image); err != nil {
			return err
		}
	}
	if err := e.view.client.Update(ctx, e.view.path, e.id, core.Fields{
		tree.FieldTitle:    title,
		tree.FieldContent:  e.draft.Content,
		tree.FieldImageURL: url,
	}); err != nil {
		return err
	}
	e.imageURL = url
	e.draft.Image = nil
	return nil
}
