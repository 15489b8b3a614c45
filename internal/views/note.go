package views

import (
	"context"
	"errors"

	"github.com/aretw0/grove/pkg/blob"
	"github.com/aretw0/grove/pkg/core"
	"github.com/aretw0/grove/pkg/prefs"
	"github.com/aretw0/grove/pkg/tree"
)

// Action is a control offered by a view.
type Action string

const (
	ActionAdd    Action = "add"
	ActionEdit   Action = "edit"
	ActionDelete Action = "delete"
	ActionCopy   Action = "copy"
	ActionMode   Action = "mode"
	ActionBack   Action = "back"
)

// Attachment is a local image waiting to be uploaded.
type Attachment struct {
	Filename string
	Data     []byte
}

// NoteDraft is the input state of a new or edited note.
type NoteDraft struct {
	Title   string
	Content string
	// Image, when set, is uploaded on submit and replaces the image URL.
	Image *Attachment
}

func (d NoteDraft) validate() (string, error) {
	title, err := tree.Required(tree.FieldTitle, d.Title)
	if err != nil {
		return "", err
	}
	if _, err := tree.Required(tree.FieldContent, d.Content); err != nil {
		return "", err
	}
	return title, nil
}

// NoteView lists the notes of one topic.
type NoteView struct {
	*list[tree.Note]
	cfg        *Config
	categoryID string
	topicID    string
	topicName  string
	draft      NoteDraft
}

func openNotes(ctx context.Context, client Client, cfg *Config, categoryID, topicID, topicName string) (*NoteView, error) {
	l, err := openList[tree.Note](ctx, client, tree.Notes(categoryID, topicID), cfg.Logger)
	if err != nil {
		return nil, err
	}
	l.prompt = func(string) string { return "Delete this note?" }
	return &NoteView{
		list:       l,
		cfg:        cfg,
		categoryID: categoryID,
		topicID:    topicID,
		topicName:  topicName,
	}, nil
}

// Heading is the name of the owning topic.
func (v *NoteView) Heading() string { return v.topicName }

func (v *NoteView) Draft() NoteDraft { return v.draft }
func (v *NoteView) SetDraft(d NoteDraft) { v.draft = d }
func (v *NoteView) SetTitle(s string) { v.draft.Title = s }
func (v *NoteView) SetContent(s string) { v.draft.Content = s }
func (v *NoteView) Attach(a *Attachment) { v.draft.Image = a }
func (v *NoteView) Mode() prefs.Mode { return v.cfg.Mode }
func (v *NoteView) Allowed(a Action) bool { return isAllowed(v.cfg.Mode, a) }

// SubmitNew uploads the attached image, if any, then creates the note.
// Title is stored trimmed and content verbatim. The draft is cleared only
// after a successful create.
func (v *NoteView) SubmitNew(ctx context.Context) (string, error) {
	title, err := v.draft.validate()
	if err != nil {
		return "", err
	}
	url, err := v.upload(ctx, v.draft.Image)
	if err != nil {
		return "", err
	}
	id, err := v.client.Create(ctx, v.path, core.Fields{
		tree.FieldTitle:    title,
		tree.FieldContent:  v.draft.Content,
		tree.FieldImageURL: url,
	})
	if err != nil {
		return "", err
	}
	v.draft = NoteDraft{}
	return id, nil
}

func (v *NoteView) upload(ctx context.Context, a *Attachment) (string, error) {
	if a == nil {
		return "", nil
	}
	if v.cfg.Blobs == nil {
		return "", &blob.UploadError{Err: errors.New("no blob store configured")}
	}
	return blob.Upload(ctx, v.cfg.Blobs, v.cfg.BlobPrefix, a.Filename, a.Data)
}

// Edit opens a draft copy of note id. Later snapshots do not touch it.
func (v *NoteView) Edit(id string) (*NoteEditor, error) {
	row, err := v.mustRow(id)
	if err != nil {
		return nil, err
	}
	return &NoteEditor{
		view:     v,
		id:       id,
		draft:    NoteDraft{Title: row.Data.Title, Content: row.Data.Content},
		imageURL: row.Data.ImageURL,
	}, nil
}

// SetMode switches between viewer and editor and persists the choice.
func (v *NoteView) SetMode(m prefs.Mode) error {
	if _, err := prefs.ParseMode(string(m)); err != nil {
		return err
	}
	v.cfg.Mode = m
	if v.cfg.Prefs == nil {
		return nil
	}
	return prefs.SaveMode(v.cfg.Prefs, m)
}

// ToggleMode flips the mode and persists it.
func (v *NoteView) ToggleMode() error {
	return v.SetMode(v.cfg.Mode.Toggle())
}

// Controls lists the actions available in the current mode.
func (v *NoteView) Controls() []Action {
	all := []Action{ActionAdd, ActionEdit, ActionDelete, ActionCopy, ActionMode, ActionBack}
	out := make([]Action, 0, len(all))
	for _, a := range all {
		if isAllowed(v.cfg.Mode, a) {
			out = append(out, a)
		}
	}
	return out
}

func isAllowed(m prefs.Mode, a Action) bool {
	if m != prefs.ModeViewer {
		return true
	}
	switch a {
	case ActionAdd, ActionEdit, ActionDelete:
		return false
	}
	return true
}
