package views

import (
	"context"
	"log/slog"

	"github.com/aretw0/grove/pkg/blob"
	"github.com/aretw0/grove/pkg/core"
	"github.com/aretw0/grove/pkg/prefs"
	"github.com/aretw0/grove/pkg/syncclient"
)

// Client is the subset of syncclient.Client the views rely on.
type Client interface {
	Subscribe(ctx context.Context, path core.Path) (*syncclient.Subscription, error)
	Unsubscribe(sub *syncclient.Subscription)
	Create(ctx context.Context, path core.Path, fields core.Fields) (string, error)
	Update(ctx context.Context, path core.Path, id string, fields core.Fields) error
	Delete(ctx context.Context, path core.Path, id string) error
}

// Confirmer asks the user a yes/no question and blocks for the answer.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// DefaultBlobPrefix is the key prefix of note images.
const DefaultBlobPrefix = "notes"

// Config is shared by a category view and every view opened from it.
type Config struct {
	// Prefs persists the viewer/editor mode. Nil keeps it in memory only.
	Prefs prefs.Store
	// Blobs stores note images. Nil rejects attachments.
	Blobs      blob.Store
	BlobPrefix string
	// Mode is the initial viewer/editor mode of note views.
	Mode   prefs.Mode
	Logger *slog.Logger
}

func (c *Config) normalize() {
	if c.Logger == nil {
		c.Logger = slog.Default()
	}
	if c.BlobPrefix == "" {
		c.BlobPrefix = DefaultBlobPrefix
	}
	if c.Mode == "" {
		c.Mode = prefs.ModeEditor
	}
}
