package tui

import (
	"context"
	"fmt"
	"log/slog"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/aretw0/grove/internal/config"
	"github.com/aretw0/grove/internal/views"
)

// Options configures Run.
type Options struct {
	Client views.Client
	Views  views.Config
	Keymap config.Keymap
	Logger *slog.Logger
}

// Run opens the category list and drives the program until the user quits
// or ctx is done. Every subscription is released on return.
func Run(ctx context.Context, opts Options) error {
	cats, err := views.OpenCategories(ctx, opts.Client, opts.Views)
	if err != nil {
		return fmt.Errorf("failed to open categories: %w", err)
	}

	m := newModel(ctx, cats, newKeyMap(opts.Keymap), opts.Logger)
	defer m.closeAll()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
