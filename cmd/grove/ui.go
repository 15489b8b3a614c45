package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/grove/internal/config"
	"github.com/aretw0/grove/internal/platform"
	"github.com/aretw0/grove/internal/tui"
	"github.com/aretw0/grove/internal/views"
	"github.com/aretw0/grove/pkg/blob"
	"github.com/aretw0/grove/pkg/prefs"
	"github.com/aretw0/grove/pkg/syncclient"
)

const logFileName = "grove.log"

func (a *app) uiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ui",
		Short: "Open the terminal UI (default)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runUI(cmd.Context())
		},
	}
}

// runUI owns the terminal, so logs go to a file in the data directory.
func (a *app) runUI(ctx context.Context) error {
	if err := os.MkdirAll(a.dataDir, 0o755); err != nil {
		return fmt.Errorf("failed to create data directory: %w", err)
	}
	logFile, err := os.OpenFile(filepath.Join(a.dataDir, logFileName), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}
	defer logFile.Close()

	level := a.settings.Level()
	if a.verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(logFile, &slog.HandlerOptions{Level: level}))

	svc, err := platform.New(ctx, a.dataDir, a.platformOptions(logger)...)
	if err != nil {
		return fmt.Errorf("failed to open store at %s: %w", a.dataDir, err)
	}
	defer svc.Close()
	logger.Debug("store opened", "state", storeState(svc))
	defer func() { logger.Debug("store closing", "state", storeState(svc)) }()

	client := syncclient.New(svc, syncclient.Config{Cascade: a.settings.CascadeDelete, Logger: logger})
	defer client.Close()

	store, err := a.openPrefs()
	if err != nil {
		return err
	}
	defer store.Close()
	mode, err := prefs.LoadMode(store)
	if err != nil {
		return err
	}

	keymap, err := config.LoadKeymap(a.settings.KeymapPath())
	if err != nil {
		return err
	}

	logger.Info("ui started", "data_dir", a.dataDir, "adapter", a.settings.Adapter, "mode", mode)
	return tui.Run(ctx, tui.Options{
		Client: client,
		Views: views.Config{
			Prefs:  store,
			Blobs:  blob.NewFSStore(filepath.Join(a.dataDir, blob.DefaultDir), logger),
			Mode:   mode,
			Logger: logger,
		},
		Keymap: keymap,
		Logger: logger,
	})
}
