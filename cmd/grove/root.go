package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/aretw0/grove/internal/config"
	"github.com/aretw0/grove/internal/platform"
	"github.com/aretw0/grove/pkg/core"
	"github.com/aretw0/grove/pkg/prefs"
	"github.com/aretw0/grove/pkg/syncclient"
)

// app holds the flags and the settings resolved before every command.
type app struct {
	configDir string
	dataDir   string
	verbose   bool

	settings config.Settings
	logger   *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "grove",
		Short: "A live category / topic / note tree",
		Long: `grove keeps notes in a three-level tree: categories own topics,
topics own notes. Every list is live: changes made by another process
show up as soon as they hit the store.

Run without a command to open the terminal UI.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.ErrOrStderr())
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runUI(cmd.Context())
		},
	}

	root.PersistentFlags().StringVar(&a.configDir, "config-dir", "", "configuration directory (default: $XDG_CONFIG_HOME/grove)")
	root.PersistentFlags().StringVar(&a.dataDir, "data-dir", "", "data directory (default: enclosing store or $XDG_DATA_HOME/grove)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable verbose logging")

	root.AddCommand(
		a.uiCmd(),
		a.initCmd(),
		a.lsCmd(),
		a.addCmd(),
		a.setCmd(),
		a.rmCmd(),
		a.watchCmd(),
		a.modeCmd(),
		a.statusCmd(),
		versionCmd(),
	)
	return root
}

func (a *app) setup(stderr io.Writer) error {
	configDir, err := config.ResolveConfigDir(a.configDir)
	if err != nil {
		return err
	}
	settings, err := config.Load(configDir)
	if err != nil {
		return err
	}
	dataDir, err := config.ResolveDataDir(a.dataDir, settings.DataDir)
	if err != nil {
		return err
	}
	a.settings = settings
	a.dataDir = dataDir

	level := settings.Level()
	if a.verbose {
		level = slog.LevelDebug
	}
	a.logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(a.logger)

	a.logger.Debug("configuration loaded", "config_dir", configDir, "data_dir", dataDir, "adapter", settings.Adapter)
	return nil
}

func (a *app) platformOptions(logger *slog.Logger, extra ...platform.Option) []platform.Option {
	opts := []platform.Option{
		platform.WithAdapter(a.settings.Adapter),
		platform.WithFormat(a.settings.Format),
		platform.WithEventBuffer(a.settings.EventBuffer),
		platform.WithLogger(logger),
	}
	return append(opts, extra...)
}

// openService opens the store of the data directory. Reads never create it.
func (a *app) openService(ctx context.Context, write bool) (*core.Service, error) {
	opts := a.platformOptions(a.logger, platform.WithMustExist(!write))
	svc, err := platform.New(ctx, a.dataDir, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open store at %s: %w", a.dataDir, err)
	}
	return svc, nil
}

func (a *app) newClient(svc *core.Service, cascade bool) *syncclient.Client {
	return syncclient.New(svc, syncclient.Config{Cascade: cascade, Logger: a.logger})
}

func (a *app) openPrefs() (*prefs.BoltStore, error) {
	return prefs.OpenBolt(filepath.Join(a.dataDir, prefs.DefaultFileName))
}
