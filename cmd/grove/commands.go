package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aretw0/introspection"
	"github.com/spf13/cobra"

	"github.com/aretw0/grove"
	source "github.com/aretw0/grove/pkg/adapters/lifecycle"
	"github.com/aretw0/grove/pkg/core"
	"github.com/aretw0/grove/pkg/prefs"
	"github.com/aretw0/grove/pkg/syncclient"
	"github.com/aretw0/grove/pkg/tree"
)

func (a *app) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the store in the data directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.openService(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer svc.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s store in %s\n", a.settings.Adapter, a.dataDir)
			return nil
		},
	}
}

func (a *app) lsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "ls [path]",
		Short: "List the documents of a collection",
		Example: `  grove ls
  grove ls categories/<category-id>/topics --json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := parsePath(args)
			if err != nil {
				return err
			}
			svc, err := a.openService(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer svc.Close()

			docs, err := svc.List(cmd.Context(), path)
			if err != nil {
				return err
			}
			return printDocs(cmd.OutOrStdout(), docs, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

// readFields parses the key=value arguments and applies the required-field
// rules of the collection.
func readFields(path core.Path, pairs []string, unescape, partial bool) (core.Fields, error) {
	fields, err := parseFields(pairs, unescape)
	if err != nil {
		return nil, err
	}
	return tree.Normalize(path, fields, partial)
}

func (a *app) addCmd() *cobra.Command {
	var unescape bool
	cmd := &cobra.Command{
		Use:   "add <path> key=value...",
		Short: "Create a document and print its id",
		Example: `  grove add categories name=Work
  grove add categories/<c>/topics/<t>/notes title=Q1 -e 'content=line1\nline2'`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := parsePath(args[:1])
			if err != nil {
				return err
			}
			fields, err := readFields(path, args[1:], unescape, false)
			if err != nil {
				return err
			}
			svc, err := a.openService(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer svc.Close()

			id, err := a.newClient(svc, false).Create(cmd.Context(), path, fields)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&unescape, "escapes", "e", false, `Expand \n, \t and \\ in values`)
	return cmd
}

func (a *app) setCmd() *cobra.Command {
	var unescape bool
	cmd := &cobra.Command{
		Use:   "set <path> <id> key=value...",
		Short: "Merge fields into a document",
		Args:  cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := parsePath(args[:1])
			if err != nil {
				return err
			}
			fields, err := readFields(path, args[2:], unescape, true)
			if err != nil {
				return err
			}
			svc, err := a.openService(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer svc.Close()
			return a.newClient(svc, false).Update(cmd.Context(), path, args[1], fields)
		},
	}
	cmd.Flags().BoolVarP(&unescape, "escapes", "e", false, `Expand \n, \t and \\ in values`)
	return cmd
}

func (a *app) rmCmd() *cobra.Command {
	var cascade bool
	cmd := &cobra.Command{
		Use:   "rm <path> <id>",
		Short: "Delete a document",
		Long: `Delete a document. With cascading enabled (--cascade or cascade_delete
in config.yaml) its topics and notes are deleted first.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := parsePath(args[:1])
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("cascade") {
				cascade = a.settings.CascadeDelete
			}
			svc, err := a.openService(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer svc.Close()
			return a.newClient(svc, cascade).Delete(cmd.Context(), path, args[1])
		},
	}
	cmd.Flags().BoolVar(&cascade, "cascade", false, "Delete descendants too")
	return cmd
}

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch [path]",
		Short: "Print a JSON line per snapshot until interrupted",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := parsePath(args)
			if err != nil {
				return err
			}
			svc, err := a.openService(cmd.Context(), true)
			if err != nil {
				return err
			}
			defer svc.Close()

			client := a.newClient(svc, false)
			defer client.Close()
			sub, err := client.Subscribe(cmd.Context(), path)
			if err != nil {
				return err
			}

			src := source.NewSource(sub)
			if err := src.Start(cmd.Context()); err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for ev := range src.Events() {
				snap, ok := ev.(syncclient.Snapshot)
				if !ok {
					continue
				}
				a.logger.Debug("snapshot", "event", ev.String())
				if err := enc.Encode(struct {
					Path      string    `json:"path"`
					Seq       uint64    `json:"seq"`
					Documents []docJSON `json:"documents"`
				}{snap.Path.String(), snap.Seq, toJSON(snap.Documents)}); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func (a *app) modeCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "mode [viewer|editor]",
		Short:     "Show or set the note list mode of this device",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{string(prefs.ModeViewer), string(prefs.ModeEditor)},
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openPrefs()
			if err != nil {
				return err
			}
			defer store.Close()

			if len(args) == 0 {
				m, err := prefs.LoadMode(store)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), m)
				return nil
			}
			m, err := prefs.ParseMode(strings.ToLower(args[0]))
			if err != nil {
				return err
			}
			return prefs.SaveMode(store, m)
		},
	}
}

// storeState gathers the introspection state of the service and its adapter.
func storeState(svc *core.Service) map[string]any {
	state := map[string]any{"service": svc.State()}
	if in, ok := svc.Repository().(introspection.Introspectable); ok {
		state["repository"] = in.State()
	}
	return state
}

func (a *app) statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Print the state of the store as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.openService(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer svc.Close()

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(storeState(svc))
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of grove",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "grove version %s\n", strings.TrimSpace(grove.Version))
		},
	}
}

