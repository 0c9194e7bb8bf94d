// Package commands implements the cloudconnect CLI. The CLI is a thin
// adapter: it collects input, calls the manager, renders the result,
// and never crashes the process on a core error.
package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cloudconnect/cloudconnect/pkg/activity"
	"github.com/cloudconnect/cloudconnect/pkg/config"
	"github.com/cloudconnect/cloudconnect/pkg/manager"
	"github.com/cloudconnect/cloudconnect/pkg/resource"
	"github.com/cloudconnect/cloudconnect/pkg/telemetry"
)

var (
	// Global flags
	configPath string
	verbose    bool
	jsonOutput bool
)

// app holds the wired application components shared by all commands.
type app struct {
	cfg      *config.Config
	tel      *telemetry.Telemetry
	recorder activity.Recorder
	manager  *manager.Manager
}

// Execute runs the root command.
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "cloudconnect",
		Short: "CloudConnect - Simulated Cloud Resource Manager",
		Long: `CloudConnect simulates management of cloud-style resources without
provisioning any real infrastructure.

Resources are typed (AppService, StorageAccount, CacheDB), move through
a fixed lifecycle (created -> started <-> stopped -> deleted), and every
state change is recorded in a per-type activity log. Deletion is soft:
deleted resources stay visible for audit.`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd.Context(), version)
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return a.close(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "output in JSON format")

	rootCmd.AddCommand(newCreateCommand(a))
	rootCmd.AddCommand(newStartCommand(a))
	rootCmd.AddCommand(newStopCommand(a))
	rootCmd.AddCommand(newDeleteCommand(a))
	rootCmd.AddCommand(newListCommand(a))
	rootCmd.AddCommand(newDescribeCommand(a))
	rootCmd.AddCommand(newTypesCommand(a))
	rootCmd.AddCommand(newLogsCommand(a))
	rootCmd.AddCommand(newShellCommand(a))

	return rootCmd
}

// init wires configuration, telemetry, the activity recorder, the type
// registry, and the manager. Type registration is an explicit startup
// call.
func (a *app) init(ctx context.Context, version string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if verbose {
		cfg.Logging.Level = "debug"
	}
	a.cfg = cfg

	tel, err := telemetry.New(cfg.Telemetry(version))
	if err != nil {
		return err
	}
	a.tel = tel

	recorder, err := a.openRecorder(ctx)
	if err != nil {
		return err
	}
	a.recorder = recorder

	registry := resource.NewDefaultRegistry()

	m, err := manager.New(registry, recorder, tel)
	if err != nil {
		return err
	}
	a.manager = m
	return nil
}

func (a *app) openRecorder(ctx context.Context) (activity.Recorder, error) {
	switch a.cfg.Activity.Backend {
	case "sqlite":
		store, err := activity.NewSQLiteStore(activity.SQLiteConfig{Path: a.cfg.Activity.Path})
		if err != nil {
			return nil, err
		}
		if err := store.Init(ctx); err != nil {
			return nil, err
		}
		if err := store.Migrate(ctx); err != nil {
			_ = store.Close()
			return nil, err
		}
		return store, nil
	default:
		return activity.NewFileStore(a.cfg.Activity.Dir)
	}
}

func (a *app) close(ctx context.Context) error {
	if a.recorder != nil {
		if err := a.recorder.Close(); err != nil {
			return err
		}
	}
	if a.tel != nil {
		return a.tel.Shutdown(ctx)
	}
	return nil
}
