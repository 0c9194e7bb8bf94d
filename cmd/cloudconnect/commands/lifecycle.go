package commands

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cloudconnect/cloudconnect/pkg/resource"
)

func newStartCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "start NAME",
		Short: "Start a resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLifecycleOp(cmd, args[0], a.manager.Start, "started")
		},
	}
}

func newStopCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stop NAME",
		Short: "Stop a running resource",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLifecycleOp(cmd, args[0], a.manager.Stop, "stopped")
		},
	}
}

func newDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Soft-delete a stopped resource",
		Long: `Soft-delete a stopped resource.

The resource is marked as deleted but stays in the collection; its
configuration remains visible for audit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLifecycleOp(cmd, args[0], a.manager.Delete, "marked as deleted")
		},
	}
}

func newDescribeCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "describe NAME",
		Short: "Show a resource's configuration and state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			snap, err := a.manager.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(cmd, snap)
			}
			fmt.Fprintln(cmd.OutOrStdout(), snap.Details)
			return nil
		},
	}
}

func (a *app) runLifecycleOp(cmd *cobra.Command, name string,
	op func(ctx context.Context, name string) (resource.Snapshot, error), verb string) error {
	snap, err := op(cmd.Context(), name)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd, snap)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %q %s\n", snap.Type, snap.Name, verb)
	return nil
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
