package commands

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all resources",
		Long: `List every resource in creation order.

Deleted resources are included: deletion is soft, so they remain
visible for audit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			snaps := a.manager.List(cmd.Context())
			if jsonOutput {
				return printJSON(cmd, snaps)
			}
			if len(snaps) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No resources.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "NAME\tTYPE\tSTATE\tCREATED")
			for _, s := range snaps {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
					s.Name, s.Type, s.State, s.CreatedAt.Format("2006-01-02 15:04:05"))
			}
			return w.Flush()
		},
	}
}

func newTypesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List registered resource types",
		RunE: func(cmd *cobra.Command, args []string) error {
			types := a.manager.Registry().Types()
			if jsonOutput {
				return printJSON(cmd, types)
			}
			for _, t := range types {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}
