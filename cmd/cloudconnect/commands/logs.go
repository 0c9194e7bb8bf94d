package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cloudconnect/cloudconnect/pkg/activity"
)

func newLogsCommand(a *app) *cobra.Command {
	var (
		typeName string
		limit    int
		follow   bool
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Show the activity log",
		Long: `Show recorded lifecycle events.

Without --type the most recent events across all types are shown.
With --type the full stream for that type is shown in emission order.
--follow tails a type's stream and requires the file backend.`,
		Example: `  # Last 20 events across all types
  cloudconnect logs

  # Full AppService stream
  cloudconnect logs --type AppService

  # Tail the AppService stream
  cloudconnect logs --type AppService --follow`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if follow {
				if typeName == "" {
					return fmt.Errorf("--follow requires --type")
				}
				store, ok := a.recorder.(*activity.FileStore)
				if !ok {
					return fmt.Errorf("--follow is only supported by the file backend")
				}
				ch, err := store.Follow(cmd.Context(), typeName)
				if err != nil {
					return err
				}
				for event := range ch {
					printEvent(cmd, event)
				}
				return nil
			}

			var (
				events []activity.Event
				err    error
			)
			if typeName != "" {
				events, err = a.recorder.ReadAll(cmd.Context(), typeName)
			} else {
				events, err = a.recorder.ReadRecent(cmd.Context(), limit)
			}
			if err != nil {
				return err
			}
			if jsonOutput {
				return printJSON(cmd, events)
			}
			if len(events) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No events.")
				return nil
			}
			for _, event := range events {
				printEvent(cmd, event)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&typeName, "type", "", "show the full stream for one resource type")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of events without --type")
	cmd.Flags().BoolVarP(&follow, "follow", "f", false, "tail the stream (requires --type)")

	return cmd
}

func printEvent(cmd *cobra.Command, event activity.Event) {
	line := fmt.Sprintf("[%s] %s %q %s -> %s",
		event.Timestamp.Format("15:04:05"),
		event.TypeName, event.ResourceName, event.Operation, event.State)
	if event.Detail != "" {
		line += " " + event.Detail
	}
	fmt.Fprintln(cmd.OutOrStdout(), line)
}
