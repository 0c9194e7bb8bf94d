package commands

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cloudconnect/cloudconnect/pkg/resource"
)

func newShellCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive resource management session",
		Long: `Start an interactive session.

Resource state lives in memory for the duration of the session; only
the activity log is durable.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			sh := &shell{
				app: a,
				in:  bufio.NewScanner(cmd.InOrStdin()),
				out: cmd.OutOrStdout(),
			}
			return sh.run(cmd.Context())
		},
	}
}

type shell struct {
	app *app
	in  *bufio.Scanner
	out io.Writer
}

func (s *shell) run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprintln(s.out, "\n==================================================")
		fmt.Fprintln(s.out, "CloudConnect - Cloud Resource Manager")
		fmt.Fprintln(s.out, "==================================================")
		fmt.Fprintln(s.out, "1. Create Resource")
		fmt.Fprintln(s.out, "2. Start Resource")
		fmt.Fprintln(s.out, "3. Stop Resource")
		fmt.Fprintln(s.out, "4. Delete Resource")
		fmt.Fprintln(s.out, "5. View Logs")
		fmt.Fprintln(s.out, "6. List All Resources")
		fmt.Fprintln(s.out, "7. Exit")

		choice, ok := s.promptChoice("Choice: ", 7)
		if !ok {
			return nil
		}
		switch choice {
		case 1:
			s.createResource(ctx)
		case 2:
			s.applyOp(ctx, s.app.manager.Start)
		case 3:
			s.applyOp(ctx, s.app.manager.Stop)
		case 4:
			s.applyOp(ctx, s.app.manager.Delete)
		case 5:
			s.viewLogs(ctx)
		case 6:
			s.listResources(ctx)
		case 7:
			fmt.Fprintln(s.out, "Goodbye!")
			return nil
		}
	}
}

func (s *shell) createResource(ctx context.Context) {
	types := s.app.manager.Registry().Types()
	fmt.Fprintln(s.out, "\nSelect resource type:")
	for i, t := range types {
		fmt.Fprintf(s.out, "%d. %s\n", i+1, t)
	}
	choice, ok := s.promptChoice("Choice: ", len(types))
	if !ok {
		return
	}
	typeName := types[choice-1]

	name, ok := s.promptLine("Enter resource name: ")
	if !ok {
		return
	}

	var raw json.RawMessage
	switch typeName {
	case resource.TypeAppService:
		raw, ok = s.promptAppService()
	case resource.TypeStorageAccount:
		raw, ok = s.promptStorageAccount()
	case resource.TypeCacheDB:
		raw, ok = s.promptCacheDB()
	default:
		fmt.Fprintf(s.out, "No interactive prompts for type %s\n", typeName)
		return
	}
	if !ok {
		return
	}

	snap, err := s.app.manager.Create(ctx, typeName, name, raw)
	if err != nil {
		fmt.Fprintf(s.out, "\n%v\n", err)
		return
	}
	fmt.Fprintf(s.out, "\n%s created successfully!\n%s\n", typeName, snap.Details)
}

func (s *shell) promptAppService() (json.RawMessage, bool) {
	runtime, ok := s.promptPick("runtime", []string{"python", "nodejs", "dotnet"})
	if !ok {
		return nil, false
	}
	region, ok := s.promptPick("region", []string{"EastUS", "WestEurope", "CentralIndia"})
	if !ok {
		return nil, false
	}
	replicas, ok := s.promptPick("replica count", []string{"1", "2", "3"})
	if !ok {
		return nil, false
	}
	n, _ := strconv.Atoi(replicas)
	raw, _ := json.Marshal(map[string]any{
		"runtime": runtime, "region": region, "replica_count": n,
	})
	return raw, true
}

func (s *shell) promptStorageAccount() (json.RawMessage, bool) {
	answer, ok := s.promptPick("encryption", []string{"Yes", "No"})
	if !ok {
		return nil, false
	}
	size, ok := s.promptPick("maximum storage size (GB)", []string{"50", "100", "500", "1000"})
	if !ok {
		return nil, false
	}
	n, _ := strconv.Atoi(size)
	raw, _ := json.Marshal(map[string]any{
		"encryption_enabled": answer == "Yes", "max_size_gb": n,
	})
	return raw, true
}

func (s *shell) promptCacheDB() (json.RawMessage, bool) {
	ttl, ok := s.promptPick("TTL (seconds)", []string{"60", "300", "600", "3600"})
	if !ok {
		return nil, false
	}
	capacity, ok := s.promptPick("capacity (MB)", []string{"128", "256", "512", "1024"})
	if !ok {
		return nil, false
	}
	policy, ok := s.promptPick("eviction policy", []string{"LRU", "FIFO", "LFU", "RANDOM"})
	if !ok {
		return nil, false
	}
	ttlN, _ := strconv.Atoi(ttl)
	capN, _ := strconv.Atoi(capacity)
	raw, _ := json.Marshal(map[string]any{
		"ttl_seconds": ttlN, "capacity_mb": capN, "eviction_policy": policy,
	})
	return raw, true
}

func (s *shell) applyOp(ctx context.Context, op func(context.Context, string) (resource.Snapshot, error)) {
	name, ok := s.promptLine("Enter resource name: ")
	if !ok {
		return
	}
	snap, err := op(ctx, name)
	if err != nil {
		fmt.Fprintf(s.out, "\n%v\n", err)
		return
	}
	fmt.Fprintf(s.out, "\n%s %q is now %s\n", snap.Type, snap.Name, snap.State)
}

func (s *shell) viewLogs(ctx context.Context) {
	events, err := s.app.recorder.ReadRecent(ctx, 20)
	if err != nil {
		fmt.Fprintf(s.out, "\n%v\n", err)
		return
	}
	if len(events) == 0 {
		fmt.Fprintln(s.out, "\nNo events.")
		return
	}
	fmt.Fprintln(s.out)
	for _, event := range events {
		line := fmt.Sprintf("[%s] %s %q %s -> %s",
			event.Timestamp.Format("15:04:05"),
			event.TypeName, event.ResourceName, event.Operation, event.State)
		if event.Detail != "" {
			line += " " + event.Detail
		}
		fmt.Fprintln(s.out, line)
	}
}

func (s *shell) listResources(ctx context.Context) {
	snaps := s.app.manager.List(ctx)
	if len(snaps) == 0 {
		fmt.Fprintln(s.out, "\nNo resources.")
		return
	}
	for _, snap := range snaps {
		fmt.Fprintf(s.out, "\n%s\n", snap.Details)
	}
}

func (s *shell) promptLine(prompt string) (string, bool) {
	fmt.Fprint(s.out, prompt)
	if !s.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(s.in.Text()), true
}

// promptChoice reads a 1-based menu choice, re-prompting until the
// input is a number in range.
func (s *shell) promptChoice(prompt string, max int) (int, bool) {
	for {
		line, ok := s.promptLine(prompt)
		if !ok {
			return 0, false
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 1 || n > max {
			fmt.Fprintf(s.out, "Please enter a number between 1 and %d\n", max)
			continue
		}
		return n, true
	}
}

func (s *shell) promptPick(label string, options []string) (string, bool) {
	fmt.Fprintf(s.out, "\nSelect %s:\n", label)
	for i, opt := range options {
		fmt.Fprintf(s.out, "%d. %s\n", i+1, opt)
	}
	choice, ok := s.promptChoice("Choice: ", len(options))
	if !ok {
		return "", false
	}
	return options[choice-1], true
}
