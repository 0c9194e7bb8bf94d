package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cloudconnect/cloudconnect/pkg/resource"
)

func newCreateCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new resource",
		Long: `Create a new resource of one of the registered types.

The resource name must be unique across all types. New resources begin
in the created state.`,
	}

	cmd.AddCommand(newCreateAppServiceCommand(a))
	cmd.AddCommand(newCreateStorageAccountCommand(a))
	cmd.AddCommand(newCreateCacheDBCommand(a))

	return cmd
}

func newCreateAppServiceCommand(a *app) *cobra.Command {
	var (
		runtime  string
		region   string
		replicas int
	)

	cmd := &cobra.Command{
		Use:   "appservice NAME",
		Short: "Create a web application hosting service",
		Example: `  # Create a Python app with 2 replicas in EastUS
  cloudconnect create appservice web1 --runtime python --region EastUS --replicas 2`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := json.Marshal(map[string]any{
				"runtime":       runtime,
				"region":        region,
				"replica_count": replicas,
			})
			if err != nil {
				return err
			}
			return a.createResource(cmd, resource.TypeAppService, args[0], raw)
		},
	}

	cmd.Flags().StringVar(&runtime, "runtime", "", "application runtime (python, nodejs, dotnet)")
	cmd.Flags().StringVar(&region, "region", "", "deployment region (EastUS, WestEurope, CentralIndia)")
	cmd.Flags().IntVar(&replicas, "replicas", 1, "replica count (1, 2, 3)")

	return cmd
}

func newCreateStorageAccountCommand(a *app) *cobra.Command {
	var (
		encryption bool
		maxSizeGB  int
	)

	cmd := &cobra.Command{
		Use:   "storageaccount NAME",
		Short: "Create a cloud storage service",
		Long: `Create a cloud storage service.

The access key is generated automatically and shown once in the
creation output.`,
		Example: `  # Create an encrypted 500GB storage account
  cloudconnect create storageaccount s1 --encryption --max-size 500`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := json.Marshal(map[string]any{
				"encryption_enabled": encryption,
				"max_size_gb":        maxSizeGB,
			})
			if err != nil {
				return err
			}
			return a.createResource(cmd, resource.TypeStorageAccount, args[0], raw)
		},
	}

	cmd.Flags().BoolVar(&encryption, "encryption", false, "enable at-rest encryption")
	cmd.Flags().IntVar(&maxSizeGB, "max-size", 50, "maximum size in GB (50, 100, 500, 1000)")

	return cmd
}

func newCreateCacheDBCommand(a *app) *cobra.Command {
	var (
		ttlSeconds int
		capacityMB int
		eviction   string
	)

	cmd := &cobra.Command{
		Use:   "cachedb NAME",
		Short: "Create an in-memory caching database",
		Example: `  # Create a 256MB LRU cache with a 5 minute TTL
  cloudconnect create cachedb c1 --ttl 300 --capacity 256 --eviction LRU`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := json.Marshal(map[string]any{
				"ttl_seconds":     ttlSeconds,
				"capacity_mb":     capacityMB,
				"eviction_policy": eviction,
			})
			if err != nil {
				return err
			}
			return a.createResource(cmd, resource.TypeCacheDB, args[0], raw)
		},
	}

	cmd.Flags().IntVar(&ttlSeconds, "ttl", 60, "entry TTL in seconds (60, 300, 600, 3600)")
	cmd.Flags().IntVar(&capacityMB, "capacity", 128, "capacity in MB (128, 256, 512, 1024)")
	cmd.Flags().StringVar(&eviction, "eviction", "LRU", "eviction policy (LRU, FIFO, LFU, RANDOM)")

	return cmd
}

func (a *app) createResource(cmd *cobra.Command, typeName, name string, raw json.RawMessage) error {
	snap, err := a.manager.Create(cmd.Context(), typeName, name, raw)
	if err != nil {
		return err
	}
	if jsonOutput {
		return printJSON(cmd, snap)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s created successfully!\n\n%s\n", typeName, snap.Details)
	return nil
}
