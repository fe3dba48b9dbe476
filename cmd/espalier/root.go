package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/espalier/internal/cli"
	"github.com/aretw0/espalier/internal/workspace"
	"github.com/aretw0/espalier/pkg/ports"
)

var rootCmd = &cobra.Command{
	Use:   "espalier",
	Short: "Espalier pairs build graph nodes with their declarations",
	Long: `Espalier reads a workspace of packages, configurations and nodes,
resolves every node against a graph value store and reports whether each
pairing is complete, still waiting on values, or broken.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("workspace", workspace.DefaultFile, "Workspace file describing packages, configurations and nodes")
	rootCmd.PersistentFlags().String("store", "", "Graph store DSN (mem://, redis://, sqlite://, file://)")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging to stderr")
}

// openEnvironment loads the workspace and opens the configured store.
// In-process stores start empty on every run, so those are seeded from the
// workspace; external stores keep whatever an earlier publish put there.
func openEnvironment(cmd *cobra.Command, logger *slog.Logger) (*workspace.Workspace, ports.Store, func() error, error) {
	path, _ := cmd.Flags().GetString("workspace")
	dsn, _ := cmd.Flags().GetString("store")

	ws, err := cli.LoadWorkspace(path)
	if err != nil {
		return nil, nil, nil, err
	}

	store, closer, err := cli.OpenStore(dsn)
	if err != nil {
		return nil, nil, nil, err
	}

	if dsn == "" || dsn == "mem://" {
		values := ws.Values()
		if err := store.Publish(cmd.Context(), values...); err != nil {
			_ = closer()
			return nil, nil, nil, err
		}
		logger.Debug("seeded in-memory store", "values", len(values))
	}

	return ws, store, closer, nil
}
