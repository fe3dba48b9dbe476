package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/espalier/internal/cli"
)

// publishCmd represents the publish command
var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish workspace values to the graph store",
	Long: `Writes every package and configuration the workspace declares into the
graph store, so later inspect and resolve runs (or other processes) can
pair nodes against them.`,
	Run: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		path, _ := cmd.Flags().GetString("workspace")
		dsn, _ := cmd.Flags().GetString("store")

		logger := cli.NewLogger(debug, cli.NewRunToken())

		if dsn == "" || dsn == "mem://" {
			fmt.Println("Publishing needs a store that outlives this process; pass --store (redis://, sqlite://, file://)")
			os.Exit(1)
		}

		ws, err := cli.LoadWorkspace(path)
		if err != nil {
			fmt.Printf("Error loading workspace: %v\n", err)
			os.Exit(1)
		}

		store, closer, err := cli.OpenStore(dsn)
		if err != nil {
			fmt.Printf("Error opening store: %v\n", err)
			os.Exit(1)
		}
		defer closer()

		values := ws.Values()
		if err := store.Publish(cmd.Context(), values...); err != nil {
			fmt.Printf("Error publishing: %v\n", err)
			os.Exit(1)
		}
		logger.Debug("published workspace", "values", len(values), "store", dsn)

		fmt.Printf("Published %d packages and %d configurations\n",
			len(ws.Packages), len(ws.Configurations))
	},
}

func init() {
	rootCmd.AddCommand(publishCmd)
}
