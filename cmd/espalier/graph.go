package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/espalier/internal/cli"
	"github.com/aretw0/espalier/internal/presentation/graph"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph",
	Short: "Export the workspace dependency visualization",
	Long: `Reads the workspace and outputs a Mermaid diagram (graph TD) showing each
node, the package it resolves its declaration from, and the configuration
it is pinned to.`,
	Run: func(cmd *cobra.Command, args []string) {
		path, _ := cmd.Flags().GetString("workspace")
		if !cmd.Flags().Changed("workspace") && len(args) > 0 {
			path = args[0]
		}

		ws, err := cli.LoadWorkspace(path)
		if err != nil {
			fmt.Printf("Error loading workspace: %v\n", err)
			os.Exit(1)
		}

		// Generate and print Mermaid graph
		output := graph.GenerateMermaid(ws.Nodes)
		fmt.Print(output)
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
}
