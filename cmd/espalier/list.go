package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/espalier/internal/cli"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the nodes the workspace declares",
	Run: func(cmd *cobra.Command, args []string) {
		path, _ := cmd.Flags().GetString("workspace")

		ws, err := cli.LoadWorkspace(path)
		if err != nil {
			fmt.Printf("Error loading workspace: %v\n", err)
			os.Exit(1)
		}

		if len(ws.Nodes) == 0 {
			fmt.Println("No nodes declared.")
			return
		}

		fmt.Println("Workspace nodes:")
		for _, node := range ws.Nodes {
			fmt.Printf("- %s\n", node)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
