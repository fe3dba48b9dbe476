package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/espalier/internal/cli"
	"github.com/aretw0/espalier/internal/inspect"
	"github.com/aretw0/espalier/internal/presentation"
	"github.com/aretw0/espalier/pkg/domain"
	"github.com/aretw0/espalier/pkg/label"
)

// resolveCmd represents the resolve command
var resolveCmd = &cobra.Command{
	Use:   "resolve <label>",
	Short: "Resolve one node and print its pairing",
	Long: `Resolves a single node against the graph store. The label is looked up in
the workspace to pick up its configuration key; labels the workspace does
not list are resolved without a configuration.

Exits non-zero when the resolution fails (broken graph state).`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		format, _ := cmd.Flags().GetString("format")

		logger := cli.NewLogger(debug, cli.NewRunToken())

		l, err := label.Parse(args[0])
		if err != nil {
			fmt.Printf("Invalid label %q: %v\n", args[0], err)
			os.Exit(1)
		}

		ws, store, closer, err := openEnvironment(cmd, logger)
		if err != nil {
			fmt.Printf("Error opening workspace: %v\n", err)
			os.Exit(1)
		}
		defer closer()

		node, ok := ws.Node(l)
		if !ok {
			node = domain.NewHandle(l)
		}

		svc := inspect.New(store, inspect.WithLogger(logger))
		report := svc.Node(cmd.Context(), node)

		if format == "json" {
			data, err := json.MarshalIndent(report, "", "  ")
			if err != nil {
				fmt.Printf("Error encoding report: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(data))
		} else {
			renderer := presentation.NewRenderer(cli.OutputProfile())
			fmt.Print(renderer.ReportTable([]inspect.Report{report}))
		}

		if report.Status == inspect.StatusFailed {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)

	resolveCmd.Flags().String("format", "table", "Output format: table or json")
}
