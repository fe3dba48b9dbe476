package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/espalier/internal/cli"
	"github.com/aretw0/espalier/internal/inspect"
	"github.com/aretw0/espalier/internal/presentation"
	"github.com/aretw0/espalier/pkg/driver"
)

// inspectCmd represents the inspect command
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Resolve every workspace node and report its pairing",
	Long: `Resolves each node listed in the workspace against the graph store and
prints one row per node: resolved, not-ready (graph values still missing)
or failed (broken graph state).

With --wait, not-ready nodes are retried until they settle or the wait
window closes, for stores another process is still publishing to.`,
	Run: func(cmd *cobra.Command, args []string) {
		debug, _ := cmd.Flags().GetBool("debug")
		format, _ := cmd.Flags().GetString("format")
		wait, _ := cmd.Flags().GetDuration("wait")

		logger := cli.NewLogger(debug, cli.NewRunToken())

		ws, store, closer, err := openEnvironment(cmd, logger)
		if err != nil {
			fmt.Printf("Error opening workspace: %v\n", err)
			os.Exit(1)
		}
		defer closer()

		var reports []inspect.Report
		var sum inspect.Summary

		if wait > 0 {
			ctx, cancel := context.WithTimeout(cmd.Context(), wait)
			defer cancel()

			d := driver.New(store,
				driver.WithLogger(logger),
				driver.WithMaxRounds(int(wait/driver.DefaultInterval)+1),
			)
			outcomes, err := d.Run(ctx, ws.Nodes)
			if err != nil && !errors.Is(err, context.DeadlineExceeded) {
				fmt.Printf("Error waiting for resolution: %v\n", err)
				os.Exit(1)
			}
			reports = make([]inspect.Report, len(outcomes))
			for i, o := range outcomes {
				reports[i] = inspect.FromOutcome(o)
			}
			sum = inspect.Summarize(reports)
		} else {
			svc := inspect.New(store, inspect.WithLogger(logger))
			reports, sum = svc.All(cmd.Context(), ws.Nodes)
		}

		if format == "json" {
			out := struct {
				Reports []inspect.Report `json:"reports"`
				Summary inspect.Summary  `json:"summary"`
			}{reports, sum}
			data, err := json.MarshalIndent(out, "", "  ")
			if err != nil {
				fmt.Printf("Error encoding report: %v\n", err)
				os.Exit(1)
			}
			fmt.Println(string(data))
			return
		}

		renderer := presentation.NewRenderer(cli.OutputProfile())
		fmt.Print(renderer.ReportTable(reports))
		fmt.Println(renderer.Summary(sum))
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().String("format", "table", "Output format: table or json")
	inspectCmd.Flags().Duration("wait", 0, "Retry not-ready nodes for up to this long (e.g. 30s)")
}
