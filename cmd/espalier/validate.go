package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aretw0/espalier/internal/cli"
	"github.com/aretw0/espalier/internal/validator"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the workspace for consistency",
	Long: `Cross-checks every workspace node against the declared packages and
configurations, and every option fragment against its schema. The graph
store is not consulted; this lints the document itself.`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := runValidate(cmd); err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Workspace is valid! ✅")
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command) error {
	path, _ := cmd.Flags().GetString("workspace")

	ws, err := cli.LoadWorkspace(path)
	if err != nil {
		return err
	}

	issues := validator.Validate(ws)
	if len(issues) == 0 {
		return nil
	}

	lines := make([]string, len(issues))
	for i, issue := range issues {
		lines[i] = issue.String()
	}
	return fmt.Errorf("found %d issues:\n- %s", len(issues), strings.Join(lines, "\n- "))
}
