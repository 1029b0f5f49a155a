package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/callrelay/internal/scenario"
)

var scenarioFormat string

func init() {
	rootCmd.AddCommand(scenarioCmd)
	scenarioCmd.AddCommand(scenarioRunCmd)
	scenarioRunCmd.Flags().StringVarP(&scenarioFormat, "format", "f", "text", "Output format (text|json)")
}

var scenarioCmd = &cobra.Command{
	Use:   "scenario",
	Short: "Scripted relay scenarios",
}

var scenarioRunCmd = &cobra.Command{
	Use:   "run <file> [file...]",
	Short: "Run scenario files against a throwaway in-memory node",
	Long: `Each scenario file declares a genesis and a list of steps (grants,
policy changes, schema edits, calls) with the expected outcome per
step. Runs never touch the data directory; state is shared between the
steps of one file and discarded afterwards.

Exits 1 if any step's outcome differs from its expectation.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScenario,
}

func runScenario(cmd *cobra.Command, args []string) error {
	var results []*scenario.RunResult
	failed := false
	for _, path := range args {
		result, err := scenario.LoadAndRun(path)
		if err != nil {
			return err
		}
		if result.Failed > 0 {
			failed = true
		}
		results = append(results, result)
	}

	switch scenarioFormat {
	case "json":
		out, err := scenario.FormatJSON(results)
		if err != nil {
			return err
		}
		fmt.Println(out)
	default:
		fmt.Print(scenario.FormatText(results))
	}

	if failed {
		os.Exit(1)
	}
	return nil
}
