package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hms-platform/hmstrack/status"
)

// outcomeFlags resolves the mutually exclusive --success/--fail pair.
func outcomeFlags(success, fail bool) (bool, error) {
	if success == fail {
		return false, fmt.Errorf("exactly one of --success or --fail is required")
	}
	return success, nil
}

func newStartCmd(app *App) *cobra.Command {
	var (
		success bool
		fail    bool
		output  string
	)

	cmd := &cobra.Command{
		Use:   "start <component>",
		Short: "Record a component start attempt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := outcomeFlags(success, fail)
			if err != nil {
				return err
			}

			s, err := app.Tracker().RecordStart(cmd.Context(), args[0], ok, output)
			if err != nil {
				return err
			}
			return printStatus(s)
		},
	}

	cmd.Flags().BoolVar(&success, "success", false, "Mark as successful start")
	cmd.Flags().BoolVar(&fail, "fail", false, "Mark as failed start")
	cmd.Flags().StringVar(&output, "output", "", "Output from the start attempt")

	return cmd
}

func newTestCmd(app *App) *cobra.Command {
	var (
		success     bool
		fail        bool
		resultsJSON string
	)

	cmd := &cobra.Command{
		Use:   "test <component>",
		Short: "Record a component test run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ok, err := outcomeFlags(success, fail)
			if err != nil {
				return err
			}

			var results *status.TestResults
			if resultsJSON != "" {
				results = &status.TestResults{}
				if err := json.Unmarshal([]byte(resultsJSON), results); err != nil {
					return fmt.Errorf("invalid --results JSON: %w", err)
				}
			}

			s, err := app.Tracker().RecordTest(cmd.Context(), args[0], ok, results)
			if err != nil {
				return err
			}
			return printStatus(s)
		},
	}

	cmd.Flags().BoolVar(&success, "success", false, "Mark as successful test run")
	cmd.Flags().BoolVar(&fail, "fail", false, "Mark as failed test run")
	cmd.Flags().StringVar(&resultsJSON, "results", "", "JSON string with test results")

	return cmd
}

func printStatus(s *status.ComponentStatus) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}
