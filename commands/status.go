package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hms-platform/hmstrack/report"
	"github.com/hms-platform/hmstrack/status"
)

func newStatusCmd(app *App) *cobra.Command {
	var (
		component string
		pattern   string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show component status",
		Long: `Show the tracked status of components.

With --component, prints the full status record for one component as
JSON. Otherwise prints a status table for all known components,
optionally narrowed by a --filter glob pattern.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if component != "" {
				return showComponentStatus(app, component)
			}
			return showStatusTable(app, pattern, asJSON)
		},
	}

	cmd.Flags().StringVarP(&component, "component", "C", "", "Show full status for one component")
	cmd.Flags().StringVar(&pattern, "filter", "", "Glob pattern to filter components (e.g. 'HMS-A*')")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print summaries as JSON instead of a table")

	return cmd
}

func showComponentStatus(app *App, component string) error {
	s, err := app.Store().Load(component)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(s)
}

func showStatusTable(app *App, pattern string, asJSON bool) error {
	components := app.Registry().Components()
	if pattern != "" {
		var err error
		components, err = app.Registry().Filter(pattern)
		if err != nil {
			return fmt.Errorf("invalid filter pattern: %w", err)
		}
	}

	summaries := make(map[string]status.Summary, len(components))
	for _, c := range components {
		s, err := app.Store().Load(c)
		if err != nil {
			return fmt.Errorf("load status for %s: %w", c, err)
		}
		summaries[c] = status.Summarize(s)
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(summaries)
	}

	fmt.Print(report.StatusTable(summaries, nil))
	return nil
}
