package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hms-platform/hmstrack/report"
	"github.com/hms-platform/hmstrack/simulate"
)

func newBatchCmd(app *App) *cobra.Command {
	var (
		noSimulate bool
		noSummary  bool
		component  string
		listOnly   bool
		withReport bool
		seed       int64
	)

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Process all components",
		Long: `Process every known component: simulate a start and test run, then
regenerate its summary documents. Use --no-simulate or --no-summary to
skip a phase, or --component to process a single component.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			components := app.Registry().Components()

			if listOnly {
				for _, c := range components {
					fmt.Println(c)
				}
				return nil
			}

			if component != "" {
				if !contains(components, component) {
					return fmt.Errorf("component not found: %s", component)
				}
				components = []string{component}
			}

			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			src := simulate.NewRandomSource(app.simulateRates(), seed)

			for i, c := range components {
				app.Logger.Info("processing component",
					"component", c,
					"progress", fmt.Sprintf("%d/%d", i+1, len(components)))

				if !noSimulate {
					if err := simulateComponent(cmd.Context(), app, src, c); err != nil {
						return fmt.Errorf("simulate %s: %w", c, err)
					}
				}

				if !noSummary {
					summary, err := app.Reports().ComponentReport(c)
					if err != nil {
						app.Logger.Error("summary generation failed", "component", c, "error", err)
						continue
					}
					path, err := summary.Save(app.Config.SummariesPath())
					if err != nil {
						app.Logger.Error("summary save failed", "component", c, "error", err)
						continue
					}
					app.Logger.Debug("summary saved", "component", c, "path", path)
				}
			}

			if withReport {
				healthReport, err := app.Reports().HealthReport()
				if err != nil {
					return fmt.Errorf("generate health report: %w", err)
				}
				path, err := report.SaveHealthReport(app.Config.LogsPath(), healthReport)
				if err != nil {
					return err
				}
				fmt.Println(renderHealthReport(healthReport))
				fmt.Printf("Health report saved to %s\n", path)
			}

			app.Logger.Info("processing complete", "components", len(components))
			return nil
		},
	}

	cmd.Flags().BoolVar(&noSimulate, "no-simulate", false, "Skip start/test simulation")
	cmd.Flags().BoolVar(&noSummary, "no-summary", false, "Skip summary generation")
	cmd.Flags().StringVarP(&component, "component", "C", "", "Process a single component")
	cmd.Flags().BoolVarP(&listOnly, "list", "l", false, "List components and exit")
	cmd.Flags().BoolVarP(&withReport, "report", "r", false, "Generate a health report afterwards")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 uses the current time)")

	return cmd
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
