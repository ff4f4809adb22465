package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSummaryCmd(app *App) *cobra.Command {
	var (
		component string
		all       bool
		markdown  bool
	)

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Generate component summary documents",
		Long: `Generate the comprehensive summary document for a component, or for
every known component with --all. Summaries are written to the
summaries directory as dated and _latest JSON and Markdown files.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			switch {
			case all:
				return summarizeAll(app)
			case component != "":
				return summarizeOne(app, component, markdown)
			default:
				return cmd.Help()
			}
		},
	}

	cmd.Flags().StringVarP(&component, "component", "C", "", "Component to summarize")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Summarize all known components")
	cmd.Flags().BoolVar(&markdown, "markdown", false, "Print the Markdown summary to stdout")

	return cmd
}

func summarizeOne(app *App, component string, markdown bool) error {
	summary, err := app.Reports().ComponentReport(component)
	if err != nil {
		return err
	}

	path, err := summary.Save(app.Config.SummariesPath())
	if err != nil {
		return err
	}

	if markdown {
		fmt.Print(summary.Markdown())
	}
	fmt.Printf("Summary saved to %s\n", path)
	return nil
}

func summarizeAll(app *App) error {
	components := app.Registry().Components()
	app.Logger.Info("generating summaries", "components", len(components))

	var failed int
	for _, c := range components {
		summary, err := app.Reports().ComponentReport(c)
		if err != nil {
			app.Logger.Error("summary generation failed", "component", c, "error", err)
			failed++
			continue
		}
		if _, err := summary.Save(app.Config.SummariesPath()); err != nil {
			app.Logger.Error("summary save failed", "component", c, "error", err)
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("summary generation failed for %d of %d components", failed, len(components))
	}
	fmt.Printf("Generated summaries for %d components\n", len(components))
	return nil
}
