package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/hms-platform/hmstrack/report"
)

func newHealthCmd(app *App) *cobra.Command {
	var save bool

	cmd := &cobra.Command{
		Use:   "health",
		Short: "Generate a system health report",
		RunE: func(cmd *cobra.Command, args []string) error {
			healthReport, err := app.Reports().HealthReport()
			if err != nil {
				return err
			}

			fmt.Println(renderHealthReport(healthReport))

			if save {
				path, err := report.SaveHealthReport(app.Config.LogsPath(), healthReport)
				if err != nil {
					return err
				}
				fmt.Printf("Health report saved to %s\n", path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&save, "save", false, "Save the report to the logs directory")

	return cmd
}

func renderHealthReport(r *report.HealthReport) string {
	styles := report.DefaultTableStyles()

	var b strings.Builder
	b.WriteString(styles.Header.Render("HMS System Health Report"))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "Report generated: %s\n", r.Timestamp.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Total components: %d\n\n", r.TotalComponents)

	fmt.Fprintf(&b, "Operational: %d components\n", r.Operational)
	fmt.Fprintf(&b, "Degraded: %d components\n", r.Degraded)
	fmt.Fprintf(&b, "Offline: %d components\n", r.Offline)
	fmt.Fprintf(&b, "Unknown: %d components\n\n", r.Unknown)

	fmt.Fprintf(&b, "Components started in last 24h: %d\n", r.RecentStarts)
	fmt.Fprintf(&b, "Components tested in last 24h: %d\n", r.RecentTestRuns)
	fmt.Fprintf(&b, "Open issues: %d\n\n", r.OpenIssues)

	fmt.Fprintf(&b, "System Health Score: %s\n\n", scoreStyle(styles, r.SystemHealthScore).
		Render(fmt.Sprintf("%.1f/100", r.SystemHealthScore)))

	if len(r.Recommendations) > 0 {
		b.WriteString("Recommendations:\n")
		for i, rec := range r.Recommendations {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, rec)
		}
	} else {
		b.WriteString("No recommendations at this time.\n")
	}

	return b.String()
}

func scoreStyle(styles *report.TableStyles, score float64) lipgloss.Style {
	switch {
	case score >= 80:
		return styles.Operational
	case score >= 50:
		return styles.Degraded
	default:
		return styles.Offline
	}
}
