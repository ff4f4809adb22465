package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hms-platform/hmstrack/status"
)

// TableStyles contains the shared styles for terminal status output.
type TableStyles struct {
	Header      lipgloss.Style
	Operational lipgloss.Style
	Degraded    lipgloss.Style
	Offline     lipgloss.Style
	Unknown     lipgloss.Style
	Muted       lipgloss.Style
}

// DefaultTableStyles returns the standard status table style set.
func DefaultTableStyles() *TableStyles {
	return &TableStyles{
		Header:      lipgloss.NewStyle().Bold(true),
		Operational: lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Degraded:    lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Offline:     lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Unknown:     lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		Muted:       lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

func (ts *TableStyles) statusStyle(s status.OperationalStatus) lipgloss.Style {
	switch s {
	case status.OperationalOK:
		return ts.Operational
	case status.OperationalDegraded:
		return ts.Degraded
	case status.OperationalOffline:
		return ts.Offline
	default:
		return ts.Unknown
	}
}

// padRight pads to a visual width, which keeps styled cells aligned.
func padRight(s string, width int) string {
	vw := lipgloss.Width(s)
	if vw >= width {
		return s
	}
	return s + strings.Repeat(" ", width-vw)
}

// StatusTable renders a per-component status table for the terminal.
// Rows are sorted by component name.
func StatusTable(summaries map[string]status.Summary, styles *TableStyles) string {
	if styles == nil {
		styles = DefaultTableStyles()
	}

	components := make([]string, 0, len(summaries))
	nameWidth := len("COMPONENT")
	for component := range summaries {
		components = append(components, component)
		if len(component) > nameWidth {
			nameWidth = len(component)
		}
	}
	sort.Strings(components)

	const statusWidth = 12

	var b strings.Builder
	header := padRight("COMPONENT", nameWidth) + "  " +
		padRight("STATUS", statusWidth) + "  " +
		padRight("START RATE", 11) + "  " +
		padRight("TEST RATE", 10) + "  OPEN ISSUES"
	b.WriteString(styles.Header.Render(header))
	b.WriteString("\n")

	for _, component := range components {
		s := summaries[component]
		style := styles.statusStyle(s.Operational)

		b.WriteString(padRight(component, nameWidth))
		b.WriteString("  ")
		b.WriteString(padRight(style.Render(string(s.Operational)), statusWidth))
		b.WriteString("  ")
		b.WriteString(padRight(rate(s.StartSuccessRate, s.LastStartAttempt != nil), 11))
		b.WriteString("  ")
		b.WriteString(padRight(rate(s.TestSuccessRate, s.LastTestRun != nil), 10))
		b.WriteString("  ")
		if s.OpenIssues > 0 {
			b.WriteString(styles.Offline.Render(fmt.Sprintf("%d", s.OpenIssues)))
		} else {
			b.WriteString(styles.Muted.Render("0"))
		}
		b.WriteString("\n")
	}

	return b.String()
}

func rate(pct float64, everRan bool) string {
	if !everRan {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", pct)
}
