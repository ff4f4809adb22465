package report

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/hms-platform/hmstrack/status"
)

const timestampLayout = "2006-01-02 15:04:05"

// Markdown renders the report as a human-readable summary document.
func (r *ComponentReport) Markdown() string {
	var md strings.Builder

	fmt.Fprintf(&md, "# %s Component Summary\n\n", r.Component)
	fmt.Fprintf(&md, "*Generated at: %s*\n\n", r.GeneratedAt.Format(timestampLayout))

	md.WriteString("## Status Overview\n\n")
	fmt.Fprintf(&md, "**Current Status:** %s %s\n\n", statusIcon(r.OperationalStatus), capitalize(string(r.OperationalStatus)))

	md.WriteString("### Runtime Status\n")
	fmt.Fprintf(&md, "- **Last Successful Start:** %s\n", formatTimestamp(r.Status.LastStart))
	fmt.Fprintf(&md, "- **Start Success Rate:** %d/%d (%.1f%%)\n\n",
		r.Status.StartSuccesses, r.Status.StartAttempts,
		percentage(r.Status.StartSuccesses, r.Status.StartAttempts))

	md.WriteString("### Test Status\n")
	fmt.Fprintf(&md, "- **Last Test Run:** %s\n", formatTimestamp(r.Status.LastTestRun))
	fmt.Fprintf(&md, "- **Test Success Rate:** %d/%d (%.1f%%)\n\n",
		r.Status.TestPasses, r.Status.TestRuns,
		percentage(r.Status.TestPasses, r.Status.TestRuns))

	md.WriteString("## Component Information\n\n")
	fmt.Fprintf(&md, "**Description:** \n%s\n\n", r.Repository.Description)
	fmt.Fprintf(&md, "**Latest Commit:** %s\n\n", orDefault(r.Repository.LastCommit, "Unknown"))

	md.WriteString("### Technology Stack\n")
	fmt.Fprintf(&md, "- **Languages:** %s\n", joinOr(r.Repository.TechStack.Languages, "Unknown"))
	fmt.Fprintf(&md, "- **Frameworks:** %s\n", joinOr(r.Repository.TechStack.Frameworks, "None"))
	fmt.Fprintf(&md, "- **Databases:** %s\n", joinOr(r.Repository.TechStack.Databases, "None"))
	fmt.Fprintf(&md, "- **Key Libraries:** %s\n\n", joinOr(r.Repository.TechStack.KeyLibraries, "None"))

	md.WriteString("### Architecture\n")
	fmt.Fprintf(&md, "- **Pattern:** %s\n", r.Repository.Architecture.Pattern)
	fmt.Fprintf(&md, "- **Key Directories:** %s\n\n", joinOr(r.Repository.Architecture.KeyDirs, "Unknown"))

	md.WriteString("### Integration Points\n")
	if len(r.Repository.IntegrationPoints) == 0 {
		md.WriteString("No integration points defined.\n")
	} else {
		for _, point := range r.Repository.IntegrationPoints {
			fmt.Fprintf(&md, "- %s\n", point)
		}
	}
	md.WriteString("\n")

	if len(r.Issues) > 0 {
		md.WriteString("## Active Issues\n\n")
		for i, issue := range r.Issues {
			fmt.Fprintf(&md, "### Issue %d: %s\n", i+1, issue.Type)
			fmt.Fprintf(&md, "- **Opened:** %s\n", issue.Timestamp.Format(timestampLayout))
			fmt.Fprintf(&md, "- **Status:** %s\n", issue.Status)
			md.WriteString("- **Details:**\n")
			if issue.Details.Output != "" {
				fmt.Fprintf(&md, "  - **output:** %s\n", issue.Details.Output)
			}
			if issue.Details.Results != nil {
				if data, err := json.Marshal(issue.Details.Results); err == nil {
					fmt.Fprintf(&md, "  - **results:** %s\n", data)
				}
			}
			md.WriteString("\n")
		}
	}

	if len(r.WorkItems) > 0 {
		md.WriteString("## Work Items for Self-Optimization\n\n")
		for i, item := range r.WorkItems {
			fmt.Fprintf(&md, "### Work Item %d: %s\n", i+1, item.Description)
			fmt.Fprintf(&md, "- **Type:** %s\n", item.Type)
			fmt.Fprintf(&md, "- **Priority:** %s\n", item.Priority)
			fmt.Fprintf(&md, "- **Assigned To:** %s\n", item.AssignedTo)
			if len(item.SuggestedActions) > 0 {
				md.WriteString("- **Suggested Actions:**\n")
				for _, action := range item.SuggestedActions {
					fmt.Fprintf(&md, "  - %s\n", action)
				}
			}
			md.WriteString("\n")
		}
	}

	return md.String()
}

func statusIcon(s status.OperationalStatus) string {
	switch s {
	case status.OperationalOK:
		return "✅"
	case status.OperationalDegraded:
		return "⚠️"
	case status.OperationalOffline:
		return "❌"
	default:
		return "❓"
	}
}

func formatTimestamp(t *time.Time) string {
	if t == nil {
		return "Never"
	}
	return t.Format(timestampLayout)
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*1000) / 10
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}
