package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/hms-platform/hmstrack/registry"
	"github.com/hms-platform/hmstrack/status"
)

// RepositoryInfo carries the analysis-derived facts about a component's
// repository into the summary document.
type RepositoryInfo struct {
	LastCommit        string                `json:"last_commit"`
	Description       string                `json:"description"`
	TechStack         registry.TechStack    `json:"tech_stack"`
	IntegrationPoints []string              `json:"integration_points"`
	Architecture      registry.Architecture `json:"architecture"`
}

// StatusFigures is the status counter snapshot embedded in a summary.
type StatusFigures struct {
	LastStart       *time.Time         `json:"last_start"`
	StartAttempts   int                `json:"start_attempts"`
	StartSuccesses  int                `json:"start_successes"`
	StartFailures   int                `json:"start_failures"`
	LastTestRun     *time.Time         `json:"last_test_run"`
	TestRuns        int                `json:"test_runs"`
	TestPasses      int                `json:"test_passes"`
	TestFailures    int                `json:"test_failures"`
	LastTestResults status.TestResults `json:"last_test_results"`
}

// WorkItem is a self-optimization task derived from a component's state.
type WorkItem struct {
	Type             status.IssueType `json:"type"`
	Priority         string           `json:"priority"`
	Description      string           `json:"description"`
	AssignedTo       string           `json:"assigned_to"`
	SuggestedActions []string         `json:"suggested_actions"`
}

// enhancementItem marks work items that are improvements rather than fixes.
const enhancementItem status.IssueType = "enhancement"

// ComponentReport is the comprehensive per-component summary document.
type ComponentReport struct {
	Component         string                   `json:"component"`
	GeneratedAt       time.Time                `json:"generated_at"`
	OperationalStatus status.OperationalStatus `json:"operational_status"`
	Repository        RepositoryInfo           `json:"repository"`
	Status            StatusFigures            `json:"status"`
	Issues            []status.Issue           `json:"issues"`
	WorkItems         []WorkItem               `json:"work_items"`
}

// ComponentReport builds the comprehensive summary for one component.
func (b *Builder) ComponentReport(component string) (*ComponentReport, error) {
	if err := status.ValidateComponent(component); err != nil {
		return nil, err
	}

	s, err := b.store.Load(component)
	if err != nil {
		return nil, fmt.Errorf("load status for %s: %w", component, err)
	}

	meta := b.reg.Metadata(component)

	report := &ComponentReport{
		Component:         component,
		GeneratedAt:       b.now(),
		OperationalStatus: s.Operational,
		Repository: RepositoryInfo{
			LastCommit:        meta.LastCommit,
			Description:       meta.Description,
			TechStack:         meta.TechStack,
			IntegrationPoints: meta.IntegrationPoints,
			Architecture:      meta.Architecture,
		},
		Status: StatusFigures{
			LastStart:       s.Start.LastSuccess,
			StartAttempts:   s.Start.Attempts,
			StartSuccesses:  s.Start.Successes,
			StartFailures:   s.Start.Failures,
			LastTestRun:     s.Tests.LastRun,
			TestRuns:        s.Tests.TotalRuns,
			TestPasses:      s.Tests.TotalPassed,
			TestFailures:    s.Tests.TotalFailed,
			LastTestResults: s.Tests.LastResults,
		},
		Issues:    activeIssues(s),
		WorkItems: workItems(component, s, meta),
	}

	return report, nil
}

func activeIssues(s *status.ComponentStatus) []status.Issue {
	active := []status.Issue{}
	for _, issue := range s.Issues {
		if issue.Status == status.IssueOpen {
			active = append(active, issue)
		}
	}
	return active
}

// workItems derives self-optimization tasks from the component's state:
// startup failures, failing tests, and missing integration test coverage.
func workItems(component string, s *status.ComponentStatus, meta registry.Metadata) []WorkItem {
	items := []WorkItem{}

	if s.Start.Status == status.StartFailed {
		items = append(items, WorkItem{
			Type:        status.IssueStartFailure,
			Priority:    "high",
			Description: fmt.Sprintf("Fix %s startup failure", component),
			AssignedTo:  "HMS-DEV",
			SuggestedActions: []string{
				fmt.Sprintf("Check %s logs for error messages", component),
				fmt.Sprintf("Verify all dependencies for %s are available", component),
				"Check environment variables and configuration",
			},
		})
	}

	if s.Tests.Status == status.TestsFailing {
		items = append(items, WorkItem{
			Type:        status.IssueTestFailure,
			Priority:    "medium",
			Description: fmt.Sprintf("Fix failing tests for %s", component),
			AssignedTo:  strings.Replace(component, "HMS-", "HMS-AGT-", 1),
			SuggestedActions: []string{
				"Review failing tests",
				"Check for recent code changes",
				"Verify test environment",
			},
		})
	}

	if len(meta.IntegrationPoints) > 0 && s.Tests.TotalRuns > 0 {
		items = append(items, WorkItem{
			Type:        enhancementItem,
			Priority:    "low",
			Description: fmt.Sprintf("Add integration tests for %s with %s", component, strings.Join(meta.IntegrationPoints, ", ")),
			AssignedTo:  strings.Replace(component, "HMS-", "HMS-AGT-", 1),
			SuggestedActions: []string{
				fmt.Sprintf("Develop integration tests for %s with its integration points", component),
				"Set up test fixtures for integration testing",
				"Add CI configuration for integration tests",
			},
		})
	}

	return items
}

// Save writes the report to dir as both a dated file and a _latest file,
// in JSON and Markdown. It returns the dated JSON path.
func (r *ComponentReport) Save(dir string) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("create summaries directory: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal summary: %w", err)
	}

	dateStr := r.GeneratedAt.Format("20060102")
	jsonPath := filepath.Join(dir, fmt.Sprintf("%s_summary_%s.json", r.Component, dateStr))
	if err := os.WriteFile(jsonPath, data, 0644); err != nil {
		return "", fmt.Errorf("write summary: %w", err)
	}
	latestJSON := filepath.Join(dir, fmt.Sprintf("%s_summary_latest.json", r.Component))
	if err := os.WriteFile(latestJSON, data, 0644); err != nil {
		return "", fmt.Errorf("write latest summary: %w", err)
	}

	md := []byte(r.Markdown())
	mdPath := filepath.Join(dir, fmt.Sprintf("%s_summary_%s.md", r.Component, dateStr))
	if err := os.WriteFile(mdPath, md, 0644); err != nil {
		return "", fmt.Errorf("write markdown summary: %w", err)
	}
	latestMD := filepath.Join(dir, fmt.Sprintf("%s_summary_latest.md", r.Component))
	if err := os.WriteFile(latestMD, md, 0644); err != nil {
		return "", fmt.Errorf("write latest markdown summary: %w", err)
	}

	return jsonPath, nil
}
