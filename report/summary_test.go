package report

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/hms-platform/hmstrack/registry"
	"github.com/hms-platform/hmstrack/status"
)

func TestComponentReportWorkItems(t *testing.T) {
	store := status.NewStore(t.TempDir())
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	tracker := trackAt(t, store, now)
	if _, err := tracker.RecordStart(ctx, "HMS-API", false, "port in use"); err != nil {
		t.Fatal(err)
	}
	if _, err := tracker.RecordTest(ctx, "HMS-API", false, &status.TestResults{Passed: 1, Failed: 4}); err != nil {
		t.Fatal(err)
	}

	source := &fakeSource{
		components: []string{"HMS-API"},
		metadata: map[string]registry.Metadata{
			"HMS-API": {
				Component:         "HMS-API",
				Description:       "Core API gateway",
				IntegrationPoints: []string{"HMS-SVC", "HMS-DTA"},
				Architecture:      registry.Architecture{Pattern: "hexagonal"},
			},
		},
	}

	builder := NewBuilder(store, source).WithClock(func() time.Time { return now })
	report, err := builder.ComponentReport("HMS-API")
	if err != nil {
		t.Fatalf("ComponentReport() error = %v", err)
	}

	if report.OperationalStatus != status.OperationalOffline {
		t.Errorf("OperationalStatus = %q", report.OperationalStatus)
	}
	if len(report.Issues) != 2 {
		t.Errorf("Issues = %d, want 2 open", len(report.Issues))
	}

	// Failed start, failing tests, and covered integration points each
	// produce one work item.
	if len(report.WorkItems) != 3 {
		t.Fatalf("WorkItems = %d, want 3", len(report.WorkItems))
	}

	startItem := report.WorkItems[0]
	if startItem.Type != status.IssueStartFailure || startItem.Priority != "high" || startItem.AssignedTo != "HMS-DEV" {
		t.Errorf("start work item = %+v", startItem)
	}

	testItem := report.WorkItems[1]
	if testItem.Type != status.IssueTestFailure || testItem.Priority != "medium" || testItem.AssignedTo != "HMS-AGT-API" {
		t.Errorf("test work item = %+v", testItem)
	}

	enhancement := report.WorkItems[2]
	if enhancement.Type != "enhancement" || enhancement.Priority != "low" {
		t.Errorf("enhancement work item = %+v", enhancement)
	}
	if !strings.Contains(enhancement.Description, "HMS-SVC, HMS-DTA") {
		t.Errorf("enhancement description = %q", enhancement.Description)
	}
}

func TestComponentReportFreshComponent(t *testing.T) {
	store := status.NewStore(t.TempDir())
	source := &fakeSource{components: []string{"HMS-NEW"}}

	report, err := NewBuilder(store, source).ComponentReport("HMS-NEW")
	if err != nil {
		t.Fatalf("ComponentReport() error = %v", err)
	}

	if report.OperationalStatus != status.OperationalUnknown {
		t.Errorf("OperationalStatus = %q", report.OperationalStatus)
	}
	if len(report.WorkItems) != 0 {
		t.Errorf("WorkItems = %v, want none", report.WorkItems)
	}
	// Untested components get no integration-test enhancement item.
	if len(report.Issues) != 0 {
		t.Errorf("Issues = %v", report.Issues)
	}
}

func TestComponentReportInvalidComponent(t *testing.T) {
	builder := NewBuilder(status.NewStore(t.TempDir()), &fakeSource{})
	if _, err := builder.ComponentReport("../escape"); err == nil {
		t.Error("ComponentReport with invalid component: want error")
	}
}

func TestMarkdownRendering(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	report := &ComponentReport{
		Component:         "HMS-API",
		GeneratedAt:       now,
		OperationalStatus: status.OperationalDegraded,
		Repository: RepositoryInfo{
			Description: "Core API gateway",
			LastCommit:  "abc1234",
			TechStack:   registry.TechStack{Languages: []string{"Go"}},
			Architecture: registry.Architecture{
				Pattern: "hexagonal",
				KeyDirs: []string{"internal/api"},
			},
		},
		Status: StatusFigures{
			StartAttempts:  4,
			StartSuccesses: 3,
			TestRuns:       2,
			TestPasses:     1,
		},
		Issues: []status.Issue{
			{
				Type:      status.IssueTestFailure,
				Timestamp: now,
				Status:    status.IssueOpen,
				Details:   status.IssueDetails{Results: &status.TestResults{Failed: 4}},
			},
		},
		WorkItems: []WorkItem{
			{
				Type:             status.IssueTestFailure,
				Priority:         "medium",
				Description:      "Fix failing tests for HMS-API",
				AssignedTo:       "HMS-AGT-API",
				SuggestedActions: []string{"Review failing tests"},
			},
		},
	}

	md := report.Markdown()

	for _, want := range []string{
		"# HMS-API Component Summary",
		"⚠️ Degraded",
		"**Start Success Rate:** 3/4 (75.0%)",
		"**Test Success Rate:** 1/2 (50.0%)",
		"**Last Successful Start:** Never",
		"**Latest Commit:** abc1234",
		"- **Languages:** Go",
		"- **Frameworks:** None",
		"No integration points defined.",
		"## Active Issues",
		"### Issue 1: test_failure",
		"## Work Items for Self-Optimization",
		"- **Assigned To:** HMS-AGT-API",
		"  - Review failing tests",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("Markdown missing %q", want)
		}
	}
}

func TestComponentReportSave(t *testing.T) {
	dir := t.TempDir()
	report := &ComponentReport{
		Component:         "HMS-API",
		GeneratedAt:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		OperationalStatus: status.OperationalUnknown,
	}

	path, err := report.Save(dir)
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if !strings.HasSuffix(path, "HMS-API_summary_20260301.json") {
		t.Errorf("path = %q", path)
	}

	// Dated and latest copies in both formats.
	for _, name := range []string{
		"HMS-API_summary_20260301.json",
		"HMS-API_summary_latest.json",
		"HMS-API_summary_20260301.md",
		"HMS-API_summary_latest.md",
	} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}

	// The JSON copy round-trips.
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var loaded ComponentReport
	if err := json.Unmarshal(data, &loaded); err != nil {
		t.Fatalf("saved summary is not valid JSON: %v", err)
	}
	if loaded.Component != "HMS-API" {
		t.Errorf("Component = %q", loaded.Component)
	}
}
