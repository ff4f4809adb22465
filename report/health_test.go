package report

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/hms-platform/hmstrack/registry"
	"github.com/hms-platform/hmstrack/status"
)

type fakeSource struct {
	components []string
	metadata   map[string]registry.Metadata
}

func (f *fakeSource) Components() []string {
	return f.components
}

func (f *fakeSource) Metadata(component string) registry.Metadata {
	if meta, ok := f.metadata[component]; ok {
		return meta
	}
	return registry.Metadata{
		Component:    component,
		Description:  "No description available",
		Architecture: registry.Architecture{Pattern: "unknown"},
	}
}

func trackAt(t *testing.T, store *status.Store, now time.Time) *status.Tracker {
	t.Helper()
	return status.NewTracker(store, status.WithClock(func() time.Time { return now }))
}

func TestHealthReport(t *testing.T) {
	store := status.NewStore(t.TempDir())
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	ctx := context.Background()

	recent := trackAt(t, store, now.Add(-time.Hour))
	stale := trackAt(t, store, now.Add(-48*time.Hour))

	// HMS-A: operational, with recent activity.
	if _, err := recent.RecordStart(ctx, "HMS-A", true, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := recent.RecordTest(ctx, "HMS-A", true, &status.TestResults{Passed: 5}); err != nil {
		t.Fatal(err)
	}

	// HMS-B: degraded (running, failing tests), activity outside the window.
	if _, err := stale.RecordStart(ctx, "HMS-B", true, ""); err != nil {
		t.Fatal(err)
	}
	if _, err := stale.RecordTest(ctx, "HMS-B", false, &status.TestResults{Passed: 1, Failed: 3}); err != nil {
		t.Fatal(err)
	}

	// HMS-C: offline, recent failed start.
	if _, err := recent.RecordStart(ctx, "HMS-C", false, "boom"); err != nil {
		t.Fatal(err)
	}

	// HMS-D: never touched.
	source := &fakeSource{components: []string{"HMS-A", "HMS-B", "HMS-C", "HMS-D"}}
	builder := NewBuilder(store, source).WithClock(func() time.Time { return now })

	report, err := builder.HealthReport()
	if err != nil {
		t.Fatalf("HealthReport() error = %v", err)
	}

	if report.TotalComponents != 4 {
		t.Errorf("TotalComponents = %d, want 4", report.TotalComponents)
	}
	if report.Operational != 1 || report.Degraded != 1 || report.Offline != 1 || report.Unknown != 1 {
		t.Errorf("counts = op %d deg %d off %d unk %d, want 1 each",
			report.Operational, report.Degraded, report.Offline, report.Unknown)
	}

	// HMS-B's failing test run and HMS-C's failed start each opened one issue.
	if report.OpenIssues != 2 {
		t.Errorf("OpenIssues = %d, want 2", report.OpenIssues)
	}

	// Recent window is 24h: HMS-A and HMS-C started recently, HMS-A tested.
	if report.RecentStarts != 2 {
		t.Errorf("RecentStarts = %d, want 2", report.RecentStarts)
	}
	if report.RecentTestRuns != 1 {
		t.Errorf("RecentTestRuns = %d, want 1", report.RecentTestRuns)
	}

	// 0.5*(1/4*100) + 0.3*(1/4*50) + 0.2*((2+1)/8*100) = 12.5 + 3.75 + 7.5
	if report.SystemHealthScore != 23.8 {
		t.Errorf("SystemHealthScore = %v, want 23.8", report.SystemHealthScore)
	}

	wantRecs := []string{"offline", "degraded", "tested recently", "open issues"}
	if len(report.Recommendations) != len(wantRecs) {
		t.Fatalf("Recommendations = %v", report.Recommendations)
	}
	for i, fragment := range wantRecs {
		if !strings.Contains(report.Recommendations[i], fragment) {
			t.Errorf("Recommendations[%d] = %q, want mention of %q", i, report.Recommendations[i], fragment)
		}
	}
}

func TestHealthReportEmpty(t *testing.T) {
	builder := NewBuilder(status.NewStore(t.TempDir()), &fakeSource{})

	report, err := builder.HealthReport()
	if err != nil {
		t.Fatalf("HealthReport() error = %v", err)
	}
	if report.SystemHealthScore != 0 {
		t.Errorf("SystemHealthScore = %v, want 0", report.SystemHealthScore)
	}
}

func TestSaveHealthReport(t *testing.T) {
	dir := t.TempDir()
	report := &HealthReport{Timestamp: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}

	path, err := SaveHealthReport(dir, report)
	if err != nil {
		t.Fatalf("SaveHealthReport() error = %v", err)
	}
	if !strings.HasSuffix(path, "health_report_20260301.json") {
		t.Errorf("path = %q", path)
	}
}
