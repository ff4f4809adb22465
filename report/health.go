// Package report generates system health reports and per-component
// summary documents from tracked status data.
package report

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/hms-platform/hmstrack/registry"
	"github.com/hms-platform/hmstrack/status"
)

// ComponentHealth is a component's line item in the health report.
type ComponentHealth struct {
	Status     status.OperationalStatus `json:"status"`
	LastStart  *time.Time               `json:"last_start"`
	LastTest   *time.Time               `json:"last_test"`
	OpenIssues int                      `json:"open_issues"`
}

// HealthReport summarizes the whole ecosystem's state.
type HealthReport struct {
	Timestamp         time.Time                  `json:"timestamp"`
	TotalComponents   int                        `json:"total_components"`
	Operational       int                        `json:"operational"`
	Degraded          int                        `json:"degraded"`
	Offline           int                        `json:"offline"`
	Unknown           int                        `json:"unknown"`
	ComponentStatus   map[string]ComponentHealth `json:"component_status"`
	OpenIssues        int                        `json:"open_issues"`
	RecentStarts      int                        `json:"recent_starts"`
	RecentTestRuns    int                        `json:"recent_test_runs"`
	SystemHealthScore float64                    `json:"system_health_score"`
	Recommendations   []string                   `json:"recommendations"`
}

// recentWindow bounds what counts as recent activity in the report.
const recentWindow = 24 * time.Hour

// ComponentSource supplies the component set and per-component metadata.
// Implemented by registry.Registry.
type ComponentSource interface {
	Components() []string
	Metadata(component string) registry.Metadata
}

// Builder assembles reports from the status store and component registry.
type Builder struct {
	store *status.Store
	reg   ComponentSource
	now   func() time.Time
}

// NewBuilder creates a report builder.
func NewBuilder(store *status.Store, reg ComponentSource) *Builder {
	return &Builder{store: store, reg: reg, now: time.Now}
}

// WithClock overrides the time source, for tests.
func (b *Builder) WithClock(now func() time.Time) *Builder {
	b.now = now
	return b
}

// HealthReport builds a report across all known components.
func (b *Builder) HealthReport() (*HealthReport, error) {
	components := b.reg.Components()
	now := b.now()

	report := &HealthReport{
		Timestamp:       now,
		TotalComponents: len(components),
		ComponentStatus: make(map[string]ComponentHealth, len(components)),
		Recommendations: []string{},
	}

	recentThreshold := now.Add(-recentWindow)

	for _, component := range components {
		s, err := b.store.Load(component)
		if err != nil {
			return nil, fmt.Errorf("load status for %s: %w", component, err)
		}

		switch s.Operational {
		case status.OperationalOK:
			report.Operational++
		case status.OperationalDegraded:
			report.Degraded++
		case status.OperationalOffline:
			report.Offline++
		default:
			report.Unknown++
		}

		openIssues := s.OpenIssues()
		report.ComponentStatus[component] = ComponentHealth{
			Status:     s.Operational,
			LastStart:  s.Start.LastSuccess,
			LastTest:   s.Tests.LastSuccess,
			OpenIssues: openIssues,
		}
		report.OpenIssues += openIssues

		if s.Start.LastAttempt != nil && s.Start.LastAttempt.After(recentThreshold) {
			report.RecentStarts++
		}
		if s.Tests.LastRun != nil && s.Tests.LastRun.After(recentThreshold) {
			report.RecentTestRuns++
		}
	}

	report.SystemHealthScore = healthScore(report)
	report.Recommendations = recommendations(report)

	return report, nil
}

// healthScore computes the 0-100 weighted score: 50% operational share,
// 30% degraded share at half credit, 20% recent activity.
func healthScore(r *HealthReport) float64 {
	if r.TotalComponents == 0 {
		return 0
	}

	total := float64(r.TotalComponents)
	operationalScore := float64(r.Operational) / total * 100
	degradedScore := float64(r.Degraded) / total * 50
	activityScore := float64(r.RecentStarts+r.RecentTestRuns) / (total * 2) * 100

	score := 0.5*operationalScore + 0.3*degradedScore + 0.2*activityScore
	return math.Round(score*10) / 10
}

// recommendations suggests operator actions from the aggregate counts.
func recommendations(r *HealthReport) []string {
	recs := []string{}

	if r.Offline > 0 {
		recs = append(recs, fmt.Sprintf("Prioritize starting %d offline components", r.Offline))
	}
	if r.Degraded > 0 {
		recs = append(recs, fmt.Sprintf("Investigate and fix issues with %d degraded components", r.Degraded))
	}
	if r.RecentTestRuns < r.TotalComponents/2 {
		recs = append(recs, "Run tests for components that haven't been tested recently")
	}
	if r.OpenIssues > 0 {
		recs = append(recs, fmt.Sprintf("Address %d open issues", r.OpenIssues))
	}

	return recs
}

// SaveHealthReport writes the report to logsDir as
// health_report_YYYYMMDD.json and returns the file path.
func SaveHealthReport(logsDir string, report *HealthReport) (string, error) {
	if err := os.MkdirAll(logsDir, 0755); err != nil {
		return "", fmt.Errorf("create logs directory: %w", err)
	}

	filename := fmt.Sprintf("health_report_%s.json", report.Timestamp.Format("20060102"))
	path := filepath.Join(logsDir, filename)

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal health report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("write health report: %w", err)
	}

	return path, nil
}
