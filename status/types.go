// Package status tracks per-component operational state for the HMS
// ecosystem: start attempts, test runs, recorded issues, and a derived
// operational status. State is persisted as one JSON file per component.
package status

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

// StatusVersion is the persisted status file format version.
const StatusVersion = "1.0"

// Sentinel errors for status operations.
var (
	ErrComponentRequired = errors.New("component is required")
	ErrInvalidComponent  = errors.New("invalid component identifier")
)

// componentPattern matches component identifiers like "HMS-API" or "HMS-AGT-API".
var componentPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_-]*$`)

// ValidateComponent checks that a component identifier is safe to use in
// file paths and non-empty.
func ValidateComponent(component string) error {
	if component == "" {
		return ErrComponentRequired
	}
	// Prevent path traversal attacks
	if strings.Contains(component, "..") || strings.Contains(component, "/") || strings.Contains(component, "\\") {
		return ErrInvalidComponent
	}
	if !componentPattern.MatchString(component) {
		return ErrInvalidComponent
	}
	return nil
}

// StartStatus is the start sub-state of a component.
type StartStatus string

const (
	StartUnknown StartStatus = "unknown"
	StartRunning StartStatus = "running"
	StartFailed  StartStatus = "failed"
)

// TestStatus is the test sub-state of a component.
type TestStatus string

const (
	TestsUnknown TestStatus = "unknown"
	TestsPassing TestStatus = "passing"
	TestsFailing TestStatus = "failing"
)

// IssueType classifies a recorded failure.
type IssueType string

const (
	IssueStartFailure IssueType = "start_failure"
	IssueTestFailure  IssueType = "test_failure"
)

// IssueStatus is the lifecycle state of an issue. Closing an issue is an
// external operation; the tracker only ever opens them.
type IssueStatus string

const (
	IssueOpen   IssueStatus = "open"
	IssueClosed IssueStatus = "closed"
)

// StartStats tracks component start attempts.
type StartStats struct {
	LastAttempt *time.Time  `json:"last_attempt"`
	LastSuccess *time.Time  `json:"last_success"`
	Attempts    int         `json:"attempts"`
	Successes   int         `json:"successes"`
	Failures    int         `json:"failures"`
	Status      StartStatus `json:"status"`
}

// TestStats tracks component test runs.
type TestStats struct {
	LastRun     *time.Time  `json:"last_run"`
	LastSuccess *time.Time  `json:"last_success"`
	TotalRuns   int         `json:"total_runs"`
	TotalPassed int         `json:"total_passed"`
	TotalFailed int         `json:"total_failed"`
	Status      TestStatus  `json:"status"`
	LastResults TestResults `json:"last_results"`
}

// TestResults holds counts from a single test run.
type TestResults struct {
	Passed         int      `json:"passed"`
	Failed         int      `json:"failed"`
	Skipped        int      `json:"skipped"`
	Duration       float64  `json:"duration,omitempty"`
	FailureDetails []string `json:"failure_details,omitempty"`
}

// Total returns the total number of tests in the run.
func (r TestResults) Total() int {
	return r.Passed + r.Failed + r.Skipped
}

// IssueDetails carries free-form context for an issue.
type IssueDetails struct {
	// Output is the captured output of a failed start attempt.
	Output string `json:"output,omitempty"`

	// Results are the test results of a failed test run.
	Results *TestResults `json:"results,omitempty"`
}

// Issue is a recorded failure event attached to a component.
type Issue struct {
	ID        string       `json:"id"`
	Type      IssueType    `json:"type"`
	Component string       `json:"component"`
	Timestamp time.Time    `json:"timestamp"`
	Details   IssueDetails `json:"details"`
	Status    IssueStatus  `json:"status"`
}

// ComponentStatus is the full persisted record for one component.
type ComponentStatus struct {
	Component   string     `json:"component"`
	Version     string     `json:"version"`
	CreatedAt   time.Time  `json:"created_at"`
	LastUpdated time.Time  `json:"last_updated"`
	Start       StartStats `json:"start"`
	Tests       TestStats  `json:"tests"`

	// Issues is append-only; most recent last.
	Issues []Issue `json:"issues"`

	// Operational is derived from Start.Status and Tests.Status. It is
	// recomputed on every save and never settable independently.
	Operational OperationalStatus `json:"operational_status"`
}

// NewComponentStatus returns a fresh record with all-zero counters and
// unknown sub-states.
func NewComponentStatus(component string) *ComponentStatus {
	now := time.Now()
	return &ComponentStatus{
		Component:   component,
		Version:     StatusVersion,
		CreatedAt:   now,
		LastUpdated: now,
		Start:       StartStats{Status: StartUnknown},
		Tests:       TestStats{Status: TestsUnknown},
		Issues:      []Issue{},
		Operational: OperationalUnknown,
	}
}

// OpenIssues returns the number of issues still open.
func (s *ComponentStatus) OpenIssues() int {
	count := 0
	for _, issue := range s.Issues {
		if issue.Status == IssueOpen {
			count++
		}
	}
	return count
}
