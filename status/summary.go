package status

import "time"

// Summary is a condensed view of a component's status for display.
type Summary struct {
	Component        string            `json:"component"`
	Operational      OperationalStatus `json:"operational_status"`
	LastStartAttempt *time.Time        `json:"last_start_attempt"`
	LastStartSuccess *time.Time        `json:"last_start_success"`
	StartSuccessRate float64           `json:"start_success_rate"`
	LastTestRun      *time.Time        `json:"last_test_run"`
	LastTestSuccess  *time.Time        `json:"last_test_success"`
	TestSuccessRate  float64           `json:"test_success_rate"`
	OpenIssues       int               `json:"open_issues"`
	LastUpdated      time.Time         `json:"last_updated"`
}

// Summarize derives display figures from a full status record. Rates are
// percentages in [0, 100]; a zero denominator yields 0.
func Summarize(s *ComponentStatus) Summary {
	return Summary{
		Component:        s.Component,
		Operational:      s.Operational,
		LastStartAttempt: s.Start.LastAttempt,
		LastStartSuccess: s.Start.LastSuccess,
		StartSuccessRate: percentage(s.Start.Successes, s.Start.Attempts),
		LastTestRun:      s.Tests.LastRun,
		LastTestSuccess:  s.Tests.LastSuccess,
		TestSuccessRate:  percentage(s.Tests.TotalPassed, s.Tests.TotalRuns),
		OpenIssues:       s.OpenIssues(),
		LastUpdated:      s.LastUpdated,
	}
}

func percentage(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(part) / float64(total) * 100
}
