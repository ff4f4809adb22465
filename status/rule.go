package status

// OperationalStatus is the derived health enum summarizing a component's
// start and test sub-states.
type OperationalStatus string

const (
	OperationalUnknown  OperationalStatus = "unknown"
	OperationalOK       OperationalStatus = "operational"
	OperationalDegraded OperationalStatus = "degraded"
	OperationalOffline  OperationalStatus = "offline"
)

// DeriveOperational maps start and test sub-states onto an overall status.
// The precedence order is load-bearing: an unknown sub-state wins over
// everything, a start failure wins over failing tests, and a component
// that is running with tests in any other state is degraded, not
// operational.
func DeriveOperational(start StartStatus, tests TestStatus) OperationalStatus {
	switch {
	case start == StartUnknown || tests == TestsUnknown:
		return OperationalUnknown
	case start == StartFailed:
		return OperationalOffline
	case tests == TestsFailing:
		return OperationalDegraded
	case start == StartRunning && tests == TestsPassing:
		return OperationalOK
	default:
		return OperationalDegraded
	}
}
