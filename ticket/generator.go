package ticket

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hms-platform/hmstrack/notify"
	"github.com/hms-platform/hmstrack/status"
)

// Ownership rules for generated tickets. Start failures go to the
// development agent; test failures go to the failing component's own
// agent, derived by prefix substitution with no existence check.
const (
	DefaultOwner    = "HMS-DEV"
	componentPrefix = "HMS-"
	agentPrefix     = "HMS-AGT-"
)

// ticketIDPrefix and the 8-hex-char suffix keep ticket IDs short enough
// to quote in chat while staying unique in practice.
const ticketIDPrefix = "WRK-"

// Recorder counts generated tickets. Implemented by metrics.Metrics.
type Recorder interface {
	TicketGenerated(priority string)
}

// Generator derives work tickets from issues and persists them. There is
// no deduplication against existing open tickets: a second failure for an
// unresolved issue creates a second ticket.
type Generator struct {
	store    *Store
	notifier notify.Notifier
	metrics  Recorder
	logger   *slog.Logger
	now      func() time.Time
}

// GeneratorOption configures a Generator.
type GeneratorOption func(*Generator)

// WithNotifier sets the notification sink for new tickets.
func WithNotifier(n notify.Notifier) GeneratorOption {
	return func(g *Generator) { g.notifier = n }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) GeneratorOption {
	return func(g *Generator) { g.metrics = r }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) GeneratorOption {
	return func(g *Generator) { g.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) GeneratorOption {
	return func(g *Generator) { g.logger = logger }
}

// NewGenerator creates a generator persisting to the given store.
func NewGenerator(store *Store, opts ...GeneratorOption) *Generator {
	g := &Generator{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Store returns the underlying ticket store.
func (g *Generator) Store() *Store {
	return g.store
}

// Generate creates and persists a work ticket for the issue, then
// notifies the assignee. Notification failures are logged, never
// returned: ticket creation must not depend on the notification path.
func (g *Generator) Generate(ctx context.Context, component string, issue *status.Issue) (string, error) {
	if component == "" {
		return "", status.ErrComponentRequired
	}
	if issue == nil {
		return "", fmt.Errorf("issue is required")
	}

	assignee := Assignee(component, issue.Type)
	priority := DeterminePriority(issue)
	now := g.now()

	t := &WorkTicket{
		ID:         ticketIDPrefix + strings.ReplaceAll(uuid.New().String(), "-", "")[:8],
		Component:  component,
		IssueID:    issue.ID,
		IssueType:  issue.Type,
		CreatedAt:  now,
		UpdatedAt:  now,
		AssignedTo: assignee,
		Status:     StatusOpen,
		Priority:   priority,
		Details: Details{
			Component:        component,
			Issue:            *issue,
			Description:      Description(component, issue),
			SuggestedActions: SuggestedActions(component, issue.Type),
		},
	}

	if err := g.store.Save(t); err != nil {
		return "", err
	}

	g.logger.Info("generated work ticket",
		"ticket_id", t.ID,
		"component", component,
		"issue_type", issue.Type,
		"assigned_to", assignee,
		"priority", priority)

	if g.metrics != nil {
		g.metrics.TicketGenerated(string(priority))
	}

	if g.notifier != nil {
		summary := fmt.Sprintf("%s - %s", component, issue.Type)
		if err := g.notifier.NotifyTicket(ctx, assignee, t.ID, summary); err != nil {
			g.logger.Warn("ticket notification failed",
				"ticket_id", t.ID,
				"assignee", assignee,
				"error", err)
		}
	}

	return t.ID, nil
}

// Assignee determines which agent owns the issue.
func Assignee(component string, issueType status.IssueType) string {
	switch issueType {
	case status.IssueStartFailure:
		return DefaultOwner
	case status.IssueTestFailure:
		return strings.Replace(component, componentPrefix, agentPrefix, 1)
	default:
		return DefaultOwner
	}
}

// DeterminePriority ranks the ticket. Start failures are always high.
// Test failures are high when more than half the run failed; a run with
// no recorded tests is treated as not-high.
func DeterminePriority(issue *status.Issue) Priority {
	switch issue.Type {
	case status.IssueStartFailure:
		return PriorityHigh
	case status.IssueTestFailure:
		results := issue.Details.Results
		if results == nil {
			return PriorityMedium
		}
		total := results.Total()
		if total > 0 && float64(results.Failed)/float64(total) > 0.5 {
			return PriorityHigh
		}
		return PriorityMedium
	default:
		return PriorityMedium
	}
}

// Description builds the human-facing ticket description.
func Description(component string, issue *status.Issue) string {
	switch issue.Type {
	case status.IssueStartFailure:
		return fmt.Sprintf("The %s component failed to start. This is affecting the operational status of the HMS ecosystem and should be resolved as soon as possible.", component)
	case status.IssueTestFailure:
		results := issue.Details.Results
		if results != nil && results.Total() > 0 {
			return fmt.Sprintf("Tests for %s are failing (%d/%d tests failed). This may indicate issues with recent changes or integration problems.",
				component, results.Failed, results.Total())
		}
		return fmt.Sprintf("Tests for %s failed to run properly. This may indicate configuration or dependency issues.", component)
	default:
		return fmt.Sprintf("Issue detected with %s: %s", component, issue.Type)
	}
}

// SuggestedActions lists remediation steps for the assignee.
func SuggestedActions(component string, issueType status.IssueType) []string {
	switch issueType {
	case status.IssueStartFailure:
		return []string{
			fmt.Sprintf("Check the %s logs for error messages", component),
			fmt.Sprintf("Verify all dependencies for %s are available and correctly configured", component),
			"Check for recent changes that might have affected the component's ability to start",
			"Verify environment variables and configuration files",
		}
	case status.IssueTestFailure:
		return []string{
			fmt.Sprintf("Review failing tests for %s", component),
			"Check for recent code changes that might have broken tests",
			"Verify test environment and fixtures",
			"Check for integration issues with dependent components",
			"Run tests with verbose output to diagnose specific failures",
		}
	default:
		return []string{
			"Investigate the issue",
			"Check component logs",
			"Review recent changes",
		}
	}
}
