package status

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// TicketSink receives issues that have crossed the ticket-generation
// threshold. Implemented by ticket.Generator.
type TicketSink interface {
	Generate(ctx context.Context, component string, issue *Issue) (string, error)
}

// Recorder counts recorded outcomes. Implemented by metrics.Metrics.
type Recorder interface {
	StartRecorded(success bool)
	TestRecorded(success bool)
}

// Tracker records start attempts and test runs against the store and
// generates work tickets when a component's lifetime failures overtake
// its lifetime successes.
type Tracker struct {
	store   *Store
	tickets TicketSink
	metrics Recorder
	logger  *slog.Logger
	now     func() time.Time
}

// TrackerOption configures a Tracker.
type TrackerOption func(*Tracker)

// WithTicketSink sets the ticket generator invoked on repeated failures.
func WithTicketSink(sink TicketSink) TrackerOption {
	return func(t *Tracker) { t.tickets = sink }
}

// WithRecorder sets the metrics recorder.
func WithRecorder(r Recorder) TrackerOption {
	return func(t *Tracker) { t.metrics = r }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) TrackerOption {
	return func(t *Tracker) { t.now = now }
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) TrackerOption {
	return func(t *Tracker) { t.logger = logger }
}

// NewTracker creates a tracker over the given store.
func NewTracker(store *Store, opts ...TrackerOption) *Tracker {
	t := &Tracker{
		store:  store,
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Store returns the underlying status store.
func (t *Tracker) Store() *Store {
	return t.store
}

// RecordStart records a component start attempt and returns the updated
// record. On failure an open issue is appended, and once lifetime failures
// strictly exceed lifetime successes a work ticket is generated. The
// cumulative comparison means a struggling component generates a ticket on
// every further failing start.
func (t *Tracker) RecordStart(ctx context.Context, component string, success bool, output string) (*ComponentStatus, error) {
	updated, err := t.store.Update(component, func(s *ComponentStatus) error {
		now := t.now()
		s.Start.LastAttempt = &now
		s.Start.Attempts++

		if success {
			s.Start.LastSuccess = &now
			s.Start.Successes++
			s.Start.Status = StartRunning
			t.logger.Info("component started", "component", component)
			return nil
		}

		s.Start.Failures++
		s.Start.Status = StartFailed
		t.logger.Error("component failed to start", "component", component)

		issue := Issue{
			ID:        uuid.New().String(),
			Type:      IssueStartFailure,
			Component: component,
			Timestamp: now,
			Details:   IssueDetails{Output: output},
			Status:    IssueOpen,
		}
		s.Issues = append(s.Issues, issue)

		if s.Start.Failures > s.Start.Successes && t.tickets != nil {
			ticketID, err := t.tickets.Generate(ctx, component, &issue)
			if err != nil {
				return err
			}
			t.logger.Info("work ticket generated",
				"component", component,
				"ticket_id", ticketID,
				"issue_type", issue.Type)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	if t.metrics != nil {
		t.metrics.StartRecorded(success)
	}

	return updated, nil
}

// RecordTest records a test run and returns the updated record. Results
// default to all-zero counts when nil and always overwrite last_results,
// regardless of success. Ticket generation uses the cumulative
// totalFailed > totalPassed comparison, symmetric with RecordStart.
func (t *Tracker) RecordTest(ctx context.Context, component string, success bool, results *TestResults) (*ComponentStatus, error) {
	updated, err := t.store.Update(component, func(s *ComponentStatus) error {
		now := t.now()
		s.Tests.LastRun = &now
		s.Tests.TotalRuns++

		if results == nil {
			results = &TestResults{}
		}

		if success {
			s.Tests.LastSuccess = &now
			s.Tests.TotalPassed++
			s.Tests.Status = TestsPassing
			t.logger.Info("component tests passed", "component", component)
		} else {
			s.Tests.TotalFailed++
			s.Tests.Status = TestsFailing
			t.logger.Error("component tests failed",
				"component", component,
				"failed", results.Failed,
				"passed", results.Passed)

			issue := Issue{
				ID:        uuid.New().String(),
				Type:      IssueTestFailure,
				Component: component,
				Timestamp: now,
				Details:   IssueDetails{Results: results},
				Status:    IssueOpen,
			}
			s.Issues = append(s.Issues, issue)

			if s.Tests.TotalFailed > s.Tests.TotalPassed && t.tickets != nil {
				ticketID, err := t.tickets.Generate(ctx, component, &issue)
				if err != nil {
					return err
				}
				t.logger.Info("work ticket generated",
					"component", component,
					"ticket_id", ticketID,
					"issue_type", issue.Type)
			}
		}

		s.Tests.LastResults = *results
		return nil
	})
	if err != nil {
		return nil, err
	}

	if t.metrics != nil {
		t.metrics.TestRecorded(success)
	}

	return updated, nil
}
