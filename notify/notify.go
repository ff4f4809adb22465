// Package notify delivers ticket notifications to responsible agents.
// All sinks are best-effort: a notification failure must never fail the
// operation that triggered it, so callers log and continue.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Notifier delivers a notification about a newly created work ticket.
type Notifier interface {
	NotifyTicket(ctx context.Context, assignee, ticketID, summary string) error
}

// LogNotifier appends notifications to a plain log file. This is the
// fallback sink that always exists, even without a message bus.
type LogNotifier struct {
	path string
	now  func() time.Time
}

// NewLogNotifier creates a notifier appending to the given file.
func NewLogNotifier(path string) *LogNotifier {
	return &LogNotifier{path: path, now: time.Now}
}

// NotifyTicket appends one line per notification.
func (n *LogNotifier) NotifyTicket(_ context.Context, assignee, ticketID, summary string) error {
	if err := os.MkdirAll(filepath.Dir(n.path), 0755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	f, err := os.OpenFile(n.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open notification log: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("%s - Notified %s about %s (%s)\n",
		n.now().Format(time.RFC3339), assignee, ticketID, summary)
	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("append notification: %w", err)
	}

	return nil
}

// MultiNotifier fans a notification out to several sinks. Individual sink
// failures are logged and swallowed; NotifyTicket never returns an error.
type MultiNotifier struct {
	sinks  []Notifier
	logger *slog.Logger
}

// NewMultiNotifier creates a fan-out notifier.
func NewMultiNotifier(logger *slog.Logger, sinks ...Notifier) *MultiNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &MultiNotifier{sinks: sinks, logger: logger}
}

// NotifyTicket delivers to every sink, best-effort.
func (m *MultiNotifier) NotifyTicket(ctx context.Context, assignee, ticketID, summary string) error {
	for _, sink := range m.sinks {
		if err := sink.NotifyTicket(ctx, assignee, ticketID, summary); err != nil {
			m.logger.Warn("ticket notification failed",
				"assignee", assignee,
				"ticket_id", ticketID,
				"error", err)
		}
	}
	return nil
}
