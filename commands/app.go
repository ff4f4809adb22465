// Package commands implements the hmstrack CLI.
package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/nats-io/nats.go"

	"github.com/hms-platform/hmstrack/config"
	"github.com/hms-platform/hmstrack/metrics"
	"github.com/hms-platform/hmstrack/notify"
	"github.com/hms-platform/hmstrack/registry"
	"github.com/hms-platform/hmstrack/report"
	"github.com/hms-platform/hmstrack/status"
	"github.com/hms-platform/hmstrack/ticket"
)

// App carries the loaded configuration and lazily-built subsystems shared
// by the subcommands.
type App struct {
	Config *config.Config
	Logger *slog.Logger

	store    *status.Store
	reg      *registry.Registry
	tickets  *ticket.Store
	metrics  *metrics.Metrics
	notifier notify.Notifier
}

// Store returns the status store.
func (a *App) Store() *status.Store {
	if a.store == nil {
		a.store = status.NewStore(a.Config.StatusPath())
	}
	return a.store
}

// Registry returns the component registry.
func (a *App) Registry() *registry.Registry {
	if a.reg == nil {
		a.reg = registry.New(a.Config.Analysis.Dir, a.Config.Registry.ExtraComponents...)
	}
	return a.reg
}

// Tickets returns the work ticket store.
func (a *App) Tickets() *ticket.Store {
	if a.tickets == nil {
		a.tickets = ticket.NewStore(a.Config.TicketsPath())
	}
	return a.tickets
}

// Metrics returns the shared metrics registry.
func (a *App) Metrics() *metrics.Metrics {
	if a.metrics == nil {
		a.metrics = metrics.New()
	}
	return a.metrics
}

// Notifier returns the ticket notifier: always the notification log, plus
// NATS when extra sinks are supplied.
func (a *App) Notifier(extra ...notify.Notifier) notify.Notifier {
	if a.notifier == nil {
		sinks := append([]notify.Notifier{notify.NewLogNotifier(a.Config.NotificationLogPath())}, extra...)
		a.notifier = notify.NewMultiNotifier(a.Logger, sinks...)
	}
	return a.notifier
}

// Generator builds a work ticket generator with notification and metrics
// wiring.
func (a *App) Generator(extra ...notify.Notifier) *ticket.Generator {
	return ticket.NewGenerator(a.Tickets(),
		ticket.WithNotifier(a.Notifier(extra...)),
		ticket.WithRecorder(a.Metrics()),
		ticket.WithLogger(a.Logger),
	)
}

// Tracker builds the status tracker with ticket generation wired in.
func (a *App) Tracker(extra ...notify.Notifier) *status.Tracker {
	return status.NewTracker(a.Store(),
		status.WithTicketSink(a.Generator(extra...)),
		status.WithRecorder(a.Metrics()),
		status.WithLogger(a.Logger),
	)
}

// Reports builds the report builder.
func (a *App) Reports() *report.Builder {
	return report.NewBuilder(a.Store(), a.Registry())
}

// ConnectNATS dials the configured NATS server. The caller owns the
// connection.
func (a *App) ConnectNATS() (*nats.Conn, error) {
	if a.Config.NATS.URL == "" {
		return nil, fmt.Errorf("nats.url is not configured")
	}
	nc, err := nats.Connect(a.Config.NATS.URL, nats.Name("hmstrack"))
	if err != nil {
		return nil, fmt.Errorf("connect to NATS at %s: %w", a.Config.NATS.URL, err)
	}
	return nc, nil
}

// setupLogger builds the process logger at the requested level.
func setupLogger(level string) (*slog.Logger, error) {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slogLevel,
	}))
	slog.SetDefault(logger)
	return logger, nil
}
