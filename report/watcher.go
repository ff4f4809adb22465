package report

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatcherConfig configures the status file watcher.
type WatcherConfig struct {
	// StatusDir is the directory of component status files to watch
	StatusDir string

	// SummariesDir is where regenerated summaries are written
	SummariesDir string

	// DebounceDelay is how long to wait for more changes before regenerating
	DebounceDelay time.Duration

	// Logger for logging events
	Logger *slog.Logger
}

// WatchEvent reports one summary regeneration triggered by a status change.
type WatchEvent struct {
	// Component whose status file changed
	Component string

	// Path of the summary JSON that was written (empty on error)
	Path string

	// Error if regeneration failed
	Error error
}

// Watcher regenerates component summaries when status files change.
type Watcher struct {
	config  WatcherConfig
	builder *Builder
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	// Debouncing: collect changed components before regenerating
	pendingMu sync.Mutex
	pending   map[string]struct{}

	events chan WatchEvent
}

// NewWatcher creates a watcher over the status directory.
func NewWatcher(config WatcherConfig, builder *Builder) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}

	if config.DebounceDelay == 0 {
		config.DebounceDelay = 500 * time.Millisecond
	}

	return &Watcher{
		config:  config,
		builder: builder,
		watcher: fsw,
		logger:  logger,
		pending: make(map[string]struct{}),
		events:  make(chan WatchEvent, 64),
	}, nil
}

// Events returns the channel of regeneration events.
func (w *Watcher) Events() <-chan WatchEvent {
	return w.events
}

// Start begins watching the status directory for changes.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.watcher.Add(w.config.StatusDir); err != nil {
		return err
	}

	go w.processEvents(ctx)

	w.logger.Info("Status watcher started",
		"dir", w.config.StatusDir,
		"debounce", w.config.DebounceDelay)

	return nil
}

// Stop stops the watcher.
func (w *Watcher) Stop() error {
	close(w.events)
	return w.watcher.Close()
}

// processEvents handles fsnotify events with debouncing.
func (w *Watcher) processEvents(ctx context.Context) {
	ticker := time.NewTicker(w.config.DebounceDelay)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

// handleFSEvent records the component behind a status file change.
func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	component, ok := componentFromStatusFile(event.Name)
	if !ok {
		return
	}

	w.pendingMu.Lock()
	w.pending[component] = struct{}{}
	w.pendingMu.Unlock()

	w.logger.Debug("Status change detected",
		"component", component,
		"op", event.Op.String())
}

// flushPending regenerates summaries for the accumulated components.
func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	batch := w.pending
	w.pending = make(map[string]struct{})
	w.pendingMu.Unlock()

	for component := range batch {
		select {
		case <-ctx.Done():
			return
		default:
		}

		ev := WatchEvent{Component: component}

		summary, err := w.builder.ComponentReport(component)
		if err != nil {
			ev.Error = err
		} else {
			ev.Path, ev.Error = summary.Save(w.config.SummariesDir)
		}

		if ev.Error != nil {
			w.logger.Error("Summary regeneration failed",
				"component", component,
				"error", ev.Error)
		} else {
			w.logger.Info("Summary regenerated",
				"component", component,
				"path", ev.Path)
		}

		select {
		case w.events <- ev:
		default:
			w.logger.Warn("Event channel full, dropping event",
				"component", component)
		}
	}
}

// componentFromStatusFile extracts the component name from a status file
// path, e.g. ".../HMS-API_status.json" -> "HMS-API".
func componentFromStatusFile(path string) (string, bool) {
	const suffix = "_status.json"

	base := path
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}

	if !strings.HasSuffix(base, suffix) {
		return "", false
	}

	component := strings.TrimSuffix(base, suffix)
	return component, component != ""
}
