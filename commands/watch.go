package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hms-platform/hmstrack/report"
)

func newWatchCmd(app *App) *cobra.Command {
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate summaries when status files change",
		Long: `Watch the status directory and regenerate a component's summary
documents whenever its status file changes. Runs until interrupted.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			// The watch target must exist before fsnotify can attach.
			if err := os.MkdirAll(app.Config.StatusPath(), 0755); err != nil {
				return fmt.Errorf("create status directory: %w", err)
			}

			watcher, err := report.NewWatcher(report.WatcherConfig{
				StatusDir:     app.Config.StatusPath(),
				SummariesDir:  app.Config.SummariesPath(),
				DebounceDelay: debounce,
				Logger:        app.Logger,
			}, app.Reports())
			if err != nil {
				return fmt.Errorf("create watcher: %w", err)
			}

			if err := watcher.Start(ctx); err != nil {
				return fmt.Errorf("start watcher: %w", err)
			}

			for {
				select {
				case <-ctx.Done():
					if err := watcher.Stop(); err != nil {
						app.Logger.Warn("watcher stop failed", "error", err)
					}
					if errors.Is(ctx.Err(), context.Canceled) {
						return nil
					}
					return ctx.Err()
				case ev := <-watcher.Events():
					if ev.Error != nil {
						continue
					}
					fmt.Printf("Regenerated summary for %s: %s\n", ev.Component, ev.Path)
				}
			}
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "Delay before regenerating after a change")

	return cmd
}
