package commands

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/hms-platform/hmstrack/a2a"
	"github.com/hms-platform/hmstrack/notify"
)

func newServeCmd(app *App) *cobra.Command {
	var (
		stdin       bool
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the agent-to-agent API",
		Long: `Serve the A2A request API. By default requests are taken from NATS
request/reply on the configured subject; with --stdin they are read as
newline-delimited JSON from standard input instead.

When a metrics address is configured, Prometheus metrics are exposed
on /metrics.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			if metricsAddr == "" {
				metricsAddr = app.Config.Serve.MetricsAddr
			}
			if metricsAddr != "" {
				startMetricsServer(ctx, app, metricsAddr)
			}

			requestLog := a2a.NewRequestLog(app.Config.RequestLogPath())

			if stdin {
				handler := a2a.NewHandler(app.Tracker(), app.Tickets(), app.Reports(), app.Config.SummariesPath(),
					a2a.WithRequestLog(requestLog),
					a2a.WithRecorder(app.Metrics()),
					a2a.WithLogger(app.Logger),
				)
				return handler.Serve(ctx, os.Stdin, os.Stdout)
			}

			nc, err := app.ConnectNATS()
			if err != nil {
				return err
			}
			defer nc.Close()

			// Ticket notifications ride the same connection.
			notifier := notify.NewNATSNotifier(nc, app.Config.NATS.NotifySubjectPrefix)

			handler := a2a.NewHandler(app.Tracker(notifier), app.Tickets(), app.Reports(), app.Config.SummariesPath(),
				a2a.WithRequestLog(requestLog),
				a2a.WithRecorder(app.Metrics()),
				a2a.WithLogger(app.Logger),
			)

			err = handler.ServeNATS(ctx, nc, app.Config.NATS.RequestSubject)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}

	cmd.Flags().BoolVar(&stdin, "stdin", false, "Read requests from stdin instead of NATS")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Prometheus metrics listen address (overrides config)")

	return cmd
}

// startMetricsServer exposes /metrics until ctx is canceled. Failures are
// logged, not fatal; metrics are an auxiliary surface.
func startMetricsServer(ctx context.Context, app *App, addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", app.Metrics().Handler())

	srv := &http.Server{Addr: addr, Handler: mux}

	go func() {
		app.Logger.Info("metrics server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.Logger.Error("metrics server failed", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
}
