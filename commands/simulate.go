package commands

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/hms-platform/hmstrack/simulate"
)

func (a *App) simulateRates() simulate.Rates {
	rates := simulate.DefaultRates()
	if a.Config.Simulate.StartSuccessRate > 0 {
		rates.StartSuccess = a.Config.Simulate.StartSuccessRate
	}
	if a.Config.Simulate.TestSuccessRate > 0 {
		rates.TestSuccess = a.Config.Simulate.TestSuccessRate
	}
	return rates
}

// simulateComponent runs one simulated start, and a simulated test run
// when the start succeeds, recording both outcomes.
func simulateComponent(ctx context.Context, app *App, src simulate.OutcomeSource, component string) error {
	started, output := src.StartOutcome(component)
	if _, err := app.Tracker().RecordStart(ctx, component, started, output); err != nil {
		return err
	}
	if !started {
		return nil
	}

	passed, results := src.TestOutcome(component)
	_, err := app.Tracker().RecordTest(ctx, component, passed, results)
	return err
}

func newSimulateCmd(app *App) *cobra.Command {
	var seed int64

	cmd := &cobra.Command{
		Use:   "simulate <component>",
		Short: "Simulate starting and testing a component",
		Long: `Simulate a component start and, when the start succeeds, a test run.
Both outcomes are recorded as if they were real.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if seed == 0 {
				seed = time.Now().UnixNano()
			}
			src := simulate.NewRandomSource(app.simulateRates(), seed)
			return simulateComponent(cmd.Context(), app, src, args[0])
		},
	}

	cmd.Flags().Int64Var(&seed, "seed", 0, "Random seed (0 uses the current time)")

	return cmd
}
