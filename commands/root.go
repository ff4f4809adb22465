package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hms-platform/hmstrack/config"
)

const (
	Version   = "0.1.0"
	BuildTime = "dev"
	appName   = "hmstrack"
)

// NewRoot builds the hmstrack root command.
func NewRoot() *cobra.Command {
	var (
		configPath string
		logLevel   string
	)

	app := &App{}

	cmd := &cobra.Command{
		Use:   appName,
		Short: "HMS component status tracker",
		Long: `hmstrack tracks the operational status of HMS components.

It records start attempts and test runs, derives each component's
operational status, generates work tickets when failures pile up, and
produces health reports and per-component summary documents.

Other agents can drive it over NATS or newline-delimited JSON via the
serve command.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := setupLogger(logLevel)
			if err != nil {
				return err
			}
			app.Logger = logger

			cfg, err := config.NewLoader(logger).Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			app.Config = cfg
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file path (YAML)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")

	cmd.AddCommand(
		newStatusCmd(app),
		newStartCmd(app),
		newTestCmd(app),
		newSimulateCmd(app),
		newBatchCmd(app),
		newHealthCmd(app),
		newSummaryCmd(app),
		newTicketsCmd(app),
		newServeCmd(app),
		newWatchCmd(app),
		newVersionCmd(),
	)

	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s (build: %s)\n", appName, Version, BuildTime)
		},
	}
}
