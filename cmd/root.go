package cmd

import (
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/jsphweid/harmonycheck/config"
	"github.com/jsphweid/harmonycheck/logger"
	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "harmonycheck",
	Short: "Checks four-part writing against common-practice rules",
	Long: `harmonycheck reads MIDI or JSON scores and reports voice-leading,
melodic, harmonic and cadence problems with a suggested fix for each.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setup()
	},
}

func setup() {
	if cfg != nil {
		return
	}
	cfg = config.Load()

	if cfg.SentryDSN == "" {
		return
	}
	if err := sentry.Init(sentry.ClientOptions{
		Dsn:         cfg.SentryDSN,
		Environment: cfg.Environment,
		Debug:       !cfg.IsProduction(),
	}); err != nil {
		logger.Warn("Sentry initialization failed", logger.Fields{"error": err.Error()})
	}
}

func Execute() {
	err := rootCmd.Execute()
	sentry.Flush(2 * time.Second)
	cobra.CheckErr(err)
}
