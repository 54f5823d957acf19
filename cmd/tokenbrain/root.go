package main

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"tokenbrain/internal/config"
	"tokenbrain/internal/observability"
)

// app carries state shared by subcommands after PersistentPreRunE.
type app struct {
	cfg *config.Config
	log zerolog.Logger

	// flags
	logLevel string
	mock     bool
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:   "tokenbrain",
		Short: "Solana token risk analysis",
		Long: `TokenBrain gathers on-chain facts about a Solana token, classifies its
risk with fixed rules and explains the verdict in plain language.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error); overrides LOG_LEVEL")
	root.PersistentFlags().BoolVar(&a.mock, "mock", false, "Use mock providers; overrides USE_MOCK_SERVICES")

	root.AddCommand(newAnalyzeCmd(a), newServeCmd(a), newBotCmd(a))
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}
	if cmd.Flags().Changed("mock") {
		cfg.UseMockServices = a.mock
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.log = observability.NewLogger(cfg.LogLevel, cfg.IsDevelopment())
	return nil
}
