package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"tokenbrain/internal/bot"
	"tokenbrain/internal/server"
)

func newAnalyzeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "analyze <address>",
		Short: "Analyze one token and print the result as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			address := args[0]
			if err := bot.ValidateAddress(address); err != nil {
				return err
			}

			p, err := buildPipeline(cmd.Context(), a.cfg, a.log)
			if err != nil {
				return err
			}
			defer p.Close()

			result, err := p.analyzer.Analyze(cmd.Context(), address)
			if err != nil {
				return err
			}

			out, err := json.MarshalIndent(server.NewAnalysisResponse(result), "", "  ")
			if err != nil {
				return fmt.Errorf("encode result: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
}
