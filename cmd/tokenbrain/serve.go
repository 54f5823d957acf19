package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"tokenbrain/internal/server"
)

func newServeCmd(a *app) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the HTTP API (health, metrics, status, analyze, history)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				a.cfg.HTTPAddr = addr
			}

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			p, err := buildPipeline(ctx, a.cfg, a.log)
			if err != nil {
				return err
			}
			defer p.Close()

			history, closeHistory, err := openHistory(ctx, a.cfg, a.log)
			if err != nil {
				return err
			}
			defer closeHistory()

			srv := server.New(server.Options{
				Analyzer:    p.analyzer,
				History:     history,
				Mode:        modeName(a.cfg),
				Providers:   p.providers,
				LLMProvider: p.llm,
				Logger:      a.log,
			})

			err = srv.ListenAndServe(ctx, a.cfg.HTTPAddr)
			a.log.Info().Msg("shutdown complete")
			return err
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":9090", "HTTP listen address; overrides HTTP_ADDR")
	return cmd
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func ignoreCanceled(err error) error {
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
