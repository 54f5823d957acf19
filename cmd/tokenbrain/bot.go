package main

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"tokenbrain/internal/bot"
	"tokenbrain/internal/server"
)

func newBotCmd(a *app) *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "bot",
		Short: "Run the Telegram bot together with the HTTP status server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.cfg.ValidateBot(); err != nil {
				return err
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

			api, err := tgbotapi.NewBotAPI(a.cfg.TelegramBotToken)
			if err != nil {
				return fmt.Errorf("initialize telegram bot: %w", err)
			}
			a.log.Info().Str("username", api.Self.UserName).Msg("authorized on Telegram")

			handler := bot.NewHandler(bot.HandlerOptions{
				Sender:             api,
				Analyzer:           p.analyzer,
				History:            history,
				RateLimitPerMinute: a.cfg.UserRateLimitPerMinute,
				Logger:             a.log,
			})
			b := bot.New(api, handler, bot.Options{Workers: workers, Logger: a.log})

			srv := server.New(server.Options{
				History:     history,
				Mode:        modeName(a.cfg),
				Providers:   p.providers,
				LLMProvider: p.llm,
				Logger:      a.log,
			})

			g, gctx := errgroup.WithContext(ctx)
			g.Go(func() error { return ignoreCanceled(b.Run(gctx)) })
			g.Go(func() error { return srv.ListenAndServe(gctx, a.cfg.HTTPAddr) })

			err = g.Wait()
			a.log.Info().Msg("shutdown complete")
			return err
		},
	}

	cmd.Flags().IntVar(&workers, "workers", bot.DefaultWorkers, "Updates handled concurrently")
	return cmd
}
