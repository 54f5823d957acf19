package bot

import (
	"context"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"tokenbrain/internal/observability"
)

// Defaults for the polling loop.
const (
	DefaultWorkers     = 8
	DefaultPollTimeout = 60 // seconds
)

// UpdateSource is the subset of *tgbotapi.BotAPI that delivers updates.
type UpdateSource interface {
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// UpdateHandler processes one update (Handler).
type UpdateHandler interface {
	HandleUpdate(ctx context.Context, update tgbotapi.Update)
}

// Options configures Bot.
type Options struct {
	Workers     int // concurrent updates, DefaultWorkers when zero
	PollTimeout int // long polling timeout in seconds
	Logger      zerolog.Logger
}

// Bot runs the long polling loop.
type Bot struct {
	source      UpdateSource
	handler     UpdateHandler
	workers     int
	pollTimeout int
	log         zerolog.Logger
}

// New creates a bot.
func New(source UpdateSource, handler UpdateHandler, opts Options) *Bot {
	if opts.Workers <= 0 {
		opts.Workers = DefaultWorkers
	}
	if opts.PollTimeout <= 0 {
		opts.PollTimeout = DefaultPollTimeout
	}
	return &Bot{
		source:      source,
		handler:     handler,
		workers:     opts.Workers,
		pollTimeout: opts.PollTimeout,
		log:         observability.Component(opts.Logger, "bot"),
	}
}

// Run receives updates until ctx is cancelled or the channel closes.
// At most Workers updates are handled at once. Run waits for in-flight
// updates before returning.
func (b *Bot) Run(ctx context.Context) error {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = b.pollTimeout

	updates := b.source.GetUpdatesChan(cfg)
	sem := make(chan struct{}, b.workers)
	var wg sync.WaitGroup

	b.log.Info().Int("workers", b.workers).Msg("bot started")

	defer func() {
		b.source.StopReceivingUpdates()
		wg.Wait()
		b.log.Info().Msg("bot stopped")
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}

			select {
			case sem <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}

			wg.Add(1)
			go func(u tgbotapi.Update) {
				defer wg.Done()
				defer func() { <-sem }()
				b.handler.HandleUpdate(ctx, u)
			}(update)
		}
	}
}
