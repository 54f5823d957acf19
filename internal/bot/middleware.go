package bot

import (
	"context"
	"errors"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"tokenbrain/internal/domain"
	"tokenbrain/internal/observability"
)

// maxLoggedText truncates message text in logs.
const maxLoggedText = 100

type handlerFunc func(ctx context.Context, msg *tgbotapi.Message) error

// withLogging logs the sender, the truncated text and the processing time.
func withLogging(log zerolog.Logger, next handlerFunc) handlerFunc {
	return func(ctx context.Context, msg *tgbotapi.Message) error {
		start := time.Now()

		ev := log.Info().Int64("chat_id", msg.Chat.ID).Str("text", truncate(msg.Text, maxLoggedText))
		if msg.From != nil {
			username := msg.From.UserName
			if username == "" {
				username = "no_username"
			}
			ev = ev.Int64("user_id", msg.From.ID).Str("username", username)
		}
		ev.Msg("incoming message")

		err := next(ctx, msg)

		elapsed := float64(time.Since(start).Microseconds()) / 1000
		if err != nil {
			log.Error().Err(err).Float64("elapsed_ms", elapsed).Msg("message failed")
		} else {
			log.Debug().Float64("elapsed_ms", elapsed).Msg("message processed")
		}
		return err
	}
}

// withErrors converts handler errors and panics into a friendly reply.
// The original error is still returned for logging.
func withErrors(log zerolog.Logger, reply func(chatID int64, text string) error, next handlerFunc) handlerFunc {
	return func(ctx context.Context, msg *tgbotapi.Message) (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic: %v", r)
				log.Error().Interface("panic", r).Int64("chat_id", msg.Chat.ID).Msg("handler panic")
				sendError(log, reply, msg.Chat.ID, MsgGenericError)
			}
		}()

		err = next(ctx, msg)
		if err == nil {
			return nil
		}

		observability.RecordBotMessage("error")
		text, expected := userMessage(err)
		if expected {
			log.Warn().Err(err).Int64("chat_id", msg.Chat.ID).Msg("request rejected")
			err = nil
		}
		sendError(log, reply, msg.Chat.ID, text)
		return err
	}
}

// userMessage maps an error to its reply text.
// Expected reports input problems that are not failures of the service.
func userMessage(err error) (text string, expected bool) {
	switch {
	case errors.Is(err, ErrInvalidAddress):
		return MsgInvalidAddress, true
	case errors.Is(err, errRateLimited):
		return MsgRateLimited, true
	case errors.Is(err, domain.ErrDataUnavailable), errors.Is(err, context.DeadlineExceeded):
		return MsgTryLater, false
	case errors.Is(err, domain.ErrAnalysisFailed):
		return MsgServiceUnavailable, false
	default:
		return MsgGenericError, false
	}
}

func sendError(log zerolog.Logger, reply func(int64, string) error, chatID int64, text string) {
	if err := reply(chatID, text); err != nil {
		log.Error().Err(err).Int64("chat_id", chatID).Msg("failed to send error message")
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
