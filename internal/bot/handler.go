// Package bot is the Telegram transport for token analyses.
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
	"tokenbrain/internal/storage"
)

// HistoryLimit is the number of records shown by /history.
const HistoryLimit = 5

// DefaultAnalysisTimeout bounds one analysis issued from chat.
const DefaultAnalysisTimeout = 30 * time.Second

// errRateLimited is mapped to MsgRateLimited.
var errRateLimited = errors.New("rate limited")

// Sender is the subset of *tgbotapi.BotAPI used to reply.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Analyzer runs one analysis (orchestrator.Orchestrator).
type Analyzer interface {
	Analyze(ctx context.Context, address string) (domain.AnalysisResult, error)
}

// HandlerOptions configures Handler.
type HandlerOptions struct {
	// Required
	Sender   Sender
	Analyzer Analyzer

	// Optional
	History            storage.AnalysisStore // /history disabled when nil
	RateLimitPerMinute int                   // 10 when zero
	AnalysisTimeout    time.Duration
	Logger             zerolog.Logger
}

// Handler routes incoming messages.
type Handler struct {
	sender   Sender
	analyzer Analyzer
	history  storage.AnalysisStore
	limiter  *userLimiter
	timeout  time.Duration
	log      zerolog.Logger

	handle handlerFunc
}

// NewHandler creates a message handler.
func NewHandler(opts HandlerOptions) *Handler {
	if opts.RateLimitPerMinute <= 0 {
		opts.RateLimitPerMinute = 10
	}
	if opts.AnalysisTimeout <= 0 {
		opts.AnalysisTimeout = DefaultAnalysisTimeout
	}

	h := &Handler{
		sender:   opts.Sender,
		analyzer: opts.Analyzer,
		history:  opts.History,
		limiter:  newUserLimiter(opts.RateLimitPerMinute),
		timeout:  opts.AnalysisTimeout,
		log:      observability.Component(opts.Logger, "bot"),
	}
	h.handle = withLogging(h.log, withErrors(h.log, h.reply, h.route))
	return h
}

// HandleUpdate processes one update. Only messages are handled.
func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil {
		return
	}
	_ = h.handle(ctx, update.Message)
}

func (h *Handler) route(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.IsCommand() {
		switch msg.Command() {
		case "start":
			observability.RecordBotMessage("start")
			return h.reply(msg.Chat.ID, MsgWelcome)
		case "help":
			observability.RecordBotMessage("help")
			return h.reply(msg.Chat.ID, MsgHelp)
		case "history":
			observability.RecordBotMessage("history")
			return h.handleHistory(ctx, msg)
		default:
			observability.RecordBotMessage("unknown_command")
			return h.reply(msg.Chat.ID, MsgUnknownCommand)
		}
	}

	return h.handleToken(ctx, msg)
}

func (h *Handler) handleToken(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.Text == "" {
		observability.RecordBotMessage("invalid")
		return &AddressError{Reason: "message has no text"}
	}

	address, err := Sanitize(msg.Text)
	if err != nil {
		observability.RecordBotMessage("invalid")
		return &AddressError{Reason: err.Error()}
	}
	if err := ValidateAddress(address); err != nil {
		observability.RecordBotMessage("invalid")
		return err
	}

	if !h.limiter.Allow(userID(msg)) {
		observability.RecordRateLimited()
		return errRateLimited
	}

	observability.RecordBotMessage("analysis")

	if _, err := h.sender.Request(tgbotapi.NewChatAction(msg.Chat.ID, tgbotapi.ChatTyping)); err != nil {
		h.log.Debug().Err(err).Msg("send typing action")
	}

	actx, cancel := context.WithTimeout(ctx, h.timeout)
	defer cancel()

	result, err := h.analyzer.Analyze(actx, address)
	if err != nil {
		return err
	}

	if err := h.reply(msg.Chat.ID, FormatResult(result)); err != nil {
		return err
	}

	h.record(ctx, result, msg)
	return nil
}

// record stores the analysis. Failures are logged only.
func (h *Handler) record(ctx context.Context, result domain.AnalysisResult, msg *tgbotapi.Message) {
	if h.history == nil {
		return
	}
	rec := domain.NewAnalysisRecord(result, msg.Chat.ID, userID(msg))
	if err := h.history.Insert(ctx, rec); err != nil {
		h.log.Warn().Err(err).Str("address", result.Address).Msg("store analysis history")
	}
}

func (h *Handler) handleHistory(ctx context.Context, msg *tgbotapi.Message) error {
	if h.history == nil {
		return h.reply(msg.Chat.ID, MsgNoHistory)
	}

	records, err := h.history.ListByChat(ctx, msg.Chat.ID, HistoryLimit)
	if err != nil {
		return fmt.Errorf("list history: %w", err)
	}
	return h.reply(msg.Chat.ID, FormatHistory(records))
}

func (h *Handler) reply(chatID int64, text string) error {
	m := tgbotapi.NewMessage(chatID, text)
	m.ParseMode = tgbotapi.ModeHTML
	m.DisableWebPagePreview = true
	if _, err := h.sender.Send(m); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func userID(msg *tgbotapi.Message) int64 {
	if msg.From != nil {
		return msg.From.ID
	}
	return msg.Chat.ID
}
