// Package bot wires the Telegram transport to the bet ledger: free-text
// lines go through the bet-line resolver, commands and inline buttons drive
// settlement and summaries. Every user-triggered operation is wrapped so a
// failure becomes a reply to the chat, never a crash of the process.
package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"betledger/internal/pkg/betline"
	"betledger/internal/pkg/metrics"
	"betledger/internal/pkg/storage"
)

// Options carries optional transport settings.
type Options struct {
	// AllowedUserIDs restricts the bot to specific users when non-empty.
	AllowedUserIDs []int64
	// UpdateTimeout is the long-polling timeout in seconds.
	UpdateTimeout int
	// Health is invoked by the /health command.
	Health metrics.HealthFunc
}

// Bot is the Telegram front end.
type Bot struct {
	api      *tgbotapi.BotAPI
	bets     storage.BetStore
	prefs    storage.PreferenceStore
	resolver *betline.Resolver
	log      *zap.Logger
	allowed  map[int64]struct{}
	timeout  int
	health   metrics.HealthFunc
}

// New assembles the bot. api may be nil in tests that only exercise the
// handler logic.
func New(api *tgbotapi.BotAPI, bets storage.BetStore, prefs storage.PreferenceStore,
	resolver *betline.Resolver, log *zap.Logger, opts Options) *Bot {

	allowed := make(map[int64]struct{}, len(opts.AllowedUserIDs))
	for _, id := range opts.AllowedUserIDs {
		allowed[id] = struct{}{}
	}
	timeout := opts.UpdateTimeout
	if timeout == 0 {
		timeout = 60
	}
	return &Bot{
		api:      api,
		bets:     bets,
		prefs:    prefs,
		resolver: resolver,
		log:      log,
		allowed:  allowed,
		timeout:  timeout,
		health:   opts.Health,
	}
}

// Run processes updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = b.timeout

	updates := b.api.GetUpdatesChan(u)
	b.log.Info("bot started", zap.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.log.Info("bot stopped")
			return
		case update := <-updates:
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(ctx, update.CallbackQuery)
	case update.Message != nil:
		b.handleMessage(ctx, update.Message)
	}
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	if msg.From != nil && !b.userAllowed(msg.From.ID) {
		b.reply(msg.Chat.ID, "Access denied. You are not authorized to use this bot.", nil)
		return
	}

	text := strings.TrimSpace(msg.Text)
	if text == "" {
		return
	}

	var (
		replyText string
		keyboard  *tgbotapi.InlineKeyboardMarkup
		err       error
	)

	if msg.IsCommand() {
		args := strings.Fields(msg.CommandArguments())
		switch msg.Command() {
		case "start", "help":
			replyText = helpText
		case "tipster":
			replyText, err = b.setTipster(ctx, msg.Chat.ID, strings.TrimSpace(msg.CommandArguments()))
		case "summary":
			replyText, err = b.summarize(ctx, args)
		case "settle":
			if len(args) != 2 {
				replyText = "Usage: `/settle <bet id> <win|loss|void>`"
			} else {
				replyText, err = b.settleBet(ctx, args[0], args[1])
			}
		case "health":
			replyText = b.checkHealth(ctx)
		default:
			replyText = "Unknown command. Use /help to see available commands."
		}
	} else {
		replyText, keyboard, err = b.placeBet(ctx, msg.Chat.ID, text)
	}

	if err != nil {
		b.log.Error("handler failed",
			zap.Int64("chat_id", msg.Chat.ID),
			zap.String("command", msg.Command()),
			zap.Error(err))
		replyText = "⚠️ Something went wrong: " + err.Error()
	}
	b.reply(msg.Chat.ID, replyText, keyboard)
}

func (b *Bot) handleCallback(ctx context.Context, cq *tgbotapi.CallbackQuery) {
	if cq.From != nil && !b.userAllowed(cq.From.ID) {
		b.answerCallback(cq.ID, "Access denied.")
		return
	}

	id, outcome, ok := parseSettleCallback(cq.Data)
	if !ok {
		b.answerCallback(cq.ID, "Unknown action.")
		return
	}

	replyText, err := b.settleBet(ctx, id, outcome)
	if err != nil {
		b.log.Error("settlement failed", zap.String("bet_id", id), zap.Error(err))
		replyText = "⚠️ Something went wrong: " + err.Error()
	}

	if cq.Message == nil {
		// The source message is too old for Telegram to include; the answer
		// popup is the only remaining channel for the result.
		alert := tgbotapi.NewCallbackWithAlert(cq.ID, stripMarkdown(replyText))
		if _, err := b.api.Request(alert); err != nil {
			b.log.Warn("failed to answer callback", zap.Error(err))
		}
		return
	}

	b.answerCallback(cq.ID, "")

	// Retire the buttons; the result message below is the record.
	edit := tgbotapi.NewEditMessageReplyMarkup(cq.Message.Chat.ID, cq.Message.MessageID,
		tgbotapi.NewInlineKeyboardMarkup())
	if _, err := b.api.Request(edit); err != nil {
		b.log.Warn("failed to clear settle keyboard", zap.Error(err))
	}
	b.reply(cq.Message.Chat.ID, replyText, nil)
}

func (b *Bot) userAllowed(userID int64) bool {
	if len(b.allowed) == 0 {
		return true
	}
	_, ok := b.allowed[userID]
	return ok
}

// reply sends Markdown text, split to respect Telegram's message size limit.
func (b *Bot) reply(chatID int64, text string, keyboard *tgbotapi.InlineKeyboardMarkup) {
	chunks := splitMessage(text)
	for i, chunk := range chunks {
		msg := tgbotapi.NewMessage(chatID, chunk)
		msg.ParseMode = tgbotapi.ModeMarkdown
		if keyboard != nil && i == len(chunks)-1 {
			msg.ReplyMarkup = *keyboard
		}
		if _, err := b.api.Send(msg); err != nil {
			b.log.Error("failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
			return
		}
	}
}

func (b *Bot) answerCallback(id, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		b.log.Warn("failed to answer callback", zap.Error(err))
	}
}
