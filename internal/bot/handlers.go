package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"betledger/internal/pkg/metrics"
	"betledger/internal/pkg/settlement"
	"betledger/internal/pkg/storage"
	"betledger/internal/pkg/summary"
)

const helpText = "*Bet ledger*\n\n" +
	"Send a bet as a slash-separated line:\n" +
	"`Selection / Odds / Bookmaker / Stake`\n" +
	"`Tipster / Selection / Odds / Bookmaker / Stake`\n" +
	"`Selection / Odds / Bookmaker / Stake / EventDateTime`\n" +
	"`Tipster / Selection / Odds / Bookmaker / Stake / EventDateTime`\n\n" +
	"Odds are decimal, e.g. `2.1`.\n" +
	"Event dates like `20/09 19:45`, `tomorrow 19:45` or `2026-09-20 19:45`.\n\n" +
	"Commands:\n" +
	"/tipster `<name>` — set the default tipster for this chat\n" +
	"/settle `<bet id> <win|loss|void>` — settle a bet\n" +
	"/summary `[from] [to]` — profit report (current month by default)\n" +
	"/health — check storage connectivity"

// placeBet resolves a free-text line, persists the bet and builds the
// confirmation with inline settle buttons. A rejection is a normal reply,
// not an error.
func (b *Bot) placeBet(ctx context.Context, chatID int64, line string) (string, *tgbotapi.InlineKeyboardMarkup, error) {
	defaultTipster, err := b.prefs.DefaultTipster(ctx, chatID)
	if err != nil {
		return "", nil, fmt.Errorf("reading default tipster: %w", err)
	}

	bet, rej := b.resolver.Resolve(line, defaultTipster)
	if rej != nil {
		metrics.LinesRejected.Inc()
		return rej.Message, nil, nil
	}

	if err := b.bets.Append(ctx, bet); err != nil {
		return "", nil, fmt.Errorf("saving bet: %w", err)
	}
	metrics.BetsPlaced.Inc()

	var sb strings.Builder
	fmt.Fprintf(&sb, "✅ Bet recorded\n`%s`\n\n", bet.ID)
	fmt.Fprintf(&sb, "*%s* @ `%s` (%s)\n",
		escapeMarkdown(bet.Selection), bet.Odds.String(), escapeMarkdown(bet.Bookmaker))
	fmt.Fprintf(&sb, "Tipster: %s | Stake: %s",
		escapeMarkdown(bet.Tipster), summary.GBP(bet.Stake))
	if bet.EventDate != nil {
		fmt.Fprintf(&sb, "\nEvent: %s", bet.EventDate.Format("02 Jan 2006 15:04"))
	}

	keyboard := settleKeyboard(bet.ID)
	return sb.String(), &keyboard, nil
}

// settleBet is shared by the /settle command and the inline buttons.
func (b *Bot) settleBet(ctx context.Context, id, outcomeArg string) (string, error) {
	outcome, err := settlement.ParseOutcome(outcomeArg)
	if err != nil {
		return err.Error(), nil
	}

	bet, err := b.bets.FindByID(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Sprintf("No bet with id `%s`.", id), nil
	}
	if err != nil {
		return "", fmt.Errorf("loading bet: %w", err)
	}

	ret, profit := settlement.Compute(bet.Odds, bet.Stake, outcome)
	err = b.bets.Settle(ctx, id, outcome.Status(), ret, profit)
	switch {
	case errors.Is(err, storage.ErrAlreadySettled):
		return fmt.Sprintf("Bet `%s` is already settled as *%s*.", id, bet.Status), nil
	case errors.Is(err, storage.ErrNotFound):
		return fmt.Sprintf("No bet with id `%s`.", id), nil
	case err != nil:
		return "", fmt.Errorf("settling bet: %w", err)
	}
	metrics.BetsSettled.WithLabelValues(string(outcome)).Inc()

	return fmt.Sprintf("%s *%s* settled as *%s*\nReturn: %s | Profit: %s",
		outcomeEmoji(outcome), escapeMarkdown(bet.Selection), outcome,
		summary.GBP(ret), summary.GBP(profit)), nil
}

// summarize builds the period profit report. args are the /summary arguments.
func (b *Bot) summarize(ctx context.Context, args []string) (string, error) {
	window, err := summary.ParseWindow(args, b.resolver.Now(), b.resolver.Loc)
	if err != nil {
		return err.Error(), nil
	}

	bets, err := b.bets.List(ctx)
	if err != nil {
		return "", fmt.Errorf("listing bets: %w", err)
	}
	metrics.SummaryRequests.Inc()

	return summary.Render(summary.Build(bets, window)), nil
}

func (b *Bot) setTipster(ctx context.Context, chatID int64, name string) (string, error) {
	if name == "" {
		current, err := b.prefs.DefaultTipster(ctx, chatID)
		if err != nil {
			return "", fmt.Errorf("reading default tipster: %w", err)
		}
		if current == "" {
			return "No default tipster set. Use `/tipster <name>`.", nil
		}
		return fmt.Sprintf("Default tipster is *%s*. Use `/tipster <name>` to change it.",
			escapeMarkdown(current)), nil
	}

	if err := b.prefs.SetDefaultTipster(ctx, chatID, name); err != nil {
		return "", fmt.Errorf("saving default tipster: %w", err)
	}
	return fmt.Sprintf("Default tipster for this chat set to *%s*.", escapeMarkdown(name)), nil
}

func (b *Bot) checkHealth(ctx context.Context) string {
	if b.health == nil {
		return "No health check configured."
	}
	if err := b.health(ctx); err != nil {
		return "❌ Unhealthy: " + err.Error()
	}
	return "✅ All storage backends reachable."
}

func settleKeyboard(betID string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🏆 Win", settleCallbackData(betID, "win")),
			tgbotapi.NewInlineKeyboardButtonData("❌ Loss", settleCallbackData(betID, "loss")),
			tgbotapi.NewInlineKeyboardButtonData("↩️ Void", settleCallbackData(betID, "void")),
		),
	)
}

func settleCallbackData(betID, outcome string) string {
	return "settle:" + betID + ":" + outcome
}

// parseSettleCallback splits "settle:<id>:<outcome>" callback data.
func parseSettleCallback(data string) (id, outcome string, ok bool) {
	rest, found := strings.CutPrefix(data, "settle:")
	if !found {
		return "", "", false
	}
	id, outcome, found = strings.Cut(rest, ":")
	if !found || id == "" || outcome == "" {
		return "", "", false
	}
	return id, outcome, true
}

func outcomeEmoji(o settlement.Outcome) string {
	switch o {
	case settlement.Win:
		return "🏆"
	case settlement.Loss:
		return "❌"
	default:
		return "↩️"
	}
}
