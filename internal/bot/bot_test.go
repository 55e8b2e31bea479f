package bot

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"betledger/internal/pkg/models"
)

// fakeTelegram records every API method call made by the bot.
type fakeTelegram struct {
	mu    sync.Mutex
	calls map[string]url.Values
}

func newFakeTelegram(t *testing.T) (*fakeTelegram, *tgbotapi.BotAPI) {
	t.Helper()
	ft := &fakeTelegram{calls: make(map[string]url.Values)}

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		method := path.Base(r.URL.Path)
		ft.mu.Lock()
		ft.calls[method] = r.Form
		ft.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if method == "getMe" {
			fmt.Fprint(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"ledger","username":"ledgerbot"}}`)
			return
		}
		fmt.Fprint(w, `{"ok":true,"result":true}`)
	}))
	t.Cleanup(ts.Close)

	api, err := tgbotapi.NewBotAPIWithAPIEndpoint("test-token", ts.URL+"/bot%s/%s")
	if err != nil {
		t.Fatalf("create api against test server: %v", err)
	}
	return ft, api
}

func (f *fakeTelegram) call(method string) url.Values {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[method]
}

func TestCallbackWithoutMessageAnswersWithResult(t *testing.T) {
	ft, api := newFakeTelegram(t)
	store := newFakeBetStore()
	b := newTestBot(t, store, newFakePrefStore())
	b.api = api
	ctx := context.Background()

	if _, _, err := b.placeBet(ctx, 1, "Liverpool win / 2.5 / Bet365 / 100"); err != nil {
		t.Fatalf("placeBet: %v", err)
	}
	id := store.order[0]

	// Telegram omits Message on callbacks from sufficiently old keyboards.
	b.handleCallback(ctx, &tgbotapi.CallbackQuery{
		ID:   "cb1",
		From: &tgbotapi.User{ID: 42},
		Data: settleCallbackData(id, "win"),
	})

	if got := store.bets[id].Status; got != models.StatusWin {
		t.Fatalf("Status = %q, want Win", got)
	}

	answer := ft.call("answerCallbackQuery")
	if answer == nil {
		t.Fatal("expected an answerCallbackQuery call")
	}
	if got := answer.Get("text"); !strings.Contains(got, "settled as Win") {
		t.Errorf("answer text %q missing the settlement result", got)
	}
	if answer.Get("show_alert") != "true" {
		t.Errorf("show_alert = %q, want true", answer.Get("show_alert"))
	}
	if ft.call("sendMessage") != nil {
		t.Error("no chat message can be sent without a source message")
	}
}
