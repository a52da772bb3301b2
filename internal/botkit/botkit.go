// Package botkit runs the Telegram update loop and dispatches commands to views.
package botkit

import (
	"context"
	"log"
	"runtime/debug"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const updateTimeout = 5 * time.Minute

type ViewFunc func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error

type Bot struct {
	api      *tgbotapi.BotAPI
	cmdViews map[string]ViewFunc
}

func New(api *tgbotapi.BotAPI) *Bot {
	return &Bot{api: api, cmdViews: make(map[string]ViewFunc)}
}

func (b *Bot) RegisterCmdView(cmd string, view ViewFunc) {
	b.cmdViews[cmd] = view
}

func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case update := <-updates:
			updateCtx, cancel := context.WithTimeout(ctx, updateTimeout)
			b.HandleUpdate(updateCtx, update)
			cancel()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// HandleUpdate runs the view registered for the update's command, if any.
// A failing or panicking view is answered with a short error message.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if p := recover(); p != nil {
			log.Printf("[ERROR] panic recovered: %v\n%s", p, debug.Stack())
		}
	}()

	if update.Message == nil || !update.Message.IsCommand() {
		return
	}

	view, ok := b.cmdViews[update.Message.Command()]
	if !ok {
		return
	}

	if err := view(ctx, b.api, update); err != nil {
		log.Printf("[ERROR] failed to execute view /%s: %v", update.Message.Command(), err)

		if _, err := b.api.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Internal error")); err != nil {
			log.Printf("[ERROR] failed to send error message: %v", err)
		}
	}
}
