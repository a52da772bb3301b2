package middleware

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"

	"github.com/0x0BSoD/saaHub/internal/botkit"
)

// AdminsOnly runs next only when the sender administers channelID.
// Commands from anyone else are silently dropped.
func AdminsOnly(channelID int64, next botkit.ViewFunc) botkit.ViewFunc {
	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		admins, err := bot.GetChatAdministrators(
			tgbotapi.ChatAdministratorsConfig{
				ChatConfig: tgbotapi.ChatConfig{ChatID: channelID},
			},
		)
		if err != nil {
			return err
		}

		if update.Message.From == nil {
			return nil
		}

		isAdmin := lo.ContainsBy(admins, func(m tgbotapi.ChatMember) bool {
			return m.User != nil && m.User.ID == update.Message.From.ID
		})
		if !isAdmin {
			return nil
		}

		return next(ctx, bot, update)
	}
}
