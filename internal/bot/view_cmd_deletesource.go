package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/0x0BSoD/saaHub/internal/botkit"
	"github.com/0x0BSoD/saaHub/internal/storage"
)

type SourceDeleter interface {
	Delete(ctx context.Context, id int64) error
}

func ViewCmdDeleteSource(deleter SourceDeleter) botkit.ViewFunc {
	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		id, err := strconv.ParseInt(strings.TrimSpace(update.Message.CommandArguments()), 10, 64)
		if err != nil {
			_, _ = bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Usage: /deletesource <id>"))
			return nil
		}

		text := fmt.Sprintf("Source %d deleted.", id)
		if err := deleter.Delete(ctx, id); err != nil {
			if !errors.Is(err, storage.ErrNotFound) {
				return err
			}
			text = fmt.Sprintf("Source %d not found.", id)
		}

		_, err = bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, text))
		return err
	}
}
