package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"

	"github.com/0x0BSoD/saaHub/internal/botkit"
	"github.com/0x0BSoD/saaHub/internal/botkit/markup"
	"github.com/0x0BSoD/saaHub/internal/model"
)

type SourceLister interface {
	Sources(ctx context.Context) ([]model.Source, error)
}

func ViewCmdListSources(lister SourceLister) botkit.ViewFunc {
	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		sources, err := lister.Sources(ctx)
		if err != nil {
			return err
		}

		text := "No sources configured\\."
		if len(sources) > 0 {
			lines := lo.Map(sources, func(s model.Source, _ int) string {
				return fmt.Sprintf("`%d` *%s*\n%s",
					s.ID,
					markup.EscapeForMarkdown(s.Name),
					markup.EscapeForMarkdown(s.FeedURL),
				)
			})
			text = "Sources:\n\n" + strings.Join(lines, "\n\n")
		}

		reply := tgbotapi.NewMessage(update.Message.Chat.ID, text)
		reply.ParseMode = parseModeMarkdownV2

		_, err = bot.Send(reply)
		return err
	}
}
