package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/0x0BSoD/saaHub/internal/botkit"
	"github.com/0x0BSoD/saaHub/internal/botkit/markup"
	"github.com/0x0BSoD/saaHub/internal/model"
	"github.com/0x0BSoD/saaHub/internal/source"
)

type SourceStorage interface {
	Add(ctx context.Context, source model.Source) (int64, error)
}

// FeedProber validates a feed URL and returns its title.
type FeedProber func(ctx context.Context, url string, insecure bool) (string, error)

func ViewCmdAddSource(storage SourceStorage, probe FeedProber) botkit.ViewFunc {
	type addSourceArgs struct {
		Name     string `json:"name"`
		URL      string `json:"url"`
		Insecure bool   `json:"insecure"`
	}

	if probe == nil {
		probe = source.Probe
	}

	return func(ctx context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		args, err := botkit.ParseJSON[addSourceArgs](update.Message.CommandArguments())
		if err != nil {
			return err
		}

		title, err := probe(ctx, args.URL, args.Insecure)
		if err != nil {
			reply := tgbotapi.NewMessage(update.Message.Chat.ID,
				fmt.Sprintf("Could not read a feed at that URL: %v", err))
			_, _ = bot.Send(reply)
			return nil
		}

		name := strings.TrimSpace(args.Name)
		if name == "" {
			name = title
		}

		sourceID, err := storage.Add(ctx, model.Source{
			Name:     name,
			FeedURL:  args.URL,
			Insecure: args.Insecure,
		})
		if err != nil {
			return err
		}

		reply := tgbotapi.NewMessage(update.Message.Chat.ID, fmt.Sprintf(
			"Source *%s* added with ID `%d`\\. Use this ID to delete it\\.",
			markup.EscapeForMarkdown(name),
			sourceID,
		))
		reply.ParseMode = parseModeMarkdownV2

		_, err = bot.Send(reply)
		return err
	}
}
