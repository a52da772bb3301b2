package bot

import (
	"context"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"

	"github.com/0x0BSoD/saaHub/internal/botkit"
	"github.com/0x0BSoD/saaHub/internal/botkit/markup"
	"github.com/0x0BSoD/saaHub/internal/filter"
	"github.com/0x0BSoD/saaHub/internal/model"
)

const maxSearchResults = 5

type ArticleFinder interface {
	Filter(sel filter.Selection) []model.Article
}

// ViewCmdSearch answers "/search <text>" or "/search {json selection}" with
// the first matching articles.
func ViewCmdSearch(finder ArticleFinder) botkit.ViewFunc {
	return func(_ context.Context, bot *tgbotapi.BotAPI, update tgbotapi.Update) error {
		sel, err := searchSelection(update.Message.CommandArguments())
		if err != nil {
			_, _ = bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, err.Error()))
			return nil
		}

		reply := tgbotapi.NewMessage(update.Message.Chat.ID, formatSearchResults(finder.Filter(sel)))
		reply.ParseMode = parseModeMarkdownV2
		reply.DisableWebPagePreview = true

		_, err = bot.Send(reply)
		return err
	}
}

func searchSelection(args string) (filter.Selection, error) {
	args = strings.TrimSpace(args)
	if !strings.HasPrefix(args, "{") {
		return filter.Selection{}.WithSearch(args), nil
	}

	sel, err := botkit.ParseJSON[filter.Selection](args)
	if err != nil {
		return filter.Selection{}, err
	}
	for _, d := range sel.Domains {
		if _, err := model.ParseDomain(string(d)); err != nil {
			return filter.Selection{}, err
		}
	}
	return sel, nil
}

func formatSearchResults(articles []model.Article) string {
	if len(articles) == 0 {
		return "No articles match\\."
	}

	lines := lo.Map(lo.Slice(articles, 0, maxSearchResults), func(a model.Article, _ int) string {
		return fmt.Sprintf("*%s* \\[%s\\]\n%s",
			markup.EscapeForMarkdown(a.Title),
			markup.EscapeForMarkdown(string(a.Relevance)),
			markup.EscapeForMarkdown(a.Link),
		)
	})

	header := fmt.Sprintf("%d matching articles", len(articles))
	if len(articles) > maxSearchResults {
		header += fmt.Sprintf(", showing %d", maxSearchResults)
	}

	return markup.EscapeForMarkdown(header+":") + "\n\n" + strings.Join(lines, "\n\n")
}
