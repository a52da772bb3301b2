package notifier

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"

	"github.com/0x0BSoD/saaHub/internal/botkit/markup"
	"github.com/0x0BSoD/saaHub/internal/model"
)

type ArticleProvider interface {
	AllNotPosted(ctx context.Context, since time.Time, relevance model.Relevance, limit uint64) ([]model.Article, error)
	MarkAsPosted(ctx context.Context, id string) error
}

// Notifier posts High-relevance articles that were not posted yet to a channel.
type Notifier struct {
	articles         ArticleProvider
	bot              *tgbotapi.BotAPI
	sendInterval     time.Duration
	lookupTimeWindow time.Duration
	channelID        int64
}

func New(
	articleProvider ArticleProvider,
	bot *tgbotapi.BotAPI,
	sendInterval time.Duration,
	lookupTimeWindow time.Duration,
	channelID int64,
) *Notifier {
	return &Notifier{
		articles:         articleProvider,
		bot:              bot,
		sendInterval:     sendInterval,
		lookupTimeWindow: lookupTimeWindow,
		channelID:        channelID,
	}
}

// Start posts on every tick until ctx is done. Failures are logged and the
// article is retried on the next tick.
func (n *Notifier) Start(ctx context.Context) error {
	log.Printf("[INFO] Notifier started")

	ticker := time.NewTicker(n.sendInterval)
	defer ticker.Stop()

	n.sendOnce(ctx)

	for {
		select {
		case <-ticker.C:
			n.sendOnce(ctx)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (n *Notifier) sendOnce(ctx context.Context) {
	if err := n.SelectAndSendArticle(ctx); err != nil && ctx.Err() == nil {
		log.Printf("[ERROR] failed to post article: %v", err)
	}
}

func (n *Notifier) SelectAndSendArticle(ctx context.Context) error {
	topOneArticles, err := n.articles.AllNotPosted(ctx, time.Now().Add(-n.lookupTimeWindow), model.RelevanceHigh, 1)
	if err != nil {
		return err
	}

	if len(topOneArticles) == 0 {
		return nil
	}

	article := topOneArticles[0]
	log.Printf("[INFO] posting article %s: %s", article.ID, article.Title)

	msg := tgbotapi.NewMessage(n.channelID, formatArticle(article))
	msg.ParseMode = "MarkdownV2"

	if _, err := n.bot.Send(msg); err != nil {
		if !rejected(err) {
			return err
		}
		log.Printf("[ERROR] telegram rejected article %s, skipping it: %v", article.ID, err)
	}

	return n.articles.MarkAsPosted(ctx, article.ID)
}

// rejected reports whether the Bot API refused the message itself, so that
// sending it again would fail the same way. Rate limits are not rejections.
func rejected(err error) bool {
	var apiErr *tgbotapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.Code == http.StatusTooManyRequests || apiErr.RetryAfter > 0 {
		return false
	}
	return apiErr.Code == 0 || (apiErr.Code >= 400 && apiErr.Code < 500)
}

var (
	redundantNewLines = regexp.MustCompile(`\n{3,}`)
	nonTagChars       = regexp.MustCompile(`[^\p{L}\p{N}]+`)
)

func cleanupText(text string) string {
	return redundantNewLines.ReplaceAllString(strings.TrimSpace(text), "\n\n")
}

// hashtag turns "Cost-Optimized Architectures" into "CostOptimizedArchitectures".
func hashtag(s string) string {
	return nonTagChars.ReplaceAllString(s, "")
}

func formatArticle(a model.Article) string {
	var b strings.Builder

	fmt.Fprintf(&b, "*%s*", markup.EscapeForMarkdown(a.Title))
	if note := cleanupText(a.ExamNote); note != "" {
		fmt.Fprintf(&b, "\n\n%s", markup.EscapeForMarkdown(note))
	}
	if len(a.Services) > 0 {
		fmt.Fprintf(&b, "\n\n_%s_", markup.EscapeForMarkdown(strings.Join(a.Services, ", ")))
	}
	fmt.Fprintf(&b, "\n\n%s", markup.EscapeForMarkdown(a.Link))

	tags := lo.Filter(
		append([]string{hashtag(a.Source)}, lo.Map(a.Domains, func(d model.Domain, _ int) string { return hashtag(string(d)) })...),
		func(t string, _ int) bool { return t != "" },
	)
	if len(tags) > 0 {
		b.WriteString("\n")
		for i, t := range tags {
			if i > 0 {
				b.WriteString(" ")
			}
			b.WriteString("\\#" + t)
		}
	}

	return b.String()
}
