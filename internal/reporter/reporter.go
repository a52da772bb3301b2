package reporter

import (
	"log/slog"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const defaultQuietPeriod = 30 * time.Minute

// Reporter sends short failure notices to a Telegram admin chat.
// It is nil-safe: if adminID is 0 or the receiver is nil, Notify is a no-op.
// Identical messages are sent at most once per quiet period.
type Reporter struct {
	bot     *tgbotapi.BotAPI
	adminID int64
	quiet   time.Duration
	now     func() time.Time

	mu       sync.Mutex
	lastSent map[string]time.Time
}

func New(bot *tgbotapi.BotAPI, adminID int64) *Reporter {
	return &Reporter{
		bot:      bot,
		adminID:  adminID,
		quiet:    defaultQuietPeriod,
		now:      time.Now,
		lastSent: make(map[string]time.Time),
	}
}

func (r *Reporter) Notify(msg string) {
	if r == nil || r.adminID == 0 {
		return
	}
	if !r.due(msg) {
		slog.Debug("suppressing repeated error notification", "msg", msg)
		return
	}
	if _, err := r.bot.Send(tgbotapi.NewMessage(r.adminID, "saaHub: "+msg)); err != nil {
		slog.Error("failed to send error notification", "err", err)
	}
}

func (r *Reporter) due(msg string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	for m, last := range r.lastSent {
		if now.Sub(last) >= r.quiet {
			delete(r.lastSent, m)
		}
	}

	if _, ok := r.lastSent[msg]; ok {
		return false
	}
	r.lastSent[msg] = now
	return true
}
