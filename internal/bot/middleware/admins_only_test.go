package middleware

import (
	"context"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0x0BSoD/saaHub/internal/botkit/telegramtest"
)

func TestAdminsOnly(t *testing.T) {
	_, api := telegramtest.New(t, 7)

	calls := 0
	view := AdminsOnly(-100, func(context.Context, *tgbotapi.BotAPI, tgbotapi.Update) error {
		calls++
		return nil
	})

	require.NoError(t, view(context.Background(), api, telegramtest.Command(42, 7, "/listsources")))
	assert.Equal(t, 1, calls)

	require.NoError(t, view(context.Background(), api, telegramtest.Command(42, 8, "/listsources")))
	assert.Equal(t, 1, calls, "non-admin must not reach the view")
}
