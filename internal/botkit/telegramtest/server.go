// Package telegramtest provides a fake Telegram Bot API for tests.
package telegramtest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/require"
)

const Token = "test-token"

// Sent is one outgoing message captured by the server.
type Sent struct {
	ChatID    string
	Text      string
	ParseMode string
}

type Server struct {
	*httptest.Server

	mu      sync.Mutex
	sent    []Sent
	admins  []int64
	sendErr *apiError
}

type apiError struct {
	code        int
	description string
}

// New starts a fake API and returns it with a BotAPI pointed at it.
// The listed user IDs are reported as chat administrators.
func New(t *testing.T, admins ...int64) (*Server, *tgbotapi.BotAPI) {
	t.Helper()

	s := &Server{admins: admins}
	s.Server = httptest.NewServer(http.HandlerFunc(s.handle))
	t.Cleanup(s.Close)

	api, err := tgbotapi.NewBotAPIWithClient(Token, s.URL+"/bot%s/%s", s.Client())
	require.NoError(t, err)

	return s, api
}

// RejectSends makes every following sendMessage fail the way the Bot API
// reports a rejected request. A zero code is omitted from the response.
func (s *Server) RejectSends(code int, description string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sendErr = &apiError{code: code, description: description}
}

func (s *Server) Sent() []Sent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Sent(nil), s.sent...)
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]

	var result any
	switch method {
	case "getMe":
		result = map[string]any{"id": 1, "is_bot": true, "first_name": "saa", "username": "saa_hub_bot"}
	case "sendMessage":
		s.mu.Lock()
		if rejected := s.sendErr; rejected != nil {
			s.mu.Unlock()
			resp := map[string]any{"ok": false, "description": rejected.description}
			if rejected.code != 0 {
				resp["error_code"] = rejected.code
			}
			writeResponse(w, resp)
			return
		}
		s.sent = append(s.sent, Sent{
			ChatID:    r.FormValue("chat_id"),
			Text:      r.FormValue("text"),
			ParseMode: r.FormValue("parse_mode"),
		})
		s.mu.Unlock()
		result = map[string]any{"message_id": 1, "date": 0, "chat": map[string]any{"id": 1, "type": "private"}}
	case "getChatAdministrators":
		members := make([]map[string]any, 0, len(s.admins))
		for _, id := range s.admins {
			members = append(members, map[string]any{
				"user":   map[string]any{"id": id, "is_bot": false, "first_name": "admin"},
				"status": "administrator",
			})
		}
		result = members
	default:
		result = true
	}

	writeResponse(w, map[string]any{"ok": true, "result": result})
}

func writeResponse(w http.ResponseWriter, resp map[string]any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

// Command builds an update carrying a bot command sent by userID in chatID.
func Command(chatID, userID int64, text string) tgbotapi.Update {
	cmdLen := len(text)
	if i := strings.IndexByte(text, ' '); i > 0 {
		cmdLen = i
	}

	return tgbotapi.Update{
		Message: &tgbotapi.Message{
			Text: text,
			Chat: &tgbotapi.Chat{ID: chatID},
			From: &tgbotapi.User{ID: userID},
			Entities: []tgbotapi.MessageEntity{
				{Type: "bot_command", Offset: 0, Length: cmdLen},
			},
		},
	}
}
