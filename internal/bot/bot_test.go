package bot

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/Fi44er/reward_bot/config"
	"github.com/Fi44er/reward_bot/db"
	"github.com/Fi44er/reward_bot/internal/repository"
	"github.com/Fi44er/reward_bot/internal/service"
	"github.com/Fi44er/reward_bot/internal/session"
	"github.com/Fi44er/reward_bot/utils"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type outgoing struct {
	chatID int64
	text   string
	markup *tgbotapi.InlineKeyboardMarkup
	edit   bool
}

type fakeClient struct {
	mu        sync.Mutex
	sent      []outgoing
	callbacks []tgbotapi.CallbackConfig
	statuses  map[string]string
	failSend  map[int64]bool
	updates   chan tgbotapi.Update
	stopped   bool
	nextID    int
}

func newFakeClient() *fakeClient {
	return &fakeClient{
		statuses: map[string]string{},
		failSend: map[int64]bool{},
		updates:  make(chan tgbotapi.Update),
	}
}

func (c *fakeClient) Send(chattable tgbotapi.Chattable) (tgbotapi.Message, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out outgoing
	switch m := chattable.(type) {
	case tgbotapi.MessageConfig:
		if c.failSend[m.ChatID] {
			return tgbotapi.Message{}, errors.New("Forbidden: bot was blocked by the user")
		}
		out = outgoing{chatID: m.ChatID, text: m.Text}
		if markup, ok := m.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup); ok {
			out.markup = &markup
		}
	case tgbotapi.EditMessageTextConfig:
		out = outgoing{chatID: m.ChatID, text: m.Text, markup: m.ReplyMarkup, edit: true}
	default:
		return tgbotapi.Message{}, errors.New("unexpected chattable")
	}

	c.sent = append(c.sent, out)
	c.nextID++
	return tgbotapi.Message{MessageID: c.nextID}, nil
}

func (c *fakeClient) Request(chattable tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cb, ok := chattable.(tgbotapi.CallbackConfig); ok {
		c.callbacks = append(c.callbacks, cb)
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (c *fakeClient) GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	status, ok := c.statuses[config.SuperGroupUsername]
	if !ok {
		status = "member"
	}
	return tgbotapi.ChatMember{Status: status}, nil
}

func (c *fakeClient) GetMe() (tgbotapi.User, error) {
	return tgbotapi.User{ID: 999, IsBot: true, UserName: "reward_test_bot"}, nil
}

func (c *fakeClient) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return c.updates
}

func (c *fakeClient) StopReceivingUpdates() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopped = true
}

// lastTo returns the latest message sent to or edited in chatID.
func (c *fakeClient) lastTo(t *testing.T, chatID int64) outgoing {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.sent) - 1; i >= 0; i-- {
		if c.sent[i].chatID == chatID {
			return c.sent[i]
		}
	}
	t.Fatalf("nothing was sent to %d", chatID)
	return outgoing{}
}

func (c *fakeClient) countTo(chatID int64) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, out := range c.sent {
		if out.chatID == chatID {
			n++
		}
	}
	return n
}

func (c *fakeClient) lastCallback(t *testing.T) tgbotapi.CallbackConfig {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	require.NotEmpty(t, c.callbacks, "no callback was answered")
	return c.callbacks[len(c.callbacks)-1]
}

type botEnv struct {
	bot      *Bot
	client   *fakeClient
	svc      *service.Service
	sessions session.Store
}

func newTestBot(t *testing.T) *botEnv {
	t.Helper()
	logger := utils.InitLogger()
	logger.SetOutput(io.Discard)

	database, err := db.ConnectDb("sqlite", filepath.Join(t.TempDir(), "bot.db"), logger)
	require.NoError(t, err)
	require.NoError(t, db.Migrate(database, true, logger))
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			sqlDB.Close()
		}
	})

	client := newFakeClient()
	messenger := NewMessenger(client)
	cfg := &config.Config{AdminClaimPIN: "1234", BroadcastConcurrency: 2}
	svc := service.NewService(repository.NewRepository(database, logger), messenger, messenger, cfg, logger)
	require.NoError(t, svc.Init(context.Background()))

	sessions := session.NewMemoryStore()
	return &botEnv{
		bot:      NewBot(client, svc, sessions, logger),
		client:   client,
		svc:      svc,
		sessions: sessions,
	}
}

func textUpdate(userID int64, text string) tgbotapi.Update {
	msg := &tgbotapi.Message{
		MessageID: 1,
		From:      &tgbotapi.User{ID: userID, FirstName: "Ann"},
		Chat:      &tgbotapi.Chat{ID: userID, Type: "private"},
		Text:      text,
	}
	if strings.HasPrefix(text, "/") {
		command := strings.Fields(text)[0]
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(command)}}
	}
	return tgbotapi.Update{Message: msg}
}

func callbackUpdate(userID int64, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:   "cb-" + data,
		From: &tgbotapi.User{ID: userID, FirstName: "Ann"},
		Message: &tgbotapi.Message{
			MessageID: 42,
			Chat:      &tgbotapi.Chat{ID: userID, Type: "private"},
		},
		Data: data,
	}}
}

func (e *botEnv) text(userID int64, text string) {
	e.bot.HandleUpdate(context.Background(), textUpdate(userID, text))
}

func (e *botEnv) press(userID int64, data string) {
	e.bot.HandleUpdate(context.Background(), callbackUpdate(userID, data))
}

func (e *botEnv) pending(t *testing.T, userID int64) session.Action {
	t.Helper()
	action, err := e.sessions.Get(context.Background(), userID)
	require.NoError(t, err)
	return action
}

func (e *botEnv) balance(t *testing.T, userID int64) decimal.Decimal {
	t.Helper()
	balance, err := e.svc.Balance(context.Background(), userID)
	require.NoError(t, err)
	return balance
}

// claimAdmin makes adminID the admin through the command flow.
func (e *botEnv) claimAdmin(t *testing.T, adminID int64) {
	t.Helper()
	e.text(adminID, "/claimadmin 1234")
	require.Contains(t, e.client.lastTo(t, adminID).text, "You are now the admin")
}

func decimalOf(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
