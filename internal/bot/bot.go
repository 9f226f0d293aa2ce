package bot

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/Fi44er/reward_bot/internal/service"
	"github.com/Fi44er/reward_bot/internal/session"
	"github.com/Fi44er/reward_bot/utils"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Client is the part of *tgbotapi.BotAPI the bot uses.
type Client interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetChatMember(config tgbotapi.GetChatMemberConfig) (tgbotapi.ChatMember, error)
	GetMe() (tgbotapi.User, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type Bot struct {
	API      Client
	service  *service.Service
	sessions session.Store
	logger   *utils.Logger
}

func NewBot(
	api Client,
	svc *service.Service,
	sessions session.Store,
	logger *utils.Logger,
) *Bot {
	return &Bot{
		API:      api,
		service:  svc,
		sessions: sessions,
		logger:   logger,
	}
}

// Start pulls updates until ctx is done. Each user's updates are handled in
// order on a queue of their own; different users run concurrently.
func (b *Bot) Start(ctx context.Context) {
	b.logger.Info("Starting bot...")

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := b.API.GetUpdatesChan(u)

	// In-flight handlers finish their writes after shutdown starts.
	handlerCtx := context.WithoutCancel(ctx)
	queues := newUserQueues(func(update tgbotapi.Update) {
		b.HandleUpdate(handlerCtx, update)
	})
	defer queues.wait()

	for {
		select {
		case <-ctx.Done():
			b.logger.Info("Stopping bot...")
			b.API.StopReceivingUpdates()
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			b.logger.Debugf("Received update: %+v", update)

			userID, ok := senderID(update)
			if !ok {
				continue
			}
			queues.push(userID, update)
		}
	}
}

// HandleUpdate dispatches a single update. The caller serializes updates from
// the same user. A panic is logged and swallowed.
func (b *Bot) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Errorf("Recovered from panic in update %d: %v\n%s", update.UpdateID, r, debug.Stack())
		}
	}()

	if _, ok := senderID(update); !ok {
		return
	}

	switch {
	case update.CallbackQuery != nil:
		b.withUserCheck(b.handleCallbackQuery)(ctx, update)
	case update.Message != nil && update.Message.Text != "":
		b.withUserCheck(b.handleMessage)(ctx, update)
	}
}

func senderID(update tgbotapi.Update) (int64, bool) {
	switch {
	case update.CallbackQuery != nil && update.CallbackQuery.From != nil:
		return update.CallbackQuery.From.ID, true
	case update.Message != nil && update.Message.From != nil:
		return update.Message.From.ID, true
	}
	return 0, false
}

func (b *Bot) pendingAction(ctx context.Context, userID int64) session.Action {
	action, err := b.sessions.Get(ctx, userID)
	if err != nil {
		b.logger.Errorf("Failed to load pending action for user %d: %v", userID, err)
		return session.ActionNone
	}
	return action
}

func (b *Bot) setPending(ctx context.Context, userID int64, action session.Action) {
	if err := b.sessions.Set(ctx, userID, action); err != nil {
		b.logger.Errorf("Failed to store pending action %q for user %d: %v", action, userID, err)
		return
	}
	b.logger.Debugf("Set pending action for user %d: %s", userID, action)
}

func (b *Bot) clearPending(ctx context.Context, userID int64) {
	if err := b.sessions.Clear(ctx, userID); err != nil {
		b.logger.Errorf("Failed to clear pending action for user %d: %v", userID, err)
	}
}

func referralLink(username string, userID int64) string {
	return fmt.Sprintf("https://t.me/%s?start=%d", username, userID)
}
