package bot

import (
	"context"
	"strconv"
	"strings"

	"github.com/Fi44er/reward_bot/internal/models"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// withUserCheck resolves the sender's record before calling handler. Unknown
// senders are created on the spot; a /start payload becomes their referrer.
func (b *Bot) withUserCheck(handler func(context.Context, tgbotapi.Update, *models.User)) func(context.Context, tgbotapi.Update) {
	return func(ctx context.Context, update tgbotapi.Update) {
		userID, chatID := senderAndChat(update)

		if _, err := b.service.RegisterUser(ctx, userID, referrerFromUpdate(update)); err != nil {
			b.logger.Errorf("Failed to create user %d: %v", userID, err)
			b.replyError(update, chatID)
			return
		}

		user, err := b.service.GetUser(ctx, userID)
		if err != nil {
			b.logger.Errorf("Failed to get user %d: %v", userID, err)
			b.replyError(update, chatID)
			return
		}

		handler(ctx, update, user)
	}
}

func senderAndChat(update tgbotapi.Update) (int64, int64) {
	if cq := update.CallbackQuery; cq != nil {
		chatID := cq.From.ID
		if cq.Message != nil && cq.Message.Chat != nil {
			chatID = cq.Message.Chat.ID
		}
		return cq.From.ID, chatID
	}
	return update.Message.From.ID, update.Message.Chat.ID
}

func (b *Bot) replyError(update tgbotapi.Update, chatID int64) {
	if update.CallbackQuery != nil {
		b.answerAlert(update.CallbackQuery.ID, genericErrorText)
		return
	}
	b.sendPlain(chatID, genericErrorText, nil)
}

// referrerFromUpdate reads the numeric payload of "/start <id>". Anything
// else yields nil.
func referrerFromUpdate(update tgbotapi.Update) *int64 {
	msg := update.Message
	if msg == nil || !msg.IsCommand() || msg.Command() != "start" {
		return nil
	}

	args := strings.Fields(msg.CommandArguments())
	if len(args) == 0 {
		return nil
	}
	ref, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil || ref <= 0 {
		return nil
	}
	return &ref
}
