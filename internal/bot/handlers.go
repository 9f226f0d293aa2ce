package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Fi44er/reward_bot/internal/models"
	"github.com/Fi44er/reward_bot/internal/service"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

func (b *Bot) handleMessage(ctx context.Context, update tgbotapi.Update, user *models.User) {
	msg := update.Message
	chatID := msg.Chat.ID

	if !msg.IsCommand() {
		b.handleText(ctx, update, user)
		return
	}

	b.logger.Infof("Processing command /%s from user %d", msg.Command(), user.TelegramID)

	switch msg.Command() {
	case "start":
		b.handleStart(ctx, chatID, msg.From.FirstName, user)
	case "admin":
		b.handleAdmin(ctx, chatID, user)
	case "claimadmin":
		b.handleClaimAdmin(ctx, chatID, user, msg.CommandArguments())
	case "myid":
		b.sendMessage(chatID, fmt.Sprintf("Your ID: `%d`", user.TelegramID), nil)
	case "cancel":
		b.clearPending(ctx, user.TelegramID)
		b.sendHome(ctx, chatID, user, msg.From.FirstName, "❌ Cancelled. Use the buttons below 👇")
	default:
		if user.IsBanned {
			b.sendPlain(chatID, "You are banned.", nil)
			return
		}
		b.sendHome(ctx, chatID, user, msg.From.FirstName, "")
	}
}

func (b *Bot) handleStart(ctx context.Context, chatID int64, firstName string, user *models.User) {
	if user.IsBanned {
		b.sendPlain(chatID, "You are banned from using this bot.", nil)
		return
	}
	b.sendHome(ctx, chatID, user, firstName, "")
}

func (b *Bot) handleAdmin(ctx context.Context, chatID int64, user *models.User) {
	settings, err := b.service.LoadSettings(ctx)
	if err != nil {
		b.logger.Errorf("Failed to load settings: %v", err)
		b.sendPlain(chatID, genericErrorText, nil)
		return
	}
	if !settings.IsAdmin(user.TelegramID) {
		b.sendPlain(chatID, "You are not an admin.", nil)
		return
	}
	b.sendMessage(chatID, "🛠 *Admin Panel*", AdminPanelKeyboard(settings))
}

func (b *Bot) handleClaimAdmin(ctx context.Context, chatID int64, user *models.User, args string) {
	var pin string
	if fields := strings.Fields(args); len(fields) > 0 {
		pin = fields[0]
	}

	err := b.service.ClaimAdmin(ctx, user.TelegramID, pin)
	switch {
	case err == nil:
		b.sendPlain(chatID, "✅ You are now the admin. Use /admin to open the panel.", nil)
	case errors.Is(err, service.ErrAdminAlreadySet):
		b.sendPlain(chatID, "Admin already set.", nil)
	case errors.Is(err, service.ErrMissingPIN):
		b.sendPlain(chatID, "Usage: /claimadmin <PIN>", nil)
	case errors.Is(err, service.ErrClaimDisabled):
		b.sendPlain(chatID, "Admin claim is disabled on this bot.", nil)
	case errors.Is(err, service.ErrWrongPIN):
		b.sendPlain(chatID, "❌ Wrong PIN.", nil)
	default:
		b.logger.Errorf("Failed to claim admin for user %d: %v", user.TelegramID, err)
		b.sendPlain(chatID, genericErrorText, nil)
	}
}

// homeText builds the home screen text. An empty override shows the balance.
func (b *Bot) homeText(ctx context.Context, user *models.User, firstName, override string) (string, error) {
	if override != "" {
		return override, nil
	}
	settings, err := b.service.LoadSettings(ctx)
	if err != nil {
		return "", err
	}
	balance, err := b.service.Balance(ctx, user.TelegramID)
	if err != nil {
		return "", err
	}
	return HomeText(firstName, balance, settings), nil
}

func (b *Bot) sendHome(ctx context.Context, chatID int64, user *models.User, firstName, override string) {
	text, err := b.homeText(ctx, user, firstName, override)
	if err != nil {
		b.logger.Errorf("Failed to render home for user %d: %v", user.TelegramID, err)
		b.sendPlain(chatID, genericErrorText, nil)
		return
	}
	b.sendMessage(chatID, text, MainMenuKeyboard())
}

func (b *Bot) editHome(ctx context.Context, cq *tgbotapi.CallbackQuery, user *models.User, override string) {
	text, err := b.homeText(ctx, user, cq.From.FirstName, override)
	if err != nil {
		b.logger.Errorf("Failed to render home for user %d: %v", user.TelegramID, err)
		return
	}
	chatID, messageID := callbackTarget(cq)
	b.editMessage(chatID, messageID, text, inlineMarkup(MainMenuKeyboard()))
}
