package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Fi44er/reward_bot/internal/models"
	"github.com/Fi44er/reward_bot/internal/service"
	"github.com/Fi44er/reward_bot/internal/session"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// handleText routes free text according to the sender's pending action.
func (b *Bot) handleText(ctx context.Context, update tgbotapi.Update, user *models.User) {
	chatID := update.Message.Chat.ID
	userID := user.TelegramID
	text := strings.TrimSpace(update.Message.Text)

	settings, err := b.service.LoadSettings(ctx)
	if err != nil {
		b.logger.Errorf("Failed to load settings: %v", err)
		b.sendPlain(chatID, genericErrorText, nil)
		return
	}

	action := b.pendingAction(ctx, userID)

	switch {
	case action == session.ActionWithdrawRequest:
		b.handleWithdrawInput(ctx, chatID, user, settings, text)
		return
	case action.IsAdmin() && settings.IsAdmin(userID):
		b.handleAdminInput(ctx, chatID, userID, action, settings, text)
		return
	case action.IsAdmin():
		b.logger.Warnf("Dropping admin action %q left for non-admin %d", action, userID)
		b.clearPending(ctx, userID)
	}

	if settings.IsAdmin(userID) {
		return
	}
	if user.IsBanned {
		b.sendPlain(chatID, "You are banned.", nil)
		return
	}
	b.sendHome(ctx, chatID, user, update.Message.From.FirstName, "Hello! Use the buttons below 👇")
}

func (b *Bot) handleWithdrawInput(ctx context.Context, chatID int64, user *models.User, settings service.Settings, text string) {
	userID := user.TelegramID
	if user.IsBanned {
		b.clearPending(ctx, userID)
		b.sendPlain(chatID, "You are banned.", nil)
		return
	}

	request, err := b.service.SubmitWithdrawal(ctx, userID, text)
	switch {
	case err == nil:
	case errors.Is(err, service.ErrWithdrawClosed):
		b.clearPending(ctx, userID)
		b.sendPlain(chatID, "Withdrawals are currently OFF.", nil)
		return
	case errors.Is(err, service.ErrBadFormat):
		b.sendMessage(chatID, "Format: `amount wallet_or_account`\nExample: `2000 0123456789-AccessBank`", nil)
		return
	case errors.Is(err, service.ErrBadAmount):
		b.sendPlain(chatID, "Amount must be a number.", nil)
		return
	case errors.Is(err, service.ErrAmountOutOfRange):
		b.sendPlain(chatID, fmt.Sprintf("Amount must be between %s and %s.",
			settings.FormatAmount(settings.MinWithdraw), settings.FormatAmount(settings.MaxWithdraw)), nil)
		return
	case errors.Is(err, service.ErrInsufficientBalance):
		b.sendPlain(chatID, "Insufficient balance.", nil)
		return
	default:
		b.logger.Errorf("Failed to submit withdrawal for user %d: %v", userID, err)
		b.sendPlain(chatID, genericErrorText, nil)
		return
	}

	b.logger.Infof("Withdraw request #%d by user %d: %s", request.ID, userID, request.Amount)
	b.notifyAdminAboutWithdrawal(request, settings)
	b.sendPlain(chatID, "✅ Withdrawal request submitted. Admin will review.", nil)
	b.clearPending(ctx, userID)
}

// handleAdminInput applies the second step of an admin operation. A parse
// failure keeps the pending action so the admin can retry.
func (b *Bot) handleAdminInput(ctx context.Context, chatID, adminID int64, action session.Action, settings service.Settings, text string) {
	var err error

	switch action {
	case session.ActionAddBalance, session.ActionRemoveBalance:
		target, amount, perr := service.ParseBalanceInput(text)
		if errors.Is(perr, service.ErrBadFormat) {
			b.sendMessage(chatID, "Send exactly: `user_id amount`", nil)
			return
		}
		if perr != nil {
			b.sendMessage(chatID, "Numbers only. Example: `123456789 500`", nil)
			return
		}
		balance, aerr := b.service.AdjustBalance(ctx, target, amount, action == session.ActionRemoveBalance)
		if err = aerr; err == nil {
			b.logger.Infof("Admin %d changed balance of %d by %s%s", adminID, target, signOf(action), amount)
			b.sendPlain(chatID, fmt.Sprintf("✅ Done. New balance for %d: %s", target, settings.FormatAmount(balance)), nil)
		}

	case session.ActionSetCurrency:
		if err = b.service.SetCurrency(ctx, text); err == nil {
			b.sendPlain(chatID, "✅ Currency set to: "+text, nil)
		}

	case session.ActionSetMin, session.ActionSetMax:
		amount, perr := service.ParseAmount(text)
		if perr != nil {
			b.sendPlain(chatID, "Send a number only.", nil)
			return
		}
		label := "Min"
		if action == session.ActionSetMin {
			err = b.service.SetMinWithdraw(ctx, amount)
		} else {
			label = "Max"
			err = b.service.SetMaxWithdraw(ctx, amount)
		}
		if err == nil {
			b.sendPlain(chatID, fmt.Sprintf("✅ %s withdraw set to %s", label, settings.FormatAmount(amount)), nil)
		}

	case session.ActionSetChannels:
		channels := service.ParseChannels(text)
		if err = b.service.SetChannels(ctx, channels); err == nil {
			list := "— none —"
			if len(channels) > 0 {
				list = escapeMarkdown(strings.Join(channels, " "))
			}
			b.sendMessage(chatID, fmt.Sprintf("✅ Channels set: %s\nRemember: add the *bot as ADMIN* in each channel.", list), nil)
		}

	case session.ActionBan, session.ActionUnban:
		target, perr := service.ParseUserID(text)
		if perr != nil {
			b.sendPlain(chatID, "Send a valid user_id (number).", nil)
			return
		}
		banned := action == session.ActionBan
		if err = b.service.SetBanned(ctx, target, banned); err == nil {
			if banned {
				b.sendPlain(chatID, fmt.Sprintf("🚫 User %d banned.", target), nil)
			} else {
				b.sendPlain(chatID, fmt.Sprintf("✅ User %d unbanned.", target), nil)
			}
		}

	case session.ActionBroadcast:
		res, berr := b.service.Broadcast(ctx, text)
		if err = berr; err == nil {
			b.sendPlain(chatID, fmt.Sprintf("📢 Broadcast done. Sent: %d, Failed: %d", res.Sent, res.Failed), nil)
		}
	}

	if err != nil {
		b.logger.Errorf("Admin action %q failed: %v", action, err)
		b.sendPlain(chatID, genericErrorText, nil)
		return
	}
	b.clearPending(ctx, adminID)
}

func signOf(action session.Action) string {
	if action == session.ActionRemoveBalance {
		return "-"
	}
	return "+"
}
