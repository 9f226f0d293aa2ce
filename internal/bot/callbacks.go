package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/Fi44er/reward_bot/internal/models"
	"github.com/Fi44er/reward_bot/internal/service"
	"github.com/Fi44er/reward_bot/internal/session"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// adminPrompts maps the panel buttons that expect a follow-up text to the
// pending action and the prompt shown.
var adminPrompts = map[string]struct {
	action session.Action
	prompt string
}{
	cbAdminAddBal:    {session.ActionAddBalance, "Send: `user_id amount`\nExample: `123456789 500`"},
	cbAdminRemoveBal: {session.ActionRemoveBalance, "Send: `user_id amount`\nExample: `123456789 200`"},
	cbAdminCurrency:  {session.ActionSetCurrency, "Send currency code or symbol (e.g. `NGN`, `USD`, `₦`):"},
	cbAdminSetMin:    {session.ActionSetMin, "Send *minimum withdraw* amount (number):"},
	cbAdminSetMax:    {session.ActionSetMax, "Send *maximum withdraw* amount (number):"},
	cbAdminChannels: {session.ActionSetChannels, "Send channel usernames separated by space (e.g. `@chan1 @chan2`).\n" +
		"➡️ Make sure the *bot is an admin* in each channel."},
	cbAdminBan:       {session.ActionBan, "Send: `user_id` to BAN:"},
	cbAdminUnban:     {session.ActionUnban, "Send: `user_id` to UNBAN:"},
	cbAdminBroadcast: {session.ActionBroadcast, "Send the *message* to broadcast to all users.\n(_Markdown supported_)"},
}

func callbackTarget(cq *tgbotapi.CallbackQuery) (int64, int) {
	if cq.Message == nil || cq.Message.Chat == nil {
		return cq.From.ID, 0
	}
	return cq.Message.Chat.ID, cq.Message.MessageID
}

func (b *Bot) handleCallbackQuery(ctx context.Context, update tgbotapi.Update, user *models.User) {
	cq := update.CallbackQuery
	b.logger.Infof("Processing callback %q from user %d", cq.Data, user.TelegramID)

	switch {
	case strings.HasPrefix(cq.Data, adminCallbackPrefix):
		b.handleAdminCallback(ctx, cq, user)
	case strings.HasPrefix(cq.Data, userCallbackPrefix):
		b.handleUserCallback(ctx, cq, user)
	default:
		b.answerCallback(cq.ID, "")
	}
}

func (b *Bot) handleUserCallback(ctx context.Context, cq *tgbotapi.CallbackQuery, user *models.User) {
	if user.IsBanned {
		b.answerAlert(cq.ID, "You are banned.")
		return
	}

	userID := user.TelegramID
	chatID, messageID := callbackTarget(cq)

	settings, err := b.service.LoadSettings(ctx)
	if err != nil {
		b.logger.Errorf("Failed to load settings: %v", err)
		b.answerAlert(cq.ID, genericErrorText)
		return
	}

	switch cq.Data {
	case cbUserBonus:
		res, err := b.service.ClaimDailyBonus(ctx, userID)
		if err != nil {
			b.logger.Errorf("Failed to claim daily bonus for user %d: %v", userID, err)
			b.answerAlert(cq.ID, genericErrorText)
			return
		}
		if res.Credited {
			b.answerAlert(cq.ID, "🎁 Daily bonus added: "+settings.FormatAmount(res.Amount))
		} else {
			b.answerAlert(cq.ID, fmt.Sprintf("Come back in about %d hour(s) for your next daily bonus.", res.WaitHours))
		}
		b.editHome(ctx, cq, user, "")

	case cbUserRefLink:
		me, err := b.API.GetMe()
		if err != nil {
			b.logger.Errorf("Failed to get bot identity: %v", err)
			b.answerAlert(cq.ID, genericErrorText)
			return
		}
		b.answerCallback(cq.ID, "")
		b.editMessage(chatID, messageID, ReferralText(referralLink(me.UserName, userID), settings), inlineMarkup(MainMenuKeyboard()))

	case cbUserChannels:
		b.answerCallback(cq.ID, "")
		b.editMessage(chatID, messageID, ChannelsText(settings.Channels), inlineMarkup(ChannelsKeyboard(settings.Channels)))

	case cbUserJoinedChk:
		res, err := b.service.CheckJoined(ctx, userID)
		if err != nil {
			b.logger.Errorf("Join check for user %d failed: %v", userID, err)
			b.answerAlert(cq.ID, genericErrorText)
			return
		}
		if !res.Joined {
			b.answerAlert(cq.ID, fmt.Sprintf("❌ You haven't joined all channels yet (%s).", res.MissingChannel))
			return
		}
		if res.ReferrerID != nil {
			b.notifyReferrer(*res.ReferrerID, res.ReferralBonus, settings)
		}
		b.answerAlert(cq.ID, "✅ All set. Thanks!")
		b.editHome(ctx, cq, user, "✅ Join-check passed. You're good!")

	case cbUserWithdraw:
		if !settings.WithdrawOpen {
			b.answerAlert(cq.ID, "Withdrawals are currently OFF.")
			return
		}
		overview, err := b.service.GetWithdrawOverview(ctx, userID)
		if err != nil {
			b.logger.Errorf("Failed to load withdraw overview for user %d: %v", userID, err)
			b.answerAlert(cq.ID, genericErrorText)
			return
		}
		b.setPending(ctx, userID, session.ActionWithdrawRequest)
		b.answerCallback(cq.ID, "")
		b.editMessage(chatID, messageID, WithdrawPromptText(overview), nil)

	case cbUserHelp:
		b.answerCallback(cq.ID, "")
		b.editMessage(chatID, messageID, HelpText(), inlineMarkup(MainMenuKeyboard()))

	default:
		b.answerCallback(cq.ID, "")
	}
}

func (b *Bot) handleAdminCallback(ctx context.Context, cq *tgbotapi.CallbackQuery, user *models.User) {
	settings, err := b.service.LoadSettings(ctx)
	if err != nil {
		b.logger.Errorf("Failed to load settings: %v", err)
		b.answerAlert(cq.ID, genericErrorText)
		return
	}
	if !settings.IsAdmin(user.TelegramID) {
		b.logger.Warnf("User %d pressed admin button %q", user.TelegramID, cq.Data)
		b.answerAlert(cq.ID, "Not admin.")
		return
	}

	chatID, messageID := callbackTarget(cq)

	if p, ok := adminPrompts[cq.Data]; ok {
		b.setPending(ctx, user.TelegramID, p.action)
		b.answerCallback(cq.ID, "")
		b.editMessage(chatID, messageID, p.prompt, nil)
		return
	}

	switch cq.Data {
	case cbAdminClose:
		b.clearPending(ctx, user.TelegramID)
		b.answerCallback(cq.ID, "")
		b.editPlain(chatID, messageID, "Closed.", nil)

	case cbAdminViewChans:
		b.answerCallback(cq.ID, "")
		b.editPlain(chatID, messageID, AdminChannelsText(settings.Channels), inlineMarkup(AdminPanelKeyboard(settings)))

	case cbAdminToggleWd:
		open, err := b.service.ToggleWithdraw(ctx)
		if err != nil {
			b.logger.Errorf("Failed to toggle withdrawals: %v", err)
			b.answerAlert(cq.ID, genericErrorText)
			return
		}
		settings.WithdrawOpen = open
		b.answerCallback(cq.ID, "")
		b.editPlain(chatID, messageID, "Withdraw toggled to: "+service.OnOff(open), inlineMarkup(AdminPanelKeyboard(settings)))

	case cbAdminStats:
		stats, err := b.service.GetStats(ctx)
		if err != nil {
			b.logger.Errorf("Failed to collect stats: %v", err)
			b.answerAlert(cq.ID, genericErrorText)
			return
		}
		b.answerCallback(cq.ID, "")
		b.editMessage(chatID, messageID, StatsText(stats, settings), inlineMarkup(AdminPanelKeyboard(settings)))

	default:
		b.answerCallback(cq.ID, "")
	}
}
