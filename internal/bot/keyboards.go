package bot

import (
	"fmt"
	"strings"

	"github.com/Fi44er/reward_bot/internal/models"
	"github.com/Fi44er/reward_bot/internal/service"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
)

const (
	userCallbackPrefix  = "user:"
	adminCallbackPrefix = "admin:"

	cbUserBonus      = "user:bonus"
	cbUserRefLink    = "user:reflink"
	cbUserChannels   = "user:channels"
	cbUserJoinedChk  = "user:joinedcheck"
	cbUserWithdraw   = "user:withdraw"
	cbUserHelp       = "user:help"
	cbAdminAddBal    = "admin:add_balance"
	cbAdminRemoveBal = "admin:remove_balance"
	cbAdminCurrency  = "admin:set_currency"
	cbAdminBroadcast = "admin:broadcast"
	cbAdminSetMin    = "admin:set_min"
	cbAdminSetMax    = "admin:set_max"
	cbAdminChannels  = "admin:set_channels"
	cbAdminViewChans = "admin:view_channels"
	cbAdminBan       = "admin:ban"
	cbAdminUnban     = "admin:unban"
	cbAdminToggleWd  = "admin:toggle_wd"
	cbAdminStats     = "admin:stats"
	cbAdminClose     = "admin:close"
)

func MainMenuKeyboard() tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🎁 Daily Bonus", cbUserBonus),
			tgbotapi.NewInlineKeyboardButtonData("👥 Referral Link", cbUserRefLink),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📢 Join Channels", cbUserChannels),
			tgbotapi.NewInlineKeyboardButtonData("💸 Withdraw", cbUserWithdraw),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("ℹ️ Help", cbUserHelp),
		),
	)
}

// AdminPanelKeyboard renders the panel; the withdraw row shows the live state.
func AdminPanelKeyboard(settings service.Settings) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("➕ Add Balance", cbAdminAddBal),
			tgbotapi.NewInlineKeyboardButtonData("➖ Remove Balance", cbAdminRemoveBal),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💱 Set Currency", cbAdminCurrency),
			tgbotapi.NewInlineKeyboardButtonData("💬 Broadcast", cbAdminBroadcast),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬇️ Min Withdraw", cbAdminSetMin),
			tgbotapi.NewInlineKeyboardButtonData("⬆️ Max Withdraw", cbAdminSetMax),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📢 Set Channels", cbAdminChannels),
			tgbotapi.NewInlineKeyboardButtonData("👁 View Channels", cbAdminViewChans),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("🚫 Ban User", cbAdminBan),
			tgbotapi.NewInlineKeyboardButtonData("✅ Unban User", cbAdminUnban),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(fmt.Sprintf("💸 Withdraw: %s (toggle)", settings.WithdrawState()), cbAdminToggleWd),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("📊 Stats", cbAdminStats),
		),
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("⬅️ Close", cbAdminClose),
		),
	)
}

// ChannelsKeyboard has one link button per channel and the re-check button.
func ChannelsKeyboard(channels []string) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(channels)+1)
	for _, ch := range channels {
		url := "https://t.me/" + strings.TrimPrefix(ch, service.ChannelPrefix)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL(ch, url)))
	}
	rows = append(rows, tgbotapi.NewInlineKeyboardRow(
		tgbotapi.NewInlineKeyboardButtonData("✅ I've joined", cbUserJoinedChk),
	))
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func ChannelsText(channels []string) string {
	if len(channels) == 0 {
		return "No channels set yet."
	}
	return "Please join all required channels, then press *I've joined*.\n\n" + bulletList(channels, true)
}

// AdminChannelsText is sent without a parse mode.
func AdminChannelsText(channels []string) string {
	if len(channels) == 0 {
		return "Current channels:\n— none —"
	}
	return "Current channels:\n" + bulletList(channels, false)
}

func bulletList(items []string, markdown bool) string {
	lines := make([]string, 0, len(items))
	for _, item := range items {
		if markdown {
			item = escapeMarkdown(item)
		}
		lines = append(lines, "• "+item)
	}
	return strings.Join(lines, "\n")
}

func HomeText(firstName string, balance decimal.Decimal, settings service.Settings) string {
	return fmt.Sprintf("Welcome, *%s*!\nYour balance: *%s*",
		escapeMarkdown(firstName), mdAmount(settings, balance))
}

func HelpText() string {
	return "*Help*\n" +
		"• Use the buttons to get bonus, referral link, channels and withdraw.\n" +
		"• Type /cancel to abort a pending request.\n" +
		"• Ask admin for support if needed."
}

func ReferralText(link string, settings service.Settings) string {
	return fmt.Sprintf("👥 *Your Referral Link*\n%s\n\nReward per referral: *%s*",
		escapeMarkdown(link), mdAmount(settings, settings.ReferralBonus))
}

func WithdrawPromptText(o *service.WithdrawOverview) string {
	s := o.Settings
	var sb strings.Builder
	sb.WriteString("💸 *Request Withdrawal*\n")
	sb.WriteString(fmt.Sprintf("Balance: *%s*\n", mdAmount(s, o.Balance)))
	sb.WriteString(fmt.Sprintf("Min: *%s*  |  Max: *%s*\n", mdAmount(s, s.MinWithdraw), mdAmount(s, s.MaxWithdraw)))
	if o.PendingCount > 0 {
		sb.WriteString(fmt.Sprintf("Pending requests: *%d* (%s)\n", o.PendingCount, mdAmount(s, o.PendingTotal)))
	}
	sb.WriteString("\nSend your request in this format:\n" +
		"`amount wallet_or_account`\n" +
		"Example:\n" +
		"`2000 0123456789-AccessBank`\n" +
		"Or your crypto tag.\n\n" +
		"_Type /cancel to abort._")
	return sb.String()
}

func StatsText(stats *models.Stats, settings service.Settings) string {
	return fmt.Sprintf("📊 *Stats*\n"+
		"Users: *%d*\n"+
		"Banned: *%d*\n"+
		"Pending withdrawals: *%d*\n"+
		"Withdraw: *%s*\n"+
		"Currency: *%s*",
		stats.Users, stats.BannedUsers, stats.PendingWithdrawals,
		settings.WithdrawState(), escapeMarkdown(settings.Currency))
}

func mdAmount(settings service.Settings, amount decimal.Decimal) string {
	return escapeMarkdown(settings.FormatAmount(amount))
}

func escapeMarkdown(text string) string {
	return tgbotapi.EscapeText(tgbotapi.ModeMarkdown, text)
}
