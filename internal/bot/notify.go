package bot

import (
	"fmt"
	"strings"

	"github.com/Fi44er/reward_bot/internal/models"
	"github.com/Fi44er/reward_bot/internal/service"
	"github.com/shopspring/decimal"
)

// notifyAdminAboutWithdrawal is best-effort: a failed send leaves the request
// in place.
func (b *Bot) notifyAdminAboutWithdrawal(request *models.WithdrawRequest, settings service.Settings) {
	if settings.AdminID == 0 {
		b.logger.Warnf("No admin to notify about withdraw request #%d", request.ID)
		return
	}

	msg := fmt.Sprintf(
		"🆕 *Withdraw Request* #%d\n"+
			"User: `%d`\n"+
			"Amount: *%s*\n"+
			"Wallet: `%s`",
		request.ID,
		request.UserID,
		mdAmount(settings, request.Amount),
		strings.ReplaceAll(request.Wallet, "`", "'"),
	)
	b.sendMessage(settings.AdminID, msg, nil)
}

func (b *Bot) notifyReferrer(referrerID int64, bonus decimal.Decimal, settings service.Settings) {
	msg := fmt.Sprintf("🎉 Someone you invited passed the join-check. You earned *%s*!", mdAmount(settings, bonus))
	b.sendMessage(referrerID, msg, nil)
}
