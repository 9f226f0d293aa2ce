package bot

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

const genericErrorText = "⚠️ Something went wrong. Please try again later."

// sendMessage sends text with Markdown formatting.
func (b *Bot) sendMessage(chatID int64, text string, replyMarkup interface{}) {
	b.send(chatID, text, tgbotapi.ModeMarkdown, replyMarkup)
}

// sendPlain is for text that may carry user input Markdown would choke on.
func (b *Bot) sendPlain(chatID int64, text string, replyMarkup interface{}) {
	b.send(chatID, text, "", replyMarkup)
}

func (b *Bot) send(chatID int64, text, parseMode string, replyMarkup interface{}) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = parseMode
	if replyMarkup != nil {
		msg.ReplyMarkup = replyMarkup
	}
	if _, err := b.API.Send(msg); err != nil {
		b.logger.Errorf("Failed to send message to %d: %v", chatID, err)
	}
}

// editMessage replaces the text (and optionally the inline keyboard) of a
// message the bot sent earlier.
func (b *Bot) editMessage(chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) {
	b.edit(chatID, messageID, text, tgbotapi.ModeMarkdown, markup)
}

func (b *Bot) editPlain(chatID int64, messageID int, text string, markup *tgbotapi.InlineKeyboardMarkup) {
	b.edit(chatID, messageID, text, "", markup)
}

func (b *Bot) edit(chatID int64, messageID int, text, parseMode string, markup *tgbotapi.InlineKeyboardMarkup) {
	edit := tgbotapi.NewEditMessageText(chatID, messageID, text)
	edit.ParseMode = parseMode
	if markup != nil {
		edit.ReplyMarkup = markup
	}
	if _, err := b.API.Send(edit); err != nil {
		b.logger.Warnf("Failed to edit message %d in %d: %v", messageID, chatID, err)
	}
}

func (b *Bot) answerCallback(callbackID string, text string) {
	b.request(tgbotapi.NewCallback(callbackID, text))
}

// answerAlert answers the callback with a popup the user has to dismiss.
func (b *Bot) answerAlert(callbackID string, text string) {
	b.request(tgbotapi.NewCallbackWithAlert(callbackID, text))
}

func (b *Bot) request(callback tgbotapi.CallbackConfig) {
	if _, err := b.API.Request(callback); err != nil {
		b.logger.Errorf("Failed to answer callback: %v", err)
	}
}

func inlineMarkup(markup tgbotapi.InlineKeyboardMarkup) *tgbotapi.InlineKeyboardMarkup {
	return &markup
}
