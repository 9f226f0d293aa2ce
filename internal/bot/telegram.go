package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Messenger lets the service layer query channel membership and push
// messages without knowing about Telegram types.
type Messenger struct {
	client Client
}

func NewMessenger(client Client) *Messenger {
	return &Messenger{client: client}
}

func (m *Messenger) ChatMemberStatus(_ context.Context, channel string, userID int64) (string, error) {
	member, err := m.client.GetChatMember(tgbotapi.GetChatMemberConfig{
		ChatConfigWithUser: tgbotapi.ChatConfigWithUser{
			SuperGroupUsername: channel,
			UserID:             userID,
		},
	})
	if err != nil {
		return "", err
	}
	return member.Status, nil
}

func (m *Messenger) SendText(_ context.Context, chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeMarkdown
	_, err := m.client.Send(msg)
	return err
}
