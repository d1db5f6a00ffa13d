package digest

import (
	"context"
	"fmt"

	"github.com/mymmrac/telego"
	tu "github.com/mymmrac/telego/telegoutil"
)

// TelegramSender отправляет сообщения в один чат через Bot API.
type TelegramSender struct {
	bot    *telego.Bot
	chatID int64
}

// NewTelegramSender создаёт отправителя для чата chatID.
func NewTelegramSender(token string, chatID int64) (*TelegramSender, error) {
	bot, err := telego.NewBot(token)
	if err != nil {
		return nil, fmt.Errorf("ошибка создания Telegram-бота: %w", err)
	}
	return &TelegramSender{bot: bot, chatID: chatID}, nil
}

// Send отправляет текст без разметки.
func (t *TelegramSender) Send(ctx context.Context, text string) error {
	_, err := t.bot.SendMessage(ctx, tu.Message(tu.ID(t.chatID), text))
	return err
}
