package notifier

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"newsdigest/internal/model"
)

type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

func NewTelegramNotifier(bot *tgbotapi.BotAPI, chatID int64) *TelegramNotifier {
	return &TelegramNotifier{bot: bot, chatID: chatID}
}

func (n *TelegramNotifier) Publish(_ context.Context, items []model.NewsItem) error {
	if len(items) == 0 {
		return nil
	}

	msg := tgbotapi.NewMessage(n.chatID, telegramDigest(items))
	msg.ParseMode = "MarkdownV2"

	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram digest: %w", err)
	}

	return nil
}
