package notify

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"levelwatch/internal/domain"

	tele "gopkg.in/telebot.v3"
)

type messageSender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// TelegramNotifier mirrors the plain-text form of an alert to a single chat.
type TelegramNotifier struct {
	sender messageSender
	chatID int64
}

func NewTelegramNotifier(token string, chatID int64, timeout time.Duration) (*TelegramNotifier, error) {
	bot, err := tele.NewBot(tele.Settings{
		Token:  token,
		Client: &http.Client{Timeout: timeout},
	})
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return &TelegramNotifier{sender: bot, chatID: chatID}, nil
}

func (n *TelegramNotifier) Notify(ctx context.Context, msg domain.Message) error {
	_ = ctx
	if _, err := n.sender.Send(&tele.Chat{ID: n.chatID}, msg.Text); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}
