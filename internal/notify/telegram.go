// Package notify pushes fatal-run alerts to a Telegram chat so failures are seen
// before anyone reads the logs table. Alerting is optional: a nil notifier is a
// valid no-op.
package notify

import (
    "log"

    tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type TelegramNotifier struct {
    api    *tgbotapi.BotAPI
    chatID int64
}

func NewTelegramNotifier(token string, chatID int64) (*TelegramNotifier, error) {
    api, err := tgbotapi.NewBotAPI(token)
    if err != nil {
        return nil, err
    }
    return &TelegramNotifier{api: api, chatID: chatID}, nil
}

// Alert sends a message to the configured chat. Delivery failure is logged and
// dropped; alerting must never take down a run that already has problems.
func (n *TelegramNotifier) Alert(message string) {
    if n == nil || n.api == nil {
        return
    }
    msg := tgbotapi.NewMessage(n.chatID, message)
    if _, err := n.api.Send(msg); err != nil {
        log.Println("⚠️ failed to send telegram alert:", err)
    }
}
