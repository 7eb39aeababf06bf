package bot

import (
	"errors"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"bibliobot/internal/library"
)

type notifyKind int

const (
	notifySuccess notifyKind = iota
	notifyError
	notifyInfo
)

// notifyDuration is how long a transient notification stays visible.
const notifyDuration = 6 * time.Second

func (k notifyKind) prefix() string {
	switch k {
	case notifySuccess:
		return "✅ "
	case notifyError:
		return "❌ "
	default:
		return "ℹ️ "
	}
}

// notify sends a transient message that removes itself after the given
// duration. Notifications are independent: several may be visible at
// once and each dismisses on its own schedule. Delivery failures are
// logged and otherwise ignored.
func (b *Bot) notify(chatID int64, text string, kind notifyKind, duration time.Duration) {
	if b.api == nil {
		return // For testing
	}

	sent, err := b.api.Send(tgbotapi.NewMessage(chatID, kind.prefix()+text))
	if err != nil {
		b.logger.Warn("Failed to send notification", zap.Error(err))
		return
	}

	if duration <= 0 {
		return
	}
	time.AfterFunc(duration, func() {
		if _, err := b.api.Request(tgbotapi.NewDeleteMessage(chatID, sent.MessageID)); err != nil {
			b.logger.Debug("Failed to dismiss notification", zap.Error(err))
		}
	})
}

// sendText sends a plain message.
func (b *Bot) sendText(chatID int64, text string) {
	b.sendMessage(tgbotapi.NewMessage(chatID, text))
}

// sendMessage delivers a prepared message.
func (b *Bot) sendMessage(msg tgbotapi.MessageConfig) {
	if b.api == nil {
		return // For testing
	}
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Warn("Failed to send message", zap.Int64("chat_id", msg.ChatID), zap.Error(err))
	}
}

// answerCallbackAlert answers a callback query with a popup alert.
func (b *Bot) answerCallbackAlert(queryID, text string) {
	if b.api == nil {
		return // For testing
	}
	callback := tgbotapi.NewCallbackWithAlert(queryID, text)
	if _, err := b.api.Request(callback); err != nil {
		b.logger.Debug("Failed to answer callback", zap.Error(err))
	}
}

// userErrorText maps an error to what the user should read: the server's
// own text when it sent one, the per-action fallback for other HTTP
// failures, and a network message when the exchange never completed.
func userErrorText(err error, fallback string) string {
	var apiErr *library.APIError
	if errors.As(err, &apiErr) {
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return fallback
	}
	return "Erro de conexão com o servidor."
}
