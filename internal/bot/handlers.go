package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// handleMessage processes a single message
func (b *Bot) handleMessage(message *tgbotapi.Message) {
	// Recover from panics to prevent bot crashes
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleMessage", zap.Any("panic", r))
			b.sendText(message.Chat.ID, "Ocorreu um erro ao processar sua solicitação. Tente novamente.")
		}
	}()

	userID := message.From.ID
	ctx := context.Background()

	// Check if user is in a conversation
	if state, ok := b.state(userID); ok {
		if state.Step == -1 {
			b.clearState(userID)
		} else if message.IsCommand() {
			// Any command interrupts an ongoing conversation
			b.clearState(userID)
		} else {
			b.handleConversation(ctx, message, state)
			return
		}
	}

	if !message.IsCommand() {
		return
	}

	switch message.Command() {
	case "start":
		b.handleStart(ctx, message)
	case "login":
		b.handleLoginStart(message)
	case "register":
		b.handleRegisterStart(message)
	case "logout":
		b.handleLogout(ctx, message)
	case "livros":
		b.sendBookList(ctx, message.Chat.ID)
	case "novo_livro":
		b.handleNewBookStart(message)
	case "emprestimos":
		b.sendLoanList(ctx, message.Chat.ID)
	case "emprestar":
		b.handleLoanStart(ctx, message)
	default:
		b.sendText(message.Chat.ID, "Comando desconhecido. Use /start para ver os comandos disponíveis.")
	}
}

// handleCallbackQuery processes inline keyboard button clicks
func (b *Bot) handleCallbackQuery(query *tgbotapi.CallbackQuery) {
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("Recovered from panic in handleCallbackQuery", zap.Any("panic", r))
		}
	}()

	userID := query.From.ID
	ctx := context.Background()
	data := query.Data

	// Unavailable book options stay visible but answer with an alert
	// instead of advancing the form.
	if data == cbLoanBookNA {
		b.answerCallbackAlert(query.ID, "Sem unidades disponíveis deste livro.")
		return
	}

	// Answer the callback query to remove the loading state
	if b.api != nil {
		b.api.Request(tgbotapi.NewCallback(query.ID, ""))
	}

	// Row buttons work without a conversation in progress.
	switch {
	case strings.HasPrefix(data, cbBookEdit):
		b.handleBookEditCallback(ctx, query)
		return
	case strings.HasPrefix(data, cbBookDelete):
		b.handleBookDeleteCallback(query)
		return
	case strings.HasPrefix(data, cbConfirmDelete):
		b.handleConfirmDeleteCallback(ctx, query)
		return
	case strings.HasPrefix(data, cbLoanReturn):
		b.handleLoanReturnCallback(query)
		return
	case strings.HasPrefix(data, cbConfirmReturn):
		b.handleConfirmReturnCallback(ctx, query)
		return
	case data == cbDismiss:
		return
	}

	// Everything else belongs to a form in progress.
	state, ok := b.state(userID)
	if !ok {
		return
	}

	switch {
	case data == cbBookSave:
		b.handleBookSaveCallback(ctx, query, state)
	case data == cbBookCancel:
		b.handleBookCancelCallback(query, state)
	case strings.HasPrefix(data, cbLoanUser):
		b.handleLoanUserCallback(ctx, query, state)
	case strings.HasPrefix(data, cbLoanBook):
		b.handleLoanBookCallback(query, state)
	case strings.HasPrefix(data, cbLoanDate):
		b.handleLoanDateCallback(ctx, query, state)
	}

	// Clean up completed conversations
	if state.Step == -1 {
		b.clearState(userID)
	}
}
