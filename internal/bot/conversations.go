package bot

import (
	"context"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// keepValue is what the user sends to keep the current value (edit
// mode) or skip an optional field (add mode).
const keepValue = "-"

// handleConversation processes multi-step conversations
func (b *Bot) handleConversation(ctx context.Context, message *tgbotapi.Message, state *ConversationState) {
	userID := message.From.ID

	switch state.Command {
	case convLogin:
		b.handleLoginConversation(ctx, message, state)
	case convRegister:
		b.handleRegisterConversation(ctx, message, state)
	case convBookForm:
		b.handleBookFormConversation(message, state)
	case convLoan:
		b.handleLoanConversation(ctx, message, state)
	}

	// Clean up completed conversations
	if state.Step == -1 {
		b.clearState(userID)
	}
}

// handleLoginConversation collects e-mail and password, then logs in.
func (b *Bot) handleLoginConversation(ctx context.Context, message *tgbotapi.Message, state *ConversationState) {
	switch state.Step {
	case 1: // Waiting for e-mail
		state.Data["email"] = strings.TrimSpace(message.Text)
		state.Step = 2
		b.sendText(message.Chat.ID, "Informe sua senha:")

	case 2: // Waiting for password
		email, _ := state.Data["email"].(string)
		senha := message.Text
		state.Step = -1

		sess, err := b.client.Login(ctx, email, senha)
		if err != nil {
			b.logger.Warn("Login failed", zap.Error(err))
			b.notify(message.Chat.ID, userErrorText(err, "Não foi possível entrar. Verifique suas credenciais."), notifyError, notifyDuration)
			return
		}

		if err := b.sessions.Save(ctx, sess.Token, sess.Nome); err != nil {
			b.logger.Error("Failed to persist session", zap.Error(err))
		}

		b.notify(message.Chat.ID, "Login bem-sucedido! Bem-vindo(a), "+sess.Nome+".", notifySuccess, notifyDuration)

		// Short pause before landing on the main view.
		chatID := message.Chat.ID
		time.AfterFunc(1500*time.Millisecond, func() {
			b.sendMainMenu(chatID)
		})
	}
}

// handleRegisterConversation collects name, e-mail and password, then
// creates the account.
func (b *Bot) handleRegisterConversation(ctx context.Context, message *tgbotapi.Message, state *ConversationState) {
	switch state.Step {
	case 1: // Waiting for name
		state.Data["nome"] = strings.TrimSpace(message.Text)
		state.Step = 2
		b.sendText(message.Chat.ID, "Informe seu e-mail:")

	case 2: // Waiting for e-mail
		state.Data["email"] = strings.TrimSpace(message.Text)
		state.Step = 3
		b.sendText(message.Chat.ID, "Informe sua senha:")

	case 3: // Waiting for password
		nome, _ := state.Data["nome"].(string)
		email, _ := state.Data["email"].(string)
		state.Step = -1

		msg, err := b.client.Register(ctx, nome, email, message.Text)
		if err != nil {
			b.logger.Warn("Registration failed", zap.Error(err))
			b.notify(message.Chat.ID, userErrorText(err, "Não foi possível criar a conta."), notifyError, notifyDuration)
			return
		}
		if msg == "" {
			msg = "Conta criada com sucesso!"
		}
		b.notify(message.Chat.ID, msg+" Use /login para entrar.", notifySuccess, notifyDuration)
	}
}

// handleBookFormConversation walks the book form fields. The same steps
// serve add and edit mode; in edit mode each prompt shows the current
// value and "-" keeps it, while in add mode "-" skips optional fields.
func (b *Bot) handleBookFormConversation(message *tgbotapi.Message, state *ConversationState) {
	input := strings.TrimSpace(message.Text)

	switch state.Step {
	case 1: // Título
		if input != keepValue && input != "" {
			state.Data["titulo"] = input
		}
		if titulo, _ := state.Data["titulo"].(string); titulo == "" {
			b.sendText(message.Chat.ID, "O título é obrigatório. Informe o título:")
			return
		}
		state.Step = 2
		b.sendText(message.Chat.ID, b.fieldPrompt(state, "✍️ Autor:", "autor"))

	case 2: // Autor
		if input != keepValue && input != "" {
			state.Data["autor"] = input
		}
		if autor, _ := state.Data["autor"].(string); autor == "" {
			b.sendText(message.Chat.ID, "O autor é obrigatório. Informe o autor:")
			return
		}
		state.Step = 3
		b.sendText(message.Chat.ID, b.fieldPrompt(state, "📅 Ano (ou - para pular):", "ano"))

	case 3: // Ano: non-numeric becomes null
		if input != keepValue {
			if ano, err := strconv.Atoi(input); err == nil {
				state.Data["ano"] = ano
			} else {
				delete(state.Data, "ano")
			}
		}
		state.Step = 4
		b.sendText(message.Chat.ID, b.fieldPrompt(state, "🏷 Categoria (ou - para pular):", "categoria"))

	case 4: // Categoria
		if input != keepValue {
			state.Data["categoria"] = input
		}
		state.Step = 5
		b.sendText(message.Chat.ID, b.fieldPrompt(state, "🔢 Quantidade:", "quantidade"))

	case 5: // Quantidade: non-numeric defaults to 1
		if input != keepValue {
			if qtd, err := strconv.Atoi(input); err == nil {
				state.Data["quantidade"] = qtd
			} else {
				state.Data["quantidade"] = 1
			}
		}
		if _, ok := state.Data["quantidade"]; !ok {
			state.Data["quantidade"] = 1
		}
		state.Step = 6
		b.sendBookFormSummary(message.Chat.ID, state)
	}
}

// handleLoanConversation only receives text while a custom due date is
// being typed; every other step is keyboard-driven.
func (b *Bot) handleLoanConversation(ctx context.Context, message *tgbotapi.Message, state *ConversationState) {
	if _, ok := state.Data["awaiting_custom_date"]; !ok {
		return
	}

	normalized, err := ValidateDueDate(strings.TrimSpace(message.Text), time.Now())
	if err != nil {
		b.sendText(message.Chat.ID, "❌ "+err.Error()+"\n\nUse o formato YYYY-MM-DD, por exemplo: 2026-09-15")
		return
	}

	delete(state.Data, "awaiting_custom_date")
	state.Data["data_prevista"] = normalized
	b.submitLoan(ctx, message.Chat.ID, state)
}
